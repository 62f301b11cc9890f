package books

import (
	"context"

	"github.com/google/uuid"
)

// Library stores book documents on disk, one directory per book id, so
// a podcast run can resolve its source file after a restart.
type Library interface {
	Add(ctx context.Context, srcPath string) (uuid.UUID, string, error)
	Resolve(ctx context.Context, bookID uuid.UUID) (string, string, error)
}
