package epub

import (
	"context"

	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// Extractor turns a book document (local path or remote URL) into an
// ordered list of plain-text chapters.
type Extractor interface {
	Extract(ctx context.Context, ref string) ([]podcast.Chapter, error)
}
