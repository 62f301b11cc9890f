package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// Repository persists the podcast aggregate. Save is an upsert; status
// updates are single-row writes so concurrent readers always see a
// consistent record.
type Repository interface {
	Save(ctx context.Context, p *podcast.Podcast) error
	FindByID(ctx context.Context, id uuid.UUID) (*podcast.Podcast, error)
	FindByBookAndUser(ctx context.Context, bookID, userID uuid.UUID) (*podcast.Podcast, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status podcast.Status, audioURL, errorMessage string) error
	FindByStatus(ctx context.Context, status podcast.Status) ([]*podcast.Podcast, error)
}

// Uploader pushes a finished artifact to object storage and returns its
// public URL.
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}
