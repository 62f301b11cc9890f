package orchestrator

import (
	"context"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// Orchestrator drives the whole generation pipeline for one podcast id
// and owns its status state machine.
type Orchestrator interface {
	CreatePodcast(ctx context.Context, bookID, userID uuid.UUID, title, language string) (*podcast.Podcast, error)
	Run(ctx context.Context, id uuid.UUID) error
}

// BookSource resolves a book id to its document reference (path or URL)
// and title.
type BookSource interface {
	Resolve(ctx context.Context, bookID uuid.UUID) (ref string, title string, err error)
}
