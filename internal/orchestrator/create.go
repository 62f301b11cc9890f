package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// CreatePodcast registers a new pending podcast for a book. A user gets
// at most one podcast per book, so an existing record wins over a new one.
func (o *implOrchestrator) CreatePodcast(ctx context.Context, bookID, userID uuid.UUID, title, language string) (*podcast.Podcast, error) {
	existing, err := o.deps.Repo.FindByBookAndUser(ctx, bookID, userID)
	if err != nil && !errors.Is(err, podcast.ErrPodcastNotFound) {
		return nil, fmt.Errorf("checking existing podcast: %w", err)
	}
	if existing != nil {
		return nil, podcast.ErrPodcastAlreadyExists
	}

	if language == "" {
		language = o.cfg.Language
	}
	pod, err := podcast.New(bookID, userID, title, language)
	if err != nil {
		return nil, err
	}
	if err := o.deps.Repo.Save(ctx, pod); err != nil {
		return nil, fmt.Errorf("saving podcast: %w", err)
	}
	o.logger.Info(ctx, "podcast created id=%s book=%s user=%s", pod.ID, bookID, userID)
	return pod, nil
}
