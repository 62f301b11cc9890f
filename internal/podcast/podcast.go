package podcast

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Podcast is the aggregate root for one generated episode. It is created
// in PENDING and mutated only through the Mark* methods, which enforce the
// status state machine.
type Podcast struct {
	ID           uuid.UUID
	BookID       uuid.UUID
	UserID       uuid.UUID
	Title        string
	Status       Status
	Language     string
	AudioURL     string
	Script       *Script
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New creates a pending podcast for a book.
func New(bookID, userID uuid.UUID, title, language string) (*Podcast, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if language == "" {
		language = "en"
	}
	now := time.Now().UTC()
	return &Podcast{
		ID:        uuid.New(),
		BookID:    bookID,
		UserID:    userID,
		Title:     title,
		Status:    StatusPending,
		Language:  language,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanBeProcessed reports whether a run may start for this podcast.
func (p *Podcast) CanBeProcessed() bool {
	return p.Status.CanBeProcessed()
}

// MarkProcessing moves the podcast into PROCESSING and clears any error
// left over from a previous failed run.
func (p *Podcast) MarkProcessing() error {
	if err := p.transition(StatusProcessing); err != nil {
		return err
	}
	p.ErrorMessage = ""
	return nil
}

// MarkCompleted finishes the run with the uploaded audio URL.
func (p *Podcast) MarkCompleted(audioURL string) error {
	if strings.TrimSpace(audioURL) == "" {
		return &InvalidTransitionError{From: p.Status, To: StatusCompleted}
	}
	if err := p.transition(StatusCompleted); err != nil {
		return err
	}
	p.AudioURL = audioURL
	return nil
}

// MarkFailed records the stage error for operator visibility and retry gating.
func (p *Podcast) MarkFailed(message string) error {
	if err := p.transition(StatusFailed); err != nil {
		return err
	}
	if strings.TrimSpace(message) == "" {
		message = "unknown error"
	}
	p.ErrorMessage = message
	return nil
}

// AttachScript persists the generated dialogue onto the aggregate. Done as
// soon as the script exists, independent of later stage outcomes.
func (p *Podcast) AttachScript(s *Script) {
	p.Script = s
	p.touch()
}

func (p *Podcast) transition(next Status) error {
	if !p.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: p.Status, To: next}
	}
	p.Status = next
	p.touch()
	return nil
}

func (p *Podcast) touch() {
	p.UpdatedAt = time.Now().UTC()
}

// Chapter is one structural unit of the source document. Produced fresh on
// every run and never persisted.
type Chapter struct {
	Index   int
	Title   string
	Content string
}
