package podcast

import (
	"errors"
	"fmt"
)

var (
	// ErrPodcastNotFound is returned when no podcast exists for an id.
	ErrPodcastNotFound = errors.New("podcast not found")

	// ErrPodcastAlreadyExists is returned when a (book, user) pair
	// already has a podcast.
	ErrPodcastAlreadyExists = errors.New("podcast already exists for this book and user")

	// ErrEmptyTitle rejects creating a podcast without a title.
	ErrEmptyTitle = errors.New("podcast title must not be empty")
)

// InvalidTransitionError reports a status change the state machine forbids.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// ExtractionError means the source document yielded no usable chapters.
type ExtractionError struct {
	Ref    string
	Detail string
}

func (e *ExtractionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("chapter extraction failed for %s", e.Ref)
	}
	return fmt.Sprintf("chapter extraction failed for %s: %s", e.Ref, e.Detail)
}

// ScriptGenerationError reports a dialogue that could not be generated or
// failed validation (speaker count, turn count, balance).
type ScriptGenerationError struct {
	Reason string
	Detail string
	Err    error
}

func (e *ScriptGenerationError) Error() string {
	msg := "script generation failed: " + e.Reason
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ScriptGenerationError) Unwrap() error { return e.Err }

// AudioSynthesisError reports a TTS backend failure.
type AudioSynthesisError struct {
	Chunk int
	Err   error
}

func (e *AudioSynthesisError) Error() string {
	return fmt.Sprintf("audio synthesis failed on chunk %d: %v", e.Chunk, e.Err)
}

func (e *AudioSynthesisError) Unwrap() error { return e.Err }

// StorageError reports an object storage upload failure.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage upload failed for %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// GenerationError wraps any stage failure at the orchestrator boundary.
type GenerationError struct {
	PodcastID string
	Stage     string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("podcast %s generation failed at stage %s: %v", e.PodcastID, e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
