package summarize

import (
	"context"

	"github.com/nguyentantai21042004/podcast-flow/internal/gemini"
	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// Summarizer reduces a book's chapters to a single book-level summary.
type Summarizer interface {
	SummarizeBook(ctx context.Context, title string, chapters []podcast.Chapter) (string, error)
}

// TextModel is the LLM capability the summarizer consumes.
type TextModel interface {
	GenerateText(ctx context.Context, model, prompt string, opts gemini.TextOptions) (string, error)
}
