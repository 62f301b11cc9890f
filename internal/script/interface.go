package script

import (
	"context"

	"github.com/nguyentantai21042004/podcast-flow/internal/gemini"
	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// Generator turns a book summary into a validated two-speaker dialogue.
type Generator interface {
	Generate(ctx context.Context, summary, title string, targetWords int, language string) (*podcast.Script, error)
}

// DialogueModel is the LLM capability the generator consumes.
type DialogueModel interface {
	GenerateText(ctx context.Context, model, prompt string, opts gemini.TextOptions) (string, error)
}
