package tts

import (
	"context"

	"github.com/nguyentantai21042004/podcast-flow/internal/gemini"
	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// Synthesizer converts a dialogue script into ordered audio blobs, one
// per request-sized chunk. Concatenation is the post-processor's job.
type Synthesizer interface {
	Synthesize(ctx context.Context, s *podcast.Script, language string) ([][]byte, error)
}

// SpeechModel is the TTS capability the synthesizer consumes.
type SpeechModel interface {
	GenerateSpeech(ctx context.Context, model, prompt string, voices []gemini.SpeakerVoice) ([]byte, error)
}
