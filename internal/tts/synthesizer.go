package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/podcast-flow/internal/gemini"
	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// Synthesize packs the script into request-sized chunks and synthesizes
// each independently. Blobs come back in chunk order.
func (s *implSynthesizer) Synthesize(ctx context.Context, sc *podcast.Script, language string) ([][]byte, error) {
	chunks := packChunks(sc.Turns, s.cfg.MaxCharsPerRequest)
	s.logger.Info(ctx, "Synthesizing %d turns in %d chunks (limit %d chars)",
		sc.TurnCount(), len(chunks), s.cfg.MaxCharsPerRequest)

	blobs := make([][]byte, 0, len(chunks))
	for i, c := range chunks {
		prompt := chunkPrompt(c)
		voices := s.chunkVoices(c, language)

		var blob []byte
		err := s.retry.Do(ctx, func(attempt int) error {
			var genErr error
			blob, genErr = s.model.GenerateSpeech(ctx, s.modelName, prompt, voices)
			return genErr
		})
		if err != nil {
			return nil, &podcast.AudioSynthesisError{Chunk: i, Err: err}
		}

		s.logger.Debug(ctx, "Chunk %d/%d synthesized: %d chars -> %d bytes",
			i+1, len(chunks), c.charLen(), len(blob))
		blobs = append(blobs, blob)
	}

	return blobs, nil
}

// chunkPrompt renders a chunk as labeled dialogue lines for the TTS model.
func chunkPrompt(c chunk) string {
	var b strings.Builder
	b.WriteString("Read this podcast conversation aloud:\n")
	for _, t := range c.turns {
		fmt.Fprintf(&b, "%s: %s\n", t.Speaker, t.Text)
	}
	return b.String()
}

// chunkVoices picks a voice per speaker role present in the chunk, with
// the configured default as fallback.
func (s *implSynthesizer) chunkVoices(c chunk, language string) []gemini.SpeakerVoice {
	seen := map[podcast.Speaker]bool{}
	var voices []gemini.SpeakerVoice
	for _, t := range c.turns {
		if seen[t.Speaker] {
			continue
		}
		seen[t.Speaker] = true
		voices = append(voices, gemini.SpeakerVoice{
			Speaker: string(t.Speaker),
			Voice:   s.cfg.Voice(language, string(t.Speaker)),
		})
	}
	return voices
}
