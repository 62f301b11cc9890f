package summarize

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/podcast-flow/internal/gemini"
	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

const chapterPrompt = `You are summarizing one chapter of the book "%s" for a podcast production team.
Write a dense summary of the chapter below. Keep every main argument, example and conclusion, in the order they appear. Plain prose, no headings, no bullet points.

Chapter: %s
---
%s
---`

const combinePrompt = `You are preparing the source material for a podcast episode about the book "%s".
Combine the chapter summaries below into one coherent summary of the whole book. Keep the narrative arc across chapters. Plain prose.

Chapter summaries:
---
%s
---`

const partialPrompt = `Condense the following chapter summaries of the book "%s" into one shorter partial summary, keeping all key points.
---
%s
---`

// Token-limit ladder: each level clips the chapter input harder and asks
// for a smaller output budget.
var ladder = []struct {
	clipChars int
	maxTokens int32
}{
	{24000, 1024},
	{12000, 512},
	{6000, 256},
}

// groups of this many chapter summaries are combined directly; larger
// books go through a partial-summary pass first.
const groupSize = 6

// SummarizeBook summarizes every chapter, then combines the results in
// one or two passes depending on volume.
func (s *implSummarizer) SummarizeBook(ctx context.Context, title string, chs []podcast.Chapter) (string, error) {
	if len(chs) == 0 {
		return "", fmt.Errorf("no chapters to summarize")
	}

	s.logger.Info(ctx, "Summarizing %d chapters", len(chs))

	summaries := make([]string, len(chs))
	for start := 0; start < len(chs); start += s.batchSize {
		end := min(start+s.batchSize, len(chs))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				summaries[i] = s.summarizeChapter(ctx, title, chs[i])
			}(i)
		}
		wg.Wait()

		if end < len(chs) && s.batchPause > 0 {
			select {
			case <-time.After(s.batchPause):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return s.combine(ctx, title, summaries)
}

// summarizeChapter walks the token-limit ladder and falls back to a
// placeholder so one stubborn chapter cannot sink the whole run.
func (s *implSummarizer) summarizeChapter(ctx context.Context, title string, ch podcast.Chapter) string {
	for level, step := range ladder {
		content := truncate(ch.Content, step.clipChars)

		prompt := fmt.Sprintf(chapterPrompt, title, chapterLabel(ch), content)
		out, err := s.model.GenerateText(ctx, s.modelName, prompt, gemini.TextOptions{
			MaxOutputTokens: step.maxTokens,
			Temperature:     0.3,
		})
		if err == nil {
			return strings.TrimSpace(out)
		}

		if gemini.IsTokenLimit(err) {
			s.logger.Warn(ctx, "Chapter %d hit token limit at ladder level %d, clipping harder", ch.Index, level)
			continue
		}

		s.logger.Error(ctx, "Chapter %d summarization failed: %v", ch.Index, err)
		break
	}

	return placeholderSummary(ch)
}

func (s *implSummarizer) combine(ctx context.Context, title string, summaries []string) (string, error) {
	if len(summaries) <= groupSize {
		return s.combineDirect(ctx, title, summaries)
	}

	// First pass: reduce fixed-size groups to partial summaries.
	var partials []string
	for start := 0; start < len(summaries); start += groupSize {
		end := min(start+groupSize, len(summaries))
		group := summaries[start:end]

		prompt := fmt.Sprintf(partialPrompt, title, strings.Join(group, "\n\n"))
		out, err := s.model.GenerateText(ctx, s.modelName, prompt, gemini.TextOptions{
			MaxOutputTokens: 768,
			Temperature:     0.3,
		})
		if err != nil {
			s.logger.Warn(ctx, "Partial combine failed, truncating group instead: %v", err)
			out = truncate(strings.Join(group, " "), 3000)
		}
		partials = append(partials, strings.TrimSpace(out))
	}

	return s.combineDirect(ctx, title, partials)
}

func (s *implSummarizer) combineDirect(ctx context.Context, title string, summaries []string) (string, error) {
	prompt := fmt.Sprintf(combinePrompt, title, strings.Join(summaries, "\n\n"))
	out, err := s.model.GenerateText(ctx, s.modelName, prompt, gemini.TextOptions{
		MaxOutputTokens: 2048,
		Temperature:     0.3,
	})
	if err != nil {
		return "", fmt.Errorf("combine summaries: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func chapterLabel(ch podcast.Chapter) string {
	if ch.Title != "" {
		return ch.Title
	}
	return fmt.Sprintf("Chapter %d", ch.Index+1)
}

func placeholderSummary(ch podcast.Chapter) string {
	return fmt.Sprintf("%s could not be summarized; it covers: %s...",
		chapterLabel(ch), truncate(ch.Content, 300))
}

// truncate cuts to n characters on rune boundaries; byte slicing would
// corrupt multibyte text.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
