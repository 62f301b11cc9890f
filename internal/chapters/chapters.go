// Package chapters holds the pure transforms applied to an extracted
// chapter list before summarization: an even-sampling filter down to a
// chapter cap and a word-boundary split of over-long chapters.
package chapters

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// Filter samples the chapter list down to at most max chapters, evenly
// spaced and in the original order. Lists already within the cap pass
// through unchanged.
//
// When max is close to len(chs), integer truncation of i*step can land on
// the same index twice. That mirrors the sampling as deployed; callers
// treat the result as "about max" chapters.
func Filter(chs []podcast.Chapter, max int) []podcast.Chapter {
	if max <= 0 || len(chs) <= max {
		return chs
	}

	step := float64(len(chs)) / float64(max)
	out := make([]podcast.Chapter, 0, max)
	for i := 0; i < max; i++ {
		out = append(out, chs[int(float64(i)*step)])
	}
	return out
}

// Split breaks every chapter whose content exceeds maxLen into synthetic
// sub-chapters. Words are accumulated greedily and never split; each part
// is titled "<original title> (Part k)".
func Split(chs []podcast.Chapter, maxLen int) []podcast.Chapter {
	if maxLen <= 0 {
		return chs
	}

	out := make([]podcast.Chapter, 0, len(chs))
	for _, ch := range chs {
		if len(ch.Content) <= maxLen {
			out = append(out, ch)
			continue
		}
		for k, chunk := range splitWords(ch.Content, maxLen) {
			out = append(out, podcast.Chapter{
				Index:   len(out),
				Title:   fmt.Sprintf("%s (Part %d)", ch.Title, k+1),
				Content: chunk,
			})
		}
	}

	for i := range out {
		out[i].Index = i
	}
	return out
}

// splitWords packs whole words into chunks of at most maxLen characters.
// A single word longer than maxLen becomes its own chunk.
func splitWords(text string, maxLen int) []string {
	words := strings.Fields(text)

	var chunks []string
	var b strings.Builder
	for _, w := range words {
		need := len(w)
		if b.Len() > 0 {
			need += 1 // joining space
		}
		if b.Len() > 0 && b.Len()+need > maxLen {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
