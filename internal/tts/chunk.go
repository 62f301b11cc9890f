package tts

import (
	"unicode/utf8"

	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// chunk is one synthesis request's worth of turns.
type chunk struct {
	turns []podcast.Turn
}

// charLen counts characters, not bytes. The backend budget is a character
// budget and turn text may be multibyte (Vietnamese is a supported input).
func (c chunk) charLen() int {
	total := 0
	for _, t := range c.turns {
		total += utf8.RuneCountInString(t.Text)
	}
	return total
}

// packChunks greedily accumulates turns into chunks whose character total
// stays within maxChars. A single turn longer than maxChars is hard-split
// into fixed-size slices, each becoming its own chunk.
func packChunks(turns []podcast.Turn, maxChars int) []chunk {
	var chunks []chunk
	var current chunk

	flush := func() {
		if len(current.turns) > 0 {
			chunks = append(chunks, current)
			current = chunk{}
		}
	}

	for _, t := range turns {
		n := utf8.RuneCountInString(t.Text)
		if n > maxChars {
			flush()
			for _, slice := range hardSplit(t.Text, maxChars) {
				chunks = append(chunks, chunk{turns: []podcast.Turn{{Speaker: t.Speaker, Text: slice}}})
			}
			continue
		}

		if current.charLen()+n > maxChars {
			flush()
		}
		current.turns = append(current.turns, t)
	}
	flush()

	return chunks
}

// hardSplit cuts on rune boundaries so a boundary landing inside a
// multibyte character never produces invalid UTF-8.
func hardSplit(text string, size int) []string {
	runes := []rune(text)
	var slices []string
	for len(runes) > size {
		slices = append(slices, string(runes[:size]))
		runes = runes[size:]
	}
	if len(runes) > 0 {
		slices = append(slices, string(runes))
	}
	return slices
}
