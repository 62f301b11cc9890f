package podcast

import (
	"strconv"
	"strings"
)

// Speaker identifies one of the two dialogue roles.
type Speaker string

const (
	SpeakerHost  Speaker = "HOST"
	SpeakerGuest Speaker = "GUEST"
)

// ParseSpeaker maps a raw speaker label to a known role.
func ParseSpeaker(raw string) (Speaker, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(SpeakerHost):
		return SpeakerHost, true
	case string(SpeakerGuest):
		return SpeakerGuest, true
	}
	return "", false
}

// Turn is a single utterance in the dialogue. Immutable once built.
type Turn struct {
	Speaker Speaker
	Text    string
}

// Script is the ordered two-speaker dialogue of an episode.
type Script struct {
	Turns []Turn
}

// NewScript builds a script, rejecting empty input and empty turns.
func NewScript(turns []Turn) (*Script, error) {
	if len(turns) == 0 {
		return nil, &ScriptGenerationError{Reason: "script has no turns"}
	}
	for i, t := range turns {
		if strings.TrimSpace(t.Text) == "" {
			return nil, &ScriptGenerationError{Reason: "empty turn text", Detail: "turn " + strconv.Itoa(i)}
		}
	}
	copied := make([]Turn, len(turns))
	copy(copied, turns)
	return &Script{Turns: copied}, nil
}

// CharLen is the total character length across all turns.
func (s *Script) CharLen() int {
	total := 0
	for _, t := range s.Turns {
		total += len(t.Text)
	}
	return total
}

// TurnCount is the number of turns in the script.
func (s *Script) TurnCount() int {
	return len(s.Turns)
}

// SpeakerShare returns the fraction of turns spoken by sp.
func (s *Script) SpeakerShare(sp Speaker) float64 {
	if len(s.Turns) == 0 {
		return 0
	}
	count := 0
	for _, t := range s.Turns {
		if t.Speaker == sp {
			count++
		}
	}
	return float64(count) / float64(len(s.Turns))
}
