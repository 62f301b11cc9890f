package script

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

type outcome int

const (
	outcomeValid outcome = iota
	// outcomeInvalid: the dialogue failed validation; retrying at a
	// higher temperature may help.
	outcomeInvalid
	// outcomeTransient: the provider call itself failed.
	outcomeTransient
)

type attemptResult struct {
	kind   outcome
	turns  []podcast.Turn
	reason string
	err    error
}

// validate applies the dialogue rules to one attempt: at most two distinct
// speaker identifiers, a minimum turn count (counting the intro/outro that
// will be injected), and a minimum participation share per role.
func (g *implGenerator) validate(raw []rawTurn) attemptResult {
	distinct := map[string]bool{}
	for _, t := range raw {
		distinct[strings.ToUpper(strings.TrimSpace(t.Speaker))] = true
	}
	if len(distinct) > 2 {
		return attemptResult{
			kind:   outcomeInvalid,
			reason: fmt.Sprintf("dialogue has %d distinct speakers, want at most 2", len(distinct)),
		}
	}

	turns := make([]podcast.Turn, 0, len(raw))
	for _, t := range raw {
		sp, ok := podcast.ParseSpeaker(t.Speaker)
		if !ok {
			return attemptResult{
				kind:   outcomeInvalid,
				reason: fmt.Sprintf("unknown speaker identifier %q", t.Speaker),
			}
		}
		turns = append(turns, podcast.Turn{Speaker: sp, Text: strings.TrimSpace(t.Text)})
	}

	// intro and outro are injected after validation
	if len(turns)+2 < g.minTurns {
		return attemptResult{
			kind:   outcomeInvalid,
			reason: fmt.Sprintf("dialogue too short: %d turns, want at least %d", len(turns)+2, g.minTurns),
		}
	}

	for _, role := range []podcast.Speaker{podcast.SpeakerHost, podcast.SpeakerGuest} {
		count := 0
		for _, t := range turns {
			if t.Speaker == role {
				count++
			}
		}
		share := float64(count) / float64(len(turns))
		if share < g.minParticipation {
			return attemptResult{
				kind: outcomeInvalid,
				reason: fmt.Sprintf("%s speaks in %.0f%% of turns, want at least %.0f%%",
					role, share*100, g.minParticipation*100),
			}
		}
	}

	return attemptResult{kind: outcomeValid, turns: turns}
}
