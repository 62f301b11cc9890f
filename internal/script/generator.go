package script

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/podcast-flow/internal/gemini"
	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// rawTurn is a dialogue line as returned by the model, before speaker
// labels are validated and mapped onto the two roles.
type rawTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// dialogueSchema asks for a structured [{speaker, text}] response.
var dialogueSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"speaker": {Type: genai.TypeString, Enum: []string{"HOST", "GUEST"}},
			"text":    {Type: genai.TypeString},
		},
		Required: []string{"speaker", "text"},
	},
}

// Generate requests a dialogue from the model, validating every attempt
// and escalating temperature between attempts.
func (g *implGenerator) Generate(ctx context.Context, summary, title string, targetWords int, language string) (*podcast.Script, error) {
	prompt := buildPrompt(summary, title, targetWords, language)

	var lastReason string
	var lastErr error

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		temperature := g.baseTemperature + g.tempIncrement*float32(attempt-1)
		g.logger.Info(ctx, "Generating script, attempt %d/%d (temperature %.2f)", attempt, g.maxAttempts, temperature)

		res := g.attempt(ctx, prompt, temperature)
		switch res.kind {
		case outcomeValid:
			turns := g.injectIntroOutro(res.turns, title, language)
			return podcast.NewScript(turns)
		case outcomeInvalid:
			lastReason = res.reason
			lastErr = nil
			g.logger.Warn(ctx, "Attempt %d rejected: %s", attempt, res.reason)
		case outcomeTransient:
			lastReason = ""
			lastErr = res.err
			g.logger.Warn(ctx, "Attempt %d failed: %v", attempt, res.err)
		}
	}

	reason := fmt.Sprintf("no valid dialogue after %d attempts", g.maxAttempts)
	detail := lastReason
	if gemini.IsSafetyBlock(lastErr) {
		detail = "the provider rejected the content on safety grounds; the book summary may need rewording"
	}
	return nil, &podcast.ScriptGenerationError{Reason: reason, Detail: detail, Err: lastErr}
}

// attempt performs one generation call and classifies the result so the
// retry loop can decide between escalation and abort without matching on
// error strings.
func (g *implGenerator) attempt(ctx context.Context, prompt string, temperature float32) attemptResult {
	out, err := g.model.GenerateText(ctx, g.modelName, prompt, gemini.TextOptions{
		MaxOutputTokens: 4096,
		Temperature:     temperature,
		ResponseSchema:  dialogueSchema,
	})
	if err != nil {
		return attemptResult{kind: outcomeTransient, err: err}
	}

	raw := parseStructured(out)
	if len(raw) == 0 {
		// structured extraction yielded nothing, fall back to
		// HOST:/GUEST: prefixed lines
		raw = parseLines(out)
	}
	if len(raw) == 0 {
		return attemptResult{kind: outcomeInvalid, reason: "response contained no dialogue turns"}
	}

	return g.validate(raw)
}

func parseStructured(out string) []rawTurn {
	out = strings.TrimSpace(out)
	// models occasionally wrap JSON in a markdown fence
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")

	var raw []rawTurn
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &raw); err != nil {
		return nil
	}

	var turns []rawTurn
	for _, t := range raw {
		if strings.TrimSpace(t.Text) != "" {
			turns = append(turns, t)
		}
	}
	return turns
}

func parseLines(out string) []rawTurn {
	var turns []rawTurn
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		speaker := strings.ToUpper(strings.TrimSpace(line[:idx]))
		text := strings.TrimSpace(line[idx+1:])
		if text == "" {
			continue
		}
		if speaker == "HOST" || speaker == "GUEST" {
			turns = append(turns, rawTurn{Speaker: speaker, Text: text})
		}
	}
	return turns
}

// injectIntroOutro wraps the dialogue with a templated opening and closing
// turn, each formatted with the book title.
func (g *implGenerator) injectIntroOutro(turns []podcast.Turn, title, language string) []podcast.Turn {
	intro := podcast.Turn{
		Speaker: podcast.SpeakerHost,
		Text:    fmt.Sprintf(pickTemplate(g.rng, introTemplates, language), title),
	}
	outro := podcast.Turn{
		Speaker: podcast.SpeakerHost,
		Text:    fmt.Sprintf(pickTemplate(g.rng, outroTemplates, language), title),
	}

	out := make([]podcast.Turn, 0, len(turns)+2)
	out = append(out, intro)
	out = append(out, turns...)
	return append(out, outro)
}
