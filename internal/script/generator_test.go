package script

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/podcast-flow/internal/gemini"
	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

type fakeDialogueModel struct {
	calls        int
	temperatures []float32
	respond      func(call int) (string, error)
}

func (f *fakeDialogueModel) GenerateText(ctx context.Context, model, prompt string, opts gemini.TextOptions) (string, error) {
	f.calls++
	f.temperatures = append(f.temperatures, opts.Temperature)
	return f.respond(f.calls)
}

const goodDialogue = `[
	{"speaker": "HOST", "text": "So what is this book really about?"},
	{"speaker": "GUEST", "text": "At its core, it is about attention."},
	{"speaker": "HOST", "text": "Attention as a skill?"},
	{"speaker": "GUEST", "text": "Exactly, a trainable one."},
	{"speaker": "HOST", "text": "Give me an example."},
	{"speaker": "GUEST", "text": "The author opens with a case study."}
]`

func newGenerator(m DialogueModel, attempts int) Generator {
	return New(m, "test-model", attempts, logger.New("error"), 42)
}

func TestGenerateSuccess(t *testing.T) {
	m := &fakeDialogueModel{respond: func(int) (string, error) { return goodDialogue, nil }}
	g := newGenerator(m, 3)

	s, err := g.Generate(context.Background(), "summary", "Deep Work", 1200, "en")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// 6 dialogue turns + intro + outro
	if s.TurnCount() != 8 {
		t.Fatalf("TurnCount() = %d, want 8", s.TurnCount())
	}
	first, last := s.Turns[0], s.Turns[len(s.Turns)-1]
	if first.Speaker != podcast.SpeakerHost || !strings.Contains(first.Text, "Deep Work") {
		t.Errorf("intro turn = %+v", first)
	}
	if last.Speaker != podcast.SpeakerHost || !strings.Contains(last.Text, "Deep Work") {
		t.Errorf("outro turn = %+v", last)
	}
	if m.calls != 1 {
		t.Errorf("calls = %d, want 1", m.calls)
	}
}

func TestGenerateLineFallback(t *testing.T) {
	raw := `Here is the dialogue:
HOST: So what is this book about?
GUEST: It is about attention.
HOST: Interesting, tell me more.
GUEST: The author argues focus is trainable.
HOST: And the evidence?
GUEST: Several case studies.`

	m := &fakeDialogueModel{respond: func(int) (string, error) { return raw, nil }}
	g := newGenerator(m, 3)

	s, err := g.Generate(context.Background(), "summary", "T", 1200, "en")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if s.TurnCount() != 8 {
		t.Errorf("TurnCount() = %d, want 8", s.TurnCount())
	}
}

func TestGenerateTemperatureEscalation(t *testing.T) {
	m := &fakeDialogueModel{respond: func(call int) (string, error) {
		if call < 3 {
			return "no dialogue here", nil
		}
		return goodDialogue, nil
	}}
	g := newGenerator(m, 3)

	if _, err := g.Generate(context.Background(), "s", "T", 1200, "en"); err != nil {
		t.Fatal(err)
	}
	if m.calls != 3 {
		t.Fatalf("calls = %d, want 3", m.calls)
	}
	for i := 1; i < len(m.temperatures); i++ {
		if m.temperatures[i] <= m.temperatures[i-1] {
			t.Errorf("temperature did not escalate: %v", m.temperatures)
		}
	}
}

func TestGenerateExhaustedAttempts(t *testing.T) {
	m := &fakeDialogueModel{respond: func(int) (string, error) { return "garbage", nil }}
	g := newGenerator(m, 4)

	_, err := g.Generate(context.Background(), "s", "T", 1200, "en")

	var genErr *podcast.ScriptGenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error = %v, want ScriptGenerationError", err)
	}
	if !strings.Contains(err.Error(), "4 attempts") {
		t.Errorf("error should name the attempt count: %v", err)
	}
	if m.calls != 4 {
		t.Errorf("calls = %d, want 4", m.calls)
	}
}

func TestGenerateSafetyHint(t *testing.T) {
	m := &fakeDialogueModel{respond: func(int) (string, error) {
		return "", gemini.ErrSafetyBlocked
	}}
	g := newGenerator(m, 2)

	_, err := g.Generate(context.Background(), "s", "T", 1200, "en")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "safety") {
		t.Errorf("error should hint at a safety rejection: %v", err)
	}
}

func TestParseStructuredFenced(t *testing.T) {
	fenced := "```json\n" + goodDialogue + "\n```"
	turns := parseStructured(fenced)
	if len(turns) != 6 {
		t.Errorf("len = %d, want 6", len(turns))
	}
}

func TestGenerateVietnamesePrompt(t *testing.T) {
	var prompt string
	m := &fakeDialogueModel{respond: func(int) (string, error) { return goodDialogue, nil }}
	g := New(&promptCapture{inner: m, prompt: &prompt}, "test-model", 1, logger.New("error"), 1)

	if _, err := g.Generate(context.Background(), "tóm tắt", "Sách Hay", 1000, "vi"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(prompt, "kịch bản podcast") {
		t.Error("Vietnamese prompt not selected")
	}
}

type promptCapture struct {
	inner  DialogueModel
	prompt *string
}

func (p *promptCapture) GenerateText(ctx context.Context, model, prompt string, opts gemini.TextOptions) (string, error) {
	*p.prompt = prompt
	return p.inner.GenerateText(ctx, model, prompt, opts)
}
