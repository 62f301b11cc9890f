// Package gemini wraps the Gemini API behind one process-wide client that
// rotates through a pool of API keys when a key hits its quota. The client
// is built once in main and injected into the stages that need it.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
)

type Client struct {
	apiKeys    []string
	currentKey int
	mu         sync.Mutex
	logger     logger.Logger
}

// New creates a Client that rotates through the supplied Gemini API keys.
func New(apiKeys []string, log logger.Logger) (*Client, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("at least one API key is required")
	}
	return &Client{
		apiKeys: apiKeys,
		logger:  log,
	}, nil
}

// TextOptions tunes a single text generation call.
type TextOptions struct {
	MaxOutputTokens int32
	Temperature     float32
	// ResponseSchema, when set, requests a structured JSON response.
	ResponseSchema *genai.Schema
}

// GenerateText sends prompt to the given model and returns the response
// text. Rate-limited keys are rotated; other errors are returned as-is.
func (c *Client) GenerateText(ctx context.Context, model, prompt string, opts TextOptions) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if opts.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxOutputTokens
	}
	if opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr[float32](opts.Temperature)
	}
	if opts.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = opts.ResponseSchema
	}

	result, err := c.generate(ctx, model, prompt, cfg)
	if err != nil {
		return "", err
	}

	text := responseText(result)
	if text == "" {
		if blocked(result) {
			return "", ErrSafetyBlocked
		}
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

// SpeakerVoice binds a dialogue speaker label to a prebuilt voice.
type SpeakerVoice struct {
	Speaker string
	Voice   string
}

// GenerateSpeech synthesizes prompt with a TTS model and returns raw audio
// bytes (PCM, 24kHz mono). With two or more voices a multi-speaker speech
// config is used; with one, a plain voice config.
func (c *Client) GenerateSpeech(ctx context.Context, model, prompt string, voices []SpeakerVoice) ([]byte, error) {
	if len(voices) == 0 {
		return nil, fmt.Errorf("at least one voice is required")
	}

	speech := &genai.SpeechConfig{}
	if len(voices) == 1 {
		speech.VoiceConfig = voiceConfig(voices[0].Voice)
	} else {
		var speakers []*genai.SpeakerVoiceConfig
		for _, v := range voices {
			speakers = append(speakers, &genai.SpeakerVoiceConfig{
				Speaker:     v.Speaker,
				VoiceConfig: voiceConfig(v.Voice),
			})
		}
		speech.MultiSpeakerVoiceConfig = &genai.MultiSpeakerVoiceConfig{
			SpeakerVoiceConfigs: speakers,
		}
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig:       speech,
	}

	result, err := c.generate(ctx, model, prompt, cfg)
	if err != nil {
		return nil, err
	}

	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("no audio data in Gemini response")
}

// generate performs one request, rotating through the key pool on
// rate-limit errors.
func (c *Client) generate(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	attempts := len(c.apiKeys)
	var lastErr error

	for range attempts {
		key, keyIdx := c.nextKey()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			c.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
		if err != nil {
			if isRateLimited(err) {
				c.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIdx+1)
				c.rotateKey()
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("generate content: %w", err)
		}
		return result, nil
	}

	return nil, fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (c *Client) nextKey() (string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKeys[c.currentKey], c.currentKey
}

func (c *Client) rotateKey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
}

func voiceConfig(voice string) *genai.VoiceConfig {
	return &genai.VoiceConfig{
		PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
	}
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
	}
	return b.String()
}

func blocked(result *genai.GenerateContentResponse) bool {
	if result == nil {
		return false
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return true
	}
	for _, cand := range result.Candidates {
		if cand.FinishReason == genai.FinishReasonSafety {
			return true
		}
	}
	return false
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
