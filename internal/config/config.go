package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Gemini      GeminiConfig      `yaml:"gemini"`
	TTS         TTSConfig         `yaml:"tts"`
	Audio       AudioConfig       `yaml:"audio"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Storage     StorageConfig     `yaml:"storage"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type GeminiConfig struct {
	APIKeys   []string `yaml:"api_keys"`
	TextModel string   `yaml:"text_model"`
	TTSModel  string   `yaml:"tts_model"`
}

type TTSConfig struct {
	// MaxCharsPerRequest is the character budget the TTS backend
	// enforces on a single synthesis request.
	MaxCharsPerRequest int `yaml:"max_chars_per_request"`
	// Voices maps language -> speaker role -> voice name.
	Voices       map[string]map[string]string `yaml:"voices"`
	DefaultVoice string                       `yaml:"default_voice"`
}

type AudioConfig struct {
	TargetLoudnessDB float64 `yaml:"target_loudness_db"`
	Bitrate          string  `yaml:"bitrate"`
	SampleRate       int     `yaml:"sample_rate"`
	CrossfadeMs      int     `yaml:"crossfade_ms"`
}

type PipelineConfig struct {
	MaxChapters      int    `yaml:"max_chapters"`
	MaxChapterChars  int    `yaml:"max_chapter_chars"`
	MinChapterChars  int    `yaml:"min_chapter_chars"`
	TargetWords      int    `yaml:"target_words"`
	Language         string `yaml:"language"`
	ScriptMaxRetries int    `yaml:"script_max_retries"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type StorageConfig struct {
	URL    string `yaml:"url"`
	Key    string `yaml:"key"`
	Bucket string `yaml:"bucket"`
}

type PathsConfig struct {
	Inbox  string `yaml:"inbox"`
	Work   string `yaml:"work"`
	Output string `yaml:"output"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads and validates the YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini.api_keys is required")
	}
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required")
	}
	if c.Storage.URL == "" {
		return fmt.Errorf("storage.url is required")
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key is required")
	}
	if c.Paths.Inbox == "" {
		return fmt.Errorf("paths.inbox is required")
	}

	if c.Gemini.TextModel == "" {
		c.Gemini.TextModel = "gemini-2.5-flash"
	}
	if c.Gemini.TTSModel == "" {
		c.Gemini.TTSModel = "gemini-2.5-flash-preview-tts"
	}
	if c.TTS.MaxCharsPerRequest == 0 {
		c.TTS.MaxCharsPerRequest = 5000
	}
	if c.TTS.DefaultVoice == "" {
		c.TTS.DefaultVoice = "Kore"
	}
	if c.Audio.TargetLoudnessDB == 0 {
		c.Audio.TargetLoudnessDB = -16
	}
	if c.Audio.Bitrate == "" {
		c.Audio.Bitrate = "128k"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Pipeline.MaxChapters == 0 {
		c.Pipeline.MaxChapters = 20
	}
	if c.Pipeline.MaxChapterChars == 0 {
		c.Pipeline.MaxChapterChars = 30000
	}
	if c.Pipeline.MinChapterChars == 0 {
		c.Pipeline.MinChapterChars = 200
	}
	if c.Pipeline.TargetWords == 0 {
		c.Pipeline.TargetWords = 1200
	}
	if c.Pipeline.Language == "" {
		c.Pipeline.Language = "en"
	}
	if c.Pipeline.ScriptMaxRetries == 0 {
		c.Pipeline.ScriptMaxRetries = 3
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "podcasts"
	}
	if c.Paths.Work == "" {
		c.Paths.Work = "data/work"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}

// Voice returns the configured voice for a (language, speaker) pair,
// falling back to the default voice.
func (c *TTSConfig) Voice(language, speaker string) string {
	if byRole, ok := c.Voices[language]; ok {
		if v, ok := byRole[speaker]; ok && v != "" {
			return v
		}
	}
	return c.DefaultVoice
}
