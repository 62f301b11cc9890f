package tts

import (
	"github.com/nguyentantai21042004/podcast-flow/internal/config"
	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
	"github.com/nguyentantai21042004/podcast-flow/pkg/retry"
)

type implSynthesizer struct {
	model     SpeechModel
	modelName string
	cfg       config.TTSConfig
	logger    logger.Logger
	retry     retry.Policy
}

// New creates a Synthesizer that respects the backend's per-request
// character budget from cfg.
func New(model SpeechModel, modelName string, cfg config.TTSConfig, log logger.Logger) Synthesizer {
	return &implSynthesizer{
		model:     model,
		modelName: modelName,
		cfg:       cfg,
		logger:    log,
		retry:     retry.Default,
	}
}
