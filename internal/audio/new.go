package audio

import (
	"github.com/nguyentantai21042004/podcast-flow/internal/config"
	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
	"github.com/nguyentantai21042004/podcast-flow/pkg/executor"
)

// Synthesized blobs arrive as raw PCM from the TTS backend.
const (
	sourceSampleRate = 24000
	sourceFormat     = "s16le"
)

type implPostProcessor struct {
	cfg      config.AudioConfig
	executor executor.Executor
	logger   logger.Logger
	workDir  string
}

// New creates a PostProcessor that stages intermediate files under
// workDir. Every run gets its own temp directory, removed afterwards.
func New(cfg config.AudioConfig, exec executor.Executor, log logger.Logger, workDir string) PostProcessor {
	return &implPostProcessor{
		cfg:      cfg,
		executor: exec,
		logger:   log,
		workDir:  workDir,
	}
}
