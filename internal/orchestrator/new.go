package orchestrator

import (
	"github.com/nguyentantai21042004/podcast-flow/internal/audio"
	"github.com/nguyentantai21042004/podcast-flow/internal/config"
	"github.com/nguyentantai21042004/podcast-flow/internal/epub"
	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
	"github.com/nguyentantai21042004/podcast-flow/internal/script"
	"github.com/nguyentantai21042004/podcast-flow/internal/storage"
	"github.com/nguyentantai21042004/podcast-flow/internal/summarize"
	"github.com/nguyentantai21042004/podcast-flow/internal/tts"
	"github.com/nguyentantai21042004/podcast-flow/pkg/retry"
)

// Deps bundles the pipeline stages the orchestrator sequences.
type Deps struct {
	Books       BookSource
	Extractor   epub.Extractor
	Summarizer  summarize.Summarizer
	Generator   script.Generator
	Synthesizer tts.Synthesizer
	Post        audio.PostProcessor
	Repo        storage.Repository
	Uploader    storage.Uploader
	Logger      logger.Logger
}

type implOrchestrator struct {
	deps        Deps
	cfg         config.PipelineConfig
	uploadRetry retry.Policy
	logger      logger.Logger
}

func New(deps Deps, cfg config.PipelineConfig) Orchestrator {
	return &implOrchestrator{
		deps:        deps,
		cfg:         cfg,
		uploadRetry: retry.Default,
		logger:      deps.Logger,
	}
}
