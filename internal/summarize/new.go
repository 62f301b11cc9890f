package summarize

import (
	"time"

	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
)

type implSummarizer struct {
	model      TextModel
	modelName  string
	logger     logger.Logger
	batchSize  int
	batchPause time.Duration
}

// New creates a Summarizer on top of a text model. Chapter requests run in
// batches of two with a pause in between, trading latency for provider
// rate-limit safety.
func New(model TextModel, modelName string, log logger.Logger) Summarizer {
	return &implSummarizer{
		model:      model,
		modelName:  modelName,
		logger:     log,
		batchSize:  2,
		batchPause: 2 * time.Second,
	}
}
