package epub

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
)

type implExtractor struct {
	minChapterChars int
	client          *http.Client
	logger          logger.Logger
}

// New creates an Extractor. Chapters shorter than minChapterChars are
// dropped as navigation or metadata noise.
func New(minChapterChars int, log logger.Logger) Extractor {
	return &implExtractor{
		minChapterChars: minChapterChars,
		client:          &http.Client{Timeout: 2 * time.Minute},
		logger:          log,
	}
}
