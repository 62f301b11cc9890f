package books

import (
	"fmt"
	"os"

	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
)

// New creates a file-backed library rooted at dir.
func New(dir string, log logger.Logger) (Library, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create library directory %s: %w", dir, err)
	}
	return &implLibrary{dir: dir, logger: log}, nil
}
