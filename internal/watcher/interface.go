package watcher

import "context"

// Watcher monitors the inbox directory for new book files.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler handles one dropped book file.
type EventHandler func(ctx context.Context, filePath string) error
