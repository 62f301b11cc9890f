package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
)

func TestIsBookFile(t *testing.T) {
	w := &implWatcher{}
	cases := map[string]bool{
		"/inbox/book.epub": true,
		"/inbox/BOOK.EPUB": true,
		"/inbox/book.pdf":  false,
		"/inbox/book.mp3":  false,
		"/inbox/.epub.tmp": false,
	}
	for path, want := range cases {
		if got := w.isBookFile(path); got != want {
			t.Errorf("isBookFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWatcherHandlesDroppedEpub(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 1)

	w, err := New(dir, func(_ context.Context, path string) error {
		handled <- path
		return nil
	}, logger.New("error"), 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Give the watch loop a moment before dropping the file.
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(dir, "book.epub")
	if err := os.WriteFile(path, []byte("zip-bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case got := <-handled:
		if got != path {
			t.Errorf("handled path = %q, want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler never invoked for dropped epub")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 1)

	w, err := New(dir, func(_ context.Context, path string) error {
		handled <- path
		return nil
	}, logger.New("error"), 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case got := <-handled:
		t.Errorf("handler invoked for %q", got)
	case <-time.After(1 * time.Second):
	}
}
