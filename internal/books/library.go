package books

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
)

type implLibrary struct {
	dir    string
	logger logger.Logger
}

// Add copies a dropped file into the library under a fresh book id and
// removes the original. The title is derived from the file name.
func (l *implLibrary) Add(ctx context.Context, srcPath string) (uuid.UUID, string, error) {
	bookID := uuid.New()
	bookDir := filepath.Join(l.dir, bookID.String())
	if err := os.MkdirAll(bookDir, 0755); err != nil {
		return uuid.Nil, "", fmt.Errorf("create book directory: %w", err)
	}

	dst := filepath.Join(bookDir, filepath.Base(srcPath))
	if err := copyFile(srcPath, dst); err != nil {
		os.RemoveAll(bookDir)
		return uuid.Nil, "", fmt.Errorf("copy %s into library: %w", srcPath, err)
	}
	if err := os.Remove(srcPath); err != nil {
		l.logger.Warn(ctx, "Could not remove inbox file %s: %v", srcPath, err)
	}

	title := titleFromFilename(srcPath)
	l.logger.Info(ctx, "Book added id=%s title=%q", bookID, title)
	return bookID, title, nil
}

// Resolve returns the stored document path and title for a book id.
func (l *implLibrary) Resolve(_ context.Context, bookID uuid.UUID) (string, string, error) {
	bookDir := filepath.Join(l.dir, bookID.String())
	entries, err := os.ReadDir(bookDir)
	if err != nil {
		return "", "", fmt.Errorf("book %s not in library: %w", bookID, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".epub") {
			return filepath.Join(bookDir, e.Name()), titleFromFilename(e.Name()), nil
		}
	}
	return "", "", fmt.Errorf("book %s has no document in library", bookID)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// titleFromFilename turns "war_and_peace.epub" into "War And Peace".
func titleFromFilename(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	if len(words) == 0 {
		return "Untitled"
	}
	return strings.Join(words, " ")
}
