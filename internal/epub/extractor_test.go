package epub

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

const containerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const contentOPF = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="nav"/>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`

const navXHTML = `<html><body><nav><a href="ch1.xhtml">One</a></nav></body></html>`

func chapterXHTML(title, body string) string {
	return `<html><head><title>ignored</title></head><body><h1>` + title + `</h1><p>` + body + `</p></body></html>`
}

func writeEPUB(t *testing.T, docs map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.epub")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, content := range docs {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract(t *testing.T) {
	long := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
	path := writeEPUB(t, map[string]string{
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      contentOPF,
		"OEBPS/nav.xhtml":        navXHTML,
		"OEBPS/ch1.xhtml":        chapterXHTML("Chapter One", long),
		"OEBPS/ch2.xhtml":        chapterXHTML("Chapter Two", long),
	})

	ex := New(200, logger.New("error"))
	chs, err := ex.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	// nav page is below the length threshold and must be dropped
	if len(chs) != 2 {
		t.Fatalf("len = %d, want 2", len(chs))
	}
	if chs[0].Title != "Chapter One" || chs[1].Title != "Chapter Two" {
		t.Errorf("titles = %q, %q", chs[0].Title, chs[1].Title)
	}
	if chs[0].Index != 0 || chs[1].Index != 1 {
		t.Errorf("indices = %d, %d", chs[0].Index, chs[1].Index)
	}
	if strings.Contains(chs[0].Content, "<p>") {
		t.Error("content should be plain text")
	}
	if !strings.Contains(chs[0].Content, "quick brown fox") {
		t.Error("content lost body text")
	}
}

func TestExtractNoQualifyingChapters(t *testing.T) {
	path := writeEPUB(t, map[string]string{
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      contentOPF,
		"OEBPS/nav.xhtml":        navXHTML,
		"OEBPS/ch1.xhtml":        chapterXHTML("One", "too short"),
		"OEBPS/ch2.xhtml":        chapterXHTML("Two", "also short"),
	})

	ex := New(200, logger.New("error"))
	_, err := ex.Extract(context.Background(), path)

	var extractionErr *podcast.ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("error = %v, want ExtractionError", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	ex := New(200, logger.New("error"))
	_, err := ex.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.epub"))

	var extractionErr *podcast.ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("error = %v, want ExtractionError", err)
	}
}

func TestExtractPreservesSpineOrder(t *testing.T) {
	long := strings.Repeat("word ", 100)
	// manifest order differs from spine order on purpose
	opf := strings.Replace(contentOPF,
		`<itemref idref="ch1"/>
    <itemref idref="ch2"/>`,
		`<itemref idref="ch2"/>
    <itemref idref="ch1"/>`, 1)

	path := writeEPUB(t, map[string]string{
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      opf,
		"OEBPS/nav.xhtml":        navXHTML,
		"OEBPS/ch1.xhtml":        chapterXHTML("First In Manifest", long),
		"OEBPS/ch2.xhtml":        chapterXHTML("First In Spine", long),
	})

	ex := New(200, logger.New("error"))
	chs, err := ex.Extract(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if chs[0].Title != "First In Spine" {
		t.Errorf("spine order not honored, first chapter = %q", chs[0].Title)
	}
}
