package epub

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// EPUB container structures. An EPUB is a zip whose META-INF/container.xml
// points at an OPF package file; the spine there defines reading order.
type epubContainer struct {
	XMLName   xml.Name       `xml:"container"`
	RootFiles []epubRootFile `xml:"rootfiles>rootfile"`
}

type epubRootFile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

type epubPackage struct {
	XMLName  xml.Name     `xml:"package"`
	Manifest epubManifest `xml:"manifest"`
	Spine    epubSpine    `xml:"spine"`
}

type epubManifest struct {
	Items []epubItem `xml:"item"`
}

type epubItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type epubSpine struct {
	ItemRefs []epubItemRef `xml:"itemref"`
}

type epubItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// Extract parses the referenced EPUB into ordered chapters. Remote
// references are downloaded to a temp file that is removed on every exit
// path.
func (e *implExtractor) Extract(ctx context.Context, ref string) ([]podcast.Chapter, error) {
	localPath := ref
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		tmp, err := e.download(ctx, ref)
		if err != nil {
			return nil, &podcast.ExtractionError{Ref: ref, Detail: err.Error()}
		}
		defer os.Remove(tmp)
		localPath = tmp
	}

	chapters, err := e.parse(ctx, localPath)
	if err != nil {
		return nil, &podcast.ExtractionError{Ref: ref, Detail: err.Error()}
	}
	if len(chapters) == 0 {
		return nil, &podcast.ExtractionError{Ref: ref, Detail: "no chapters with usable text"}
	}

	e.logger.Info(ctx, "Extracted %d chapters from %s", len(chapters), ref)
	return chapters, nil
}

func (e *implExtractor) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch document: unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "podcast-book-*.epub")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save document: %w", err)
	}

	return tmp.Name(), nil
}

func (e *implExtractor) parse(ctx context.Context, epubPath string) ([]podcast.Chapter, error) {
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	opfPath, err := rootFilePath(files)
	if err != nil {
		return nil, err
	}

	var pkg epubPackage
	if err := readXML(files, opfPath, &pkg); err != nil {
		return nil, fmt.Errorf("parse package %s: %w", opfPath, err)
	}

	hrefs := make(map[string]string, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		hrefs[item.ID] = item.Href
	}

	baseDir := path.Dir(opfPath)
	var chapters []podcast.Chapter
	for _, ref := range pkg.Spine.ItemRefs {
		href, ok := hrefs[ref.IDRef]
		if !ok {
			continue
		}
		docPath := href
		if baseDir != "." {
			docPath = path.Join(baseDir, href)
		}
		f, ok := files[docPath]
		if !ok {
			e.logger.Debug(ctx, "Spine document missing from archive: %s", docPath)
			continue
		}

		title, text, err := documentText(f)
		if err != nil {
			e.logger.Warn(ctx, "Skipping unreadable spine document %s: %v", docPath, err)
			continue
		}
		if len(text) < e.minChapterChars {
			continue
		}
		chapters = append(chapters, podcast.Chapter{
			Index:   len(chapters),
			Title:   title,
			Content: text,
		})
	}

	return chapters, nil
}

func rootFilePath(files map[string]*zip.File) (string, error) {
	var container epubContainer
	if err := readXML(files, "META-INF/container.xml", &container); err != nil {
		return "", fmt.Errorf("parse container.xml: %w", err)
	}
	for _, rf := range container.RootFiles {
		if rf.FullPath != "" {
			return rf.FullPath, nil
		}
	}
	return "", fmt.Errorf("container.xml has no rootfile")
}

func readXML(files map[string]*zip.File, name string, v interface{}) error {
	f, ok := files[name]
	if !ok {
		return fmt.Errorf("%s not found in archive", name)
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

// documentText reduces one XHTML spine document to a title and plain text.
func documentText(f *zip.File) (string, string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", "", err
	}
	defer rc.Close()

	doc, err := goquery.NewDocumentFromReader(rc)
	if err != nil {
		return "", "", err
	}

	doc.Find("script, style, nav").Remove()

	title := strings.TrimSpace(doc.Find("h1, h2, h3").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	return title, collapseWhitespace(text), nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
