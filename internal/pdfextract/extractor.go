// Package pdfextract obtains per-page text from a statement PDF in the two
// renderings the engine needs: a layout-preserving one for transaction bodies
// and a plain one for title and header regions.
package pdfextract

import (
	"os/exec"
	"strings"

	"fjacquet/hkstmt/internal/parsererror"
)

// PageText holds both renderings of one physical page.
type PageText struct {
	Layout string
	Plain  string
}

// Extractor extracts per-page text from a document. Implementations exist for
// production (pdftotext) and for tests (predefined pages).
type Extractor interface {
	ExtractPages(path string) ([]PageText, error)
}

// PdftotextExtractor shells out to the poppler pdftotext tool, once with
// -layout and once without, and pairs the pages of the two runs.
type PdftotextExtractor struct {
	Binary string
}

// NewPdftotextExtractor creates an extractor using the given pdftotext binary;
// an empty name means "pdftotext" on PATH.
func NewPdftotextExtractor(binary string) *PdftotextExtractor {
	if binary == "" {
		binary = "pdftotext"
	}
	return &PdftotextExtractor{Binary: binary}
}

// ExtractPages extracts both renderings of every page.
func (e *PdftotextExtractor) ExtractPages(path string) ([]PageText, error) {
	layout, err := e.run(path, true)
	if err != nil {
		return nil, &parsererror.ExtractionError{FilePath: path, Msg: "pdftotext -layout failed", Err: err}
	}
	plain, err := e.run(path, false)
	if err != nil {
		return nil, &parsererror.ExtractionError{FilePath: path, Msg: "pdftotext failed", Err: err}
	}

	layoutPages := SplitPages(layout)
	plainPages := SplitPages(plain)
	if len(layoutPages) != len(plainPages) {
		return nil, &parsererror.ExtractionError{
			FilePath: path,
			Msg:      "layout and plain extractions disagree on page count",
		}
	}
	if len(layoutPages) == 0 {
		return nil, &parsererror.ExtractionError{FilePath: path, Msg: "document has no pages"}
	}

	pages := make([]PageText, len(layoutPages))
	for i := range layoutPages {
		pages[i] = PageText{Layout: layoutPages[i], Plain: plainPages[i]}
	}
	return pages, nil
}

// run executes pdftotext writing to stdout.
func (e *PdftotextExtractor) run(path string, layout bool) (string, error) {
	args := []string{}
	if layout {
		args = append(args, "-layout")
	}
	args = append(args, path, "-")
	out, err := exec.Command(e.Binary, args...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// SplitPages splits pdftotext output on form feeds. pdftotext terminates
// every page with \f, so a trailing empty chunk is dropped.
func SplitPages(text string) []string {
	if text == "" {
		return nil
	}
	pages := strings.Split(text, "\f")
	if len(pages) > 0 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}

// MockExtractor returns predefined pages, for tests.
type MockExtractor struct {
	Pages []PageText
	Err   error
}

// ExtractPages returns the predefined pages or error.
func (m *MockExtractor) ExtractPages(path string) ([]PageText, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Pages, nil
}
