// Package attach turns uploaded company context files into plain text for
// the generation prompt.
package attach

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// Section is a run of text under an optional heading.
type Section struct {
	Heading string
	Text    string
}

// Document is the text content of one uploaded file.
type Document struct {
	Title    string
	Sections []Section
}

// Text joins headings and section text with blank lines.
func (d *Document) Text() string {
	var parts []string
	for _, s := range d.Sections {
		if h := strings.TrimSpace(s.Heading); h != "" {
			parts = append(parts, h)
		}
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Extractor reads one file format.
type Extractor interface {
	Extract(r io.Reader, filename string) (*Document, error)
}

// UnsupportedError is returned for file extensions without an extractor.
type UnsupportedError struct {
	Ext string
}

func (e *UnsupportedError) Error() string {
	if e.Ext == "" {
		return "unsupported file type: missing extension"
	}
	return fmt.Sprintf("unsupported file type: %s", e.Ext)
}

var extractors = map[string]func() Extractor{
	".txt":      func() Extractor { return &TextExtractor{} },
	".md":       func() Extractor { return &MarkdownExtractor{} },
	".markdown": func() Extractor { return &MarkdownExtractor{} },
	".csv":      func() Extractor { return &CSVExtractor{} },
	".html":     func() Extractor { return &HTMLExtractor{} },
	".htm":      func() Extractor { return &HTMLExtractor{} },
	".pdf":      func() Extractor { return &PDFExtractor{} },
	".docx":     func() Extractor { return &DOCXExtractor{} },
}

// ForFile picks the extractor for filename's extension.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	newFn, ok := extractors[ext]
	if !ok {
		return nil, &UnsupportedError{Ext: ext}
	}
	return newFn(), nil
}

// SupportedExtensions lists the accepted extensions in sorted order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extractors))
	for ext := range extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract reads r as the format implied by filename and returns its text.
func Extract(r io.Reader, filename string) (string, error) {
	ex, err := ForFile(filename)
	if err != nil {
		return "", err
	}
	doc, err := ex.Extract(r, filename)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(filename), err)
	}
	return doc.Text(), nil
}

func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sectionBuilder groups paragraphs under the most recent heading.
type sectionBuilder struct {
	sections []Section
	heading  string
	paras    []string
}

func (b *sectionBuilder) startHeading(h string) {
	b.flush()
	b.heading = h
}

func (b *sectionBuilder) addParagraph(p string) {
	if p = strings.TrimSpace(p); p != "" {
		b.paras = append(b.paras, p)
	}
}

func (b *sectionBuilder) flush() {
	if b.heading != "" || len(b.paras) > 0 {
		b.sections = append(b.sections, Section{
			Heading: b.heading,
			Text:    strings.Join(b.paras, "\n\n"),
		})
	}
	b.heading = ""
	b.paras = nil
}

func (b *sectionBuilder) done() []Section {
	b.flush()
	return b.sections
}
