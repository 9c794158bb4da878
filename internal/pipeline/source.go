package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ppiankov/shartnoma/internal/model"
)

var (
	// ErrUnsupportedSource is returned for documents no source can read
	ErrUnsupportedSource = errors.New("unsupported document source")

	// ErrEmptyDocument is returned when a source yields no text
	ErrEmptyDocument = errors.New("document has no text")
)

const maxDocumentBytes = 20 << 20

// Document is text ready for analysis plus what its source reported
type Document struct {
	Name string
	Text string
	Info model.SourceInfo
}

// Source turns the bytes of one document format into plain text
type Source interface {
	// Name returns the source name
	Name() string

	// CanHandle checks if this source reads the given path/content type
	CanHandle(path string, contentType string) bool

	// Extract reads the document text
	Extract(r io.Reader) (string, model.SourceInfo, error)
}

// Registry picks a Source per document
type Registry struct {
	sources  []Source
	fallback Source
}

// NewRegistry creates a registry with the built-in HTML source and plain
// text as the fallback for anything that sniffs as text
func NewRegistry() *Registry {
	r := &Registry{fallback: NewTextSource()}
	r.Register(NewHTMLSource())
	r.Register(r.fallback)
	return r
}

// Register adds a source; earlier sources win
func (r *Registry) Register(s Source) {
	r.sources = append(r.sources, s)
}

// Find returns the first source that handles path/contentType
func (r *Registry) Find(path string, contentType string) (Source, error) {
	for _, s := range r.sources {
		if s.CanHandle(path, contentType) {
			return s, nil
		}
	}
	if strings.HasPrefix(contentType, "text/") {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%s (%s): %w", path, contentType, ErrUnsupportedSource)
}

// Load reads and extracts one document from disk
func (r *Registry) Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	contentType := http.DetectContentType(data)
	src, err := r.Find(path, contentType)
	if err != nil {
		return nil, err
	}

	text, info, err := src.Extract(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: extract %s: %w", path, src.Name(), err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}
	return &Document{Name: path, Text: text, Info: info}, nil
}

// TextSource reads plain text. UTF-8 and UTF-16 with a BOM are decoded
// as such; anything else that is not valid UTF-8 is taken as Windows-1251,
// the usual encoding of older Cyrillic office exports.
type TextSource struct{}

// NewTextSource creates a plain text source
func NewTextSource() *TextSource {
	return &TextSource{}
}

func (s *TextSource) Name() string {
	return "text"
}

func (s *TextSource) CanHandle(path string, contentType string) bool {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return true
	}
	return strings.HasPrefix(contentType, "text/plain")
}

func (s *TextSource) Extract(r io.Reader) (string, model.SourceInfo, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", model.SourceInfo{}, err
	}

	info := model.SourceInfo{Confidence: 1, Format: "text"}
	data, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil {
		return "", info, fmt.Errorf("decode: %w", err)
	}
	if utf8.Valid(data) {
		return string(data), info, nil
	}

	data, err = charmap.Windows1251.NewDecoder().Bytes(raw)
	if err != nil {
		return "", info, fmt.Errorf("decode windows-1251: %w", err)
	}
	info.Format = "text/windows-1251"
	return string(data), info, nil
}
