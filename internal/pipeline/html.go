package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/ppiankov/shartnoma/internal/model"
)

// HTMLSource reads HTML exports of contracts (word processors, e-document
// portals) and keeps their paragraph structure as line breaks
type HTMLSource struct{}

// NewHTMLSource creates an HTML source
func NewHTMLSource() *HTMLSource {
	return &HTMLSource{}
}

func (s *HTMLSource) Name() string {
	return "html"
}

func (s *HTMLSource) CanHandle(path string, contentType string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	case "":
		return strings.HasPrefix(contentType, "text/html")
	}
	return false
}

func (s *HTMLSource) Extract(r io.Reader) (string, model.SourceInfo, error) {
	info := model.SourceInfo{Confidence: 1, Format: "html"}

	// meta charset and BOM decide the encoding
	decoded, err := charset.NewReader(r, "text/html")
	if err != nil {
		return "", info, fmt.Errorf("detect charset: %w", err)
	}
	doc, err := html.Parse(decoded)
	if err != nil {
		return "", info, fmt.Errorf("parse html: %w", err)
	}
	return visibleText(doc), info, nil
}

var skippedElements = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true,
	"iframe": true, "template": true, "svg": true,
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "section": true, "article": true, "header": true,
	"footer": true, "blockquote": true, "pre": true, "hr": true,
}

// visibleText extracts rendered text, one line per block element
func visibleText(root *html.Node) string {
	var w textWriter

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if skippedElements[n.Data] {
				return
			}
		case html.TextNode:
			w.text(n.Data)
			return
		case html.CommentNode:
			return
		}

		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			w.newline()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		switch {
		case block:
			w.newline()
		case n.Data == "td" || n.Data == "th":
			w.space = true
		}
	}

	walk(root)
	return strings.TrimSpace(w.b.String())
}

// textWriter joins text runs with single spaces and never emits blank lines
type textWriter struct {
	b     strings.Builder
	space bool
}

func (w *textWriter) atLineStart() bool {
	s := w.b.String()
	return s == "" || s[len(s)-1] == '\n'
}

func (w *textWriter) text(s string) {
	words := strings.Fields(s)
	if len(words) == 0 {
		if s != "" {
			w.space = true
		}
		return
	}

	first, _ := utf8.DecodeRuneInString(s)
	if (w.space || unicode.IsSpace(first)) && !w.atLineStart() {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(strings.Join(words, " "))

	last, _ := utf8.DecodeLastRuneInString(s)
	w.space = unicode.IsSpace(last)
}

func (w *textWriter) newline() {
	if !w.atLineStart() {
		w.b.WriteByte('\n')
	}
	w.space = false
}
