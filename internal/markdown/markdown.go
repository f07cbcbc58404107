// Package markdown wraps goldmark for parsing and rendering note bodies and
// provides prose-only scanning for text-level rewrites.
package markdown

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Options selects goldmark extensions and renderer behavior for one page.
// Transformers flip these switches; the zero value is plain CommonMark.
type Options struct {
	GFM         bool
	Typographer bool
	HardWraps   bool
	HeadingIDs  bool
}

// New builds a goldmark instance for the options. Raw HTML is always passed
// through because text-level transformers inject inline markup.
func New(opts Options) goldmark.Markdown {
	var exts []goldmark.Extender
	if opts.GFM {
		exts = append(exts, extension.GFM)
	}
	if opts.Typographer {
		exts = append(exts, extension.Typographer)
	}

	var parserOpts []parser.Option
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	rendererOpts := []goldmark.Option{}
	htmlOpts := []renderer.Option{html.WithUnsafe()}
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	rendererOpts = append(rendererOpts,
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(htmlOpts...),
	)
	return goldmark.New(rendererOpts...)
}

// Parse parses a Markdown body (frontmatter already removed) into a goldmark AST.
func Parse(source []byte, opts Options) gmast.Node {
	return New(opts).Parser().Parse(text.NewReader(source))
}

// Render writes the HTML for an already parsed document. The document is not modified.
func Render(w io.Writer, source []byte, doc gmast.Node, opts Options) error {
	return New(opts).Renderer().Render(w, source, doc)
}

// RenderHTML renders doc into a byte slice.
func RenderHTML(source []byte, doc gmast.Node, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, source, doc, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Heading is a heading found in a parsed document.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Headings lists headings in document order. ID is empty unless the document
// was parsed with HeadingIDs.
func Headings(doc gmast.Node, source []byte) []Heading {
	var out []Heading
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		heading := Heading{Level: h.Level, Text: PlainText(h, source)}
		if id, ok := h.AttributeString("id"); ok {
			switch v := id.(type) {
			case []byte:
				heading.ID = string(v)
			case string:
				heading.ID = v
			}
		}
		out = append(out, heading)
		return gmast.WalkSkipChildren, nil
	})
	return out
}

// PlainText concatenates the text content below n.
func PlainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		case *gmast.CodeSpan:
			for ch := t.FirstChild(); ch != nil; ch = ch.NextSibling() {
				if txt, ok := ch.(*gmast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
