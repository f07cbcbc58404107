// Package frontmatter splits, parses and serializes the YAML block at the
// start of a Markdown note.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// DefaultDelimiter opens and closes a YAML frontmatter block.
const DefaultDelimiter = "---"

// Style records the newline convention detected in a note.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Document is a note split into its frontmatter fields and Markdown body.
type Document struct {
	Fields map[string]any
	Body   []byte
	Had    bool
	Style  Style
}

// Split separates YAML frontmatter from the Markdown body using the default delimiter.
//
// If the document does not start with a frontmatter delimiter, had is false
// and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	return SplitWith(content, DefaultDelimiter)
}

// SplitWith is Split with a custom delimiter line (e.g. "+++").
func SplitWith(content []byte, delim string) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)
	if delim == "" {
		delim = DefaultDelimiter
	}

	nl := style.Newline
	open := []byte(delim + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	frontmatterStart := len(open)
	closeLine := []byte(delim + nl)
	if bytes.HasPrefix(content[frontmatterStart:], closeLine) {
		bodyStart := frontmatterStart + len(closeLine)
		return []byte{}, content[bodyStart:], true, style, nil
	}

	closeSeq := []byte(nl + delim + nl)
	idx := bytes.Index(content[frontmatterStart:], closeSeq)
	if idx < 0 {
		// A closing delimiter at EOF without trailing newline is still valid.
		closeEOF := []byte(nl + delim)
		if bytes.HasSuffix(content, closeEOF) && len(content)-len(closeEOF) >= frontmatterStart {
			end := len(content) - len(closeEOF) + len(nl)
			return content[frontmatterStart:end], []byte{}, true, style, nil
		}
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	frontmatterEnd := frontmatterStart + idx + len(nl)
	bodyStart := frontmatterStart + idx + len(closeSeq)
	return content[frontmatterStart:frontmatterEnd], content[bodyStart:], true, style, nil
}

// Parse splits content and decodes the frontmatter block.
//
// On a missing closing delimiter or invalid YAML the returned Document holds
// the whole input as body with no fields, alongside the error, so callers can
// degrade to "no frontmatter".
func Parse(content []byte, delim string) (Document, error) {
	raw, body, had, style, err := SplitWith(content, delim)
	if err != nil {
		return Document{Fields: map[string]any{}, Body: content, Style: style}, err
	}
	if !had {
		return Document{Fields: map[string]any{}, Body: body, Style: style}, nil
	}

	fields, err := ParseYAML(raw)
	if err != nil {
		return Document{Fields: map[string]any{}, Body: content, Style: style}, err
	}
	return Document{Fields: fields, Body: body, Had: true, Style: style}, nil
}

// ParseYAML parses raw YAML frontmatter (without delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// ErrMissingClosingDelimiter indicates the document started with a frontmatter
// delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
