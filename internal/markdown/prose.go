package markdown

import (
	"bytes"
	"regexp"
)

// Segment is a byte range [Start, End) of a body holding prose: text outside
// fenced code, indented code and inline code spans.
type Segment struct {
	Start int
	End   int
}

// ScanOptions tunes which regions count as prose.
type ScanOptions struct {
	// SkipHTML excludes raw HTML blocks (a line opening with a tag up to the
	// next blank line).
	SkipHTML bool
}

var htmlBlockStart = regexp.MustCompile(`^ {0,3}<[A-Za-z/!?]`)

// ProseSegments returns the prose ranges of src in ascending order.
func ProseSegments(src []byte, opts ScanOptions) []Segment {
	var blocks []Segment
	var fence []byte
	inHTML := false
	prevBlank := true
	prevIndented := false
	blockStart := -1

	flush := func(end int) {
		if blockStart >= 0 && end > blockStart {
			blocks = append(blocks, Segment{Start: blockStart, End: end})
		}
		blockStart = -1
	}

	for off := 0; off < len(src); {
		lineEnd := bytes.IndexByte(src[off:], '\n')
		next := len(src)
		if lineEnd >= 0 {
			next = off + lineEnd + 1
		}
		line := src[off:next]
		trimmed := bytes.TrimLeft(line, " ")
		blank := len(bytes.TrimSpace(line)) == 0

		switch {
		case fence != nil:
			if isClosingFence(trimmed, fence) {
				fence = nil
			}
		case len(line)-len(trimmed) <= 3 && openingFence(trimmed) != nil:
			flush(off)
			fence = openingFence(trimmed)
		case inHTML:
			if blank {
				inHTML = false
			}
		case opts.SkipHTML && htmlBlockStart.Match(line):
			flush(off)
			inHTML = true
		case !blank && (prevBlank || prevIndented) && isIndentedCode(line):
			flush(off)
			prevIndented = true
			prevBlank = false
			off = next
			continue
		default:
			if blockStart < 0 {
				blockStart = off
			}
		}

		if fence != nil || inHTML {
			flush(off)
		}
		prevIndented = prevIndented && blank
		prevBlank = blank
		off = next
	}
	flush(len(src))

	var out []Segment
	for _, b := range blocks {
		out = append(out, splitCodeSpans(src, b)...)
	}
	return out
}

// RewriteProse calls fn for each prose segment and applies the returned
// edits, whose offsets are relative to the whole src.
func RewriteProse(src []byte, opts ScanOptions, fn func(seg []byte, offset int) []Edit) ([]byte, error) {
	var edits []Edit
	for _, s := range ProseSegments(src, opts) {
		edits = append(edits, fn(src[s.Start:s.End], s.Start)...)
	}
	return ApplyEdits(src, edits)
}

func openingFence(line []byte) []byte {
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(line) && line[n] == ch {
			n++
		}
		if n >= 3 {
			return line[:n]
		}
	}
	return nil
}

func isClosingFence(line, fence []byte) bool {
	if !bytes.HasPrefix(line, fence) {
		return false
	}
	rest := bytes.TrimLeft(line, string(fence[:1]))
	return len(bytes.TrimSpace(rest)) == 0
}

func isIndentedCode(line []byte) bool {
	return bytes.HasPrefix(line, []byte("    ")) || bytes.HasPrefix(line, []byte("\t"))
}

// splitCodeSpans removes backtick code spans from a block. An unmatched
// backtick run is literal text.
func splitCodeSpans(src []byte, block Segment) []Segment {
	var out []Segment
	start := block.Start
	i := block.Start
	for i < block.End {
		if src[i] != '`' {
			i++
			continue
		}
		run := 0
		for i+run < block.End && src[i+run] == '`' {
			run++
		}
		closeAt := findBacktickRun(src[i+run:block.End], run)
		if closeAt < 0 {
			i += run
			continue
		}
		if i > start {
			out = append(out, Segment{Start: start, End: i})
		}
		i = i + run + closeAt + run
		start = i
	}
	if block.End > start {
		out = append(out, Segment{Start: start, End: block.End})
	}
	return out
}

func findBacktickRun(s []byte, n int) int {
	for i := 0; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == '`' {
			j++
		}
		if j-i == n {
			return i
		}
		i = j
	}
	return -1
}
