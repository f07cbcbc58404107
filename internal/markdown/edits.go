package markdown

import (
	"errors"
	"fmt"
	"slices"
)

// Edit represents a byte-range replacement in a body.
//
// Start and End are byte offsets into the original source, End exclusive.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// Replace is shorthand for an Edit replacing source[start:end] with s.
func Replace(start, end int, s string) Edit {
	return Edit{Start: start, End: end, Replacement: []byte(s)}
}

// ApplyEdits applies non-overlapping edits, given as offsets into the original
// source, and returns the updated content. The source is never modified.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b Edit) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(source) {
			return nil, fmt.Errorf("invalid edit[%d]: range %d..%d outside 0..%d", i, e.Start, e.End, len(source))
		}
		if i > 0 && e.Start < sorted[i-1].End {
			return nil, errors.New("invalid edits: overlapping ranges")
		}
	}

	out := make([]byte, 0, len(source))
	last := 0
	for _, e := range sorted {
		out = append(out, source[last:e.Start]...)
		out = append(out, e.Replacement...)
		last = e.End
	}
	out = append(out, source[last:]...)
	return out, nil
}
