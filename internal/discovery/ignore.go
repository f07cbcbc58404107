package discovery

import (
	"path"
	"strings"
)

// Matcher decides whether a content-relative path is excluded by the
// configured ignore patterns.
//
// A pattern matches a path when it equals the path, names one of its parent
// directories, or matches the whole path or any single segment with
// path.Match syntax. "private" therefore excludes "private/x.md" and
// "notes/private", and "*.tmp" excludes "a/b.tmp".
type Matcher struct {
	patterns []string
}

// NewMatcher builds a matcher. Empty patterns are dropped and trailing
// slashes ignored.
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p != "" {
			m.patterns = append(m.patterns, p)
		}
	}
	return m
}

// Match reports whether rel (slash separated) is ignored.
func (m *Matcher) Match(rel string) bool {
	rel = strings.Trim(rel, "/")
	if rel == "" || rel == "." {
		return false
	}
	segments := strings.Split(rel, "/")
	for _, p := range m.patterns {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
		if ok, _ := path.Match(p, rel); ok {
			return true
		}
		if strings.Contains(p, "/") {
			continue
		}
		for _, seg := range segments {
			if ok, _ := path.Match(p, seg); ok {
				return true
			}
		}
	}
	return false
}
