package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher(t *testing.T) {
	m := NewMatcher([]string{"private", "templates/", "*.tmp", "notes/secret*", "  ", ""})

	tests := []struct {
		path string
		want bool
	}{
		{"private", true},
		{"private/x.md", true},
		{"notes/private", true},
		{"notes/private/x.md", true},
		{"templates/page.md", true},
		{"a/b.tmp", true},
		{"notes/secret-plans.md", true},
		{"other/secret-plans.md", false},
		{"privateer.md", false},
		{"notes/public.md", false},
		{"", false},
		{".", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}

func TestMatcherEmpty(t *testing.T) {
	assert.False(t, NewMatcher(nil).Match("anything.md"))
}
