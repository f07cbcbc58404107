package filters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

func pageWith(meta map[string]any) *page.Page {
	p := page.New("/content/a.md", "a.md", nil, time.Time{})
	for k, v := range meta {
		p.Metadata.Set(k, v)
	}
	return p
}

func TestRemoveDrafts(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
		keep bool
	}{
		{"no flag", nil, true},
		{"draft bool", map[string]any{page.KeyDraft: true}, false},
		{"draft string", map[string]any{page.KeyDraft: "true"}, false},
		{"draft false", map[string]any{page.KeyDraft: false}, true},
		{"raw frontmatter only", map[string]any{page.KeyFrontmatter: map[string]any{"draft": "yes"}}, false},
	}
	f, err := NewRemoveDrafts(nil)
	require.NoError(t, err)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keep, f.(plugin.Filter).Keep(pageWith(tt.meta)))
		})
	}
}

func TestExplicitPublish(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
		keep bool
	}{
		{"no flag", nil, false},
		{"publish bool", map[string]any{page.KeyPublish: true}, true},
		{"publish string", map[string]any{page.KeyPublish: "true"}, true},
		{"publish false", map[string]any{page.KeyPublish: false}, false},
	}
	f, err := NewExplicitPublish(nil)
	require.NoError(t, err)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keep, f.(plugin.Filter).Keep(pageWith(tt.meta)))
		})
	}
}

func TestFiltersRejectOptions(t *testing.T) {
	_, err := NewRemoveDrafts(plugin.Options{"strict": true})
	require.Error(t, err)
	_, err = NewExplicitPublish(plugin.Options{"strict": true})
	require.Error(t, err)
}

func TestRegistrations(t *testing.T) {
	r := plugin.NewRegistry().MustRegister(Registrations()...)
	assert.Len(t, r.ListByStage(plugin.StageFilter), 2)
}
