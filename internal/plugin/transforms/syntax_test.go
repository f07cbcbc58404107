package transforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

func TestSyntaxHighlighting_RecordsLanguagesAndTheme(t *testing.T) {
	pc, _ := newTestContext()
	p := newTestPage("code.md", "```Go\nfmt.Println()\n```\n\n```\nplain\n```\n\n~~~yaml\na: 1\n~~~\n\n```go\nx := 1\n```\n")
	run(t, pc, p, NewSyntaxHighlighting)

	assert.Equal(t, []string{"go", "yaml"}, p.Metadata.Strings(page.KeyCodeLanguages))
	v, ok := p.Metadata.Get(page.KeySyntaxTheme)
	require.True(t, ok)
	assert.Equal(t, SyntaxSettings{Theme: SyntaxTheme{Light: "github-light", Dark: "github-dark"}}, v)
}

func TestSyntaxHighlighting_NoCodeBlocks(t *testing.T) {
	pc, _ := newTestContext()
	p := newTestPage("prose.md", "just `inline` code\n")
	run(t, pc, p, NewSyntaxHighlighting)
	assert.False(t, p.Metadata.Has(page.KeySyntaxTheme))
	assert.False(t, p.Metadata.Has(page.KeyCodeLanguages))
}

func TestSyntaxHighlighting_Options(t *testing.T) {
	for _, theme := range []map[string]any{
		{"light": "solarized-light"},
		{"dark": "solarized-dark"},
		{},
	} {
		_, err := NewSyntaxHighlighting(plugin.Options{"theme": theme})
		require.Error(t, err, "theme %v", theme)
		assert.Contains(t, err.Error(), "both light and dark themes are required")
	}

	inst, err := NewSyntaxHighlighting(plugin.Options{
		"theme":          map[string]any{"light": "a", "dark": "b"},
		"keepBackground": true,
	})
	require.NoError(t, err)
	pc, _ := newTestContext()
	p := newTestPage("c.md", "```sh\nls\n```\n")
	require.NoError(t, inst.(plugin.Transformer).Transform(pc, p))
	v, _ := p.Metadata.Get(page.KeySyntaxTheme)
	assert.Equal(t, SyntaxSettings{Theme: SyntaxTheme{Light: "a", Dark: "b"}, KeepBackground: true}, v)
}
