package page

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegarden/internal/markdown"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"index.md", "index"},
		{"notes/Hello World.md", "notes/Hello-World"},
		{"a & b.md", "a--and--b"},
		{"100%.md", "100-percent"},
		{"what?#.md", "what"},
		{"folder/_index.md", "folder/index"},
		{"./x/y.markdown", "x/y"},
		{"page.html", "page"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyAssetKeepsExtension(t *testing.T) {
	assert.Equal(t, "img/My-Photo.png", SlugifyAsset("img/My Photo.png"))
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, ".", PathToRoot("index"))
	assert.Equal(t, "..", PathToRoot("notes/a"))
	assert.Equal(t, "../..", PathToRoot("a/b/c"))

	assert.Equal(t, "", Folder("a"))
	assert.Equal(t, "a/b", Folder("a/b/c"))

	assert.True(t, IsIndex("index"))
	assert.True(t, IsIndex("notes/index"))
	assert.False(t, IsIndex("notes/reindex"))
}

func TestRelativeURL(t *testing.T) {
	tests := []struct {
		from, target, want string
	}{
		{"index", "notes/a", "./notes/a"},
		{"notes/a", "notes/b", "../notes/b"},
		{"notes/a", "index", "../"},
		{"index", "index", "./"},
		{"a/b/c", "tags/x", "../../tags/x"},
		{"notes/a", "notes/index", "../notes/"},
		{"index", "/static/contentIndex.json", "./static/contentIndex.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeURL(tt.from, tt.target), "%s -> %s", tt.from, tt.target)
	}
}

func TestMetadataAccessors(t *testing.T) {
	m := NewMetadata()
	m.Set(KeyDraft, "True")
	m.Set(KeyTags, []any{"a", 3, "b"})
	m.Set(KeyTitle, "Hello")
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	m.Set(KeyCreated, day)

	assert.True(t, m.Bool(KeyDraft))
	assert.False(t, m.Bool("missing"))
	assert.Equal(t, []string{"a", "b"}, m.Strings(KeyTags))
	assert.Equal(t, "Hello", m.String(KeyTitle))
	got, ok := m.Time(KeyCreated)
	require.True(t, ok)
	assert.Equal(t, day, got)
	assert.Equal(t, []string{KeyCreated, KeyDraft, KeyTags, KeyTitle}, m.Keys())
}

func TestFrozenPagePanicsOnMutation(t *testing.T) {
	p := New("/c/a.md", "a.md", []byte("# A\n"), time.Time{})
	p.Metadata.Set(KeyTitle, "A")
	p.Freeze()

	assert.PanicsWithValue(t, ErrFrozen, func() { p.Metadata.Set(KeyTitle, "B") })
	assert.PanicsWithValue(t, ErrFrozen, func() { p.SetBody([]byte("x")) })
	assert.PanicsWithValue(t, ErrFrozen, func() {
		p.ConfigureMarkdown(func(o *markdown.Options) { o.GFM = true })
	})
	assert.Equal(t, "A", p.Title())
}

func TestFrozenMetadataHandsOutCopies(t *testing.T) {
	p := New("/c/a.md", "a.md", []byte("# A\n"), time.Time{})
	p.Metadata.Set(KeyFrontmatter, map[string]any{"title": "A", "nested": map[string]any{"k": []any{"v"}}})
	p.Metadata.Set(KeyTags, []string{"x"})
	p.Metadata.Set(KeyTOC, []TOCEntry{{Depth: 1, Text: "A", Slug: "a"}})

	before, _ := p.Metadata.Get(KeyFrontmatter)
	before.(map[string]any)["title"] = "changed before freeze"
	p.Metadata.Set(KeyFrontmatter, before)
	p.Freeze()

	fm, ok := p.Metadata.Get(KeyFrontmatter)
	require.True(t, ok)
	fm.(map[string]any)["title"] = "HACKED"
	fm.(map[string]any)["nested"].(map[string]any)["k"].([]any)[0] = "HACKED"
	p.Metadata.Strings(KeyTags)[0] = "HACKED"
	toc, _ := p.Metadata.Get(KeyTOC)
	toc.([]TOCEntry)[0].Text = "HACKED"

	again, _ := p.Metadata.Get(KeyFrontmatter)
	assert.Equal(t, map[string]any{
		"title":  "changed before freeze",
		"nested": map[string]any{"k": []any{"v"}},
	}, again)
	assert.Equal(t, []string{"x"}, p.Metadata.Strings(KeyTags))
	toc, _ = p.Metadata.Get(KeyTOC)
	assert.Equal(t, "A", toc.([]TOCEntry)[0].Text)
}

func TestTreeReparsesAfterChanges(t *testing.T) {
	p := New("/c/notes/b.md", "notes/b.md", []byte("~~x~~\n"), time.Time{})
	assert.Equal(t, "notes/b", p.Slug)
	assert.Equal(t, "b", p.Title())

	html, err := p.RenderHTML()
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<del>")

	p.ConfigureMarkdown(func(o *markdown.Options) { o.GFM = true })
	html, err = p.RenderHTML()
	require.NoError(t, err)
	assert.Contains(t, string(html), "<del>x</del>")

	p.SetBody([]byte("# Title\n"))
	html, err = p.RenderHTML()
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>Title</h1>")
}
