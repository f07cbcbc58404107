package emitters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

func TestFolderPage_OnlyFoldersWithoutIndex(t *testing.T) {
	pc, _ := testContext(nil)
	out := emit(t, pc, NewFolderPage, nil,
		frozenPage("index.md", "", nil),
		frozenPage("notes/a.md", "", nil),
		frozenPage("notes/sub/b.md", "", nil),
		frozenPage("docs/index.md", "", nil),
		frozenPage("docs/c.md", "", nil),
	)
	require.Equal(t, []string{"notes/index.html", "notes/sub/index.html"}, paths(out))

	notes := out["notes/index.html"]
	assert.Contains(t, notes, `<h1 class="article-title">Notes</h1>`)
	assert.Contains(t, notes, "2 items under this folder.")
	assert.Contains(t, notes, `<a href="../notes/a" class="internal">a</a>`)
	assert.Contains(t, notes, `<a href="../notes/sub/" class="internal">Sub</a>`)
	assert.Less(t, strings.Index(notes, `>a</a>`), strings.Index(notes, `>Sub</a>`))
}

func TestFolderPage_SortByDate(t *testing.T) {
	pc, _ := testContext(nil)
	out := emit(t, pc, NewFolderPage, plugin.Options{"sort": "date"},
		frozenPage("f/old.md", "", meta{page.KeyCreated: day(2020, 1, 1)}),
		frozenPage("f/undated.md", "", nil),
		frozenPage("f/new.md", "", meta{page.KeyCreated: day(2024, 1, 1)}),
	)
	html := out["f/index.html"]
	assert.Less(t, strings.Index(html, ">new</a>"), strings.Index(html, ">old</a>"))
	assert.Less(t, strings.Index(html, ">old</a>"), strings.Index(html, ">undated</a>"))

	_, err := NewFolderPage(plugin.Options{"sort": "size"})
	require.Error(t, err)
}

func TestTagPage(t *testing.T) {
	pc, _ := testContext(nil)
	out := emit(t, pc, NewTagPage, nil,
		frozenPage("one.md", "", meta{page.KeyTags: []string{"a/b"}}),
		frozenPage("two.md", "", meta{page.KeyTags: []string{"a", "c"}}),
		frozenPage("tags/c.md", "", nil),
	)
	require.Equal(t, []string{"tags/a.html", "tags/a/b.html", "tags/index.html"}, paths(out))

	assert.Contains(t, out["tags/a.html"], "2 items under this tag.")
	assert.Contains(t, out["tags/a/b.html"], `<a href="../../one" class="internal">one</a>`)
	index := out["tags/index.html"]
	assert.Contains(t, index, `<a href="../tags/a" class="internal">#a (2)</a>`)
	assert.Contains(t, index, `<a href="../tags/a/b" class="internal">#a/b (1)</a>`)
}

func TestTagPage_TagNamedIndex(t *testing.T) {
	pc, _ := testContext(nil)
	out := emit(t, pc, NewTagPage, nil, frozenPage("one.md", "", meta{page.KeyTags: []string{"index"}}))
	assert.Equal(t, []string{"tags/index.html"}, paths(out))
}

func TestTagPage_NoTags(t *testing.T) {
	pc, _ := testContext(nil)
	assert.Empty(t, emit(t, pc, NewTagPage, nil, frozenPage("one.md", "", nil)))
}

func TestAliasRedirects(t *testing.T) {
	pc, diags := testContext(nil)
	out := emit(t, pc, NewAliasRedirects, nil,
		frozenPage("notes/a.md", "", meta{
			page.KeyTitle:   "A",
			page.KeyAliases: []string{"old-a", "./rel.md", "../../out", "old-a", "b"},
		}),
		frozenPage("b.md", "", nil),
	)
	require.Equal(t, []string{"notes/rel.html", "old-a.html"}, paths(out))
	assert.Contains(t, out["old-a.html"], `<meta http-equiv="refresh" content="0; url=./notes/a">`)
	assert.Contains(t, out["notes/rel.html"], `<link rel="canonical" href="../notes/a">`)
	assert.Equal(t, 2, diags.Len())
}
