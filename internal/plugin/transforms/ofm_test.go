package transforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

func applyOFM(t *testing.T, rel, content string, opts plugin.Options) *page.Page {
	t.Helper()
	pc, _ := newTestContext()
	p := newTestPage(rel, content)
	run(t, pc, p, withOptions(NewObsidianFlavoredMarkdown, opts))
	return p
}

func TestOFM_Rewrites(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"comment", "keep %%hidden%% this\n", "keep  this\n"},
		{"multiline comment", "a %%one\ntwo%% b\n", "a  b\n"},
		{"highlight", "a ==marked== b\n", "a <mark>marked</mark> b\n"},
		{"wikilink", "see [[Other Note]]\n", "see [Other Note](<Other Note>)\n"},
		{"wikilink alias and anchor", "see [[Other#Part Two|there]]\n", "see [there](<Other#Part Two>)\n"},
		{"image embed", "![[pics/cat.png]]\n", "![](<pics/cat.png>)\n"},
		{"note embed becomes link", "![[Other]]\n", "[Other](<Other>)\n"},
		{"arrow", "a -> b <= c\n", "a &rarr; b &lArr; c\n"},
		{"code untouched", "`==x== [[y]]`\n```\n%%z%%\n```\n", "`==x== [[y]]`\n```\n%%z%%\n```\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := applyOFM(t, "note.md", tt.in, plugin.Options{"parseTags": false})
			assert.Equal(t, tt.want, string(p.Body()))
		})
	}
}

func TestOFM_Callouts(t *testing.T) {
	p := applyOFM(t, "note.md", "> [!faq]- Why?\n> Because.\n\n> [!note]\n> body\n", nil)
	body := string(p.Body())
	assert.Contains(t, body, `> <span class="callout-title" data-callout="question" data-callout-fold="closed">Why?</span>`)
	assert.Contains(t, body, `> <span class="callout-title" data-callout="note">Note</span>`)
}

func TestOFM_InlineTagsMergeWithFrontmatterTags(t *testing.T) {
	pc, _ := newTestContext()
	p := newTestPage("notes/day.md", "---\ntags: [journal]\n---\nToday #garden/roses and #journal, not #123 or a#b.\n")
	run(t, pc, p, NewFrontMatter, NewObsidianFlavoredMarkdown)

	assert.Equal(t, []string{"journal", "garden/roses"}, p.Tags())
	body := string(p.Body())
	assert.Contains(t, body, `<a href="../tags/garden/roses" class="tag-link">#garden/roses</a>`)
	assert.Contains(t, body, "not #123 or a#b.")
}

func TestOFM_HTMLEmbedsRespectOption(t *testing.T) {
	content := "<div>\n==x==\n</div>\n"
	assert.Equal(t, content, string(applyOFM(t, "a.md", content, nil).Body()))
	assert.Contains(t, string(applyOFM(t, "a.md", content, plugin.Options{"enableInHtmlEmbed": true}).Body()), "<mark>x</mark>")
}

func TestOFM_DisabledFeatures(t *testing.T) {
	content := "==x== [[y]] %%z%%\n"
	p := applyOFM(t, "a.md", content, plugin.Options{"highlight": false, "wikilinks": false, "comments": false})
	assert.Equal(t, content, string(p.Body()))

	_, err := NewObsidianFlavoredMarkdown(plugin.Options{"mermaid": true})
	require.Error(t, err)
}
