package transforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

func crawl(t *testing.T, content string, opts plugin.Options, slugs ...string) (*page.Page, string) {
	t.Helper()
	pc, _ := newTestContext(slugs...)
	p := newTestPage("notes/day.md", content)
	run(t, pc, p, withOptions(NewCrawlLinks, opts))
	out, err := p.RenderHTML()
	require.NoError(t, err)
	return p, string(out)
}

func TestCrawlLinks_Resolution(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		opts     plugin.Options
		slugs    []string
		wantHref string
		wantSlug string
	}{
		{"absolute default", "other/page.md", nil, nil, "../other/page", "other/page"},
		{"root prefix", "/root.md", nil, nil, "../root", "root"},
		{"dot relative", "./sibling.md", nil, nil, "../notes/sibling", "notes/sibling"},
		{"relative mode", "sibling", plugin.Options{"markdownLinkResolution": "relative"}, nil, "../notes/sibling", "notes/sibling"},
		{"folder", "sub/", nil, nil, "../sub/", "sub/index"},
		{"anchor kept", "other.md#Deep-Dive", nil, nil, "../other#deep-dive", "other"},
		{"shortest unique", "target", plugin.Options{"markdownLinkResolution": "shortest"}, []string{"deep/dir/target", "notes/day"}, "../deep/dir/target", "deep/dir/target"},
		{"shortest ambiguous", "target", plugin.Options{"markdownLinkResolution": "shortest"}, []string{"a/target", "b/target"}, "../target", "target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := crawl(t, "[go]("+tt.link+")\n", tt.opts, tt.slugs...)
			assert.Contains(t, out, `<a href="`+tt.wantHref+`" class="internal" data-slug="`+tt.wantSlug+`">go</a>`)
			assert.Equal(t, []string{tt.wantSlug}, p.Metadata.Strings(page.KeyLinks))
		})
	}
}

func TestCrawlLinks_SamePageAnchorAndEscapes(t *testing.T) {
	p, out := crawl(t, "[up](#Top-Part) [out](../../escape.md) [mail](mailto:a@b.c)\n", nil)
	assert.Contains(t, out, `<a href="#top-part" class="internal">up</a>`)
	assert.Contains(t, out, `<a href="../../escape.md">out</a>`)
	assert.Contains(t, out, `<a href="mailto:a@b.c" class="external">mail`)
	assert.Empty(t, p.Metadata.Strings(page.KeyLinks))
}

func TestCrawlLinks_External(t *testing.T) {
	p, out := crawl(t, "[site](https://example.com) and <https://go.dev>\n",
		plugin.Options{"openLinksInNewTab": true, "externalLinkIcon": false})
	assert.Contains(t, out, `<a href="https://example.com" class="external" target="_blank" rel="noopener noreferrer">site</a>`)
	assert.Equal(t, []string{"https://example.com", "https://go.dev"}, p.Metadata.Strings(page.KeyExternalLinks))

	_, out = crawl(t, "[site](https://example.com)\n", nil)
	assert.Contains(t, out, `site<svg aria-hidden="true" class="external-icon"`)
}

func TestCrawlLinks_PrettyLinks(t *testing.T) {
	_, out := crawl(t, "[a/b/c.md](a/b/c.md)\n", nil)
	assert.Contains(t, out, `data-slug="a/b/c">c</a>`)

	_, out = crawl(t, "[a/b/c.md](a/b/c.md)\n", plugin.Options{"prettyLinks": false})
	assert.Contains(t, out, `data-slug="a/b/c">a/b/c.md</a>`)
}

func TestCrawlLinks_Images(t *testing.T) {
	_, out := crawl(t, "![cat](img/cat.png) ![remote](https://x.org/a.png)\n", plugin.Options{"lazyLoad": true})
	assert.Contains(t, out, `<img src="../img/cat.png" alt="cat" loading="lazy">`)
	assert.Contains(t, out, `<img src="https://x.org/a.png" alt="remote" loading="lazy">`)
}

func TestCrawlLinks_RawHTMLIsRecordedNotRewritten(t *testing.T) {
	p, out := crawl(t, "see <a href=\"./raw.md\">raw</a>\n\n<div><img src=\"/pics/p.png\"><a href=\"https://x.org\">x</a></div>\n", nil)
	assert.Contains(t, out, `<a href="./raw.md">raw</a>`)
	assert.Equal(t, []string{"notes/raw", "pics/p.png"}, p.Metadata.Strings(page.KeyLinks))
}

func TestCrawlLinks_InvalidResolution(t *testing.T) {
	_, err := NewCrawlLinks(plugin.Options{"markdownLinkResolution": "nearest"})
	require.Error(t, err)
}
