package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML_Options(t *testing.T) {
	src := []byte("line one\nline two\n\n~~gone~~\n")

	plain, err := RenderHTML(src, Parse(src, Options{}), Options{})
	require.NoError(t, err)
	assert.Contains(t, string(plain), "line one\nline two")
	assert.Contains(t, string(plain), "~~gone~~")

	opts := Options{GFM: true, HardWraps: true}
	rich, err := RenderHTML(src, Parse(src, opts), opts)
	require.NoError(t, err)
	assert.Contains(t, string(rich), "line one<br>")
	assert.Contains(t, string(rich), "<del>gone</del>")
}

func TestRenderHTML_PassesRawHTML(t *testing.T) {
	src := []byte("a <mark>b</mark> c\n")
	out, err := RenderHTML(src, Parse(src, Options{}), Options{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<mark>b</mark>")
}

func TestHeadings(t *testing.T) {
	src := []byte("# Title\n\ntext\n\n## Sub *part*\n\n### `code` head\n")

	hs := Headings(Parse(src, Options{HeadingIDs: true}), src)
	require.Len(t, hs, 3)
	assert.Equal(t, Heading{Level: 1, Text: "Title", ID: "title"}, hs[0])
	assert.Equal(t, 2, hs[1].Level)
	assert.Equal(t, "Sub part", hs[1].Text)
	assert.Equal(t, "code head", hs[2].Text)

	noIDs := Headings(Parse(src, Options{}), src)
	assert.Empty(t, noIDs[0].ID)
}

func TestPlainText(t *testing.T) {
	src := []byte("Hello **bold** text\nworld [link](x)\n")
	doc := Parse(src, Options{})
	assert.Equal(t, "Hello bold text world link", PlainText(doc, src))
}
