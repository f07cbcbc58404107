package transforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

func TestLatex_InlineAndDisplay(t *testing.T) {
	pc, diags := newTestContext()
	p := newTestPage("m.md", "Euler: $e^{i\\pi} + 1 = 0$ costs $5 and $6.\n\n$$\na_1 * b_2\n$$\n\n`$not math$`\n")

	run(t, pc, p, NewLatex)
	assert.Zero(t, diags.Len())
	assert.Equal(t, "katex", p.Metadata.String(page.KeyMath))

	html, err := p.RenderHTML()
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, `<span class="math math-inline">\(e^{i\pi} + 1 = 0\)</span>`)
	assert.Contains(t, out, `<span class="math math-display">\[a_1 * b_2\]</span>`)
	assert.Contains(t, out, "costs $5 and $6.")
	assert.Contains(t, out, "<code>$not math$</code>")
}

func TestLatex_UnbalancedDisplayMathPassesThrough(t *testing.T) {
	pc, diags := newTestContext()
	content := "start $x$ and $$ never closed\n"
	p := newTestPage("m.md", content)

	run(t, pc, p, NewLatex)
	assert.Equal(t, content, string(p.Body()))
	assert.False(t, p.Metadata.Has(page.KeyMath))
	require.Equal(t, 1, diags.Len())
	assert.Contains(t, diags.List()[0].Message, "unbalanced")
}

func TestLatex_NoMathLeavesPageUntouched(t *testing.T) {
	pc, _ := newTestContext()
	p := newTestPage("m.md", "plain $ sign\n")
	run(t, pc, p, NewLatex)
	assert.Equal(t, "plain $ sign\n", string(p.Body()))
	assert.Empty(t, p.Metadata.Keys())
}

func TestLatex_Options(t *testing.T) {
	inst, err := NewLatex(plugin.Options{"renderEngine": "mathjax"})
	require.NoError(t, err)
	pc, _ := newTestContext()
	p := newTestPage("m.md", "$x$\n")
	require.NoError(t, inst.(plugin.Transformer).Transform(pc, p))
	assert.Equal(t, "mathjax", p.Metadata.String(page.KeyMath))

	_, err = NewLatex(plugin.Options{"renderEngine": "typst"})
	require.Error(t, err)
}
