package transforms

import (
	"bytes"
	"fmt"

	"git.home.luguber.info/inful/sitegarden/internal/markdown"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// LatexOptions configures the Latex transformer.
type LatexOptions struct {
	RenderEngine string            `yaml:"renderEngine"`
	CustomMacros map[string]string `yaml:"customMacros"`
}

// Latex protects $…$ and $$…$$ math outside code from Markdown parsing by
// turning it into escaped placeholders the client-side engine renders.
type Latex struct {
	opts LatexOptions
}

func defaultLatexOptions() LatexOptions {
	return LatexOptions{RenderEngine: "katex"}
}

// NewLatex builds the transformer from raw options.
func NewLatex(raw plugin.Options) (plugin.Plugin, error) {
	opts := defaultLatexOptions()
	if err := raw.Decode("Latex", &opts); err != nil {
		return nil, err
	}
	if err := plugin.Enum("Latex", "renderEngine", opts.RenderEngine, "katex", "mathjax"); err != nil {
		return nil, err
	}
	return &Latex{opts: opts}, nil
}

// LatexRegistration registers Latex.
func LatexRegistration() plugin.Registration {
	return plugin.Registration{
		Name:        "Latex",
		Stage:       plugin.StageTransformer,
		Description: "Marks inline and display math for KaTeX or MathJax",
		Defaults:    func() any { return defaultLatexOptions() },
		New:         NewLatex,
	}
}

func (l *Latex) Name() string { return "Latex" }

// errUnbalancedMath marks a $$ without a closing delimiter.
type errUnbalancedMath struct{ offset int }

func (e errUnbalancedMath) Error() string {
	return fmt.Sprintf("unbalanced $$ math delimiter at byte %d", e.offset)
}

func (l *Latex) Transform(pc *plugin.Context, p *page.Page) error {
	src := p.Body()
	var bad error
	found := false

	out, err := markdown.RewriteProse(src, markdown.ScanOptions{}, func(seg []byte, offset int) []markdown.Edit {
		edits, perr := mathEdits(seg, offset)
		if perr != nil && bad == nil {
			bad = perr
		}
		found = found || len(edits) > 0
		return edits
	})
	if err != nil {
		return err
	}
	if bad != nil {
		pc.Warn(p, "math left unrendered: %v", bad)
		return nil
	}
	if !found {
		return nil
	}

	p.SetBody(out)
	p.Metadata.Set(page.KeyMath, l.opts.RenderEngine)
	if len(l.opts.CustomMacros) > 0 {
		p.Metadata.Set("mathMacros", l.opts.CustomMacros)
	}
	return nil
}

// mathEdits finds display math first, then inline math between the
// display blocks. A backslash-escaped $ is literal.
func mathEdits(seg []byte, offset int) ([]markdown.Edit, error) {
	var edits []markdown.Edit
	i := 0
	for i < len(seg) {
		j := indexUnescaped(seg, i, "$")
		if j < 0 {
			break
		}
		if j+1 < len(seg) && seg[j+1] == '$' {
			end := indexUnescaped(seg, j+2, "$$")
			if end < 0 {
				return nil, errUnbalancedMath{offset: offset + j}
			}
			tex := bytes.TrimSpace(seg[j+2 : end])
			edits = append(edits, markdown.Replace(offset+j, offset+end+2, mathSpan("math-display", `\[`, tex, `\]`)))
			i = end + 2
			continue
		}
		end, ok := inlineMathEnd(seg, j)
		if !ok {
			i = j + 1
			continue
		}
		edits = append(edits, markdown.Replace(offset+j, offset+end+1, mathSpan("math-inline", `\(`, seg[j+1:end], `\)`)))
		i = end + 1
	}
	return edits, nil
}

// inlineMathEnd finds the closing $ of inline math opened at start. The
// content must not start or end with whitespace or span lines, and the
// closing $ must not be followed by a digit ("$5 and $6").
func inlineMathEnd(seg []byte, start int) (int, bool) {
	if start+1 >= len(seg) || isSpace(seg[start+1]) {
		return 0, false
	}
	for k := start + 1; k < len(seg); k++ {
		switch seg[k] {
		case '\n':
			return 0, false
		case '$':
			if seg[k-1] == '\\' {
				continue
			}
			if k == start+1 || isSpace(seg[k-1]) {
				return 0, false
			}
			if k+1 < len(seg) && seg[k+1] >= '0' && seg[k+1] <= '9' {
				return 0, false
			}
			return k, true
		}
	}
	return 0, false
}

func indexUnescaped(s []byte, from int, sep string) int {
	for from <= len(s) {
		k := bytes.Index(s[from:], []byte(sep))
		if k < 0 {
			return -1
		}
		k += from
		if k > 0 && s[k-1] == '\\' {
			from = k + 1
			continue
		}
		return k
	}
	return -1
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// mathSpan wraps TeX in a span. Every ASCII punctuation byte and newline is
// written as a numeric character reference so that Markdown leaves the TeX
// alone and the output keeps the original characters.
func mathSpan(class, open string, tex []byte, closing string) string {
	var b bytes.Buffer
	b.WriteString(`<span class="math ` + class + `">`)
	for _, part := range [][]byte{[]byte(open), tex, []byte(closing)} {
		for _, c := range part {
			if c == '\n' || (c < 0x80 && isPunct(c)) {
				fmt.Fprintf(&b, "&#%d;", c)
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteString("</span>")
	return b.String()
}

func isPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}
