package transforms

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// DescriptionOptions configures Description.
type DescriptionOptions struct {
	DescriptionLength int `yaml:"descriptionLength"`
}

// Description derives a short summary from the rendered page text unless
// the frontmatter provided one.
type Description struct {
	opts DescriptionOptions
}

func defaultDescriptionOptions() DescriptionOptions {
	return DescriptionOptions{DescriptionLength: 150}
}

// NewDescription builds the transformer from raw options.
func NewDescription(raw plugin.Options) (plugin.Plugin, error) {
	opts := defaultDescriptionOptions()
	if err := raw.Decode("Description", &opts); err != nil {
		return nil, err
	}
	if opts.DescriptionLength < 1 {
		return nil, plugin.InvalidOption("Description", "descriptionLength", "descriptionLength must be positive")
	}
	return &Description{opts: opts}, nil
}

// DescriptionRegistration registers Description.
func DescriptionRegistration() plugin.Registration {
	return plugin.Registration{
		Name:        "Description",
		Stage:       plugin.StageTransformer,
		Description: "Derives a page description from its text",
		Defaults:    func() any { return defaultDescriptionOptions() },
		New:         NewDescription,
	}
}

func (d *Description) Name() string { return "Description" }

func (d *Description) Transform(_ *plugin.Context, p *page.Page) error {
	rendered, err := p.RenderHTML()
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rendered))
	if err != nil {
		return err
	}
	doc.Find("script, style, svg").Remove()
	text := strings.Join(strings.Fields(doc.Text()), " ")
	p.Metadata.Set(page.KeyText, text)

	if p.Metadata.String(page.KeyDescription) != "" {
		return nil
	}
	p.Metadata.Set(page.KeyDescription, Summarize(text, d.opts.DescriptionLength))
	return nil
}

// Summarize returns whole sentences of text until at least limit runes are
// collected. A first sentence longer than limit is cut at a word boundary
// and ends with an ellipsis.
func Summarize(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	var b strings.Builder
	for _, sentence := range splitSentences(text) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
		if utf8.RuneCountInString(b.String()) >= limit {
			break
		}
	}
	out := b.String()
	if utf8.RuneCountInString(out) <= limit*2 {
		return out
	}

	var words strings.Builder
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(words.String())+utf8.RuneCountInString(w)+1 > limit {
			break
		}
		if words.Len() > 0 {
			words.WriteByte(' ')
		}
		words.WriteString(w)
	}
	return words.String() + "..."
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 == len(text) || text[i+1] == ' ' {
				out = append(out, strings.TrimSpace(text[start:i+1]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}
