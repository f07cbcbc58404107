package transforms

import (
	"fmt"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitegarden/internal/frontmatter"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// FrontMatterOptions configures the FrontMatter transformer.
type FrontMatterOptions struct {
	Delimiters string `yaml:"delimiters"`
	Language   string `yaml:"language"`
}

// FrontMatter splits the YAML block off the body and normalizes the
// well-known fields into page metadata.
type FrontMatter struct {
	opts FrontMatterOptions
}

func defaultFrontMatterOptions() FrontMatterOptions {
	return FrontMatterOptions{Delimiters: frontmatter.DefaultDelimiter, Language: "yaml"}
}

// NewFrontMatter builds the transformer from raw options.
func NewFrontMatter(raw plugin.Options) (plugin.Plugin, error) {
	opts := defaultFrontMatterOptions()
	if err := raw.Decode("FrontMatter", &opts); err != nil {
		return nil, err
	}
	if err := plugin.Enum("FrontMatter", "language", opts.Language, "yaml"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Delimiters) == "" {
		return nil, plugin.InvalidOption("FrontMatter", "delimiters", "delimiter must not be empty")
	}
	return &FrontMatter{opts: opts}, nil
}

// FrontMatterRegistration registers FrontMatter.
func FrontMatterRegistration() plugin.Registration {
	return plugin.Registration{
		Name:        "FrontMatter",
		Stage:       plugin.StageTransformer,
		Description: "Parses YAML frontmatter into page metadata",
		Defaults:    func() any { return defaultFrontMatterOptions() },
		New:         NewFrontMatter,
	}
}

func (f *FrontMatter) Name() string { return "FrontMatter" }

func (f *FrontMatter) Transform(pc *plugin.Context, p *page.Page) error {
	doc, err := frontmatter.Parse(p.Body(), f.opts.Delimiters)
	if err != nil {
		pc.Warn(p, "frontmatter ignored: %v", err)
	}
	if doc.Had && err == nil {
		p.SetBody(doc.Body)
	}

	fields := doc.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	md := p.Metadata
	md.Set(page.KeyFrontmatter, fields)
	// The body as authored, before later transformers rewrite it.
	md.Set(page.KeySourceBody, string(doc.Body))

	if title := scalarString(fields["title"]); title != "" {
		md.Set(page.KeyTitle, title)
	} else {
		md.Set(page.KeyTitle, p.Title())
	}

	if tags := normalizeTags(coalesce(fields, "tags", "tag")); len(tags) > 0 {
		md.Set(page.KeyTags, tags)
	}
	if aliases := page.ToStrings(coalesce(fields, "aliases", "alias")); len(aliases) > 0 {
		md.Set(page.KeyAliases, aliases)
	}
	if classes := page.ToStrings(coalesce(fields, "cssclasses", "cssclass")); len(classes) > 0 {
		md.Set(page.KeyCSSClasses, classes)
	}
	if v, ok := fields["draft"]; ok {
		md.Set(page.KeyDraft, page.Truthy(v))
	}
	if v, ok := fields["publish"]; ok {
		md.Set(page.KeyPublish, page.Truthy(v))
	}
	if v, ok := fields["enableToc"]; ok {
		md.Set(page.KeyEnableTOC, page.Truthy(v))
	}
	if d := scalarString(fields["description"]); d != "" {
		md.Set(page.KeyDescription, d)
	}
	return nil
}

func coalesce(fields map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := fields[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// scalarString renders scalar YAML values (strings, numbers, booleans) as text.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case int, int64, float64, bool:
		return fmt.Sprint(t)
	}
	return ""
}

// normalizeTags accepts a list or a comma separated string and returns
// slugified tags without duplicates, in first-seen order.
func normalizeTags(v any) []string {
	var raw []string
	if s, ok := v.(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = page.ToStrings(v)
	}
	var out []string
	for _, t := range raw {
		tag := page.SlugifyTag(strings.TrimSpace(t))
		if tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}
