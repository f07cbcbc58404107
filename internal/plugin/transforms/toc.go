package transforms

import (
	"fmt"
	"strings"
	"unicode"

	"git.home.luguber.info/inful/sitegarden/internal/markdown"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// TableOfContentsOptions configures TableOfContents.
type TableOfContentsOptions struct {
	MaxDepth          int  `yaml:"maxDepth"`
	MinEntries        int  `yaml:"minEntries"`
	ShowByDefault     bool `yaml:"showByDefault"`
	CollapseByDefault bool `yaml:"collapseByDefault"`
}

// TableOfContents collects the page headings up to MaxDepth into
// page.KeyTOC. Depths are normalized so the shallowest heading is 0.
type TableOfContents struct {
	opts TableOfContentsOptions
}

func defaultTOCOptions() TableOfContentsOptions {
	return TableOfContentsOptions{MaxDepth: 3, MinEntries: 1, ShowByDefault: true}
}

// NewTableOfContents builds the transformer from raw options.
func NewTableOfContents(raw plugin.Options) (plugin.Plugin, error) {
	opts := defaultTOCOptions()
	if err := raw.Decode("TableOfContents", &opts); err != nil {
		return nil, err
	}
	if opts.MaxDepth < 1 || opts.MaxDepth > 6 {
		return nil, plugin.InvalidOption("TableOfContents", "maxDepth", "maxDepth must be between 1 and 6")
	}
	if opts.MinEntries < 0 {
		return nil, plugin.InvalidOption("TableOfContents", "minEntries", "minEntries must not be negative")
	}
	return &TableOfContents{opts: opts}, nil
}

// TableOfContentsRegistration registers TableOfContents.
func TableOfContentsRegistration() plugin.Registration {
	return plugin.Registration{
		Name:        "TableOfContents",
		Stage:       plugin.StageTransformer,
		Description: "Builds a table of contents from headings",
		Defaults:    func() any { return defaultTOCOptions() },
		New:         NewTableOfContents,
	}
}

func (t *TableOfContents) Name() string { return "TableOfContents" }

func (t *TableOfContents) Transform(_ *plugin.Context, p *page.Page) error {
	enabled := t.opts.ShowByDefault
	if v, ok := p.Metadata.Get(page.KeyEnableTOC); ok {
		enabled = page.Truthy(v)
	}
	if !enabled {
		return nil
	}

	headings := markdown.Headings(p.Tree(), p.Body())
	slugger := newHeadingSlugger()
	var entries []page.TOCEntry
	highest := 7
	for _, h := range headings {
		id := h.ID
		if id == "" {
			id = slugger.slug(h.Text)
		} else {
			slugger.reserve(id)
		}
		if h.Level > t.opts.MaxDepth {
			continue
		}
		highest = min(highest, h.Level)
		entries = append(entries, page.TOCEntry{Depth: h.Level, Text: h.Text, Slug: id})
	}
	if len(entries) == 0 || len(entries) < t.opts.MinEntries {
		return nil
	}
	for i := range entries {
		entries[i].Depth -= highest
	}
	p.Metadata.Set(page.KeyTOC, entries)
	p.Metadata.Set(page.KeyEnableTOC, true)
	if t.opts.CollapseByDefault {
		p.Metadata.Set("collapseToc", true)
	}
	return nil
}

// headingSlugger produces GitHub style anchors, suffixing duplicates.
type headingSlugger struct {
	seen map[string]int
}

func newHeadingSlugger() *headingSlugger {
	return &headingSlugger{seen: make(map[string]int)}
}

func (s *headingSlugger) reserve(id string) {
	s.seen[id]++
}

func (s *headingSlugger) slug(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('-')
		}
	}
	base := b.String()
	id := base
	if n := s.seen[base]; n > 0 {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	s.seen[base]++
	return id
}
