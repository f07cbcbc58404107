package transforms

import (
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitegarden/internal/markdown"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// ObsidianFlavoredMarkdownOptions configures ObsidianFlavoredMarkdown.
type ObsidianFlavoredMarkdownOptions struct {
	Comments          bool `yaml:"comments"`
	Highlight         bool `yaml:"highlight"`
	Wikilinks         bool `yaml:"wikilinks"`
	Callouts          bool `yaml:"callouts"`
	ParseTags         bool `yaml:"parseTags"`
	ParseArrows       bool `yaml:"parseArrows"`
	EnableInHTMLEmbed bool `yaml:"enableInHtmlEmbed"`
}

// ObsidianFlavoredMarkdown rewrites Obsidian syntax (comments, highlights,
// wikilinks, callouts, inline tags and arrows) into Markdown and inline
// HTML. Code spans and fences are never touched.
type ObsidianFlavoredMarkdown struct {
	opts ObsidianFlavoredMarkdownOptions
}

func defaultOFMOptions() ObsidianFlavoredMarkdownOptions {
	return ObsidianFlavoredMarkdownOptions{
		Comments:    true,
		Highlight:   true,
		Wikilinks:   true,
		Callouts:    true,
		ParseTags:   true,
		ParseArrows: true,
	}
}

// NewObsidianFlavoredMarkdown builds the transformer from raw options.
func NewObsidianFlavoredMarkdown(raw plugin.Options) (plugin.Plugin, error) {
	opts := defaultOFMOptions()
	if err := raw.Decode("ObsidianFlavoredMarkdown", &opts); err != nil {
		return nil, err
	}
	return &ObsidianFlavoredMarkdown{opts: opts}, nil
}

// ObsidianFlavoredMarkdownRegistration registers ObsidianFlavoredMarkdown.
func ObsidianFlavoredMarkdownRegistration() plugin.Registration {
	return plugin.Registration{
		Name:        "ObsidianFlavoredMarkdown",
		Stage:       plugin.StageTransformer,
		Description: "Supports Obsidian wikilinks, callouts, highlights, comments and tags",
		Defaults:    func() any { return defaultOFMOptions() },
		New:         NewObsidianFlavoredMarkdown,
	}
}

var (
	commentRe   = regexp.MustCompile(`(?s)%%.*?%%`)
	wikilinkRe  = regexp.MustCompile(`(!?)\[\[([^\[\]|#\n]*)(#[^\[\]|\n]*)?(?:\|([^\[\]\n]*))?\]\]`)
	highlightRe = regexp.MustCompile(`==([^=\n]+)==`)
	calloutRe   = regexp.MustCompile(`(?m)^([ \t]*>[ \t]*)\[!([\w-]+)\]([+-]?)[ \t]*(.*)$`)
	tagRe       = regexp.MustCompile(`(^|\s)#((?:[\p{L}\p{N}_/-])*[\p{L}_/-](?:[\p{L}\p{N}_/-])*)`)
	arrowRe     = regexp.MustCompile(`(^|[ \t])(-->|->|==>|=>|<--|<-|<==|<=)([ \t]|$)`)
)

var arrows = map[string]string{
	"->":  "&rarr;",
	"-->": "&rArr;",
	"=>":  "&rArr;",
	"==>": "&xrArr;",
	"<-":  "&larr;",
	"<--": "&lArr;",
	"<=":  "&lArr;",
	"<==": "&xlArr;",
}

var calloutAliases = map[string]string{
	"summary":   "abstract",
	"tldr":      "abstract",
	"hint":      "tip",
	"important": "tip",
	"check":     "success",
	"done":      "success",
	"help":      "question",
	"faq":       "question",
	"caution":   "warning",
	"attention": "warning",
	"fail":      "failure",
	"missing":   "failure",
	"error":     "danger",
	"cite":      "quote",
}

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".svg", ".webp", ".avif"}

func (o *ObsidianFlavoredMarkdown) Name() string { return "ObsidianFlavoredMarkdown" }

func (o *ObsidianFlavoredMarkdown) Transform(_ *plugin.Context, p *page.Page) error {
	scan := markdown.ScanOptions{SkipHTML: !o.opts.EnableInHTMLEmbed}
	body := p.Body()
	changed := false
	var inlineTags []string

	pass := func(enabled bool, fn func(seg []byte, offset int) []markdown.Edit) error {
		if !enabled {
			return nil
		}
		out, err := markdown.RewriteProse(body, scan, fn)
		if err != nil {
			return err
		}
		if string(out) != string(body) {
			body = out
			changed = true
		}
		return nil
	}

	steps := []struct {
		enabled bool
		fn      func(seg []byte, offset int) []markdown.Edit
	}{
		{o.opts.Comments, regexEdits(commentRe, func(m []byte, _ []int) string { return "" })},
		{o.opts.Wikilinks, regexEdits(wikilinkRe, wikilinkReplacement)},
		{o.opts.ParseArrows, regexEdits(arrowRe, func(m []byte, idx []int) string {
			return string(m[idx[2]:idx[3]]) + arrows[string(m[idx[4]:idx[5]])] + string(m[idx[6]:idx[7]])
		})},
		{o.opts.Highlight, regexEdits(highlightRe, func(m []byte, idx []int) string {
			return "<mark>" + string(m[idx[2]:idx[3]]) + "</mark>"
		})},
		{o.opts.Callouts, regexEdits(calloutRe, calloutReplacement)},
		{o.opts.ParseTags, regexEdits(tagRe, func(m []byte, idx []int) string {
			raw := string(m[idx[4]:idx[5]])
			tag := page.SlugifyTag(raw)
			if tag == "" {
				return string(m)
			}
			if !slices.Contains(inlineTags, tag) {
				inlineTags = append(inlineTags, tag)
			}
			href := page.RelativeURL(p.Slug, "tags/"+tag)
			return fmt.Sprintf(`%s<a href="%s" class="tag-link">#%s</a>`, m[idx[2]:idx[3]], href, raw)
		})},
	}
	for _, s := range steps {
		if err := pass(s.enabled, s.fn); err != nil {
			return err
		}
	}

	if changed {
		p.SetBody(body)
	}
	if len(inlineTags) > 0 {
		tags := p.Metadata.Strings(page.KeyTags)
		for _, t := range inlineTags {
			if !slices.Contains(tags, t) {
				tags = append(tags, t)
			}
		}
		p.Metadata.Set(page.KeyTags, tags)
	}
	return nil
}

// regexEdits adapts a regexp replacement to RewriteProse. The callback
// receives the full match and submatch indexes relative to it.
func regexEdits(re *regexp.Regexp, replace func(match []byte, idx []int) string) func(seg []byte, offset int) []markdown.Edit {
	return func(seg []byte, offset int) []markdown.Edit {
		var edits []markdown.Edit
		for _, loc := range re.FindAllSubmatchIndex(seg, -1) {
			rel := make([]int, len(loc))
			for i, v := range loc {
				if v >= 0 {
					rel[i] = v - loc[0]
				} else {
					rel[i] = 0
				}
			}
			m := seg[loc[0]:loc[1]]
			edits = append(edits, markdown.Replace(offset+loc[0], offset+loc[1], replace(m, rel)))
		}
		return edits
	}
}

func wikilinkReplacement(m []byte, idx []int) string {
	embed := idx[3] > idx[2]
	target := strings.TrimSpace(string(m[idx[4]:idx[5]]))
	anchor := strings.TrimSpace(string(m[idx[6]:idx[7]]))
	alias := strings.TrimSpace(string(m[idx[8]:idx[9]]))

	dest := target + anchor
	if dest == "" {
		return string(m)
	}
	text := alias
	if text == "" {
		text = strings.TrimPrefix(dest, "#")
	}

	if embed && slices.Contains(imageExts, strings.ToLower(path.Ext(target))) {
		if alias == "" {
			text = ""
		}
		return fmt.Sprintf("![%s](<%s>)", text, target)
	}
	return fmt.Sprintf("[%s](<%s>)", text, dest)
}

func calloutReplacement(m []byte, idx []int) string {
	prefix := string(m[idx[2]:idx[3]])
	kind := strings.ToLower(string(m[idx[4]:idx[5]]))
	if canonical, ok := calloutAliases[kind]; ok {
		kind = canonical
	}
	fold := string(m[idx[6]:idx[7]])
	title := strings.TrimSpace(string(m[idx[8]:idx[9]]))
	if title == "" {
		title = cases.Title(language.Und).String(kind)
	}

	attrs := fmt.Sprintf(`class="callout-title" data-callout="%s"`, kind)
	switch fold {
	case "+":
		attrs += ` data-callout-fold="open"`
	case "-":
		attrs += ` data-callout-fold="closed"`
	}
	return fmt.Sprintf("%s<span %s>%s</span>", prefix, attrs, title)
}
