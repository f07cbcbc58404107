package transforms

import (
	"bytes"
	"net/url"
	"path"
	"slices"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// Link resolution strategies for CrawlLinks.
const (
	ResolveAbsolute = "absolute"
	ResolveRelative = "relative"
	ResolveShortest = "shortest"
)

// CrawlLinksOptions configures CrawlLinks.
type CrawlLinksOptions struct {
	MarkdownLinkResolution string `yaml:"markdownLinkResolution"`
	PrettyLinks            bool   `yaml:"prettyLinks"`
	OpenLinksInNewTab      bool   `yaml:"openLinksInNewTab"`
	LazyLoad               bool   `yaml:"lazyLoad"`
	ExternalLinkIcon       bool   `yaml:"externalLinkIcon"`
}

// CrawlLinks rewrites link and image destinations in the parsed tree to
// paths relative to the page and records the slugs a page links to.
// Links inside raw HTML are recorded but left as written.
type CrawlLinks struct {
	opts CrawlLinksOptions
}

const externalIcon = `<svg aria-hidden="true" class="external-icon" viewBox="0 0 512 512"><path d="M320 0H288V64h32 82.7L201.4 265.4 178.7 288 224 333.3l22.6-22.6L448 109.3V192v32h64V192 32 0H480 320zM32 32H0V64 480v32H32 456h32V480 352 320H424v32 96H64V96h96 32V32H160 32z"></path></svg>`

func defaultCrawlLinksOptions() CrawlLinksOptions {
	return CrawlLinksOptions{
		MarkdownLinkResolution: ResolveAbsolute,
		PrettyLinks:            true,
		ExternalLinkIcon:       true,
	}
}

// NewCrawlLinks builds the transformer from raw options.
func NewCrawlLinks(raw plugin.Options) (plugin.Plugin, error) {
	opts := defaultCrawlLinksOptions()
	if err := raw.Decode("CrawlLinks", &opts); err != nil {
		return nil, err
	}
	if err := plugin.Enum("CrawlLinks", "markdownLinkResolution", opts.MarkdownLinkResolution,
		ResolveAbsolute, ResolveRelative, ResolveShortest); err != nil {
		return nil, err
	}
	return &CrawlLinks{opts: opts}, nil
}

// CrawlLinksRegistration registers CrawlLinks.
func CrawlLinksRegistration() plugin.Registration {
	return plugin.Registration{
		Name:        "CrawlLinks",
		Stage:       plugin.StageTransformer,
		Description: "Resolves internal links and records the link graph",
		Defaults:    func() any { return defaultCrawlLinksOptions() },
		New:         NewCrawlLinks,
	}
}

func (c *CrawlLinks) Name() string { return "CrawlLinks" }

func (c *CrawlLinks) Transform(pc *plugin.Context, p *page.Page) error {
	src := p.Body()
	doc := p.Tree()
	var links, external []string

	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *gmast.Link:
			dest := string(t.Destination)
			if isExternalURL(dest) {
				external = append(external, dest)
				c.decorateExternal(t)
				return gmast.WalkContinue, nil
			}
			href, slug, ok := c.resolve(pc, p, dest)
			if !ok {
				return gmast.WalkContinue, nil
			}
			t.Destination = []byte(href)
			t.SetAttributeString("class", []byte("internal"))
			if slug != "" {
				t.SetAttributeString("data-slug", []byte(slug))
				links = append(links, slug)
			}
			if c.opts.PrettyLinks {
				prettifyLinkText(t, src, dest)
			}
		case *gmast.Image:
			if c.opts.LazyLoad {
				t.SetAttributeString("loading", []byte("lazy"))
			}
			dest := string(t.Destination)
			if isExternalURL(dest) {
				return gmast.WalkContinue, nil
			}
			if href, _, ok := c.resolve(pc, p, dest); ok {
				t.Destination = []byte(href)
			}
		case *gmast.AutoLink:
			if t.AutoLinkType == gmast.AutoLinkURL {
				external = append(external, string(t.URL(src)))
			}
		case *gmast.RawHTML:
			var buf bytes.Buffer
			for i := 0; i < t.Segments.Len(); i++ {
				seg := t.Segments.At(i)
				buf.Write(seg.Value(src))
			}
			links = append(links, c.htmlLinks(pc, p, buf.Bytes())...)
		case *gmast.HTMLBlock:
			var buf bytes.Buffer
			lines := t.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			links = append(links, c.htmlLinks(pc, p, buf.Bytes())...)
		}
		return gmast.WalkContinue, nil
	})

	slices.Sort(links)
	p.Metadata.Set(page.KeyLinks, slices.Compact(links))
	if len(external) > 0 {
		slices.Sort(external)
		p.Metadata.Set(page.KeyExternalLinks, slices.Compact(external))
	}
	return nil
}

func (c *CrawlLinks) decorateExternal(l *gmast.Link) {
	l.SetAttributeString("class", []byte("external"))
	if c.opts.OpenLinksInNewTab {
		l.SetAttributeString("target", []byte("_blank"))
		l.SetAttributeString("rel", []byte("noopener noreferrer"))
	}
	if c.opts.ExternalLinkIcon {
		icon := gmast.NewString([]byte(externalIcon))
		icon.SetCode(true)
		l.AppendChild(l, icon)
	}
}

// resolve maps a link destination to a page-relative href and the target
// slug. Same-page anchors resolve with an empty slug.
func (c *CrawlLinks) resolve(pc *plugin.Context, p *page.Page, dest string) (href, slug string, ok bool) {
	if dest == "" || strings.HasPrefix(dest, "mailto:") {
		return "", "", false
	}
	target, frag, _ := strings.Cut(dest, "#")
	target, _, _ = strings.Cut(target, "?")
	anchor := ""
	if frag != "" {
		anchor = "#" + newHeadingSlugger().slug(frag)
	}
	if target == "" {
		return anchor, "", anchor != ""
	}
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}

	folderLink := strings.HasSuffix(target, "/")
	asset := isAssetPath(target)

	var resolved string
	switch {
	case strings.HasPrefix(target, "/"):
		resolved = strings.TrimPrefix(target, "/")
	case strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") ||
		c.opts.MarkdownLinkResolution == ResolveRelative:
		resolved = path.Join(page.Folder(p.Slug), target)
	case c.opts.MarkdownLinkResolution == ResolveShortest && !strings.Contains(strings.TrimSuffix(target, "/"), "/"):
		resolved = c.shortest(pc, target, asset)
	default:
		resolved = target
	}
	resolved = path.Clean(resolved)
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return "", "", false
	}

	switch {
	case folderLink || resolved == ".":
		slug = page.Slugify(path.Join(resolved, "index.md"))
	case asset:
		slug = page.SlugifyAsset(resolved)
	default:
		slug = page.Slugify(resolved)
	}
	return page.RelativeURL(p.Slug, slug) + anchor, slug, true
}

// shortest resolves a bare name to the unique page or asset with that
// base name, falling back to an absolute path.
func (c *CrawlLinks) shortest(pc *plugin.Context, name string, asset bool) string {
	var want string
	var candidates []string
	if asset {
		want = page.SlugifyAsset(name)
		for _, a := range pc.Assets {
			candidates = append(candidates, page.SlugifyAsset(a))
		}
	} else {
		want = page.Slugify(name)
		candidates = pc.Slugs
	}

	var match string
	count := 0
	for _, s := range candidates {
		if path.Base(s) == want {
			match = s
			count++
		}
	}
	if count == 1 {
		if asset {
			return match
		}
		return match + ".md"
	}
	return name
}

// htmlLinks tokenizes raw HTML and returns the internal slugs it references.
func (c *CrawlLinks) htmlLinks(pc *plugin.Context, p *page.Page, raw []byte) []string {
	var out []string
	z := html.NewTokenizer(bytes.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			want := ""
			switch string(name) {
			case "a":
				want = "href"
			case "img", "video", "audio", "source", "iframe":
				want = "src"
			}
			for hasAttr && want != "" {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) != want || isExternalURL(string(val)) {
					continue
				}
				if _, slug, ok := c.resolve(pc, p, string(val)); ok && slug != "" {
					out = append(out, slug)
				}
			}
		}
	}
}

func prettifyLinkText(l *gmast.Link, src []byte, dest string) {
	if l.ChildCount() != 1 {
		return
	}
	txt, ok := l.FirstChild().(*gmast.Text)
	if !ok {
		return
	}
	text := string(txt.Segment.Value(src))
	if text != dest || strings.HasPrefix(text, "#") || !strings.Contains(text, "/") {
		return
	}
	base := path.Base(strings.TrimSuffix(text, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	l.ReplaceChild(l, txt, gmast.NewString([]byte(base)))
}

func isExternalURL(s string) bool {
	if strings.HasPrefix(s, "//") {
		return true
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme != ""
}

func isAssetPath(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case "", ".md", ".markdown", ".html", ".htm":
		return false
	}
	return true
}
