package emitters

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegarden/internal/config"
	"git.home.luguber.info/inful/sitegarden/internal/page"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var layouts = template.Must(template.New("layouts").ParseFS(templateFS, "templates/*.tmpl"))

// render executes one of the embedded layouts.
func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := layouts.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("exec %s layout: %w", name, err)
	}
	return buf.Bytes(), nil
}

type siteView struct {
	Title       string
	TitleSuffix string
	Lang        string
}

type dateView struct {
	Machine string
	Human   string
}

type linkView struct {
	Name string
	Href string
}

type listingEntry struct {
	Title string
	Href  string
	Date  *dateView
}

// pageView is the data of the "page" layout. Content pages, folder and tag
// listings and the 404 page all render through it.
type pageView struct {
	Site         siteView
	Root         string
	Slug         string
	Title        string
	Description  string
	CanonicalURL string
	CSSClasses   []string
	Date         *dateView
	Tags         []linkView
	TOC          []page.TOCEntry
	CollapseTOC  bool
	Content      template.HTML
	ListingKind  string
	Listing      []listingEntry
	Backlinks    []linkView
}

type redirectView struct {
	Lang   string
	Title  string
	Target string
}

func newSiteView(s config.SiteConfig) siteView {
	return siteView{Title: s.PageTitle, TitleSuffix: s.PageTitleSuffix, Lang: lang(s.Locale)}
}

// lang returns the primary language subtag of a locale ("ja-JP" -> "ja").
func lang(locale string) string {
	l, _, _ := strings.Cut(locale, "-")
	return l
}

func newDateView(t time.Time) *dateView {
	return &dateView{Machine: t.Format("2006-01-02"), Human: t.Format("Jan 2, 2006")}
}

// newPageView fills the shared page fields of a layout view for slug.
func newPageView(s config.SiteConfig, slug, title string) pageView {
	return pageView{
		Site:         newSiteView(s),
		Root:         page.PathToRoot(slug),
		Slug:         slug,
		Title:        title,
		CanonicalURL: absoluteURL(s.BaseURL, slug),
	}
}

// contentView builds the layout view of a content page.
func contentView(s config.SiteConfig, p *page.Page) pageView {
	v := newPageView(s, p.Slug, p.Title())
	v.Description = p.Metadata.String(page.KeyDescription)
	v.CSSClasses = p.Metadata.Strings(page.KeyCSSClasses)
	if t, ok := pageDate(s, p); ok {
		v.Date = newDateView(t)
	}
	for _, tag := range p.Tags() {
		v.Tags = append(v.Tags, linkView{Name: tag, Href: page.RelativeURL(p.Slug, "tags/"+tag)})
	}
	if toc, ok := p.Metadata.Get(page.KeyTOC); ok && p.Metadata.Bool(page.KeyEnableTOC) {
		if entries, ok := toc.([]page.TOCEntry); ok {
			v.TOC = entries
		}
	}
	v.CollapseTOC = p.Metadata.Bool("collapseToc")
	return v
}

// absoluteURL returns the public URL of slug below baseURL, or "" when no
// base URL is configured.
func absoluteURL(baseURL, slug string) string {
	if baseURL == "" {
		return ""
	}
	return "https://" + baseURL + "/" + urlPath(slug)
}

// urlPath returns the root-relative path of slug as served: index pages
// map to their folder.
func urlPath(slug string) string {
	switch {
	case slug == "index":
		return ""
	case strings.HasSuffix(slug, "/index"):
		return strings.TrimSuffix(slug, "index")
	}
	segs := strings.Split(slug, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// basePath returns the path component of baseURL with a leading slash and
// no trailing slash ("" for a bare host).
func basePath(baseURL string) string {
	_, p, ok := strings.Cut(baseURL, "/")
	if !ok || p == "" {
		return ""
	}
	return "/" + strings.Trim(p, "/")
}
