package emitters

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegarden/internal/config"
	"git.home.luguber.info/inful/sitegarden/internal/frontmatter"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// ContentIndexOptions configures ContentIndex.
type ContentIndexOptions struct {
	EnableSiteMap     bool `yaml:"enableSiteMap"`
	EnableRSS         bool `yaml:"enableRSS"`
	RSSLimit          int  `yaml:"rssLimit"`
	RSSFullHTML       bool `yaml:"rssFullHtml"`
	IncludeEmptyFiles bool `yaml:"includeEmptyFiles"`
}

// ContentIndex writes static/contentIndex.json for client side search and
// graph views, plus sitemap.xml and the index.xml RSS feed.
type ContentIndex struct {
	opts ContentIndexOptions
}

func defaultContentIndexOptions() ContentIndexOptions {
	return ContentIndexOptions{EnableSiteMap: true, EnableRSS: true, RSSLimit: 10, IncludeEmptyFiles: true}
}

// NewContentIndex builds the emitter from raw options.
func NewContentIndex(raw plugin.Options) (plugin.Plugin, error) {
	opts := defaultContentIndexOptions()
	if err := raw.Decode("ContentIndex", &opts); err != nil {
		return nil, err
	}
	if opts.RSSLimit < 0 {
		return nil, plugin.InvalidOption("ContentIndex", "rssLimit", "rssLimit must not be negative")
	}
	return &ContentIndex{opts: opts}, nil
}

func (c *ContentIndex) Name() string { return "ContentIndex" }

// IndexEntry is one page in contentIndex.json.
type IndexEntry struct {
	Slug        string   `json:"slug"`
	FilePath    string   `json:"filePath"`
	Title       string   `json:"title"`
	Links       []string `json:"links"`
	Tags        []string `json:"tags"`
	Content     string   `json:"content"`
	RichContent string   `json:"richContent,omitempty"`
	Date        string   `json:"date,omitempty"`
	Description string   `json:"description,omitempty"`
	Fingerprint string   `json:"fingerprint"`
}

func (c *ContentIndex) Emit(pc *plugin.Context, pages []*page.Page) ([]plugin.Artifact, error) {
	s := site(pc)
	index := make(map[string]IndexEntry, len(pages))
	var feed []*page.Page
	for _, p := range pages {
		text := pageText(p)
		if text == "" && !c.opts.IncludeEmptyFiles {
			continue
		}
		entry, err := c.entry(s, p, text)
		if err != nil {
			pc.Fail(p, "page left out of the content index", err)
			continue
		}
		index[p.Slug] = entry
		feed = append(feed, p)
	}

	data, err := json.Marshal(index)
	if err != nil {
		return nil, err
	}
	out := []plugin.Artifact{{Path: "static/contentIndex.json", Content: data}}

	if (c.opts.EnableSiteMap || c.opts.EnableRSS) && s.BaseURL == "" {
		pc.Warn(nil, "baseUrl is not configured, skipping sitemap and RSS feed")
		return out, nil
	}
	if c.opts.EnableSiteMap {
		b, err := sitemap(s, feed)
		if err != nil {
			return nil, err
		}
		out = append(out, plugin.Artifact{Path: "sitemap.xml", Content: b})
	}
	if c.opts.EnableRSS {
		b, err := c.rss(s, feed, index)
		if err != nil {
			return nil, err
		}
		out = append(out, plugin.Artifact{Path: "index.xml", Content: b})
	}
	return out, nil
}

func (c *ContentIndex) entry(s config.SiteConfig, p *page.Page, text string) (IndexEntry, error) {
	fields, _ := p.Metadata.Get(page.KeyFrontmatter)
	fm, _ := fields.(map[string]any)
	fp, err := frontmatter.Fingerprint(fm, sourceBody(p))
	if err != nil {
		return IndexEntry{}, err
	}

	e := IndexEntry{
		Slug:        p.Slug,
		FilePath:    p.RelativePath,
		Title:       p.Title(),
		Links:       nonNil(p.Metadata.Strings(page.KeyLinks)),
		Tags:        nonNil(p.Tags()),
		Content:     text,
		Description: p.Metadata.String(page.KeyDescription),
		Fingerprint: fp,
	}
	if t, ok := pageDate(s, p); ok {
		e.Date = t.UTC().Format(time.RFC3339)
	}
	if c.opts.RSSFullHTML {
		html, err := p.RenderHTML()
		if err != nil {
			return IndexEntry{}, err
		}
		e.RichContent = string(html)
	}
	return e, nil
}

// pageText is the plain text set by Description, or the trimmed body.
func pageText(p *page.Page) string {
	if t := p.Metadata.String(page.KeyText); t != "" {
		return t
	}
	return strings.Join(strings.Fields(string(p.Body())), " ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func sitemap(s config.SiteConfig, pages []*page.Page) ([]byte, error) {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range pages {
		u := sitemapURL{Loc: absoluteURL(s.BaseURL, p.Slug)}
		if t, ok := pageDate(s, p); ok {
			u.LastMod = t.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	return marshalXML(set)
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Generator     string    `xml:"generator"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
}

// rss lists the newest pages first. lastBuildDate is the newest page date
// so unchanged content produces an identical feed.
func (c *ContentIndex) rss(s config.SiteConfig, pages []*page.Page, index map[string]IndexEntry) ([]byte, error) {
	entries := make([]listed, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, listedPage(s, p))
	}
	sortListing(s, entries, SortDate)
	if c.opts.RSSLimit > 0 && len(entries) > c.opts.RSSLimit {
		entries = entries[:c.opts.RSSLimit]
	}

	ch := rssChannel{
		Title:       s.PageTitle,
		Link:        "https://" + s.BaseURL,
		Description: "Recent notes on " + s.PageTitle,
		Generator:   "sitegarden",
	}
	if len(entries) > 0 && entries[0].dated {
		ch.LastBuildDate = entries[0].date.UTC().Format(time.RFC1123Z)
	}
	for _, e := range entries {
		ie := index[e.slug]
		item := rssItem{
			Title:       e.title,
			Link:        absoluteURL(s.BaseURL, e.slug),
			GUID:        absoluteURL(s.BaseURL, e.slug),
			Description: ie.Description,
		}
		if c.opts.RSSFullHTML {
			item.Description = ie.RichContent
		}
		if e.dated {
			item.PubDate = e.date.UTC().Format(time.RFC1123Z)
		}
		ch.Items = append(ch.Items, item)
	}
	return marshalXML(rssDoc{Version: "2.0", Channel: ch})
}

// sourceBody is the authored body without frontmatter. FrontMatter records
// it using its configured delimiters; without it the default delimiter is
// assumed.
func sourceBody(p *page.Page) []byte {
	if body, ok := p.Metadata.Get(page.KeySourceBody); ok {
		if s, ok := body.(string); ok {
			return []byte(s)
		}
	}
	_, body, _, _, err := frontmatter.Split(p.Raw)
	if err != nil {
		return p.Raw
	}
	return body
}

func marshalXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
