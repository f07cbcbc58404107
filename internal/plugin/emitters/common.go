package emitters

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitegarden/internal/config"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// site returns the site settings, defaulted when pc carries no
// configuration.
func site(pc *plugin.Context) config.SiteConfig {
	if pc.Config != nil {
		return pc.Config.Configuration
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg.Configuration
}

// pageDate returns the date of p selected by the site's default date type,
// falling back to the other date types in created, modified, published
// order.
func pageDate(s config.SiteConfig, p *page.Page) (time.Time, bool) {
	order := []string{
		string(s.DefaultDateType),
		string(config.DateCreated),
		string(config.DateModified),
		string(config.DatePublished),
	}
	for _, dt := range order {
		if t, ok := p.Date(dt); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func localeTag(s config.SiteConfig) language.Tag {
	tag, err := language.Parse(s.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// titleCaser returns a caser for the site locale.
func titleCaser(s config.SiteConfig) cases.Caser {
	return cases.Title(localeTag(s))
}

// humanize turns a slug segment into a display title ("my-notes" -> "My Notes").
func humanize(s config.SiteConfig, segment string) string {
	return titleCaser(s).String(strings.ReplaceAll(segment, "-", " "))
}

// Sort orders for listings.
const (
	SortTitle = "title"
	SortDate  = "date"
)

type listed struct {
	title string
	slug  string
	date  time.Time
	dated bool
}

// sortListing orders entries by locale-aware title, or newest first with
// undated entries last. Ties break on slug so output is stable.
func sortListing(s config.SiteConfig, entries []listed, by string) {
	coll := collate.New(localeTag(s), collate.IgnoreCase, collate.Numeric)
	byTitle := func(a, b listed) int {
		return cmp.Or(coll.CompareString(a.title, b.title), strings.Compare(a.slug, b.slug))
	}
	if by != SortDate {
		slices.SortFunc(entries, byTitle)
		return
	}
	slices.SortFunc(entries, func(a, b listed) int {
		switch {
		case a.dated && !b.dated:
			return -1
		case !a.dated && b.dated:
			return 1
		case a.dated && !a.date.Equal(b.date):
			return b.date.Compare(a.date)
		}
		return byTitle(a, b)
	})
}

func listedPage(s config.SiteConfig, p *page.Page) listed {
	t, ok := pageDate(s, p)
	return listed{title: p.Title(), slug: p.Slug, date: t, dated: ok}
}

func (l listed) entry(fromSlug string) listingEntry {
	e := listingEntry{Title: l.title, Href: page.RelativeURL(fromSlug, l.slug)}
	if l.dated {
		e.Date = newDateView(l.date)
	}
	return e
}

// slugSet indexes the slugs of pages.
func slugSet(pages []*page.Page) map[string]bool {
	set := make(map[string]bool, len(pages))
	for _, p := range pages {
		set[p.Slug] = true
	}
	return set
}
