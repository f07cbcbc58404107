package emitters

import (
	"fmt"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// TagPageOptions configures TagPage.
type TagPageOptions struct {
	Sort string `yaml:"sort"`
}

// TagPage renders tags/<tag>.html listing the pages carrying a tag, and
// tags/index.html listing every tag. Nested tags ("a/b") also count towards
// their parents. Slugs already taken by content pages, or by the tag
// index for a tag named "index", are skipped.
type TagPage struct {
	opts TagPageOptions
}

func defaultTagPageOptions() TagPageOptions {
	return TagPageOptions{Sort: SortDate}
}

// NewTagPage builds the emitter from raw options.
func NewTagPage(raw plugin.Options) (plugin.Plugin, error) {
	opts := defaultTagPageOptions()
	if err := raw.Decode("TagPage", &opts); err != nil {
		return nil, err
	}
	if err := plugin.Enum("TagPage", "sort", opts.Sort, SortTitle, SortDate); err != nil {
		return nil, err
	}
	return &TagPage{opts: opts}, nil
}

func (t *TagPage) Name() string { return "TagPage" }

func (t *TagPage) Emit(pc *plugin.Context, pages []*page.Page) ([]plugin.Artifact, error) {
	s := site(pc)
	slugs := slugSet(pages)

	tagged := make(map[string][]listed)
	for _, p := range pages {
		for _, tag := range expandTags(p.Tags()) {
			tagged[tag] = append(tagged[tag], listedPage(s, p))
		}
	}
	if len(tagged) == 0 {
		return nil, nil
	}
	tags := make([]string, 0, len(tagged))
	for tag := range tagged {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	var out []plugin.Artifact
	emit := func(slug, title string, entries []listed, by string) error {
		if slugs[slug] {
			return nil
		}
		slugs[slug] = true
		sortListing(s, entries, by)
		v := newPageView(s, slug, title)
		v.ListingKind = "tag"
		for _, e := range entries {
			v.Listing = append(v.Listing, e.entry(slug))
		}
		b, err := render("page", v)
		if err != nil {
			return err
		}
		out = append(out, plugin.Artifact{Path: page.HTMLPath(slug), Content: b})
		return nil
	}

	index := make([]listed, 0, len(tags))
	for _, tag := range tags {
		index = append(index, listed{title: fmt.Sprintf("#%s (%d)", tag, len(tagged[tag])), slug: "tags/" + tag})
	}
	if err := emit("tags/index", "All Tags", index, SortTitle); err != nil {
		return nil, err
	}
	for _, tag := range tags {
		if err := emit("tags/"+tag, "Tag: "+tag, tagged[tag], t.opts.Sort); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// expandTags adds the parents of nested tags, without duplicates.
func expandTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		parts := strings.Split(tag, "/")
		for i := range parts {
			t := strings.Join(parts[:i+1], "/")
			if t != "" && !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out
}
