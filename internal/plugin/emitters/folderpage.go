package emitters

import (
	"path"
	"slices"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// FolderPageOptions configures FolderPage.
type FolderPageOptions struct {
	Sort string `yaml:"sort"`
}

// FolderPage renders a listing at <folder>/index.html for every folder
// that has pages but no index page of its own.
type FolderPage struct {
	opts FolderPageOptions
}

func defaultFolderPageOptions() FolderPageOptions {
	return FolderPageOptions{Sort: SortTitle}
}

// NewFolderPage builds the emitter from raw options.
func NewFolderPage(raw plugin.Options) (plugin.Plugin, error) {
	opts := defaultFolderPageOptions()
	if err := raw.Decode("FolderPage", &opts); err != nil {
		return nil, err
	}
	if err := plugin.Enum("FolderPage", "sort", opts.Sort, SortTitle, SortDate); err != nil {
		return nil, err
	}
	return &FolderPage{opts: opts}, nil
}

func (f *FolderPage) Name() string { return "FolderPage" }

func (f *FolderPage) Emit(pc *plugin.Context, pages []*page.Page) ([]plugin.Artifact, error) {
	s := site(pc)
	slugs := slugSet(pages)

	children := make(map[string][]listed)
	subfolders := make(map[string][]string)
	for _, p := range pages {
		dir := page.Folder(p.Slug)
		children[dir] = append(children[dir], listedPage(s, p))
		for dir != "" {
			parent := page.Folder(dir)
			if slices.Contains(subfolders[parent], dir) {
				break
			}
			subfolders[parent] = append(subfolders[parent], dir)
			dir = parent
		}
	}

	var folders []string
	for _, subs := range subfolders {
		folders = append(folders, subs...)
	}
	slices.Sort(folders)

	var out []plugin.Artifact
	for _, folder := range folders {
		slug := folder + "/index"
		if slugs[slug] {
			continue
		}
		entries := slices.Clone(children[folder])
		for _, sub := range subfolders[folder] {
			entries = append(entries, listed{title: humanize(s, path.Base(sub)), slug: sub + "/index"})
		}
		sortListing(s, entries, f.opts.Sort)

		v := newPageView(s, slug, humanize(s, path.Base(folder)))
		v.ListingKind = "folder"
		for _, e := range entries {
			v.Listing = append(v.Listing, e.entry(slug))
		}
		b, err := render("page", v)
		if err != nil {
			return nil, err
		}
		out = append(out, plugin.Artifact{Path: page.HTMLPath(slug), Content: b})
	}
	return out, nil
}
