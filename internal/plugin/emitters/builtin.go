// Package emitters holds the built-in emitter plugins. Emitters read the
// frozen page set and return artifacts; none of them writes files.
package emitters

import "git.home.luguber.info/inful/sitegarden/internal/plugin"

// Registrations returns every built-in emitter.
func Registrations() []plugin.Registration {
	return []plugin.Registration{
		noOptions("AliasRedirects", "Writes redirect pages for frontmatter aliases", NewAliasRedirects),
		noOptions("ComponentResources", "Writes the site stylesheet and scripts", NewComponentResources),
		noOptions("ContentPage", "Renders one HTML page per note", NewContentPage),
		{
			Name:        "FolderPage",
			Stage:       plugin.StageEmitter,
			Description: "Renders listings for folders without an index page",
			Defaults:    func() any { return defaultFolderPageOptions() },
			New:         NewFolderPage,
		},
		{
			Name:        "TagPage",
			Stage:       plugin.StageEmitter,
			Description: "Renders one listing per tag and a tag index",
			Defaults:    func() any { return defaultTagPageOptions() },
			New:         NewTagPage,
		},
		{
			Name:        "ContentIndex",
			Stage:       plugin.StageEmitter,
			Description: "Writes the search index, sitemap and RSS feed",
			Defaults:    func() any { return defaultContentIndexOptions() },
			New:         NewContentIndex,
		},
		noOptions("Assets", "Copies non-Markdown files from the content directory", NewAssets),
		noOptions("Static", "Writes the bundled static files", NewStatic),
		noOptions("NotFoundPage", "Writes the 404 page", NewNotFoundPage),
	}
}

func noOptions(name, description string, f plugin.Factory) plugin.Registration {
	return plugin.Registration{Name: name, Stage: plugin.StageEmitter, Description: description, New: f}
}
