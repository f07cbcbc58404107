package transforms

import "git.home.luguber.info/inful/sitegarden/internal/plugin"

// Registrations returns every built-in transformer.
func Registrations() []plugin.Registration {
	return []plugin.Registration{
		FrontMatterRegistration(),
		CreatedModifiedDateRegistration(),
		LatexRegistration(),
		SyntaxHighlightingRegistration(),
		HardLineBreaksRegistration(),
		ObsidianFlavoredMarkdownRegistration(),
		GitHubFlavoredMarkdownRegistration(),
		TableOfContentsRegistration(),
		CrawlLinksRegistration(),
		DescriptionRegistration(),
	}
}
