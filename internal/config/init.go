package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
)

// Example returns a complete configuration with the standard plugin pipeline.
func Example() *Config {
	return &Config{
		Configuration: SiteConfig{
			PageTitle:       "🪴 Siri's Dumb Blog",
			EnableSPA:       true,
			EnablePopovers:  true,
			Locale:          "ja-JP",
			BaseURL:         "siri-chan.github.io/blog",
			IgnorePatterns:  []string{"private", "templates", ".obsidian"},
			DefaultDateType: DatePublished,
			Theme: ThemeConfig{
				FontOrigin: FontOriginGoogle,
				CDNCaching: true,
				Typography: Typography{
					Header: "Noto Sans JP",
					Body:   "M PLUS 2",
					Code:   "JetBrains Mono",
				},
				Colors: Colors{
					LightMode: ColorScheme{
						Light:     "#efe",
						Lightgray: "#e5e5e5",
						Gray:      "#b8b8b8",
						Darkgray:  "#4e4e4e",
						Dark:      "#2b2b2b",
						Secondary: "#284b63",
						Tertiary:  "#84a59d",
						Highlight: "rgba(143, 159, 169, 0.15)",
					},
					DarkMode: ColorScheme{
						Light:     "#222b3d",
						Lightgray: "#1e1e2e",
						Gray:      "#646464",
						Darkgray:  "#d4d4d4",
						Dark:      "#ebebec",
						Secondary: "#ffadaf",
						Tertiary:  "#84a59d",
						Highlight: "#ffadaf00",
					},
				},
			},
		},
		Plugins: PluginsConfig{
			Transformers: []PluginSpec{
				Plugin("FrontMatter", nil),
				Plugin("CreatedModifiedDate", map[string]any{"priority": []any{"frontmatter", "filesystem"}}),
				Plugin("Latex", map[string]any{"renderEngine": "katex"}),
				Plugin("SyntaxHighlighting", map[string]any{
					"theme":          map[string]any{"light": "catppuccin-frappe", "dark": "catppuccin-mocha"},
					"keepBackground": true,
				}),
				Plugin("HardLineBreaks", nil),
				Plugin("ObsidianFlavoredMarkdown", map[string]any{"enableInHtmlEmbed": false}),
				Plugin("GitHubFlavoredMarkdown", nil),
				Plugin("TableOfContents", nil),
				Plugin("CrawlLinks", map[string]any{"markdownLinkResolution": "shortest", "prettyLinks": true}),
				Plugin("Description", nil),
			},
			Filters: []PluginSpec{Plugin("RemoveDrafts", nil)},
			Emitters: []PluginSpec{
				Plugin("AliasRedirects", nil),
				Plugin("ComponentResources", nil),
				Plugin("ContentPage", nil),
				Plugin("FolderPage", nil),
				Plugin("TagPage", nil),
				Plugin("ContentIndex", map[string]any{"enableSiteMap": true, "enableRSS": true}),
				Plugin("Assets", nil),
				Plugin("Static", nil),
				Plugin("NotFoundPage", nil),
			},
		},
	}
}

// Init writes the example configuration to configPath. An existing file is
// only replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to stat configuration").Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal example configuration").Build()
	}

	// #nosec G306 -- configuration file is meant to be readable.
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write configuration").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
