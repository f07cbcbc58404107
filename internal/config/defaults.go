package config

import "strings"

// Default values applied to fields left empty.
const (
	DefaultPageTitle  = "Digital Garden"
	DefaultLocale     = "en-US"
	DefaultDateType   = DateCreated
	DefaultFontOrigin = FontOriginGoogle
)

// DefaultLightMode is the light color scheme used for unset tokens.
var DefaultLightMode = ColorScheme{
	Light:     "#faf8f8",
	Lightgray: "#e5e5e5",
	Gray:      "#b8b8b8",
	Darkgray:  "#4e4e4e",
	Dark:      "#2b2b2b",
	Secondary: "#284b63",
	Tertiary:  "#84a59d",
	Highlight: "rgba(143, 159, 169, 0.15)",
}

// DefaultDarkMode is the dark color scheme used for unset tokens.
var DefaultDarkMode = ColorScheme{
	Light:     "#161618",
	Lightgray: "#393639",
	Gray:      "#646464",
	Darkgray:  "#d4d4d4",
	Dark:      "#ebebec",
	Secondary: "#7b97aa",
	Tertiary:  "#84a59d",
	Highlight: "rgba(143, 159, 169, 0.15)",
}

// DefaultTypography is used for unset font families.
var DefaultTypography = Typography{
	Header: "Schibsted Grotesk",
	Body:   "Source Sans Pro",
	Code:   "IBM Plex Mono",
}

// ApplyDefaults fills empty fields and normalizes the base URL.
func ApplyDefaults(cfg *Config) {
	c := &cfg.Configuration
	if c.PageTitle == "" {
		c.PageTitle = DefaultPageTitle
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.DefaultDateType == "" {
		c.DefaultDateType = DefaultDateType
	}
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")

	t := &c.Theme
	if t.FontOrigin == "" {
		t.FontOrigin = DefaultFontOrigin
	}
	fillString(&t.Typography.Header, DefaultTypography.Header)
	fillString(&t.Typography.Body, DefaultTypography.Body)
	fillString(&t.Typography.Code, DefaultTypography.Code)
	fillScheme(&t.Colors.LightMode, DefaultLightMode)
	fillScheme(&t.Colors.DarkMode, DefaultDarkMode)
}

func fillScheme(s *ColorScheme, def ColorScheme) {
	fillString(&s.Light, def.Light)
	fillString(&s.Lightgray, def.Lightgray)
	fillString(&s.Gray, def.Gray)
	fillString(&s.Darkgray, def.Darkgray)
	fillString(&s.Dark, def.Dark)
	fillString(&s.Secondary, def.Secondary)
	fillString(&s.Tertiary, def.Tertiary)
	fillString(&s.Highlight, def.Highlight)
}

func fillString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}
