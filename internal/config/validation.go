package config

import (
	"fmt"
	"maps"
	"path"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"

	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
)

var (
	hexColor   = regexp.MustCompile(`^#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColor  = regexp.MustCompile(`^(rgb|rgba|hsl|hsla)\([^()]*\)$`)
	namedColor = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// Validate checks a defaulted configuration. The first problem found is
// returned as a fatal configuration error.
func Validate(cfg *Config) error {
	v := &validator{cfg: cfg}
	for _, check := range []func() error{
		v.validateSite,
		v.validateAnalytics,
		v.validateTheme,
		v.validatePlugins,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type validator struct {
	cfg *Config
}

func (v *validator) validateSite() error {
	c := v.cfg.Configuration
	if _, err := language.Parse(c.Locale); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid locale").
			Fatal().
			WithContext("field", "configuration.locale").
			WithContext("value", c.Locale).
			Build()
	}
	if strings.Contains(c.BaseURL, "://") {
		return invalidField("configuration.baseUrl", c.BaseURL, "baseUrl must not include a protocol")
	}
	if !c.DefaultDateType.IsValid() {
		return invalidEnum("configuration.defaultDateType", string(c.DefaultDateType), "created", "modified", "published")
	}
	for i, p := range c.IgnorePatterns {
		if strings.TrimSpace(p) == "" {
			return invalidField(fmt.Sprintf("configuration.ignorePatterns[%d]", i), p, "ignore pattern must not be empty")
		}
		if _, err := path.Match(p, ""); err != nil {
			return invalidField(fmt.Sprintf("configuration.ignorePatterns[%d]", i), p, "malformed ignore pattern")
		}
	}
	return nil
}

func (v *validator) validateAnalytics() error {
	a := v.cfg.Configuration.Analytics
	if a == nil {
		return nil
	}
	if !a.Provider.IsValid() {
		return invalidEnum("configuration.analytics.provider", string(a.Provider), "plausible", "google", "umami")
	}
	switch a.Provider {
	case AnalyticsGoogle:
		if a.TagID == "" {
			return invalidField("configuration.analytics.tagId", "", "google analytics requires tagId")
		}
	case AnalyticsUmami:
		if a.WebsiteID == "" {
			return invalidField("configuration.analytics.websiteId", "", "umami analytics requires websiteId")
		}
	}
	return nil
}

func (v *validator) validateTheme() error {
	t := v.cfg.Configuration.Theme
	if !t.FontOrigin.IsValid() {
		return invalidEnum("configuration.theme.fontOrigin", string(t.FontOrigin), "googleFonts", "local")
	}
	modes := []struct {
		name   string
		scheme ColorScheme
	}{{"lightMode", t.Colors.LightMode}, {"darkMode", t.Colors.DarkMode}}
	for _, m := range modes {
		tokens := m.scheme.Tokens()
		for _, name := range slices.Sorted(maps.Keys(tokens)) {
			if value := tokens[name]; !IsColor(value) {
				return invalidField("configuration.theme.colors."+m.name+"."+name, value, "invalid CSS color")
			}
		}
	}
	return nil
}

func (v *validator) validatePlugins() error {
	lists := []struct {
		name  string
		specs []PluginSpec
	}{
		{"plugins.transformers", v.cfg.Plugins.Transformers},
		{"plugins.filters", v.cfg.Plugins.Filters},
		{"plugins.emitters", v.cfg.Plugins.Emitters},
	}
	for _, l := range lists {
		for i, spec := range l.specs {
			if strings.TrimSpace(spec.Name) == "" {
				return invalidField(fmt.Sprintf("%s[%d].name", l.name, i), "", "plugin name is required")
			}
		}
	}
	return nil
}

// IsColor reports whether s looks like a CSS color value.
func IsColor(s string) bool {
	s = strings.TrimSpace(s)
	return hexColor.MatchString(s) || funcColor.MatchString(s) || namedColor.MatchString(s)
}

// Tokens returns the scheme as CSS variable name to value.
func (s ColorScheme) Tokens() map[string]string {
	return map[string]string{
		"light":     s.Light,
		"lightgray": s.Lightgray,
		"gray":      s.Gray,
		"darkgray":  s.Darkgray,
		"dark":      s.Dark,
		"secondary": s.Secondary,
		"tertiary":  s.Tertiary,
		"highlight": s.Highlight,
	}
}

func invalidField(field, value, message string) error {
	return ferrors.ConfigError(message).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}

func invalidEnum(field, value string, allowed ...string) error {
	return ferrors.ConfigError("invalid enum value").
		WithContext("field", field).
		WithContext("value", value).
		WithContext("allowed", strings.Join(allowed, "|")).
		Build()
}
