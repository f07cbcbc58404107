// Package config loads and validates the site configuration: global
// settings, theme tokens and the three ordered plugin lists.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "sitegarden.yaml"

// Config is the complete, immutable-after-load configuration of one build.
type Config struct {
	Configuration SiteConfig    `yaml:"configuration"`
	Plugins       PluginsConfig `yaml:"plugins"`
}

// SiteConfig holds the global settings shared by every plugin.
type SiteConfig struct {
	PageTitle       string           `yaml:"pageTitle"`
	PageTitleSuffix string           `yaml:"pageTitleSuffix,omitempty"`
	EnableSPA       bool             `yaml:"enableSPA"`
	EnablePopovers  bool             `yaml:"enablePopovers"`
	Analytics       *AnalyticsConfig `yaml:"analytics"`
	Locale          string           `yaml:"locale"`
	BaseURL         string           `yaml:"baseUrl"`
	IgnorePatterns  []string         `yaml:"ignorePatterns"`
	DefaultDateType DateType         `yaml:"defaultDateType"`
	Theme           ThemeConfig      `yaml:"theme"`
}

// AnalyticsConfig selects an analytics provider. A null value disables analytics.
type AnalyticsConfig struct {
	Provider  AnalyticsProvider `yaml:"provider"`
	TagID     string            `yaml:"tagId,omitempty"`
	WebsiteID string            `yaml:"websiteId,omitempty"`
	Host      string            `yaml:"host,omitempty"`
}

// ThemeConfig holds the theme tokens rendered into the site stylesheet.
type ThemeConfig struct {
	FontOrigin FontOrigin `yaml:"fontOrigin"`
	CDNCaching bool       `yaml:"cdnCaching"`
	Typography Typography `yaml:"typography"`
	Colors     Colors     `yaml:"colors"`
}

// Typography names the font families for headers, body text and code.
type Typography struct {
	Header string `yaml:"header"`
	Body   string `yaml:"body"`
	Code   string `yaml:"code"`
}

// Colors holds one color scheme per mode.
type Colors struct {
	LightMode ColorScheme `yaml:"lightMode"`
	DarkMode  ColorScheme `yaml:"darkMode"`
}

// ColorScheme is the set of CSS color tokens of one mode.
type ColorScheme struct {
	Light     string `yaml:"light"`
	Lightgray string `yaml:"lightgray"`
	Gray      string `yaml:"gray"`
	Darkgray  string `yaml:"darkgray"`
	Dark      string `yaml:"dark"`
	Secondary string `yaml:"secondary"`
	Tertiary  string `yaml:"tertiary"`
	Highlight string `yaml:"highlight"`
}

// Load reads configuration from configPath. Variables from .env and
// .env.local are loaded first (missing files are ignored, existing
// environment wins) and ${VAR} references in the file are expanded.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath) // #nosec G304 -- path is provided by the CLI user.
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.NotFoundError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read configuration").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		if ce, ok := ferrors.AsClassified(err); ok {
			return nil, ce.WithContext("path", configPath)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes, defaults and validates configuration bytes. Unknown keys at
// any level are configuration errors.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ferrors.ConfigError("configuration is empty").Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").Fatal().Build()
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		// godotenv.Load does not override variables that are already set.
		_ = godotenv.Load(name)
	}
}
