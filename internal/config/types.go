package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DateType selects which page date is shown and sorted by.
type DateType string

const (
	DateCreated   DateType = "created"
	DateModified  DateType = "modified"
	DatePublished DateType = "published"
)

// IsValid reports whether the date type is recognized.
func (d DateType) IsValid() bool {
	switch d {
	case DateCreated, DateModified, DatePublished:
		return true
	}
	return false
}

// FontOrigin selects where fonts are loaded from.
type FontOrigin string

const (
	FontOriginGoogle FontOrigin = "googleFonts"
	FontOriginLocal  FontOrigin = "local"
)

// IsValid reports whether the font origin is recognized.
func (f FontOrigin) IsValid() bool {
	return f == FontOriginGoogle || f == FontOriginLocal
}

// AnalyticsProvider names a supported analytics integration.
type AnalyticsProvider string

const (
	AnalyticsPlausible AnalyticsProvider = "plausible"
	AnalyticsGoogle    AnalyticsProvider = "google"
	AnalyticsUmami     AnalyticsProvider = "umami"
)

// IsValid reports whether the provider is recognized.
func (a AnalyticsProvider) IsValid() bool {
	switch a {
	case AnalyticsPlausible, AnalyticsGoogle, AnalyticsUmami:
		return true
	}
	return false
}

// PluginsConfig holds the three ordered plugin lists. List order is the
// execution order.
type PluginsConfig struct {
	Transformers []PluginSpec `yaml:"transformers"`
	Filters      []PluginSpec `yaml:"filters"`
	Emitters     []PluginSpec `yaml:"emitters"`
}

// PluginSpec names one plugin invocation and its options. In YAML it is
// either a bare name or a mapping with name and options keys.
type PluginSpec struct {
	Name    string
	Options map[string]any
}

// Plugin is shorthand for a PluginSpec.
func Plugin(name string, options map[string]any) PluginSpec {
	return PluginSpec{Name: name, Options: options}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PluginSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		p.Name = node.Value
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			switch key.Value {
			case "name":
				if err := val.Decode(&p.Name); err != nil {
					return err
				}
			case "options":
				if val.Tag == "!!null" {
					continue
				}
				if val.Kind != yaml.MappingNode {
					return fmt.Errorf("line %d: plugin options must be a mapping", val.Line)
				}
				if err := val.Decode(&p.Options); err != nil {
					return err
				}
			default:
				return fmt.Errorf("line %d: field %s not found in plugin entry", key.Line, key.Value)
			}
		}
		return nil
	default:
		return fmt.Errorf("line %d: plugin entry must be a name or a mapping", node.Line)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (p PluginSpec) MarshalYAML() (any, error) {
	if len(p.Options) == 0 {
		return p.Name, nil
	}
	return struct {
		Name    string         `yaml:"name"`
		Options map[string]any `yaml:"options"`
	}{p.Name, p.Options}, nil
}
