package plugin

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
)

// Options is the raw option record given to a factory.
type Options map[string]any

// Decode fills target, a pointer to an options struct that already holds
// the defaults, from opts. Keys are matched against the struct's yaml tags;
// an unknown key is a fatal configuration error.
func (o Options) Decode(pluginName string, target any) error {
	if len(o) == 0 {
		return nil
	}
	raw, err := yaml.Marshal(map[string]any(o))
	if err != nil {
		return optionsError(pluginName, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return optionsError(pluginName, err)
	}
	return nil
}

// Enum checks that value is one of allowed.
func Enum(pluginName, option, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return ferrors.ConfigError("invalid enum value").
		WithContext("plugin", pluginName).
		WithContext("option", option).
		WithContext("value", value).
		WithContext("allowed", strings.Join(allowed, "|")).
		Build()
}

// InvalidOption reports an option value outside its accepted range.
func InvalidOption(pluginName, option, message string) error {
	return ferrors.ConfigError(message).
		WithContext("plugin", pluginName).
		WithContext("option", option).
		Build()
}

func optionsError(pluginName string, err error) error {
	return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid plugin options").
		Fatal().
		WithContext("plugin", pluginName).
		Build()
}
