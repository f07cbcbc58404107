// Package builtin assembles the registry of every plugin shipped with
// sitegarden.
package builtin

import (
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
	"git.home.luguber.info/inful/sitegarden/internal/plugin/emitters"
	"git.home.luguber.info/inful/sitegarden/internal/plugin/filters"
	"git.home.luguber.info/inful/sitegarden/internal/plugin/transforms"
)

// Registry returns a new registry holding all built-in plugins.
func Registry() *plugin.Registry {
	return plugin.NewRegistry().
		MustRegister(transforms.Registrations()...).
		MustRegister(filters.Registrations()...).
		MustRegister(emitters.Registrations()...)
}
