package plugin

import "fmt"

// Stage identifies the plugin list a plugin belongs to.
type Stage string

const (
	StageTransformer Stage = "transformer"
	StageFilter      Stage = "filter"
	StageEmitter     Stage = "emitter"
)

// IsValid returns true if the stage is recognized.
func (s Stage) IsValid() bool {
	switch s {
	case StageTransformer, StageFilter, StageEmitter:
		return true
	default:
		return false
	}
}

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// StageOf reports which stage interface p implements.
func StageOf(p Plugin) (Stage, bool) {
	switch p.(type) {
	case Transformer:
		return StageTransformer, true
	case Filter:
		return StageFilter, true
	case Emitter:
		return StageEmitter, true
	default:
		return "", false
	}
}

// Error represents a failure raised by a plugin while it ran.
type Error struct {
	// PluginName identifies which plugin failed.
	PluginName string

	// Operation describes what the plugin was doing when it failed.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("plugin %s failed during %s: %v", e.PluginName, e.Operation, e.Err)
}

// Unwrap returns the underlying error for error inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new plugin error.
func NewError(pluginName, operation string, err error) *Error {
	return &Error{
		PluginName: pluginName,
		Operation:  operation,
		Err:        err,
	}
}
