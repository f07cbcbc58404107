package build

import "errors"

// Sentinel errors classifying high-level build failures. They are always
// wrapped with context at the call site.
var (
	ErrNoConfig     = errors.New("sitegarden: configuration required")
	ErrDiscovery    = errors.New("sitegarden: discovery error")
	ErrConflict     = errors.New("sitegarden: artifact path conflict")
	ErrInvalidPath  = errors.New("sitegarden: invalid artifact path")
	ErrWrite        = errors.New("sitegarden: write error")
	ErrUnsafeOutput = errors.New("sitegarden: refusing to clean output directory")
)
