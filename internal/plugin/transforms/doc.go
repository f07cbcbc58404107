// Package transforms holds the built-in transformer plugins. Each file
// defines one plugin, its options struct with defaults and its Registration.
package transforms
