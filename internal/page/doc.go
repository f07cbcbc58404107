// Package page defines the intermediate representation of one content unit
// as it flows through the transformer, filter and emitter stages.
//
// A Page is owned by a single worker while transformers run. Before emitters
// run, the driver freezes every surviving page; any later mutation panics
// with ErrFrozen.
package page
