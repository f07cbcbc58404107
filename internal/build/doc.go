// Package build runs a site build: discover, load, transform, filter,
// freeze, emit, conflict check and write.
//
// Every execution path (the build and serve commands, tests) routes through
// Builder. Pages are transformed and filtered on a bounded worker pool;
// emitters then run sequentially, in configured order, over the frozen set
// of surviving pages. No file is written until the artifacts of every
// emitter have been checked for duplicate paths.
package build
