// Package errors provides the classified error primitives used across sitegarden.
//
// Every failure that can stop a build, or that must be reported to the user
// at the end of one, is expressed as a ClassifiedError carrying a category,
// a severity and structured context.
//
// Key features:
//   - ErrorCategory: broad classification (config, plugin, transform, emit, conflict, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and messages for the command line
//
// Example usage:
//
//	err := errors.ConfigError("unknown option").
//		WithContext("plugin", "CrawlLinks").
//		WithContext("option", "linkResolution").
//		WithCause(decodeErr).
//		Build()
package errors
