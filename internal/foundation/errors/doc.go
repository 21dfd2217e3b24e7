// Package errors provides the classified error primitives shared by every stage of
// the content pipeline.
//
// Errors carry a category (which maps to a CLI exit code), a severity, a human
// message and structured context such as the source path. Package-level sentinels
// built with the fluent builder compare through errors.Is on category and message,
// so a loader error carrying a path still matches its sentinel:
//
//	var ErrMissingTitle = errors.ContentError("missing title").Build()
//
//	err := errors.ContentError("missing title").
//		WithContext("path", path).
//		Build()
//
//	stderrors.Is(err, ErrMissingTitle) // true
//
// Only the CLI adapter terminates the process.
package errors
