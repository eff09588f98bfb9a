// Package common defines sentinel errors shared by the document model, the
// query log, the repositories and the CLI. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Document errors.
	ErrMalformedDocument = errors.New("malformed document")

	// Query log errors. Read corruption is recovered inside the log and never
	// surfaces; a failed write does.
	ErrIOFailure = errors.New("io failure")

	// A query log record that cannot be executed.
	ErrUnsupportedRecord = errors.New("unsupported query record")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid config")
)
