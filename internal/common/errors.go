package common

import "errors"

var (
	// ErrNotFound marks a directory, archive or document that does not exist.
	// Callers report it and skip the step; it never aborts the process.
	ErrNotFound = errors.New("not found")

	// ErrMalformedDocument marks a catalog document with missing or mistyped keys,
	// or a schema document that is itself not a valid schema.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrArchiveCorrupt marks an archive that cannot be read or whose entries
	// cannot be extracted safely.
	ErrArchiveCorrupt = errors.New("archive corrupt")
)
