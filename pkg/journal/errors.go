// Package journal implements an append-only mutation log for record persistence
package journal

import "errors"

var (
	// ErrCorrupted indicates a corrupted journal entry (CRC mismatch)
	ErrCorrupted = errors.New("journal: corrupted entry")

	// ErrTruncated indicates a truncated journal entry
	ErrTruncated = errors.New("journal: truncated entry")

	// ErrClosed indicates an operation on a closed journal
	ErrClosed = errors.New("journal: closed")
)
