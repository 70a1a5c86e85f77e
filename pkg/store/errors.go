// Package store keeps string records keyed by content fingerprint
package store

import "errors"

var (
	// ErrDuplicate indicates an insert whose fingerprint is already present
	ErrDuplicate = errors.New("store: value already exists")

	// ErrNotFound indicates a lookup or delete miss
	ErrNotFound = errors.New("store: value not found")
)
