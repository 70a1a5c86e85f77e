// ABOUTME: Record data model for stored strings
// ABOUTME: Defines Record, mutation events, and the persistence contract

package store

import (
	"time"

	"github.com/nainya/stringstore/pkg/analyze"
)

// Record is a stored string with its derived properties. Value, Properties,
// and CreatedAt are immutable once the record exists.
type Record struct {
	ID         string             `json:"id"` // content fingerprint, primary key
	Value      string             `json:"value"`
	Properties analyze.Properties `json:"properties"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Op is the kind of store mutation.
type Op byte

const (
	OpInsert Op = 1
	OpDelete Op = 2
)

// Mutation describes a single committed store change.
type Mutation struct {
	Op     Op
	ID     string // fingerprint, set for both ops
	Record Record // populated for inserts
}

// Persister is the persistence collaborator notified after every mutation.
// Commit receives the mutation plus the full in-memory state so that
// snapshot-style backends can serialize the whole document while
// log-style backends record just the change.
type Persister interface {
	Load() (map[string]Record, error)
	Commit(m Mutation, state map[string]Record) error
	Close() error
}
