// ABOUTME: Persistence collaborators for the record store
// ABOUTME: Snapshot file, SQLite, journal, and in-memory backends

package persist

import "github.com/nainya/stringstore/pkg/store"

// Memory is a no-op persister for tests and ephemeral deployments.
type Memory struct{}

// NewMemory creates a persister that keeps nothing.
func NewMemory() *Memory { return &Memory{} }

func (*Memory) Load() (map[string]store.Record, error) { return nil, nil }

func (*Memory) Commit(store.Mutation, map[string]store.Record) error { return nil }

func (*Memory) Close() error { return nil }
