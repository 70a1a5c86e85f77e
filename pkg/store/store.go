// ABOUTME: In-memory record store with insert-if-absent semantics
// ABOUTME: One exclusive lock guards every check-then-act sequence

package store

import (
	"sync"
	"time"

	"github.com/nainya/stringstore/pkg/analyze"
)

// Store holds string records keyed by content fingerprint. All mutation and
// enumeration goes through one lock, so insert-if-absent and delete-by-key
// stay atomic under concurrent request handling.
type Store struct {
	mu        sync.RWMutex
	records   map[string]Record
	persister Persister

	// onPersistError receives persistence failures. The in-memory mutation
	// has already been applied when it fires; the write is fire-and-forget.
	onPersistError func(error)
}

// Option configures a Store.
type Option func(*Store)

// WithPersistErrorHandler installs a callback for persistence failures.
func WithPersistErrorHandler(fn func(error)) Option {
	return func(s *Store) { s.onPersistError = fn }
}

// Open creates a store backed by the given persister and loads the
// persisted state. A nil persister yields a purely in-memory store.
func Open(p Persister, opts ...Option) (*Store, error) {
	s := &Store{
		records:        make(map[string]Record),
		persister:      p,
		onPersistError: func(error) {},
	}
	for _, opt := range opts {
		opt(s)
	}

	if p != nil {
		loaded, err := p.Load()
		if err != nil {
			return nil, err
		}
		if loaded != nil {
			s.records = loaded
		}
	}

	return s, nil
}

// Insert computes the fingerprint and properties for value and stores a new
// record. It fails with ErrDuplicate when the fingerprint is already present;
// nothing is mutated on that path.
func (s *Store) Insert(value string) (Record, error) {
	id := analyze.Fingerprint(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; exists {
		return Record{}, ErrDuplicate
	}

	rec := Record{
		ID:         id,
		Value:      value,
		Properties: analyze.Compute(value),
		CreatedAt:  time.Now().UTC(),
	}
	s.records[id] = rec

	s.commit(Mutation{Op: OpInsert, ID: id, Record: rec})
	return rec, nil
}

// Get looks up a record by its value's fingerprint.
func (s *Store) Get(value string) (Record, error) {
	id := analyze.Fingerprint(value)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Delete removes a record by its value's fingerprint.
func (s *Store) Delete(value string) error {
	id := analyze.Fingerprint(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)

	s.commit(Mutation{Op: OpDelete, ID: id})
	return nil
}

// List returns every record. Order is not guaranteed stable across reloads.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close releases the persistence collaborator.
func (s *Store) Close() error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Close()
}

// commit notifies the persister. Caller must hold the write lock, which keeps
// the state snapshot consistent with the mutation being reported.
func (s *Store) commit(m Mutation) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Commit(m, s.records); err != nil {
		s.onPersistError(err)
	}
}
