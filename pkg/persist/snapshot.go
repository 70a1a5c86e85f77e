// ABOUTME: Whole-document JSON snapshot persistence
// ABOUTME: Rewritten atomically on every mutation, tolerant load at startup

package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	"github.com/nainya/stringstore/pkg/store"
)

// Snapshot persists the full fingerprint→record mapping as one JSON document,
// rewritten after every mutation. With compression enabled the document is
// zstd-framed.
type Snapshot struct {
	path     string
	compress bool
	log      zerolog.Logger
	mu       sync.Mutex
}

// NewSnapshot creates a snapshot persister writing to path.
func NewSnapshot(path string, compress bool, log zerolog.Logger) *Snapshot {
	return &Snapshot{path: path, compress: compress, log: log}
}

// Load reads the snapshot wholesale. A missing file yields an empty state; a
// partial or corrupt file is tolerated by logging and starting empty.
func (s *Snapshot) Load() (map[string]store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: read %s: %w", s.path, err)
	}

	if s.compress {
		data, err = decompress(data)
		if err != nil {
			s.log.Warn().Err(err).Str("path", s.path).Msg("Snapshot decompression failed, starting empty")
			return nil, nil
		}
	}

	var records map[string]store.Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("Snapshot corrupt, starting empty")
		return nil, nil
	}

	s.log.Info().Int("records", len(records)).Str("path", s.path).Msg("Snapshot loaded")
	return records, nil
}

// Commit serializes the whole state. The mutation itself is irrelevant to
// this backend.
func (s *Snapshot) Commit(_ store.Mutation, state map[string]store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	if s.compress {
		data, err = compress(data)
		if err != nil {
			return fmt.Errorf("snapshot: compress: %w", err)
		}
	}

	// Write-then-rename so a crash mid-write never truncates the snapshot
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("snapshot: mkdir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("snapshot: rename: %w", err)
	}

	return nil
}

func (s *Snapshot) Close() error { return nil }

func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}

var _ store.Persister = (*Snapshot)(nil)
