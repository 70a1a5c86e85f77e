// ABOUTME: Journal-backed persistence for the record store
// ABOUTME: Appends one entry per mutation, compacts past a size threshold

package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nainya/stringstore/pkg/journal"
	"github.com/nainya/stringstore/pkg/store"
)

// Journal persists mutations to an append-only log, replaying it at startup.
// When the log outgrows its threshold the live state is compacted back into
// it, one insert entry per record.
type Journal struct {
	j   *journal.Journal
	log zerolog.Logger
}

// NewJournal opens (or creates) a journal-backed persister at path.
func NewJournal(path string, log zerolog.Logger) (*Journal, error) {
	j := &journal.Journal{Path: path}
	if err := j.Open(); err != nil {
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}
	return &Journal{j: j, log: log}, nil
}

// Load replays the journal into the live mapping. Entries with undecodable
// payloads are skipped with a warning; a damaged tail ends the replay with
// everything before it recovered.
func (p *Journal) Load() (map[string]store.Record, error) {
	records := make(map[string]store.Record)

	err := p.j.Replay(func(e *journal.Entry) {
		switch e.Op {
		case journal.OpInsert:
			var rec store.Record
			if err := json.Unmarshal(e.Payload, &rec); err != nil {
				p.log.Warn().Err(err).Uint64("lsn", e.LSN).Msg("Skipping journal entry with undecodable payload")
				return
			}
			records[string(e.Key)] = rec
		case journal.OpDelete:
			delete(records, string(e.Key))
		case journal.OpCheckpoint:
			// compaction boundary, nothing to apply
		}
	})
	if err != nil {
		return nil, fmt.Errorf("journal: replay: %w", err)
	}

	p.log.Info().Int("records", len(records)).Msg("Journal state replayed")
	return records, nil
}

// Commit appends the mutation and compacts when the log has grown past its
// threshold.
func (p *Journal) Commit(m store.Mutation, state map[string]store.Record) error {
	entry := &journal.Entry{
		LSN:       p.j.NextLSN(),
		Key:       []byte(m.ID),
		Timestamp: time.Now(),
	}

	switch m.Op {
	case store.OpInsert:
		payload, err := json.Marshal(m.Record)
		if err != nil {
			return fmt.Errorf("journal: marshal record: %w", err)
		}
		entry.Op = journal.OpInsert
		entry.Payload = payload
	case store.OpDelete:
		entry.Op = journal.OpDelete
	default:
		return fmt.Errorf("journal: unknown mutation op %d", m.Op)
	}

	compactDue, err := p.j.Append(entry)
	if err != nil {
		return fmt.Errorf("journal: append: %w", err)
	}
	if err := p.j.Fsync(); err != nil {
		return fmt.Errorf("journal: fsync: %w", err)
	}

	if compactDue {
		if err := p.compact(state); err != nil {
			// Compaction failure is not fatal: the log still holds the data
			p.log.Warn().Err(err).Msg("Journal compaction failed")
		}
	}

	return nil
}

// Close closes the underlying journal.
func (p *Journal) Close() error {
	return p.j.Close()
}

func (p *Journal) compact(state map[string]store.Record) error {
	entries := make([]*journal.Entry, 0, len(state))
	for id, rec := range state {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("journal: marshal record: %w", err)
		}
		entries = append(entries, &journal.Entry{
			LSN:       p.j.NextLSN(),
			Op:        journal.OpInsert,
			Key:       []byte(id),
			Payload:   payload,
			Timestamp: time.Now(),
		})
	}

	if err := p.j.Compact(entries); err != nil {
		return err
	}

	p.log.Info().Int("records", len(entries)).Int64("size_bytes", p.j.Size()).Msg("Journal compacted")
	return nil
}

var _ store.Persister = (*Journal)(nil)
