package journal

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCompactThreshold is the journal size that triggers compaction (16MB)
const DefaultCompactThreshold = 16 << 20

// Journal is an append-only log of record mutations. Replay reconstructs the
// live state; Compact rewrites the file down to one insert per live record.
type Journal struct {
	// Path is the journal file path
	Path string

	// CompactThreshold is the file size in bytes above which Append
	// reports that compaction is due (0 means DefaultCompactThreshold)
	CompactThreshold int64

	fd       *os.File
	mu       sync.Mutex
	lsn      uint64
	fileSize int64
	closed   bool
}

// Open opens or creates the journal and scans it for the highest LSN
func (j *Journal) Open() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.Path), 0755); err != nil {
		return err
	}

	fd, err := os.OpenFile(j.Path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	j.fd = fd

	stat, err := fd.Stat()
	if err != nil {
		return err
	}
	j.fileSize = stat.Size()

	maxLSN, err := j.scanForHighestLSN()
	if err != nil {
		return err
	}
	atomic.StoreUint64(&j.lsn, maxLSN)

	j.closed = false
	return nil
}

// NextLSN returns the next log sequence number
func (j *Journal) NextLSN() uint64 {
	return atomic.AddUint64(&j.lsn, 1)
}

// Append writes an entry to the journal. The returned bool reports whether
// the file has grown past the compaction threshold.
func (j *Journal) Append(entry *Entry) (compactDue bool, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return false, ErrClosed
	}

	data := entry.Encode()
	n, err := j.fd.Write(data)
	if err != nil {
		return false, err
	}
	j.fileSize += int64(n)

	threshold := j.CompactThreshold
	if threshold == 0 {
		threshold = DefaultCompactThreshold
	}
	return j.fileSize > threshold, nil
}

// Fsync ensures all written data is persisted to disk
func (j *Journal) Fsync() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrClosed
	}
	return j.fd.Sync()
}

// Replay reads every entry in order, invoking fn for each. Corrupted or
// truncated tails end the replay silently: everything before the damage is
// still recovered.
func (j *Journal) Replay(fn func(*Entry)) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	fd, err := os.Open(j.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer fd.Close()

	for {
		entry, err := readEntry(fd)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// Damaged tail: stop here, keep what was recovered
			return nil
		}
		fn(entry)
	}
}

// Compact atomically replaces the journal with the given entries followed by
// a checkpoint marker. Callers pass one insert entry per live record.
func (j *Journal) Compact(entries []*Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrClosed
	}

	tmpPath := j.Path + ".compact"
	tmp, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	var size int64
	for _, entry := range entries {
		n, err := tmp.Write(entry.Encode())
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return err
		}
		size += int64(n)
	}

	marker := &Entry{
		LSN:       atomic.AddUint64(&j.lsn, 1),
		Op:        OpCheckpoint,
		Timestamp: time.Now(),
	}
	n, err := tmp.Write(marker.Encode())
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	size += int64(n)

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := j.fd.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, j.Path); err != nil {
		return err
	}

	fd, err := os.OpenFile(j.Path, os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	j.fd = fd
	j.fileSize = size

	return nil
}

// Size returns the current journal file size
func (j *Journal) Size() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileSize
}

// Close closes the journal
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	err := j.fd.Close()
	j.closed = true
	return err
}

// scanForHighestLSN walks the journal and returns the highest LSN.
// Caller must hold mu.
func (j *Journal) scanForHighestLSN() (uint64, error) {
	fd, err := os.Open(j.Path)
	if err != nil {
		return 0, err
	}
	defer fd.Close()

	var maxLSN uint64
	for {
		entry, err := readEntry(fd)
		if err == io.EOF {
			break
		}
		if err != nil {
			// Damaged tail; the entries before it already gave us the LSN
			break
		}
		if entry.LSN > maxLSN {
			maxLSN = entry.LSN
		}
	}

	return maxLSN, nil
}

// readEntry reads a single entry from the reader
func readEntry(r io.Reader) (*Entry, error) {
	header := make([]byte, EntryHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, ErrTruncated
		}
		return nil, err
	}

	keyLen := binary.LittleEndian.Uint32(header[16:20])
	payloadLen := binary.LittleEndian.Uint32(header[20:24])

	data := make([]byte, EntryHeaderSize+int(keyLen)+int(payloadLen)+4)
	copy(data, header)
	if _, err := io.ReadFull(r, data[EntryHeaderSize:]); err != nil {
		return nil, ErrTruncated
	}

	return DecodeEntry(data)
}
