package journal

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"time"
)

// OpType represents the type of journal operation
type OpType byte

const (
	// OpInsert records a stored string (key = fingerprint, payload = record JSON)
	OpInsert OpType = 1

	// OpDelete records a removal (key = fingerprint)
	OpDelete OpType = 2

	// OpCheckpoint marks a compaction boundary
	OpCheckpoint OpType = 3
)

const (
	// EntryHeaderSize is the fixed size of the entry header
	// Layout: LSN(8) + OpType(1) + Reserved(7) + KeyLen(4) + PayloadLen(4) + Timestamp(8)
	EntryHeaderSize = 32
)

// Entry is a single journal entry
type Entry struct {
	LSN       uint64 // monotonically increasing sequence number
	Op        OpType
	Key       []byte // record fingerprint
	Payload   []byte // record JSON (inserts only)
	Timestamp time.Time
}

// Encode serializes the entry with a trailing CRC32 checksum
// Format: [Header(32)] [Key] [Payload] [CRC32(4)]
func (e *Entry) Encode() []byte {
	keyLen := len(e.Key)
	payloadLen := len(e.Payload)
	buf := make([]byte, EntryHeaderSize+keyLen+payloadLen+4)

	binary.LittleEndian.PutUint64(buf[0:8], e.LSN)
	buf[8] = byte(e.Op)
	// bytes 9-15 are reserved (padding)
	binary.LittleEndian.PutUint32(buf[16:20], uint32(keyLen))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(payloadLen))
	binary.LittleEndian.PutUint64(buf[24:32], uint64(e.Timestamp.Unix()))

	offset := EntryHeaderSize
	copy(buf[offset:], e.Key)
	offset += keyLen
	copy(buf[offset:], e.Payload)
	offset += payloadLen

	// Checksum excludes the CRC32 field itself
	crc := crc32.ChecksumIEEE(buf[:offset])
	binary.LittleEndian.PutUint32(buf[offset:offset+4], crc)

	return buf
}

// DecodeEntry deserializes a journal entry
func DecodeEntry(data []byte) (*Entry, error) {
	if len(data) < EntryHeaderSize+4 {
		return nil, ErrTruncated
	}

	storedCRC := binary.LittleEndian.Uint32(data[len(data)-4:])
	computedCRC := crc32.ChecksumIEEE(data[:len(data)-4])
	if storedCRC != computedCRC {
		return nil, ErrCorrupted
	}

	entry := &Entry{
		LSN: binary.LittleEndian.Uint64(data[0:8]),
		Op:  OpType(data[8]),
	}

	keyLen := binary.LittleEndian.Uint32(data[16:20])
	payloadLen := binary.LittleEndian.Uint32(data[20:24])
	entry.Timestamp = time.Unix(int64(binary.LittleEndian.Uint64(data[24:32])), 0)

	if len(data) < EntryHeaderSize+int(keyLen)+int(payloadLen)+4 {
		return nil, ErrTruncated
	}

	offset := EntryHeaderSize
	if keyLen > 0 {
		entry.Key = make([]byte, keyLen)
		copy(entry.Key, data[offset:offset+int(keyLen)])
		offset += int(keyLen)
	}
	if payloadLen > 0 {
		entry.Payload = make([]byte, payloadLen)
		copy(entry.Payload, data[offset:offset+int(payloadLen)])
	}

	return entry, nil
}

// Size returns the encoded size of the entry
func (e *Entry) Size() int {
	return EntryHeaderSize + len(e.Key) + len(e.Payload) + 4
}

// String returns a human-readable representation of the entry
func (e *Entry) String() string {
	opName := "UNKNOWN"
	switch e.Op {
	case OpInsert:
		opName = "INSERT"
	case OpDelete:
		opName = "DELETE"
	case OpCheckpoint:
		opName = "CHECKPOINT"
	}
	return fmt.Sprintf("Journal[LSN=%d Op=%s KeyLen=%d PayloadLen=%d]",
		e.LSN, opName, len(e.Key), len(e.Payload))
}
