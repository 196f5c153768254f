package demo

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// LedgerEntry records one worker's hold of the lock: when it acquired,
// when it released, and who it was. Chained entries let VerifyLedger
// prove after the fact that no two holds ever overlapped.
type LedgerEntry struct {
	Seq        int       `json:"seq"`
	WorkerID   int       `json:"worker"`
	Owner      string    `json:"owner"`
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquired_at"`
	ReleasedAt time.Time `json:"released_at"`
	Prev       string    `json:"prev"`
	Hash       string    `json:"h"`
}

const genesisHash = "GENESIS"

// ComputeHash computes the SHA256 hash for a ledger entry. The hash
// covers all fields except "h" itself.
func ComputeHash(e *LedgerEntry) string {
	canonical := struct {
		Seq        int       `json:"seq"`
		WorkerID   int       `json:"worker"`
		Owner      string    `json:"owner"`
		PID        int       `json:"pid"`
		AcquiredAt time.Time `json:"acquired_at"`
		ReleasedAt time.Time `json:"released_at"`
		Prev       string    `json:"prev"`
	}{
		Seq:        e.Seq,
		WorkerID:   e.WorkerID,
		Owner:      e.Owner,
		PID:        e.PID,
		AcquiredAt: e.AcquiredAt,
		ReleasedAt: e.ReleasedAt,
		Prev:       e.Prev,
	}
	data, _ := json.Marshal(canonical)
	sum := sha256.Sum256(append([]byte(e.Prev), data...))
	return fmt.Sprintf("%x", sum)
}

// LedgerWriter appends entries to a JSONL ledger file with hash chaining.
// Safe for concurrent use.
type LedgerWriter struct {
	mu       sync.Mutex
	path     string
	prevHash string
}

// NewLedgerWriter creates a writer for the given ledger file path.
func NewLedgerWriter(path string) *LedgerWriter {
	return &LedgerWriter{
		path:     path,
		prevHash: genesisHash,
	}
}

// Append writes a ledger entry, computing and chaining its hash.
// Thread-safe: serializes access to the hash chain.
func (w *LedgerWriter) Append(e *LedgerEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	e.Prev = w.prevHash
	e.Hash = ComputeHash(e)

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("ledger marshal: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // path is controlled
	if err != nil {
		return fmt.Errorf("ledger open: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("ledger write: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("ledger sync: %w", err)
	}

	w.prevHash = e.Hash
	return nil
}

// PrevHash returns the current chain tip hash.
func (w *LedgerWriter) PrevHash() string {
	return w.prevHash
}
