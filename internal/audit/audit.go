// Package audit provides append-only audit logging for lock operations.
// The sentinel protocol itself is silent (the only on-disk state is the
// sentinel directories themselves), so this package is the out-of-band
// trail that lets an operator reconstruct who held what, and when a
// compromise fired.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Event types for audit log entries, one per acquisition/refresher
// outcome of the sentinel protocol.
const (
	EventAcquire              = "acquire"       // acquisition succeeded
	EventCollision            = "collision"     // acquisition found a live sentinel
	EventStaleReclaim         = "stale-reclaim" // acquisition removed and replaced a stale sentinel
	EventRelease              = "release"       // explicit unlock succeeded
	EventRefreshError         = "refresh-error" // a refresh tick hit a transient error
	EventCompromisedNotFound  = "compromised-not-found"
	EventCompromisedNotMine   = "compromised-not-mine"
	EventCompromisedThreshold = "compromised-threshold"
)

// Event represents a single audit log entry, serialized as one JSON line.
type Event struct {
	Timestamp     time.Time      `json:"ts"`
	Event         string         `json:"event"`
	CorrelationID string         `json:"correlation_id"`
	Target        string         `json:"target"`
	SentinelPath  string         `json:"sentinel_path"`
	Owner         string         `json:"owner"`
	Host          string         `json:"host"`
	PID           int            `json:"pid"`
	AgentID       string         `json:"agent_id,omitempty"`
	Extra         map[string]any `json:"extra,omitempty"`
}

const auditFileName = "audit.log"

// Writer appends audit events to a JSONL file. All writes are
// non-blocking: errors are logged via zerolog, never returned, so lock
// operations are never blocked by audit failures.
type Writer struct {
	rootDir string
}

// NewWriter creates a Writer that will append to <rootDir>/audit.log.
func NewWriter(rootDir string) *Writer {
	return &Writer{rootDir: rootDir}
}

// Emit appends an event to the audit log, stamping Timestamp and
// CorrelationID if the caller left them zero.
func (w *Writer) Emit(e *Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.CorrelationID == "" {
		e.CorrelationID = uuid.NewString()
	}

	data, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Str("event", e.Event).Msg("audit: marshal failed")
		return
	}
	data = append(data, '\n')

	path := filepath.Join(w.rootDir, auditFileName)

	// O_APPEND is atomic on POSIX for writes smaller than PIPE_BUF (typically
	// 4096 bytes). Our events are well under this limit.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) //nolint:gosec // G304: path is controlled
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("audit: open failed")
		return
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		log.Error().Err(err).Str("path", path).Msg("audit: write failed")
		return
	}

	if err := f.Sync(); err != nil {
		log.Error().Err(err).Str("path", path).Msg("audit: sync failed")
	}
}
