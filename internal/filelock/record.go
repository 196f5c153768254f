package filelock

import (
	"sync"
	"time"

	"github.com/filelockd/filelockd/internal/audit"
	"github.com/filelockd/filelockd/internal/fsadapter"
	"github.com/filelockd/filelockd/internal/precision"
)

// record is the in-memory state for one held lock. Every field that the
// refresher and an explicit unlock might touch concurrently is guarded by
// r.mu.
type record struct {
	mu sync.Mutex

	canonicalKey string
	sentinelPath string
	fs           fsadapter.FS

	mtime          time.Time
	mtimePrecision precision.Precision
	lastRefreshAt  time.Time

	staleMs          time.Duration
	updateMs         time.Duration
	updateDisabled   bool
	nextRefreshDelay time.Duration
	refreshScheduled bool

	released bool

	onCompromised CompromiseFunc
	auditor       *audit.Writer

	timer *time.Timer
}

// markReleased flips the terminal bit and cancels any pending timer. Safe
// to call more than once; only the first call has effect. Returns whether
// this call was the one that performed the transition.
func (r *record) markReleased() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return false
	}
	r.released = true
	if r.timer != nil {
		r.timer.Stop()
	}
	return true
}

func (r *record) isReleased() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
