package filelock

import (
	"os"
	"time"

	"github.com/filelockd/filelockd/internal/audit"
	"github.com/filelockd/filelockd/internal/precision"
)

// recoveryDelay is the quick-retry delay after a transient refresh error.
// It is never longer than the normal update interval (which is clamped to
// at least 1s), so a blip doesn't eat into the staleness budget.
const recoveryDelay = 1 * time.Second

// scheduleNext arms the record's resumable single-shot timer. It takes
// rec.mu itself to read the delay and released bit and to store the timer,
// so the caller must not hold rec.mu when calling it.
func scheduleNext(rec *record) {
	rec.mu.Lock()
	if rec.released {
		rec.mu.Unlock()
		return
	}
	delay := rec.nextRefreshDelay
	rec.refreshScheduled = true
	rec.timer = time.AfterFunc(delay, func() { tick(rec) })
	rec.mu.Unlock()
}

// tick runs one refresh cycle. Every step rechecks rec.released after any
// filesystem call, since an explicit unlock may have run while the call
// was in flight.
func tick(rec *record) {
	rec.mu.Lock()
	if rec.released {
		rec.mu.Unlock()
		return
	}
	fs := rec.fs
	sentinelPath := rec.sentinelPath
	recordedMtime := rec.mtime
	prec := rec.mtimePrecision
	staleMs := rec.staleMs
	lastRefreshAt := rec.lastRefreshAt
	rec.mu.Unlock()

	info, err := fs.Stat(sentinelPath)
	overThreshold := time.Since(lastRefreshAt) > staleMs

	if err != nil {
		classifyRefreshError(rec, err, lastRefreshAt, staleMs)
		return
	}

	if overThreshold {
		compromise(rec, Threshold)
		return
	}

	if !precision.Equal(info.ModTime, recordedMtime, prec) {
		compromise(rec, NotMine)
		return
	}

	writeMtime := precision.WriteMtime(time.Now(), prec)
	utimesErr := fs.Utimes(sentinelPath, writeMtime, writeMtime)

	rec.mu.Lock()
	if rec.released {
		// Explicit unlock raced ahead of us; abandon this tick's result
		// entirely rather than writing a refreshed mtime over a removed
		// sentinel.
		rec.mu.Unlock()
		return
	}
	rec.mu.Unlock()

	if utimesErr != nil {
		classifyRefreshError(rec, utimesErr, lastRefreshAt, staleMs)
		return
	}

	rec.mu.Lock()
	rec.mtime = writeMtime
	rec.lastRefreshAt = time.Now()
	rec.nextRefreshDelay = rec.updateMs
	rec.mu.Unlock()
	scheduleNext(rec)
}

// classifyRefreshError resolves a failed stat or utimes into the record's
// fate: the sentinel vanished (NotFound), the staleness budget ran out
// while the error persisted (Threshold), or the error is transient and
// the tick retries on the recovery delay. A transient error that outlives
// the budget still compromises: another party may already treat the
// sentinel as reclaimable.
func classifyRefreshError(rec *record, err error, lastRefreshAt time.Time, staleMs time.Duration) {
	switch {
	case os.IsNotExist(err):
		compromise(rec, NotFound)
	case time.Since(lastRefreshAt) > staleMs:
		compromise(rec, Threshold)
	default:
		emitEvent(rec.auditor, audit.EventRefreshError, rec.canonicalKey, rec.sentinelPath)
		requeueAfterTransientError(rec)
	}
}

func requeueAfterTransientError(rec *record) {
	rec.mu.Lock()
	rec.nextRefreshDelay = recoveryDelay
	rec.mu.Unlock()
	scheduleNext(rec)
}

// compromise transitions the record to terminal state and fires the
// callback exactly once, reading out the callback reference before
// mutating shared state.
func compromise(rec *record, kind CompromiseKind) {
	cb := rec.onCompromised
	if !rec.markReleased() {
		return
	}
	defaultRegistry.remove(rec.canonicalKey)
	emitEvent(rec.auditor, compromiseEventName(kind), rec.canonicalKey, rec.sentinelPath)

	cbErr := &CompromiseError{
		CanonicalKey: rec.canonicalKey,
		SentinelPath: rec.sentinelPath,
		Kind:         kind,
	}

	if cb == nil {
		// With no callback installed there is nowhere else for the loss
		// of the lock to surface, so it panics on the refresher's own
		// goroutine rather than vanishing silently.
		panic(cbErr)
	}
	cb(cbErr)
}
