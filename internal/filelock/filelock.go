package filelock

import (
	"context"
	"time"

	"github.com/filelockd/filelockd/internal/audit"
	"github.com/filelockd/filelockd/internal/retrypolicy"
	"github.com/filelockd/filelockd/internal/sentinel"
)

// Lock resolves target, attempts acquisition, and on success registers a
// lock record and schedules its refresher. Collisions are retried under
// the caller's retry policy when Options.Retries > 0; the engine reports a
// collision or any I/O error from acquisition as retriable.
func Lock(ctx context.Context, target string, opts Options) (*ReleaseHandle, error) {
	r := opts.resolve()

	key, err := resolveCanonicalKey(r.fs, target, r.realpath)
	if err != nil {
		return nil, err
	}
	if err := sentinel.ValidateName(key); err != nil {
		return nil, err
	}
	sentinelPath := sentinel.PathOf(key, r.sentinelOverride)

	var result acquireResult
	policy := retrypolicy.Policy{Retries: r.retries, MinTimeout: 50 * time.Millisecond, MaxTimeout: 2 * time.Second, Factor: 2}

	attempt := func(ctx context.Context) error {
		res, err := tryAcquire(r.fs, defaultRegistry.prec, sentinelPath, r.stale, r.staleDisabled, true)
		if err != nil {
			if _, held := err.(*HeldError); held {
				emitEvent(r.auditor, audit.EventCollision, target, sentinelPath)
			}
			if isRetriable(err) && r.retries > 0 {
				return retrypolicy.MarkRetriable(err)
			}
			return err
		}
		result = res
		return nil
	}

	if err := retrypolicy.Do(ctx, policy, attempt); err != nil {
		return nil, err
	}
	if result.reclaimed {
		emitEvent(r.auditor, audit.EventStaleReclaim, target, sentinelPath)
	} else {
		emitEvent(r.auditor, audit.EventAcquire, target, sentinelPath)
	}

	rec := &record{
		canonicalKey:     key,
		sentinelPath:     sentinelPath,
		fs:               r.fs,
		mtime:            result.mtime,
		mtimePrecision:   result.precision,
		lastRefreshAt:    time.Now(),
		staleMs:          r.stale,
		updateMs:         r.update,
		updateDisabled:   r.updateDisabled || r.staleDisabled,
		nextRefreshDelay: r.update,
		onCompromised:    r.onCompromised,
		auditor:          r.auditor,
	}

	if err := defaultRegistry.insert(key, rec); err != nil {
		// This process already holds the key, which is a programming
		// error on the caller's part. Unwind the filesystem effect we
		// just created.
		_ = r.fs.Rmdir(sentinelPath)
		return nil, err
	}

	if !rec.updateDisabled {
		scheduleNext(rec)
	}

	return &ReleaseHandle{rec: rec}, nil
}

// LockSync is the synchronous counterpart; it rejects Options.Retries > 0
// since a synchronous caller has no scheduler to run backoff delays on.
func LockSync(target string, opts Options) (*ReleaseHandle, error) {
	if opts.Retries > 0 {
		return nil, ErrSyncRetriesUnsupported
	}
	return Lock(context.Background(), target, opts)
}

// Unlock resolves target and releases the lock this process holds on it.
func Unlock(target string, opts Options) error {
	r := opts.resolve()
	key, err := resolveCanonicalKey(r.fs, target, r.realpath)
	if err != nil {
		return err
	}
	if err := unlockByKey(key); err != nil {
		return err
	}
	emitEvent(r.auditor, audit.EventRelease, target, sentinel.PathOf(key, r.sentinelOverride))
	return nil
}

// UnlockSync is identical to Unlock; unlock has no retry surface to make
// synchronous, so this exists only for symmetry with Lock/LockSync.
func UnlockSync(target string, opts Options) error {
	return Unlock(target, opts)
}

// Check reports whether target currently appears locked. A stale sentinel
// reports unlocked, matching acquisition's own staleness test.
func Check(target string, opts Options) (bool, error) {
	r := opts.resolve()
	key, err := resolveCanonicalKey(r.fs, target, r.realpath)
	if err != nil {
		return false, err
	}
	sentinelPath := sentinel.PathOf(key, r.sentinelOverride)
	return checkLocked(r.fs, sentinelPath, r.stale, r.staleDisabled)
}

// CheckSync is identical to Check; provided for interface symmetry.
func CheckSync(target string, opts Options) (bool, error) {
	return Check(target, opts)
}

// isRetriable reports whether err is one the engine signals as retriable:
// a collision (HeldError) or an I/O error (IOError). Every IOError counts;
// transient and permanent I/O errors are not told apart.
func isRetriable(err error) bool {
	switch err.(type) {
	case *HeldError, *IOError:
		return true
	default:
		return false
	}
}
