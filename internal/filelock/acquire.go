package filelock

import (
	"os"
	"time"

	"github.com/filelockd/filelockd/internal/fsadapter"
	"github.com/filelockd/filelockd/internal/precision"
)

// acquireResult is the outcome of a single tryAcquire call.
type acquireResult struct {
	mtime     time.Time
	precision precision.Precision
	reclaimed bool // true if a stale sentinel was removed and replaced
}

// tryAcquire implements the acquisition/staleness engine: create the
// sentinel, and if it already exists, reclaim it only when its mtime shows
// it stale. allowStaleReclaim bounds recursion to one stale-reclaim pass;
// it is true on the caller's first attempt and false on the single
// permitted re-entry, so at most one reclaim happens per call.
func tryAcquire(fs fsadapter.FS, prec *precision.Cache, sentinelPath string, staleMs time.Duration, staleDisabled bool, allowStaleReclaim bool) (acquireResult, error) {
	return tryAcquireInner(fs, prec, sentinelPath, staleMs, staleDisabled, allowStaleReclaim, false)
}

func tryAcquireInner(fs fsadapter.FS, prec *precision.Cache, sentinelPath string, staleMs time.Duration, staleDisabled bool, allowStaleReclaim, viaReclaim bool) (acquireResult, error) {
	err := fs.Mkdir(sentinelPath)
	if err == nil {
		mtime, p, perr := prec.Probe(fs, sentinelPath)
		if perr != nil {
			return acquireResult{}, &IOError{Op: "probe", Err: perr}
		}
		return acquireResult{mtime: mtime, precision: p, reclaimed: viaReclaim}, nil
	}

	if !os.IsExist(err) {
		return acquireResult{}, &IOError{Op: "mkdir", Err: err}
	}

	if staleDisabled || staleMs <= 0 {
		return acquireResult{}, &HeldError{SentinelPath: sentinelPath, Err: err}
	}

	info, statErr := fs.Stat(sentinelPath)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			if !allowStaleReclaim {
				return acquireResult{}, &HeldError{SentinelPath: sentinelPath, Err: statErr}
			}
			// Vanished between create and stat: re-enter once with
			// staleness disabled so a racing removal can't loop us forever.
			return tryAcquireInner(fs, prec, sentinelPath, staleMs, true, false, false)
		}
		return acquireResult{}, &IOError{Op: "stat", Err: statErr}
	}

	// A future mtime is never treated as stale here; the refresher's "mine
	// vs not mine" check is the backstop for that case.
	isStale := info.ModTime.Before(time.Now().Add(-staleMs))
	if !isStale {
		return acquireResult{}, &HeldError{SentinelPath: sentinelPath, Err: err}
	}

	if rmErr := fs.Rmdir(sentinelPath); rmErr != nil && !os.IsNotExist(rmErr) {
		return acquireResult{}, &IOError{Op: "rmdir", Err: rmErr}
	}

	if !allowStaleReclaim {
		return acquireResult{}, &HeldError{SentinelPath: sentinelPath, Err: err}
	}
	return tryAcquireInner(fs, prec, sentinelPath, staleMs, true, false, true)
}

// checkLocked implements the check() operation: does a live sentinel exist.
func checkLocked(fs fsadapter.FS, sentinelPath string, staleMs time.Duration, staleDisabled bool) (bool, error) {
	info, err := fs.Stat(sentinelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &IOError{Op: "stat", Err: err}
	}
	if staleDisabled {
		return true, nil
	}
	return !info.ModTime.Before(time.Now().Add(-staleMs)), nil
}
