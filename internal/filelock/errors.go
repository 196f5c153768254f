package filelock

import (
	"errors"
	"fmt"
)

// Sentinel errors carrying the stable boundary codes from the interface
// contract. Callers match with errors.Is; detail-carrying wrappers below
// attach context via Unwrap.
var (
	// ErrLocked reports that a sentinel exists and is not stale (ELOCKED).
	ErrLocked = errors.New("ELOCKED: lock held")
	// ErrNotAcquired reports an unlock of a key this process never acquired (ENOTACQUIRED).
	ErrNotAcquired = errors.New("ENOTACQUIRED: lock not held by this process")
	// ErrAlreadyReleased reports a second invocation of a release handle (ERELEASED).
	ErrAlreadyReleased = errors.New("ERELEASED: release handle already invoked")
	// ErrCompromised tags callbacks delivered after the refresher loses the lock (ECOMPROMISED).
	ErrCompromised = errors.New("ECOMPROMISED: lock no longer held")
	// ErrSyncRetriesUnsupported reports retries > 0 passed to a synchronous call (ESYNC).
	ErrSyncRetriesUnsupported = errors.New("ESYNC: synchronous lock does not support retries")
)

// HeldError details a Collision: the sentinel path observed and, when
// there is one, the underlying mkdir/stat error.
type HeldError struct {
	SentinelPath string
	Err          error // underlying stat/mkdir error, if any
}

func (e *HeldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lock %q held: %v", e.SentinelPath, e.Err)
	}
	return fmt.Sprintf("lock %q held", e.SentinelPath)
}

func (e *HeldError) Unwrap() error { return ErrLocked }

// CompromiseKind classifies why the refresher decided the holder no longer
// owns its sentinel.
type CompromiseKind int

const (
	// NotFound: the sentinel vanished between ticks.
	NotFound CompromiseKind = iota
	// NotMine: the sentinel's mtime no longer matches what this holder wrote.
	NotMine
	// Threshold: stale_ms elapsed since the last successful refresh.
	Threshold
)

func (k CompromiseKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case NotMine:
		return "not mine"
	case Threshold:
		return "stale threshold exceeded"
	default:
		return "unknown"
	}
}

// CompromiseError is delivered to on_compromised callbacks and is the value
// the default (nil) handler panics with. It unwraps to ErrCompromised.
type CompromiseError struct {
	CanonicalKey string
	SentinelPath string
	Kind         CompromiseKind
}

func (e *CompromiseError) Error() string {
	return fmt.Sprintf("lock %q compromised: %s", e.CanonicalKey, e.Kind)
}

func (e *CompromiseError) Unwrap() error { return ErrCompromised }

// IOError wraps an underlying filesystem error that is not a collision
// (a failed realpath of a missing target, for one, arrives as an IOError
// around ENOENT). Unwrap exposes the original error so its code
// (ENOENT, EACCES, ...) passes through the boundary unchanged.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
