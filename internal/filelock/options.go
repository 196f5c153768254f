package filelock

import (
	"time"

	"github.com/filelockd/filelockd/internal/audit"
	"github.com/filelockd/filelockd/internal/fsadapter"
)

// Defaults and clamps applied during option resolution.
const (
	DefaultStale = 10 * time.Second
	minStale     = 2 * time.Second
	minUpdate    = 1 * time.Second
)

// CompromiseFunc is invoked at most once per Lock record, on the coordinator
// context, when the refresher determines the holder no longer owns its
// sentinel. The default (nil) handler rethrows into the host process by
// panicking with the *CompromiseError; the CLI and demo packages install
// loggers here instead.
type CompromiseFunc func(*CompromiseError)

// Options configures a single lock/unlock/check call. Zero value is valid
// and resolves to the documented defaults.
type Options struct {
	// Stale is the staleness threshold. Zero means "use the default";
	// any other value below 2s (negative values included) is clamped up
	// to 2s. Use StaleDisabled to turn staleness reclaim off.
	Stale time.Duration
	// StaleDisabled explicitly disables staleness reclaim even when Stale
	// is left at zero, distinguishing "use default" from "disabled".
	StaleDisabled bool

	// Update is the refresh interval. Zero means "derive from Stale/2".
	Update time.Duration
	// UpdateDisabled explicitly turns off the refresher.
	UpdateDisabled bool

	// Retries bounds the retry-adapter's attempt budget for lock(); unused
	// by unlock/check. Synchronous callers must leave this at 0.
	Retries uint

	// Realpath selects symlink resolution (true, the default) over lexical
	// normalization when computing the canonical key.
	Realpath *bool

	// SentinelPath overrides the default "<canonical_key>.lock" naming.
	SentinelPath string

	// FS is the filesystem adapter; defaults to fsadapter.NewReal().
	FS fsadapter.FS

	// OnCompromised receives the compromise notification. A nil value
	// (the zero-value default) means the refresher panics on its own
	// goroutine with a *CompromiseError instead of silently swallowing
	// the loss of the lock. The CLI and demo packages install a logger
	// here instead of relying on that default.
	OnCompromised CompromiseFunc

	// Auditor, if set, receives an event for every acquire, collision,
	// stale-reclaim, release, refresh error, and compromise outcome. Nil
	// disables audit logging for the call.
	Auditor *audit.Writer
}

// resolved holds option values after defaulting and clamping.
type resolved struct {
	stale            time.Duration
	staleDisabled    bool
	update           time.Duration
	updateDisabled   bool
	retries          uint
	realpath         bool
	sentinelOverride string
	fs               fsadapter.FS
	onCompromised    CompromiseFunc
	auditor          *audit.Writer
}

func (o Options) resolve() resolved {
	r := resolved{
		retries:          o.Retries,
		sentinelOverride: o.SentinelPath,
		fs:               o.FS,
		onCompromised:    o.OnCompromised,
		auditor:          o.Auditor,
	}
	if r.fs == nil {
		r.fs = fsadapter.NewReal()
	}

	if o.Realpath == nil {
		r.realpath = true
	} else {
		r.realpath = *o.Realpath
	}

	switch {
	case o.StaleDisabled:
		r.staleDisabled = true
	case o.Stale == 0:
		r.stale = DefaultStale
	case o.Stale < minStale:
		r.stale = minStale
	default:
		r.stale = o.Stale
	}

	switch {
	case o.UpdateDisabled:
		r.updateDisabled = true
	case o.Update == 0:
		r.update = clampUpdate(r.stale/2, r.stale)
	default:
		r.update = clampUpdate(o.Update, r.stale)
	}

	return r
}

// clampUpdate clamps the refresh interval into [minUpdate, stale/2].
func clampUpdate(update, stale time.Duration) time.Duration {
	max := stale / 2
	if max < minUpdate {
		max = minUpdate
	}
	if update < minUpdate {
		return minUpdate
	}
	if update > max {
		return max
	}
	return update
}
