// Package precision probes whether a filesystem device records modification
// times with millisecond or whole-second resolution, and caches the answer
// per device so the probing write only happens once.
//
// The probe itself-writing a timestamp five milliseconds past a second
// boundary and checking whether the sub-second digits survive a stat round
// trip-is the one invasive operation in the whole engine; the per-device
// cache, keyed by device ID and memoized since the answer never changes for
// a live device, is what keeps it to one write.
package precision

import (
	"sync"
	"time"

	"github.com/filelockd/filelockd/internal/fsadapter"
)

// Precision is the resolution at which a device records mtimes.
type Precision int

const (
	// Millisecond filesystems preserve sub-second mtime digits.
	Millisecond Precision = iota
	// Second filesystems truncate mtimes to whole seconds.
	Second
)

func (p Precision) String() string {
	if p == Millisecond {
		return "ms"
	}
	return "s"
}

// Cache memoizes the probed precision per device identifier. The zero value
// is ready to use. The lock engine keeps one process-wide Cache in its
// holder registry; doctor's precision check probes with a throwaway one.
type Cache struct {
	mu    sync.Mutex
	byDev map[uint64]Precision
}

// NewCache returns an empty per-device precision cache.
func NewCache() *Cache {
	return &Cache{byDev: make(map[uint64]Precision)}
}

// Probe returns the mtime precision of the device backing sentinelPath,
// along with the mtime observed while probing (or while re-statting, on a
// cache hit). The probing write only happens the first time a given device
// is seen; thereafter the cached precision is returned alongside a fresh
// stat.
func (c *Cache) Probe(fs fsadapter.FS, sentinelPath string) (observedMtime time.Time, prec Precision, err error) {
	info, err := fs.Stat(sentinelPath)
	if err != nil {
		return time.Time{}, 0, err
	}

	c.mu.Lock()
	cached, ok := c.byDev[info.Device]
	c.mu.Unlock()
	if ok {
		return info.ModTime, cached, nil
	}

	prec, err = c.probeDevice(fs, sentinelPath)
	if err != nil {
		return time.Time{}, 0, err
	}

	c.mu.Lock()
	if c.byDev == nil {
		c.byDev = make(map[uint64]Precision)
	}
	c.byDev[info.Device] = prec
	c.mu.Unlock()

	info, err = fs.Stat(sentinelPath)
	if err != nil {
		return time.Time{}, 0, err
	}
	return info.ModTime, prec, nil
}

// probeDevice performs the one invasive write per device: it sets the
// sentinel's mtime to a value five milliseconds past the next second
// boundary, then re-stats it. If the stat reports the exact probe value
// (sub-second digits intact), the device is millisecond-precision; if the
// sub-second digits were truncated away, it's whole-second precision.
func (c *Cache) probeDevice(fs fsadapter.FS, sentinelPath string) (Precision, error) {
	probe := ceilToSecond(time.Now()).Add(5 * time.Millisecond)

	if err := fs.Utimes(sentinelPath, probe, probe); err != nil {
		return 0, err
	}

	info, err := fs.Stat(sentinelPath)
	if err != nil {
		return 0, err
	}

	if info.ModTime.Equal(probe) {
		return Millisecond, nil
	}
	return Second, nil
}

// Equal reports whether two mtimes are "the same" at the given precision,
// the comparison the refresher uses to decide whether a sentinel's mtime
// still belongs to the holder. Second-precision filesystems are compared
// by truncated OR rounded second, since some filesystems round instead of
// truncating on write.
func Equal(a, b time.Time, prec Precision) bool {
	if prec == Millisecond {
		return a.Equal(b)
	}
	aSec := a.Unix()
	bSec := b.Unix()
	if aSec == bSec {
		return true
	}
	round := func(t time.Time) int64 {
		if t.Nanosecond() >= 500_000_000 {
			return t.Unix() + 1
		}
		return t.Unix()
	}
	return round(a) == round(b)
}

// WriteMtime computes the value to write on a refresh tick for the given
// precision: the exact current time for millisecond devices, or the next
// whole second for second-precision devices (so the written value survives
// truncation and still reads back as "now" rather than "a second ago").
func WriteMtime(now time.Time, prec Precision) time.Time {
	if prec == Millisecond {
		return now
	}
	return ceilToSecond(now)
}

// ceilToSecond rounds t up to the next whole second, or returns t unchanged
// if it already falls exactly on a second boundary.
func ceilToSecond(t time.Time) time.Time {
	if t.Nanosecond() == 0 {
		return t
	}
	return t.Truncate(time.Second).Add(time.Second)
}
