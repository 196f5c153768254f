// Package filelock implements the acquisition/staleness engine and the
// holder registry plus refresher on top of internal/fsadapter and
// internal/precision. Rather than staling a JSON lockfile on PID liveness
// and a caller-chosen TTL, this package reclaims a content-free sentinel
// directory purely from its mtime, with a single-threaded coordinator (a
// registry mutex standing in for a cooperative-runtime coordinator)
// guarding every mutation.
package filelock

import (
	"sync"

	"github.com/filelockd/filelockd/internal/precision"
)

// registry is the process-wide holder registry, a map of canonical keys to
// in-flight lock records guarded by a single mutex. An in-process record
// must exist so the refresher can run without re-reading the filesystem to
// know what it owns.
type registry struct {
	mu      sync.Mutex
	records map[string]*record
	prec    *precision.Cache
}

var defaultRegistry = &registry{
	records: make(map[string]*record),
	prec:    precision.NewCache(),
}

// insert adds rec under key, returning an error if the key is already held
// by this process. Re-locking a key you already hold is a programming
// error, reported the same way a cross-process collision would be.
func (reg *registry) insert(key string, rec *record) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.records[key]; exists {
		return &HeldError{SentinelPath: rec.sentinelPath}
	}
	reg.records[key] = rec
	return nil
}

func (reg *registry) lookup(key string) (*record, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	rec, ok := reg.records[key]
	return rec, ok
}

func (reg *registry) remove(key string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.records, key)
}

// snapshot returns every currently held record, for exit cleanup and for
// test-only introspection.
func (reg *registry) snapshot() []*record {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	out := make([]*record, 0, len(reg.records))
	for _, rec := range reg.records {
		out = append(out, rec)
	}
	return out
}

// Held reports the canonical keys currently tracked by this process. It is
// a test/diagnostic surface only; production code should never branch on
// registry contents directly.
func Held() []string {
	snap := defaultRegistry.snapshot()
	keys := make([]string, 0, len(snap))
	for _, rec := range snap {
		keys = append(keys, rec.canonicalKey)
	}
	return keys
}
