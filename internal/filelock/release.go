package filelock

import (
	"os"

	"github.com/filelockd/filelockd/internal/audit"
)

// ReleaseHandle is returned by Lock. Calling it once releases the lock;
// calling it again fails with ErrAlreadyReleased.
type ReleaseHandle struct {
	rec     *record
	invoked bool
}

// Release unlocks the held sentinel. It is a no-op, not an error, if the
// refresher already compromised the lock out from under the caller: the
// holder must not remove what might now belong to someone else.
func (h *ReleaseHandle) Release() error {
	if h.invoked {
		return ErrAlreadyReleased
	}
	h.invoked = true

	if !h.rec.markReleased() {
		// markReleased returns false when the bit was already flipped by
		// a compromise, by Unlock on the same key, or by CleanupOnExit;
		// the registry entry is already gone and there is nothing left to
		// remove.
		return nil
	}
	defaultRegistry.remove(h.rec.canonicalKey)

	if err := h.rec.fs.Rmdir(h.rec.sentinelPath); err != nil && !os.IsNotExist(err) {
		return &IOError{Op: "rmdir", Err: err}
	}
	emitEvent(h.rec.auditor, audit.EventRelease, h.rec.canonicalKey, h.rec.sentinelPath)
	return nil
}

// unlockByKey implements the explicit unlock(canonical_key) operation, used
// when the caller only has the target path and not the release handle
// returned by the original Lock call.
func unlockByKey(canonicalKey string) error {
	rec, ok := defaultRegistry.lookup(canonicalKey)
	if !ok {
		return ErrNotAcquired
	}

	// Cancellation must be effective before this function returns, so a
	// subsequent acquire on the same key cannot observe a registry entry
	// we are in the middle of tearing down.
	wasHeld := rec.markReleased()
	defaultRegistry.remove(canonicalKey)

	if !wasHeld {
		return nil
	}

	if err := rec.fs.Rmdir(rec.sentinelPath); err != nil && !os.IsNotExist(err) {
		return &IOError{Op: "rmdir", Err: err}
	}
	return nil
}
