package filelock

// CleanupOnExit synchronously removes every sentinel this process currently
// holds, ignoring all errors. The CLI wires this into a signal.NotifyContext
// shutdown path and a deferred call in run(); library callers embedding
// filelock in a long-running service should do the same.
func CleanupOnExit() {
	for _, rec := range defaultRegistry.snapshot() {
		if !rec.markReleased() {
			continue
		}
		defaultRegistry.remove(rec.canonicalKey)
		_ = rec.fs.Rmdir(rec.sentinelPath)
	}
}
