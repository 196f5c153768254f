package filelock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestLock_DefaultRealpathRoundTrip exercises the library's actual default
// configuration end to end: no FS override (so the real filesystem and
// fsadapter.Real.Realpath are in play) and Realpath left at its default of
// true, rather than the boolPtr(false) every other test in this package
// passes for speed and determinism.
func TestLock_DefaultRealpathRoundTrip(t *testing.T) {
	// Resolve the temp dir up front: the sentinel is derived from the
	// canonical target, and macOS temp dirs sit behind /var -> /private/var.
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "target")
	if err := os.Mkdir(target, 0o700); err != nil {
		t.Fatalf("Mkdir(target) error = %v", err)
	}

	opts := Options{UpdateDisabled: true}

	handle, err := Lock(context.Background(), target, opts)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	sentinel := target + ".lock"
	if _, statErr := os.Stat(sentinel); statErr != nil {
		t.Fatalf("sentinel does not exist after Lock(): %v", statErr)
	}

	locked, err := Check(target, opts)
	if err != nil || !locked {
		t.Fatalf("Check() = (%v, %v), want (true, nil)", locked, err)
	}

	if err := handle.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, statErr := os.Stat(sentinel); !os.IsNotExist(statErr) {
		t.Fatalf("sentinel still exists after Release(): %v", statErr)
	}
}

// TestLock_SymlinkAliasCollides: acquiring a lock via a symlink must
// resolve to the same canonical key as the real path it points to, so a
// second acquisition attempt against the real path collides with the one
// held via the symlink.
func TestLock_SymlinkAliasCollides(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "foo")
	if err := os.Mkdir(real, 0o700); err != nil {
		t.Fatalf("Mkdir(real) error = %v", err)
	}
	alias := filepath.Join(dir, "bar")
	if err := os.Symlink(real, alias); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	opts := Options{UpdateDisabled: true}

	handle, err := Lock(context.Background(), alias, opts)
	if err != nil {
		t.Fatalf("Lock(alias) error = %v", err)
	}
	defer handle.Release()

	_, err = Lock(context.Background(), real, opts)
	if err == nil {
		t.Fatal("Lock(real) succeeded, want collision with the lock held via its symlink alias")
	}
	var held *HeldError
	if !errors.As(err, &held) {
		t.Fatalf("Lock(real) error = %v, want *HeldError", err)
	}
}
