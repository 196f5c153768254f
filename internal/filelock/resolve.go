package filelock

import (
	"fmt"
	"path/filepath"

	"github.com/filelockd/filelockd/internal/fsadapter"
)

// resolveCanonicalKey normalizes target into the key that names its
// sentinel: lexical cleanup always runs, and realpath resolution runs on
// top of it unless the caller disabled it. Two different paths aliasing
// the same file must resolve to the same key so they compete for the same
// sentinel.
func resolveCanonicalKey(fs fsadapter.FS, target string, realpath bool) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", &IOError{Op: "resolve", Err: err}
	}
	abs = filepath.Clean(abs)

	if !realpath {
		return abs, nil
	}

	real, err := fs.Realpath(abs)
	if err != nil {
		return "", &IOError{Op: "resolve", Err: fmt.Errorf("realpath %q: %w", abs, err)}
	}
	return real, nil
}
