// Package fsadapter defines the filesystem surface the lock engine issues
// every I/O call through, and a real implementation backed by the os package.
//
// Tests substitute a fake implementing the same interface instead of the
// real filesystem.
package fsadapter

import (
	"os"
	"time"
)

// FileInfo is the subset of os.FileInfo the engine needs from a Stat call.
type FileInfo struct {
	ModTime time.Time
	Device  uint64 // filesystem device identifier, used by the precision cache
}

// FS is the only I/O surface the acquisition/staleness engine and the
// refresher use. A caller may inject an alternative implementation (for
// tests, or for an exotic filesystem) as long as it preserves these
// semantics:
//
//   - Mkdir must be atomic: it must either create the directory and
//     succeed, or fail with an error satisfying os.IsExist.
//   - Rmdir removing a missing directory must fail with an error
//     satisfying os.IsNotExist.
//   - Stat of a missing path must fail with an error satisfying
//     os.IsNotExist.
type FS interface {
	// Mkdir atomically creates the directory at path. Fails with an
	// os.IsExist error if it already exists.
	Mkdir(path string) error

	// Rmdir removes the (assumed empty) directory at path.
	Rmdir(path string) error

	// Stat returns the modification time and device identifier of path.
	Stat(path string) (FileInfo, error)

	// Utimes sets both the access and modification time of path.
	Utimes(path string, atime, mtime time.Time) error

	// Realpath resolves symlinks and relative components, returning an
	// absolute path. Fails if the target does not exist.
	Realpath(path string) (string, error)
}

// Real implements FS using the real filesystem. All methods are thin
// passthroughs to the os package, except that Stat also extracts the
// device identifier from the platform-specific stat_t, and Realpath goes
// through path/filepath.
type Real struct{}

// NewReal returns an FS backed by the real filesystem.
func NewReal() *Real {
	return &Real{}
}

// Mkdir is a passthrough wrapper for os.Mkdir with mode 0o700.
func (r *Real) Mkdir(path string) error {
	return os.Mkdir(path, 0o700)
}

// Rmdir is a passthrough wrapper for os.Remove.
func (r *Real) Rmdir(path string) error {
	return os.Remove(path)
}

// Stat is a passthrough wrapper for os.Stat, reduced to the fields the
// engine consumes.
func (r *Real) Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{ModTime: info.ModTime(), Device: deviceID(info)}, nil
}

// Utimes is a passthrough wrapper for os.Chtimes.
func (r *Real) Utimes(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}

// Realpath is a passthrough wrapper for filepath.EvalSymlinks + filepath.Abs,
// implemented in realpath.go (platform-independent via the standard library).
func (r *Real) Realpath(path string) (string, error) {
	return realpath(path)
}
