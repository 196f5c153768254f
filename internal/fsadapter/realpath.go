package fsadapter

import "path/filepath"

// realpath resolves symlinks and relative components to an absolute path.
// Grounded on the canonicalPath helper used to key per-repository locks in
// the worktree-locking example in the retrieval pack: filepath.Abs followed
// by filepath.EvalSymlinks.
func realpath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
