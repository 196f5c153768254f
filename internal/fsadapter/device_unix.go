//go:build unix

package fsadapter

import (
	"os"
	"syscall"
)

// deviceID extracts the device identifier from a stat result, used to key
// the per-device mtime-precision cache.
func deviceID(info os.FileInfo) uint64 {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok || st == nil {
		return 0
	}
	return uint64(st.Dev) //nolint:unconvert // Dev is int64 on darwin, uint64 on linux
}
