//go:build windows

package procinfo

import "errors"

// ErrStartTimeNotSupported is returned on platforms where process start time
// cannot be retrieved.
var ErrStartTimeNotSupported = errors.New("process start time not supported")

// GetProcessStartTime is not supported on Windows; agent-id generation
// falls back to hashing the PID alone.
// Returns (0, ErrStartTimeNotSupported).
func GetProcessStartTime(pid int) (int64, error) {
	return 0, ErrStartTimeNotSupported
}
