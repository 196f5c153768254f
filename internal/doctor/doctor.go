// Package doctor provides health check utilities for validating that a
// directory is a suitable place to hold lock sentinels.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/filelockd/filelockd/internal/fsadapter"
	"github.com/filelockd/filelockd/internal/precision"
)

// Status represents the result of a health check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckResult contains the result of a single health check.
type CheckResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Overall computes the overall status from multiple check results.
// Returns "fail" if any check failed, "warn" if any warned, "ok" otherwise.
func Overall(results []CheckResult) Status {
	for _, r := range results {
		if r.Status == StatusFail {
			return StatusFail
		}
	}
	for _, r := range results {
		if r.Status == StatusWarn {
			return StatusWarn
		}
	}
	return StatusOK
}

// testDirName is the probe sentinel created and removed by CheckWritable.
// It mirrors the real acquisition path (mkdir then rmdir) rather than
// testing plain file writes, since mkdir is the actual operation the lock
// engine depends on being atomic.
const testDirName = ".filelockd-doctor-probe"

var (
	mkdirFn = os.Mkdir
	rmdirFn = os.Remove
)

// CheckWritable verifies the directory supports creating and removing a
// sentinel-shaped directory entry, which is the exact operation the lock
// engine performs on every acquisition.
func CheckWritable(dir string) CheckResult {
	result := CheckResult{Name: "writable"}

	if err := os.MkdirAll(dir, 0700); err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot create directory: %v", err)
		return result
	}

	probe := filepath.Join(dir, testDirName)
	_ = rmdirFn(probe) // clear any leftover from a previous aborted run

	if err := mkdirFn(probe, 0700); err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot create sentinel directory: %v", err)
		return result
	}

	if err := rmdirFn(probe); err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot remove sentinel directory: %v", err)
		return result
	}

	result.Status = StatusOK
	return result
}

// CheckClock verifies the system clock is within a reasonable range.
// A clock far outside this window makes the mtime-based staleness check
// useless: a sentinel written under a skewed clock can look stale (or
// fresh) for reasons unrelated to its actual holder.
func CheckClock() CheckResult {
	return checkClockYear(time.Now().Year())
}

func checkClockYear(year int) CheckResult {
	result := CheckResult{Name: "clock"}

	if year < 2020 {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("system clock appears to be in the past (year %d)", year)
		return result
	}

	if year > 2100 {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("system clock appears to be far in the future (year %d)", year)
		return result
	}

	result.Status = StatusOK
	return result
}

// CheckPrecision probes the mtime precision the filesystem backing dir
// actually offers, using the same probe internal/precision runs before the
// first lock on a device, and warns when it is coarser than millisecond
// resolution: a short stale threshold on a whole-second filesystem
// effectively rounds down, giving less margin than the configured value
// implies.
func CheckPrecision(dir string) CheckResult {
	result := CheckResult{Name: "mtime_precision"}

	probeDir := filepath.Join(dir, testDirName)
	fs := fsadapter.NewReal()
	if err := fs.Mkdir(probeDir); err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("could not probe precision: %v", err)
		return result
	}
	defer func() { _ = fs.Rmdir(probeDir) }()

	_, p, err := precision.NewCache().Probe(fs, probeDir)
	if err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("could not probe precision: %v", err)
		return result
	}

	if p == precision.Second {
		result.Status = StatusWarn
		result.Message = "filesystem only reports whole-second mtimes; stale thresholds under a few seconds are unreliable here"
		return result
	}

	result.Status = StatusOK
	return result
}
