package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckWritable_Success(t *testing.T) {
	dir := t.TempDir()

	result := CheckWritable(dir)
	if result.Status != StatusOK {
		t.Errorf("CheckWritable() status = %v, want OK; message = %s", result.Status, result.Message)
	}
	if result.Name != "writable" {
		t.Errorf("CheckWritable() name = %q, want %q", result.Name, "writable")
	}

	probe := filepath.Join(dir, testDirName)
	if _, err := os.Stat(probe); !os.IsNotExist(err) {
		t.Errorf("probe directory was not cleaned up: %v", err)
	}
}

func TestCheckWritable_NotWritable(t *testing.T) {
	dir := t.TempDir()
	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0700) })

	if os.Getuid() == 0 {
		t.Skip("skipping permission test as root")
	}

	result := CheckWritable(dir)
	if result.Status != StatusFail {
		t.Errorf("CheckWritable() on read-only dir: status = %v, want Fail", result.Status)
	}
}

func TestCheckWritable_LeftoverProbeIsCleared(t *testing.T) {
	dir := t.TempDir()
	probe := filepath.Join(dir, testDirName)
	if err := os.Mkdir(probe, 0700); err != nil {
		t.Fatal(err)
	}

	result := CheckWritable(dir)
	if result.Status != StatusOK {
		t.Errorf("CheckWritable() with leftover probe: status = %v, want OK; message = %s",
			result.Status, result.Message)
	}
}

func TestCheckWritable_MkdirError(t *testing.T) {
	old := mkdirFn
	defer func() { mkdirFn = old }()
	mkdirFn = func(_ string, _ os.FileMode) error {
		return fmt.Errorf("simulated mkdir error")
	}

	dir := t.TempDir()
	result := CheckWritable(dir)
	if result.Status != StatusFail {
		t.Errorf("CheckWritable() mkdir error: status = %v, want Fail", result.Status)
	}
}

func TestCheckWritable_RmdirError(t *testing.T) {
	old := rmdirFn
	defer func() { rmdirFn = old }()
	calls := 0
	rmdirFn = func(path string) error {
		calls++
		if calls == 1 {
			return nil // clear-leftover call: pretend nothing was there
		}
		return fmt.Errorf("simulated rmdir error")
	}

	dir := t.TempDir()
	result := CheckWritable(dir)
	if result.Status != StatusFail {
		t.Errorf("CheckWritable() rmdir error: status = %v, want Fail", result.Status)
	}
	if !strings.Contains(result.Message, "cannot remove") {
		t.Errorf("CheckWritable() rmdir error: message = %q, want 'cannot remove'", result.Message)
	}
}

func TestCheckClock_ReasonableTime(t *testing.T) {
	result := CheckClock()
	if result.Status != StatusOK {
		t.Errorf("CheckClock() status = %v, want OK; message = %s", result.Status, result.Message)
	}
	if result.Name != "clock" {
		t.Errorf("CheckClock() name = %q, want %q", result.Name, "clock")
	}
}

func TestCheckClockYear_Past(t *testing.T) {
	result := checkClockYear(2019)
	if result.Status != StatusWarn {
		t.Errorf("checkClockYear(2019) status = %v, want Warn", result.Status)
	}
	if result.Message == "" {
		t.Error("checkClockYear(2019) message is empty")
	}
}

func TestCheckClockYear_Future(t *testing.T) {
	result := checkClockYear(2101)
	if result.Status != StatusWarn {
		t.Errorf("checkClockYear(2101) status = %v, want Warn", result.Status)
	}
}

func TestCheckClockYear_Boundary(t *testing.T) {
	if result := checkClockYear(2020); result.Status != StatusOK {
		t.Errorf("checkClockYear(2020) status = %v, want OK", result.Status)
	}
	if result := checkClockYear(2100); result.Status != StatusOK {
		t.Errorf("checkClockYear(2100) status = %v, want OK", result.Status)
	}
}

func TestCheckPrecision(t *testing.T) {
	dir := t.TempDir()
	result := CheckPrecision(dir)
	if result.Name != "mtime_precision" {
		t.Errorf("CheckPrecision() name = %q, want %q", result.Name, "mtime_precision")
	}
	if result.Status == StatusFail {
		t.Errorf("CheckPrecision() status = Fail, want OK or Warn; message = %s", result.Message)
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name    string
		results []CheckResult
		want    Status
	}{
		{
			name:    "all ok",
			results: []CheckResult{{Status: StatusOK}, {Status: StatusOK}},
			want:    StatusOK,
		},
		{
			name:    "one warn",
			results: []CheckResult{{Status: StatusOK}, {Status: StatusWarn}},
			want:    StatusWarn,
		},
		{
			name:    "one fail",
			results: []CheckResult{{Status: StatusOK}, {Status: StatusFail}},
			want:    StatusFail,
		},
		{
			name:    "fail trumps warn",
			results: []CheckResult{{Status: StatusWarn}, {Status: StatusFail}},
			want:    StatusFail,
		},
		{
			name:    "empty",
			results: []CheckResult{},
			want:    StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overall(tt.results); got != tt.want {
				t.Errorf("Overall() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_Constants(t *testing.T) {
	if StatusOK != "ok" {
		t.Errorf("StatusOK = %q, want %q", StatusOK, "ok")
	}
	if StatusWarn != "warn" {
		t.Errorf("StatusWarn = %q, want %q", StatusWarn, "warn")
	}
	if StatusFail != "fail" {
		t.Errorf("StatusFail = %q, want %q", StatusFail, "fail")
	}
}
