//go:build unix

package doctor

import (
	"strings"
	"testing"
)

func TestFsName(t *testing.T) {
	tests := []struct {
		magic int64
		want  string
	}{
		{0x9123683E, "btrfs"},
		{0xEF53, "ext4"},
		{0x01021994, "tmpfs"},
		{0x58465342, "xfs"},
		{0x4244, "hfs"},
		{0x482b, "hfs+"},
		{0x1badface, "apfs"},
		{0x1234, "0x1234"},
	}

	for _, tt := range tests {
		got := fsName(tt.magic)
		if got != tt.want {
			t.Errorf("fsName(0x%x) = %q, want %q", tt.magic, got, tt.want)
		}
	}
}

func TestCheckNetworkFS_TempDir(t *testing.T) {
	result := CheckNetworkFS(t.TempDir())

	if result.Name != "network_fs" {
		t.Errorf("check name = %q, want network_fs", result.Name)
	}
	if result.Status != StatusOK {
		t.Errorf("temp dir check status = %v (%s), want OK", result.Status, result.Message)
	}
}

func TestCheckNetworkFS_MissingPath(t *testing.T) {
	result := CheckNetworkFS("/no/such/path/anywhere")

	if result.Status != StatusOK {
		t.Errorf("missing path status = %v, want OK", result.Status)
	}
	if !strings.Contains(result.Message, "unknown") {
		t.Errorf("missing path message = %q, want mention of unknown type", result.Message)
	}
}
