package netfs

import "testing"

func TestDetect_TempDirReadsLocal(t *testing.T) {
	dir := t.TempDir()

	remote, mount, _ := Detect(dir)
	if remote {
		t.Errorf("Detect(%q) = true (%s), want local for a temp dir", dir, mount)
	}
}

func TestDetect_MissingPathReadsLocal(t *testing.T) {
	remote, _, magic := Detect("/no/such/path/anywhere")
	if remote {
		t.Error("Detect on a missing path should read as local, not remote")
	}
	if magic != 0 {
		t.Errorf("Detect on a missing path reported magic 0x%x, want 0", magic)
	}
}
