package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd_PrintsVersionString(t *testing.T) {
	cmd := newVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "filelockctl") {
		t.Errorf("output = %q, want it to mention filelockctl", buf.String())
	}
}
