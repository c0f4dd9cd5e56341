package buildinfo

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintBuildData(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	t.Cleanup(func() { Version = old })

	var buf bytes.Buffer
	PrintBuildData(&buf)

	if !strings.Contains(buf.String(), "Build version: v9.9.9") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
	if !strings.HasPrefix(String(), "v9.9.9 (commit: ") {
		t.Fatalf("unexpected String(): %q", String())
	}
}
