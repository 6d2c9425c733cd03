package daemon

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRunBadParameterFile(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "handeye.sock")

	err := Run(filepath.Join(t.TempDir(), "missing.yaml"), socketPath, false)
	if err == nil {
		t.Fatal("Run with a missing parameter file: expected error")
	}
	if !strings.Contains(err.Error(), "calibration parameters") {
		t.Fatalf("unexpected error: %v", err)
	}
}
