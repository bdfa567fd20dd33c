package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// WedgedServer writes an executable that ignores SIGTERM and stdin EOF
// and never answers, and returns its path. It skips t where shell
// scripts cannot be executed.
func WedgedServer(t testing.TB) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "super-lsp")
	script := "#!/bin/sh\ntrap '' TERM\nexec sleep 30\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write wedged server: %v", err)
	}
	return path
}
