package bridge

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), mode))
}

func TestLocator_Resolve(t *testing.T) {
	dir := t.TempDir()
	configured := filepath.Join(dir, "custom-lsp")
	writeFile(t, configured, 0o755)

	binDir := filepath.Join(dir, "bin")
	require.NoError(t, os.Mkdir(binDir, 0o755))
	bundled := filepath.Join(binDir, BundledName())
	writeFile(t, bundled, 0o755)

	self := func() (string, error) { return filepath.Join(binDir, "supersql"), nil }
	noSelf := func() (string, error) { return "", errors.New("no executable") }
	onPath := func(string) (string, error) { return "/usr/local/bin/super-lsp", nil }
	notOnPath := func(string) (string, error) { return "", errors.New("not found") }

	tests := []struct {
		name    string
		locator Locator
		want    string
		wantErr bool
	}{
		{
			name:    "configured path wins",
			locator: Locator{ConfiguredPath: configured, Executable: self, LookPath: onPath},
			want:    configured,
		},
		{
			name:    "bundled next to executable",
			locator: Locator{Executable: self, LookPath: onPath},
			want:    bundled,
		},
		{
			name:    "missing configured falls back",
			locator: Locator{ConfiguredPath: filepath.Join(dir, "nope"), Executable: self, LookPath: notOnPath},
			want:    bundled,
		},
		{
			name:    "path",
			locator: Locator{Executable: noSelf, LookPath: onPath},
			want:    "/usr/local/bin/super-lsp",
		},
		{
			name:    "nothing",
			locator: Locator{Executable: noSelf, LookPath: notOnPath},
			wantErr: true,
		},
		{
			name:    "directory is not a binary",
			locator: Locator{ConfiguredPath: binDir, Executable: noSelf, LookPath: notOnPath},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.locator.Resolve()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocator_ConfiguredNotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no executable bit on windows")
	}
	path := filepath.Join(t.TempDir(), "plain")
	writeFile(t, path, 0o644)

	_, err := Locator{
		ConfiguredPath: path,
		Executable:     func() (string, error) { return "", errors.New("none") },
		LookPath:       func(string) (string, error) { return "", errors.New("none") },
	}.Resolve()

	require.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "configured path")
}

func TestBundledName(t *testing.T) {
	assert.Contains(t, BundledName(), "super-lsp-"+runtime.GOOS+"-"+runtime.GOARCH)
}
