// Package bridge talks to the external super-lsp language server. When
// the binary cannot be found, or stops answering, callers fall back to
// the features computed from the local syntax tree.
package bridge

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// BinaryName is the command looked up on PATH.
const BinaryName = "super-lsp"

// ErrNotFound is returned when no super-lsp binary can be located.
var ErrNotFound = errors.New("super-lsp binary not found")

// BundledName returns the file name of the binary shipped next to the
// running executable for this platform.
func BundledName() string {
	name := fmt.Sprintf("%s-%s-%s", BinaryName, runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name
}

// Locator finds the super-lsp binary. The zero value uses the running
// executable and the process PATH.
type Locator struct {
	// ConfiguredPath is tried first. It must name an executable file.
	ConfiguredPath string
	// Executable returns the path of the running program.
	Executable func() (string, error)
	// LookPath searches PATH.
	LookPath func(file string) (string, error)
}

// Resolve finds the binary using the default Locator with the given
// configured path.
func Resolve(configured string) (string, error) {
	return Locator{ConfiguredPath: configured}.Resolve()
}

// Resolve returns the first match of: the configured path, the bundled
// binary next to the running executable, and super-lsp on PATH.
func (l Locator) Resolve() (string, error) {
	if l.ConfiguredPath != "" && isExecutable(l.ConfiguredPath) {
		return l.ConfiguredPath, nil
	}

	executable := l.Executable
	if executable == nil {
		executable = os.Executable
	}
	if self, err := executable(); err == nil {
		bundled := filepath.Join(filepath.Dir(self), BundledName())
		if isExecutable(bundled) {
			return bundled, nil
		}
	}

	lookPath := l.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if path, err := lookPath(BinaryName); err == nil {
		return path, nil
	}

	if l.ConfiguredPath != "" {
		return "", fmt.Errorf("%w: configured path %s is not an executable file", ErrNotFound, l.ConfiguredPath)
	}
	return "", ErrNotFound
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
