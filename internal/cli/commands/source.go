package commands

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// stdinPath names standard input in argument lists.
const stdinPath = "-"

// sourceExts are the extensions picked up when walking a directory.
var sourceExts = []string{".spq", ".sup", ".sh", ".bash", ".zsh"}

// isSourceFile reports whether a file found in a directory walk is checked.
func isSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(sourceExts, ext)
}

// isHiddenDir reports whether a directory is skipped by walks.
func isHiddenDir(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

// collectSources expands the arguments into a sorted, de-duplicated list
// of files. Directories are walked recursively for source files, skipping
// hidden directories; files named explicitly are kept whatever their
// extension. "-" stands for standard input.
func collectSources(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		if arg == stdinPath {
			add(arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && isHiddenDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if isSourceFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
	}

	slices.Sort(out)
	return out, nil
}

// readSource returns the text of a file or of standard input.
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == stdinPath {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(b), nil
}

// singleSource returns the one input of commands that take an optional file.
func singleSource(args []string) string {
	if len(args) == 0 {
		return stdinPath
	}
	return args[0]
}

// writeFilePreservingMode rewrites path with text, keeping its permissions.
func writeFilePreservingMode(path, text string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
