package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/internal/cli/testutil"
)

func TestCollectSources(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.spq":            "from a",
		"sub/b.sup":        "{x:1}",
		"sub/run.sh":       "super -c 'from t'",
		"notes.txt":        "ignored",
		".hidden/c.spq":    "from c",
		"sub/.git/d.spq":   "from d",
		"explicit.query":   "from e",
		"sub/deeper/e.ZSH": "echo",
	})

	got, err := collectSources([]string{dir, filepath.Join(dir, "a.spq"), filepath.Join(dir, "explicit.query"), stdinPath})
	require.NoError(t, err)

	want := []string{
		stdinPath,
		filepath.Join(dir, "a.spq"),
		filepath.Join(dir, "explicit.query"),
		filepath.Join(dir, "sub", "b.sup"),
		filepath.Join(dir, "sub", "deeper", "e.ZSH"),
		filepath.Join(dir, "sub", "run.sh"),
	}
	assert.Equal(t, want, got)
}

func TestCollectSources_Missing(t *testing.T) {
	_, err := collectSources([]string{filepath.Join(t.TempDir(), "nope.spq")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.spq")
}

func TestIsHiddenDir(t *testing.T) {
	assert.True(t, isHiddenDir(".git"))
	assert.False(t, isHiddenDir("."))
	assert.False(t, isHiddenDir("queries"))
}

func TestSingleSource(t *testing.T) {
	assert.Equal(t, stdinPath, singleSource(nil))
	assert.Equal(t, "q.spq", singleSource([]string{"q.spq"}))
}

func TestWriteFilePreservingMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.sh")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o755))

	require.NoError(t, writeFilePreservingMode(path, "new"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.Equal(t, "new", testutil.ReadFile(t, path))
}
