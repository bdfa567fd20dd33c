package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/internal/cli/testutil"
	logtest "github.com/leapstack-labs/supersql/internal/testutil"
)

func TestSourceWatcher(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"a.spq": "from a"})

	w, err := newSourceWatcher([]string{dir}, logtest.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan []string, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(changed []string) { changes <- changed })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.spq"), []byte("from b"), 0o600))

	select {
	case changed := <-changes:
		assert.Equal(t, []string{filepath.Join(dir, "a.spq")}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestSourceWatcher_SingleFile(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"a.spq": "from a", "b.spq": "from b"})
	path := filepath.Join(dir, "a.spq")

	w, err := newSourceWatcher([]string{path, stdinPath}, logtest.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	assert.True(t, w.relevant(path))
	assert.False(t, w.relevant(filepath.Join(dir, "b.spq")))
}

func TestSourceWatcher_Missing(t *testing.T) {
	_, err := newSourceWatcher([]string{filepath.Join(t.TempDir(), "gone")}, logtest.NewTestLogger(t))
	assert.Error(t, err)
}
