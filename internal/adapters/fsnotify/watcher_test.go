package fsnotify

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// fsnotify Watcher Adapter: detect changes to the scanned files
// Expectation: changes to watched files fire the callback; changes to their
// neighbours do not.
// =============================================================================

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatcher(t *testing.T, paths ...string) (*Watcher, <-chan string) {
	t.Helper()
	w, err := NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(paths, func(path string) {
		changed <- path
	}))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return w, changed
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("original"), 0644))

	_, changed := startWatcher(t, testFile)

	require.NoError(t, os.WriteFile(testFile, []byte("modified"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file change")
	assert.Equal(t, testFile, path)
}

func TestWatcher_DetectsCreatedFile(t *testing.T) {
	// A file that does not exist yet can be watched; creating it fires.
	dir := t.TempDir()
	newFile := filepath.Join(dir, "later.txt")

	_, changed := startWatcher(t, newFile)

	require.NoError(t, os.WriteFile(newFile, []byte("new"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for new file")
	assert.Equal(t, newFile, path)
}

func TestWatcher_DetectsDeletedFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "to_delete.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("delete me"), 0644))

	_, changed := startWatcher(t, testFile)

	require.NoError(t, os.Remove(testFile))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for deleted file")
	assert.Equal(t, testFile, path)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.txt")
	require.NoError(t, os.WriteFile(watched, []byte("x"), 0644))

	_, changed := startWatcher(t, watched)

	// Neighbours in the same directory do not fire
	os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, ".watched.txt.swp"), []byte("x"), 0644)

	_, ok := waitForCallback(changed, 500*time.Millisecond)
	assert.False(t, ok, "should not have received callback for unwatched files")

	require.NoError(t, os.WriteFile(watched, []byte("y"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for watched file")
	assert.Equal(t, watched, path)
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "burst.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("0"), 0644))

	_, changed := startWatcher(t, testFile)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(testFile, []byte{byte('1' + i)}, 0644))
	}

	path, ok := waitForCallback(changed, 2*time.Second)
	require.True(t, ok, "expected callback after burst")
	assert.Equal(t, testFile, path)

	time.Sleep(300 * time.Millisecond)
	assert.LessOrEqual(t, len(changed), 1, "burst should collapse into one callback")
}

func TestWatcher_RelativePaths(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "rel.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("a"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, testFile)
	require.NoError(t, err)

	_, changed := startWatcher(t, rel)

	require.NoError(t, os.WriteFile(testFile, []byte("b"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok)
	assert.Equal(t, testFile, path, "callback reports absolute paths")
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	err = w.Watch([]string{filepath.Join(t.TempDir(), "nope", "file.txt")}, func(string) {})
	assert.Error(t, err)
}

func TestWatcher_StopWaitsForRunningCallback(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "slow.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("a"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)

	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var mu sync.Mutex
	finished := false
	require.NoError(t, w.Watch([]string{testFile}, func(string) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		mu.Lock()
		finished = true
		mu.Unlock()
	}))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(testFile, []byte("b"), 0644))
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		close(release)
		w.Stop()
		t.Fatal("callback never started")
	}

	stopped := make(chan error, 1)
	go func() { stopped <- w.Stop() }()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a callback was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the callback finished")
	}
	mu.Lock()
	assert.True(t, finished, "callback completed before Stop returned")
	mu.Unlock()
}

func TestWatcher_StopCleanup(t *testing.T) {
	// After Stop(), no more callbacks fire.
	dir := t.TempDir()
	testFile := filepath.Join(dir, "after_stop.txt")

	w, err := NewWatcher()
	require.NoError(t, err)

	callCount := 0
	var mu sync.Mutex
	err = w.Watch([]string{testFile}, func(path string) {
		mu.Lock()
		callCount++
		mu.Unlock()
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, w.Stop())

	mu.Lock()
	countAfterStop := callCount
	mu.Unlock()

	// Write file after stop: should NOT trigger callback
	os.WriteFile(testFile, []byte("nope"), 0644)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	countAfterWrite := callCount
	mu.Unlock()

	assert.Equal(t, countAfterStop, countAfterWrite, "callbacks fired after Stop()")

	// Double-stop should be safe
	assert.NoError(t, w.Stop())
}
