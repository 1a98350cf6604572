package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// startWatcher runs w until the test ends and returns once it is watching.
func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(testContext())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	select {
	case <-w.Ready():
	case err := <-done:
		t.Fatalf("watcher exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not become ready")
	}
}

func TestWatcher_RebuildsOnChange(t *testing.T) {
	// --- Arrange ---
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "hardware", "src"), 0o755))
	builds := make(chan struct{}, 10)
	w := New([]string{src}, nil, 50*time.Millisecond, func(ctx context.Context) error {
		builds <- struct{}{}
		return nil
	})
	startWatcher(t, w)

	// --- Act ---
	require.NoError(t, os.WriteFile(filepath.Join(src, "hardware", "src", "iob_uart.v"), []byte("module iob_uart;"), 0o644))

	// --- Assert ---
	select {
	case <-builds:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after a source change")
	}
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	src := t.TempDir()
	var count atomic.Int32
	w := New([]string{src}, nil, 200*time.Millisecond, func(ctx context.Context) error {
		count.Add(1)
		return nil
	})
	startWatcher(t, w)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(src, "f.v"), []byte{byte('a' + i)}, 0o644))
	}

	require.Eventually(t, func() bool { return count.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load(), "a burst of changes triggers one rebuild")
}

func TestWatcher_IgnoresBuildDirectory(t *testing.T) {
	src := t.TempDir()
	buildDir := filepath.Join(src, "build")
	require.NoError(t, os.MkdirAll(buildDir, 0o755))
	var count atomic.Int32
	w := New([]string{src}, []string{buildDir}, 20*time.Millisecond, func(ctx context.Context) error {
		count.Add(1)
		return nil
	})
	startWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(buildDir, "out.v"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(0), count.Load())
}

func TestWatcher_KeepsWatchingAfterFailedBuild(t *testing.T) {
	src := t.TempDir()
	var count atomic.Int32
	w := New([]string{src}, nil, 20*time.Millisecond, func(ctx context.Context) error {
		count.Add(1)
		return errors.New("boom")
	})
	startWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(src, "a.v"), []byte("a"), 0o644))
	require.Eventually(t, func() bool { return count.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(src, "b.v"), []byte("b"), 0o644))
	require.Eventually(t, func() bool { return count.Load() == 2 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_MissingPathIsSkipped(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, nil, 0, func(ctx context.Context) error { return nil })
	startWatcher(t, w)
}
