package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSourceWatcher_DebounceCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	var fires atomic.Int32

	w, err := NewSourceWatcher(dir, nil, 100*time.Millisecond, func() {
		fires.Add(1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// Burst of writes well inside the debounce window.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "paper.tex"), []byte("rev"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return fires.Load() == 1
	}, 2*time.Second, 20*time.Millisecond, "burst should coalesce into exactly one callback")

	// No further callbacks after the window closes.
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int32(1), fires.Load())
}

func TestSourceWatcher_IgnoresOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "out"), 0o755))
	var fires atomic.Int32

	w, err := NewSourceWatcher(dir, []string{"out"}, 50*time.Millisecond, func() {
		fires.Add(1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "out", "paper.pdf"), []byte("pdf"), 0o644))
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int32(0), fires.Load(), "publishing results must not retrigger builds")
}

func TestDaemon_TriggerCoalescing(t *testing.T) {
	d := &Daemon{trigger: make(chan struct{}, 1)}
	d.requestRebuild()
	d.requestRebuild()
	d.requestRebuild()

	require.Len(t, d.trigger, 1, "pending triggers must coalesce to one")
}
