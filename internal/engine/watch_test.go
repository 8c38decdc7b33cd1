package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/viashmerge/internal/clock"
	"github.com/danieljhkim/viashmerge/internal/fsops"
	"github.com/danieljhkim/viashmerge/internal/merge"
	"github.com/danieljhkim/viashmerge/internal/value"
)

// fakeDirWatcher records the directories the watch loop listens to.
type fakeDirWatcher struct {
	mu   sync.Mutex
	dirs map[string]bool
}

func newFakeDirWatcher() *fakeDirWatcher {
	return &fakeDirWatcher{dirs: make(map[string]bool)}
}

func (w *fakeDirWatcher) Add(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirs[name] = true
	return nil
}

func (w *fakeDirWatcher) Remove(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.dirs, name)
	return nil
}

func (w *fakeDirWatcher) watching() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return sortedKeys(w.dirs)
}

func receive(t *testing.T, ch <-chan WatchEvent) WatchEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return WatchEvent{}
	}
}

func TestWatchLoop(t *testing.T) {
	mem := fsops.NewMemFS()
	mem.WriteFile("/pkg/_viash.yaml", "name: pkg\n")
	mem.WriteFile("/pkg/src/main.yaml", "__merge__: [/shared/base.yaml, later.yaml]\nname: main\n")
	mem.WriteFile("/pkg/shared/base.yaml", "value: 1\n")

	clk := clock.NewFakeClock(testNow)
	eng := newTestEngine(mem, clk)
	debounce := eng.settings.WatchDebounce

	dw := newFakeDirWatcher()
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	out := make(chan WatchEvent, 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- eng.watchLoop(ctx, &WatchRequest{ResolveRequest{Path: "/pkg/src/main.yaml"}}, dw, events, errs,
			func(ev WatchEvent) { out <- ev })
	}()

	// fire sends a change event and lets the debounce elapse.
	fire := func(name string) {
		events <- fsnotify.Event{Name: name, Op: fsnotify.Write}
		require.Eventually(t, func() bool { return clk.Waiters() == 1 }, 5*time.Second, time.Millisecond)
		clk.Advance(debounce)
	}

	first := receive(t, out)
	require.NoError(t, first.Err)
	assert.Equal(t, value.Int(1), first.Result.Document.(value.Mapping)["value"])
	assert.Equal(t, []string{"/pkg/shared", "/pkg/src"}, dw.watching())

	// A contributing source changes.
	mem.WriteFile("/pkg/shared/base.yaml", "value: 2\n")
	fire("/pkg/shared/base.yaml")
	second := receive(t, out)
	require.NoError(t, second.Err)
	assert.Equal(t, value.Int(2), second.Result.Document.(value.Mapping)["value"])

	// Unrelated files and chmod events never arm the debounce.
	events <- fsnotify.Event{Name: "/pkg/src/notes.txt", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "/pkg/src/main.yaml", Op: fsnotify.Chmod}
	assert.Equal(t, 0, clk.Waiters())

	// A previously unreadable source appears.
	mem.WriteFile("/pkg/src/later.yaml", "extra: true\n")
	fire("/pkg/src/later.yaml")
	third := receive(t, out)
	require.NoError(t, third.Err)
	assert.Equal(t, value.Bool(true), third.Result.Document.(value.Mapping)["extra"])
	assert.Contains(t, third.Result.Sources, "/pkg/src/later.yaml")

	// The document breaks, then recovers.
	mem.WriteFile("/pkg/src/main.yaml", "name: [unclosed\n")
	fire("/pkg/src/main.yaml")
	broken := receive(t, out)
	assert.Error(t, broken.Err)
	assert.Equal(t, []string{"/pkg/src"}, dw.watching())

	mem.WriteFile("/pkg/src/main.yaml", "name: fixed\n")
	fire("/pkg/src/main.yaml")
	fixed := receive(t, out)
	require.NoError(t, fixed.Err)
	assert.Equal(t, value.Mapping{"name": value.String("fixed")}, fixed.Result.Document)

	// A save without changes resolves again but emits nothing.
	reads := mem.Reads("/pkg/src/main.yaml")
	fire("/pkg/src/main.yaml")
	require.Eventually(t, func() bool { return mem.Reads("/pkg/src/main.yaml") > reads }, 5*time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop")
	}
	assert.Empty(t, out)
}

func TestWatchTargets(t *testing.T) {
	result := &ResolveResult{
		Sources: []string{"/pkg/a.yaml", "/pkg/b.yaml"},
		Skipped: []merge.Outcome{
			{Spec: "missing.yaml", Path: "/pkg/missing.yaml", Reason: merge.SourceUnreadable},
			{Spec: "bad.yaml", Path: "/pkg/bad.yaml", Reason: merge.SourceUndecodable},
			{Spec: "a.yaml", Path: "/pkg/a.yaml", Reason: merge.CycleDetected},
			{Reason: merge.InvalidDirectiveType},
		},
	}
	assert.Equal(t, []string{
		"/pkg/a.yaml",
		"/pkg/b.yaml",
		"/pkg/missing.yaml",
		"/pkg/bad.yaml",
	}, watchTargets(result))
}

func TestWatch_RealFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	write("_viash.yaml", "name: pkg\n")
	write("base.yaml", "value: 1\n")
	write("main.yaml", "__merge__: base.yaml\nname: main\n")

	eng := newTestEngine(fsops.NewRealFS(), &clock.RealClock{})
	eng.settings.WatchDebounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan WatchEvent, 8)
	done := make(chan error, 1)
	go func() {
		done <- eng.Watch(ctx, &WatchRequest{ResolveRequest{Path: filepath.Join(dir, "main.yaml")}},
			func(ev WatchEvent) { out <- ev })
	}()

	first := receive(t, out)
	require.NoError(t, first.Err)

	write("base.yaml", "value: 2\n")
	for {
		ev := receive(t, out)
		require.NoError(t, ev.Err)
		if ev.Result.Document.(value.Mapping)["value"] == value.Int(2) {
			break
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop")
	}
}
