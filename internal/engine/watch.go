package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/danieljhkim/viashmerge/internal/merge"
)

// dirWatcher is the part of *fsnotify.Watcher the watch loop manages.
type dirWatcher interface {
	Add(name string) error
	Remove(name string) error
}

// watchState tracks what the loop currently listens to.
type watchState struct {
	targets map[string]bool
	dirs    map[string]bool
	digest  string
}

// Watch resolves the requested document, then re-resolves it whenever one
// of the files that contributed to it (or a source that was skipped because
// it could not be read or decoded) changes. notify receives the first
// result, every later result whose digest differs from the last one, and
// every failed resolution. Watch blocks until ctx is done.
func (e *Engine) Watch(ctx context.Context, req *WatchRequest, notify func(WatchEvent)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() {
		_ = w.Close()
	}()

	return e.watchLoop(ctx, req, w, w.Events, w.Errors, notify)
}

func (e *Engine) watchLoop(
	ctx context.Context,
	req *WatchRequest,
	dw dirWatcher,
	events <-chan fsnotify.Event,
	errs <-chan error,
	notify func(WatchEvent),
) error {
	st := &watchState{
		targets: make(map[string]bool),
		dirs:    make(map[string]bool),
	}
	e.refresh(ctx, req, dw, st, notify)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || !st.targets[filepath.Clean(ev.Name)] {
				continue
			}
			e.logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("source changed")
			debounce = e.clock.After(e.settings.WatchDebounce)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			e.logger.Warn().Err(err).Msg("file watcher error")
		case <-debounce:
			debounce = nil
			e.refresh(ctx, req, dw, st, notify)
		}
	}
}

// refresh resolves once, retargets the watcher and notifies on change.
func (e *Engine) refresh(ctx context.Context, req *WatchRequest, dw dirWatcher, st *watchState, notify func(WatchEvent)) {
	result, err := e.Resolve(ctx, &req.ResolveRequest)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		st.digest = ""
		if path, perr := absPath(req.Path, req.CWD); perr == nil {
			e.track(dw, st, []string{path})
		}
		notify(WatchEvent{Err: err})
		return
	}

	e.track(dw, st, watchTargets(result))
	if result.Digest == st.digest {
		e.logger.Debug().Str("path", result.Path).Msg("output unchanged")
		return
	}
	st.digest = result.Digest
	notify(WatchEvent{Result: result})
}

// watchTargets lists the files whose change can alter result.
func watchTargets(result *ResolveResult) []string {
	targets := append([]string{}, result.Sources...)
	for _, o := range result.Skipped {
		if o.Path != "" && (o.Reason == merge.SourceUnreadable || o.Reason == merge.SourceUndecodable) {
			targets = append(targets, o.Path)
		}
	}
	return targets
}

// track points the watcher at the directories holding targets. Directories
// are watched rather than files so that editors replacing a file by rename
// are still seen.
func (e *Engine) track(dw dirWatcher, st *watchState, targets []string) {
	st.targets = make(map[string]bool, len(targets))
	want := make(map[string]bool)
	for _, t := range targets {
		st.targets[filepath.Clean(t)] = true
		dir := filepath.Dir(t)
		if ok, _ := e.fs.IsDir(dir); ok {
			want[dir] = true
		}
	}

	for _, dir := range sortedKeys(st.dirs) {
		if want[dir] {
			continue
		}
		if err := dw.Remove(dir); err != nil {
			e.logger.Debug().Err(err).Str("dir", dir).Msg("failed to stop watching")
		}
		delete(st.dirs, dir)
	}
	for _, dir := range sortedKeys(want) {
		if st.dirs[dir] {
			continue
		}
		if err := dw.Add(dir); err != nil {
			e.logger.Warn().Err(err).Str("dir", dir).Msg("failed to watch directory")
			continue
		}
		st.dirs[dir] = true
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
