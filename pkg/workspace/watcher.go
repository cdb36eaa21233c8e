package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/gojshint/internal/logging"
	"github.com/yaklabco/gojshint/pkg/fsutil"
)

// DefaultDebounce is the quiet period before pending events become a delta.
const DefaultDebounce = 250 * time.Millisecond

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// Ignore drops matching paths. rel is slash-separated.
	Ignore func(rel string, dir bool) bool
}

// Watcher turns file system events under a project into debounced deltas.
// Saves that leave the content fingerprint unchanged are dropped.
type Watcher struct {
	project  *Project
	fsw      *fsnotify.Watcher
	debounce time.Duration
	ignore   func(string, bool) bool

	mu    sync.Mutex
	files map[string]uint64
	dirs  map[string]bool
}

// NewWatcher registers watches for every directory of project and records
// the current file fingerprints as the baseline.
func NewWatcher(project *Project, opts WatcherOptions) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{
		project:  project,
		fsw:      fsw,
		debounce: opts.Debounce,
		ignore:   opts.Ignore,
		files:    make(map[string]uint64),
		dirs:     make(map[string]bool),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	if err := w.addTree(project.Root(), true); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching. A running Run returns.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run delivers deltas to onDelta until ctx ends or the watcher is closed.
// An error from onDelta stops Run and is returned.
func (w *Watcher) Run(ctx context.Context, onDelta func(context.Context, *Delta) error) error {
	logger := logging.FromContext(ctx)

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if w.skip(path) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if stat, err := os.Stat(path); err == nil && stat.IsDir() {
					if err := w.addTree(path, false); err != nil {
						logger.Warn("cannot watch new directory", logging.FieldPath, path, logging.FieldError, err)
					}
				}
			}
			pending[path] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			pending = make(map[string]bool)

			changes := w.resolve(ctx, paths)
			if len(changes) == 0 {
				continue
			}
			delta := NewDelta(w.project, changes)
			logger.Debug("delta ready", logging.FieldProject, w.project.Name(), logging.FieldDelta, delta.Len())
			if err := onDelta(ctx, delta); err != nil {
				return err
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", w.project.Root(), err)
		}
	}
}

// resolve classifies pending paths against the recorded baseline and
// updates it. Parents sort before their children, so files inside a newly
// added directory are folded into that directory's change.
func (w *Watcher) resolve(ctx context.Context, paths []string) []Change {
	sort.Strings(paths)

	w.mu.Lock()
	defer w.mu.Unlock()

	var changes []Change
	for _, path := range paths {
		res, ok := w.project.ResourceFor(path)
		if !ok || res.IsRoot() {
			continue
		}
		rel := res.Rel()

		stat, err := os.Stat(path)
		switch {
		case err != nil:
			if w.forget(rel) {
				changes = append(changes, Change{Path: rel, Kind: Removed})
			}

		case stat.IsDir():
			if !w.dirs[rel] {
				w.record(ctx, path)
				changes = append(changes, Change{Path: rel, Kind: Added})
			}

		default:
			content, _, err := fsutil.ReadFile(ctx, path)
			if err != nil {
				continue
			}
			fingerprint := fsutil.Fingerprint(content)
			previous, known := w.files[rel]
			w.files[rel] = fingerprint
			switch {
			case !known:
				changes = append(changes, Change{Path: rel, Kind: Added})
			case previous != fingerprint:
				changes = append(changes, Change{Path: rel, Kind: Modified})
			}
		}
	}
	return changes
}

// forget drops rel and everything below it from the baseline and reports
// whether anything was known.
func (w *Watcher) forget(rel string) bool {
	known := w.dirs[rel]
	if _, ok := w.files[rel]; ok {
		known = true
	}
	delete(w.dirs, rel)
	delete(w.files, rel)

	prefix := rel + "/"
	for key := range w.files {
		if strings.HasPrefix(key, prefix) {
			delete(w.files, key)
		}
	}
	for key := range w.dirs {
		if strings.HasPrefix(key, prefix) {
			delete(w.dirs, key)
		}
	}
	return known
}

// record adds the tree at root to the baseline. Callers hold mu.
func (w *Watcher) record(ctx context.Context, root string) {
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		res, ok := w.project.ResourceFor(path)
		if !ok {
			return nil
		}
		if entry.IsDir() {
			if !res.IsRoot() && w.skip(path) {
				return filepath.SkipDir
			}
			w.dirs[res.Rel()] = true
			return nil
		}
		if w.skip(path) {
			return nil
		}
		if content, _, err := fsutil.ReadFile(ctx, path); err == nil {
			w.files[res.Rel()] = fsutil.Fingerprint(content)
		}
		return nil
	})
}

// addTree registers watches for every directory under root. With baseline
// set it also records fingerprints.
func (w *Watcher) addTree(root string, baseline bool) error {
	if baseline {
		w.mu.Lock()
		w.record(context.Background(), root)
		w.mu.Unlock()
	}

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != w.project.Root() && w.skip(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) skip(path string) bool {
	res, ok := w.project.ResourceFor(path)
	if !ok {
		return true
	}
	if res.IsRoot() {
		return false
	}

	if w.ignore == nil {
		return false
	}
	stat, err := os.Stat(path)
	return w.ignore(res.Rel(), err == nil && stat.IsDir())
}
