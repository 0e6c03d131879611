package store

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/snapview/memsnap/internal/util"
)

// Watcher invalidates store entries when the underlying snapshot files
// change on disk, and notifies an optional callback so an interactive view
// can refresh. It complements the identity check done on every Load: the
// watcher catches changes while the explorer is idle.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	onChange func(path string)
	done     chan struct{}
}

// NewWatcher creates a watcher over the given snapshot paths. onChange may
// be nil.
func NewWatcher(s *Store, paths []string, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		store:    s,
		watcher:  fw,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	// Watch the containing directories: editors and capture tools often
	// replace files via rename, which drops a per-file watch.
	dirs := make(map[string]struct{})
	for _, p := range paths {
		dirs[filepath.Dir(normalizePath(p))] = struct{}{}
	}
	watched := make(map[string]struct{})
	for _, p := range paths {
		watched[normalizePath(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}

	go w.run(watched)
	return w, nil
}

func (w *Watcher) run(watched map[string]struct{}) {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			path := normalizePath(event.Name)
			if _, tracked := watched[path]; !tracked {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			util.LogInfof("Snapshot file changed on disk: %s (%s)", path, event.Op)
			w.store.Invalidate(path)
			if w.onChange != nil {
				w.onChange(path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			util.LogWarnf("Snapshot watcher error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
