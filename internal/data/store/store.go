// Package store loads and caches named snapshot files. A cached snapshot
// stays valid while the file identity (modtime, size, inode) is unchanged;
// a changed file is reloaded and the stale entry replaced. Bulk trace data
// can be released per path while the metadata needed for labels stays
// available.
package store

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/snapview/memsnap/internal/core/model"
	"github.com/snapview/memsnap/internal/data/parser"
	"github.com/snapview/memsnap/internal/util"
)

// Meta is the per-snapshot metadata retained after an Unload, enough to
// render a label without reloading the traces.
type Meta struct {
	TraceCount int
	TotalSize  int64
	CapturedAt time.Time
}

type entry struct {
	snapshot *model.Snapshot // nil once unloaded
	meta     Meta
	fileInfo *util.FileInfo
}

// Store is a snapshot cache keyed by absolute file path. It is safe for
// concurrent use; duplicate concurrent loads of one path coalesce into a
// single read.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	parser  *parser.Parser
	group   singleflight.Group
}

// NewStore creates an empty snapshot store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		parser:  parser.NewParser(),
	}
}

// Load returns the snapshot at path, reading the file only when no valid
// cached copy exists. A load failure leaves no partial entry behind.
func (s *Store) Load(path string) (*model.Snapshot, error) {
	path = normalizePath(path)

	if snap := s.cachedSnapshot(path); snap != nil {
		return snap, nil
	}

	v, err, _ := s.group.Do(path, func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have loaded
		// the path while this one was queued.
		if snap := s.cachedSnapshot(path); snap != nil {
			return snap, nil
		}
		return s.loadLocked(path)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Snapshot), nil
}

// cachedSnapshot returns the resident snapshot for path when the cache
// entry is still valid against the current file identity.
func (s *Store) cachedSnapshot(path string) *model.Snapshot {
	s.mu.RLock()
	e, ok := s.entries[path]
	s.mu.RUnlock()
	if !ok || e.snapshot == nil {
		return nil
	}

	info, err := util.GetFileInfo(path)
	if err != nil || !info.Same(e.fileInfo) {
		util.LogDebugf("Snapshot cache invalidated for %s: file identity changed", path)
		s.Invalidate(path)
		return nil
	}
	return e.snapshot
}

func (s *Store) loadLocked(path string) (*model.Snapshot, error) {
	snap, err := s.parser.ParseFile(path)
	if err != nil {
		// Never leave a partially initialized entry in the cache.
		s.Invalidate(path)
		return nil, err
	}

	info, err := util.GetFileInfo(path)
	if err != nil {
		s.Invalidate(path)
		return nil, fmt.Errorf("%w: %s: %v", parser.ErrNotFound, path, err)
	}

	s.mu.Lock()
	s.entries[path] = &entry{
		snapshot: snap,
		meta: Meta{
			TraceCount: snap.TraceCount(),
			TotalSize:  snap.TotalSize(),
			CapturedAt: snap.CapturedAt,
		},
		fileInfo: info,
	}
	s.mu.Unlock()

	util.LogInfof("Loaded snapshot %s (%d traces, %s)",
		path, snap.TraceCount(), util.FormatSize(snap.TotalSize()))
	return snap, nil
}

// Unload releases the bulk trace data for path while keeping the metadata
// needed by Label. Unknown paths are a no-op.
func (s *Store) Unload(path string) {
	path = normalizePath(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[path]; ok && e.snapshot != nil {
		e.snapshot = nil
		util.LogDebugf("Unloaded snapshot data for %s", path)
	}
}

// Invalidate drops the cache entry for path entirely, metadata included.
func (s *Store) Invalidate(path string) {
	path = normalizePath(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, path)
}

// Loaded reports whether bulk trace data for path is currently resident.
func (s *Store) Loaded(path string) bool {
	path = normalizePath(path)

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[path]
	return ok && e.snapshot != nil
}

// Meta returns the snapshot metadata, loading the file transiently when it
// has never been seen. A transient load is undone before returning so that
// asking for metadata never leaves trace data resident.
func (s *Store) Meta(path string) (Meta, error) {
	path = normalizePath(path)

	s.mu.RLock()
	e, ok := s.entries[path]
	s.mu.RUnlock()
	if ok {
		return e.meta, nil
	}

	if _, err := s.Load(path); err != nil {
		return Meta{}, err
	}
	s.Unload(path)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[path]; ok {
		return e.meta, nil
	}
	return Meta{}, fmt.Errorf("%w: %s: entry vanished during transient load", parser.ErrNotFound, path)
}

// Label returns the display label for a snapshot path, e.g.
// "heap1.json (1.5 MiB, 1234 traces, 2026-08-25 10:30:00)".
func (s *Store) Label(path string) (string, error) {
	meta, err := s.Meta(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%s, %s traces, %s)",
		filepath.Base(path),
		util.FormatSize(meta.TotalSize),
		util.FormatCount(int64(meta.TraceCount)),
		meta.CapturedAt.Format("2006-01-02 15:04:05")), nil
}

func normalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
