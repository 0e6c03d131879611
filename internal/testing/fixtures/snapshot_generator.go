// Package fixtures writes snapshot files for tests.
package fixtures

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"

	"github.com/snapview/memsnap/internal/core/model"
)

// SnapshotGenerator writes snapshot JSON files under a base directory,
// usually a t.TempDir().
type SnapshotGenerator struct {
	baseDir string
}

func NewSnapshotGenerator(baseDir string) *SnapshotGenerator {
	return &SnapshotGenerator{baseDir: baseDir}
}

// Write encodes the records as a snapshot file and returns its path.
func (g *SnapshotGenerator) Write(name string, capturedAt time.Time, traces []model.Record) (string, error) {
	snapshot := model.Snapshot{
		CapturedAt: capturedAt,
		Traces:     traces,
	}
	data, err := sonic.Marshal(&snapshot)
	if err != nil {
		return "", err
	}
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteRaw writes arbitrary bytes as a snapshot file, for corruption tests.
func (g *SnapshotGenerator) WriteRaw(name string, data []byte) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Rec builds a record from alternating filename/lineno pairs, most recent
// call first.
func Rec(size int64, frames ...interface{}) model.Record {
	tb := make(model.Traceback, 0, len(frames)/2)
	for i := 0; i+1 < len(frames); i += 2 {
		tb = append(tb, model.Frame{
			Filename: frames[i].(string),
			Lineno:   frames[i+1].(int),
		})
	}
	return model.Record{Size: size, Traceback: tb}
}
