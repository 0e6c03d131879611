// Package parser decodes serialized snapshot files into model.Snapshot
// values. The wire format is owned by the capture tool; beyond "decode or
// fail" nothing here interprets it.
package parser

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/snapview/memsnap/internal/core/model"
	"github.com/snapview/memsnap/internal/util"
)

var (
	// ErrNotFound marks a snapshot file that is absent or unreadable.
	ErrNotFound = errors.New("snapshot not found")
	// ErrCorrupt marks a snapshot file whose content cannot be decoded.
	ErrCorrupt = errors.New("snapshot corrupt")
)

// Parser decodes snapshot files.
type Parser struct{}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads and decodes the snapshot at path. Open/read failures
// wrap ErrNotFound, decode failures wrap ErrCorrupt. When the file carries
// no capture timestamp the file's modification time is used, matching what
// capture tools without a clock field produce.
func (p *Parser) ParseFile(path string) (*model.Snapshot, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		util.LogDebugf("Failed to read snapshot %s: %v", path, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}

	var snap model.Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		util.LogDebugf("Failed to decode snapshot %s: %v", path, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	snap.Path = path
	if snap.CapturedAt.IsZero() {
		if info, err := os.Stat(path); err == nil {
			snap.CapturedAt = info.ModTime()
		}
	}

	util.LogDebugf("Parsed snapshot %s: %d traces, %s, took %v",
		path, snap.TraceCount(), util.FormatSize(snap.TotalSize()), time.Since(start))
	return &snap, nil
}
