// Package source caches source file lines for tooltip rendering. It is
// the moral equivalent of Python's linecache: best effort, mtime
// validated, and silent about files it cannot read.
package source

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/snapview/memsnap/internal/util"
)

type fileEntry struct {
	lines   []string
	modTime int64
}

// Cache is an mtime-validated per-file source line cache.
type Cache struct {
	mu    sync.Mutex
	files map[string]*fileEntry
}

// NewCache creates an empty source cache.
func NewCache() *Cache {
	return &Cache{files: make(map[string]*fileEntry)}
}

// Line returns the trimmed source line at (filename, lineno), or "" when
// the line cannot be resolved. Pseudo-filenames like "<frozen ...>" and
// unknown line numbers (lineno <= 0) are never looked up.
func (c *Cache) Line(filename string, lineno int) string {
	if lineno <= 0 || strings.HasPrefix(filename, "<") {
		return ""
	}

	lines := c.readFile(filename)
	if lineno > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[lineno-1])
}

// Clear drops every cached file.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = make(map[string]*fileEntry)
}

func (c *Cache) readFile(filename string) []string {
	info, err := os.Stat(filename)
	if err != nil {
		return nil
	}
	modTime := info.ModTime().Unix()

	c.mu.Lock()
	if e, ok := c.files[filename]; ok && e.modTime == modTime {
		lines := e.lines
		c.mu.Unlock()
		return lines
	}
	c.mu.Unlock()

	f, err := os.Open(filename)
	if err != nil {
		util.LogDebugf("Source lookup failed for %s: %v", filename, err)
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		util.LogDebugf("Source read failed for %s: %v", filename, err)
		return nil
	}

	c.mu.Lock()
	c.files[filename] = &fileEntry{lines: lines, modTime: modTime}
	c.mu.Unlock()
	return lines
}
