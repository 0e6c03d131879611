package util

import (
	"fmt"
	"os"
	"syscall"
)

// FileInfo is the identity of a snapshot file used for cache validation:
// a cached snapshot stays valid only while all three fields are unchanged.
type FileInfo struct {
	ModTime int64  // Last modification time (Unix seconds)
	Size    int64  // File size in bytes
	Inode   uint64 // Inode number on Unix-like systems
}

// GetFileInfo retrieves the cache-validation identity of a file.
func GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	sysStat, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("failed to get file system information: %s", path)
	}

	return &FileInfo{
		ModTime: stat.ModTime().Unix(),
		Size:    stat.Size(),
		Inode:   sysStat.Ino,
	}, nil
}

// Same reports whether two file identities match.
func (fi *FileInfo) Same(other *FileInfo) bool {
	if fi == nil || other == nil {
		return false
	}
	return fi.ModTime == other.ModTime && fi.Size == other.Size && fi.Inode == other.Inode
}
