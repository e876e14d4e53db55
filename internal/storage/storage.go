// Package storage persists the trained model and its training report.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileInfo describes a persisted file.
type FileInfo struct {
	Exists    bool      `json:"exists"`
	Path      string    `json:"path"`
	Size      int64     `json:"size,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func statFile(path string) FileInfo {
	info := FileInfo{Path: path}

	stat, err := os.Stat(path)
	if err != nil {
		return info
	}

	info.Exists = true
	info.Size = stat.Size()
	info.UpdatedAt = stat.ModTime()
	return info
}

// writeAtomic writes through a temp file in the target directory and
// renames it over path, so readers never observe a partial file.
func writeAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if err := write(file); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
