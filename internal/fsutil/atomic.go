// Package fsutil provides the write-temp-then-atomic-rename primitive every
// repository and the event log use to avoid torn files (spec.md §4.1/§4.2).
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temporary file in the same directory as
// path, fsyncs it, then renames it over path. Rename within one filesystem
// is atomic, so a reader never observes a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("fsutil: create temp in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("fsutil: write temp %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("fsutil: sync temp %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("fsutil: close temp %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("fsutil: chmod temp %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("fsutil: rename %s -> %s: %w", tmpPath, path, err)
	}
	return nil
}

// WriteLock is a FIFO queue of pending writers, implemented as a
// single-slot channel rather than sync.Mutex so the serialization contract
// is explicit: at most one writer in flight, waiters are released in the
// order they arrived relative to the channel's internal queue (spec.md §9,
// "Promise-based serialization lock -> a FIFO queue of pending writers
// implemented with a channel or mutex").
type WriteLock struct {
	slot chan struct{}
}

// NewWriteLock returns an unlocked WriteLock.
func NewWriteLock() *WriteLock {
	wl := &WriteLock{slot: make(chan struct{}, 1)}
	wl.slot <- struct{}{}
	return wl
}

// Acquire blocks until the lock is available.
func (w *WriteLock) Acquire() { <-w.slot }

// Release returns the lock to the queue.
func (w *WriteLock) Release() { w.slot <- struct{}{} }
