// Package repository implements append-only, file-based persistence for
// each entity family: one flat file per family within the tenant's data
// directory, write-temp-then-atomic-rename, and a per-repository in-process
// FIFO write lock (spec.md §4.1).
//
// The generic store here plays the role vantage's memory/*.go stores play
// (an RWMutex-guarded, id-keyed in-memory map — see memory/session_store.go,
// memory/pattern_store.go) generalized with on-disk durability and an
// explicit "no overwrite, no delete" contract: create refuses an existing
// id, matching core/knowledge/graph.go's AddNode, and records change only
// through update, which backs each repository's narrow named mutators.
package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"ledger/internal/corerr"
	"ledger/internal/fsutil"
)

// store is the generic append-only, file-backed, id-indexed record store
// shared by every entity repository in this package. T must be a value
// type (never a pointer) so callers can't mutate what's held in the index.
type store[T any] struct {
	path   string
	lock   *fsutil.WriteLock
	mu     sync.RWMutex
	byID   map[string]T
	order  []string
	idFunc func(T) string
}

func newStore[T any](path string, idFunc func(T) string) (*store[T], error) {
	s := &store[T]{
		path:   path,
		lock:   fsutil.NewWriteLock(),
		byID:   make(map[string]T),
		idFunc: idFunc,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("repository: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("repository: decode %s: %w", path, err)
	}
	for _, r := range records {
		id := idFunc(r)
		s.byID[id] = r
		s.order = append(s.order, id)
	}
	return s, nil
}

// create appends a brand-new record. It is an error to reuse an id already
// present — repositories are append-only, never overwrite.
func (s *store[T]) create(record T) error {
	id := s.idFunc(record)
	if id == "" {
		return corerr.Validation("EMPTY_ID", "record id must not be empty")
	}

	s.lock.Acquire()
	defer s.lock.Release()

	s.mu.RLock()
	_, exists := s.byID[id]
	s.mu.RUnlock()
	if exists {
		return corerr.Validation("DUPLICATE_ID", fmt.Sprintf("record %s already exists", id))
	}

	if err := s.persist(id, record); err != nil {
		return err
	}
	return nil
}

// persist appends record to the in-memory index and rewrites the backing
// file atomically. Caller must hold s.lock.
func (s *store[T]) persist(id string, record T) error {
	s.mu.Lock()
	s.byID[id] = record
	s.order = append(s.order, id)
	all := make([]T, 0, len(s.order))
	for _, oid := range s.order {
		all = append(all, s.byID[oid])
	}
	s.mu.Unlock()

	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("repository: encode %s: %w", s.path, err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("repository: write %s: %w", s.path, err)
	}
	return nil
}

// persistReplace overwrites the persisted record for an existing id. Called
// only from within update's critical section (caller must hold s.lock).
func (s *store[T]) persistReplace(id string, record T) error {
	s.mu.Lock()
	s.byID[id] = record
	all := make([]T, 0, len(s.order))
	for _, oid := range s.order {
		all = append(all, s.byID[oid])
	}
	s.mu.Unlock()

	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("repository: encode %s: %w", s.path, err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("repository: write %s: %w", s.path, err)
	}
	return nil
}

// update performs an atomic read-modify-write: it holds the write lock for
// the entire read, apply, and persist sequence so two concurrent mutators
// of the same id cannot interleave. This is what makes mandate consume_use
// race-free across concurrent decision requests (spec.md §5, Atomic mandate
// consumption).
func (s *store[T]) update(id string, fn func(T) (T, error)) (T, error) {
	s.lock.Acquire()
	defer s.lock.Release()

	s.mu.RLock()
	current, exists := s.byID[id]
	s.mu.RUnlock()
	if !exists {
		var zero T
		return zero, corerr.NotFound("NOT_FOUND", fmt.Sprintf("record %s not found", id))
	}

	updated, err := fn(current)
	if err != nil {
		return updated, err
	}

	if err := s.persistReplace(id, updated); err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

func (s *store[T]) getByID(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byID[id]
	return v, ok
}

func (s *store[T]) list(filter func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		v := s.byID[id]
		if filter == nil || filter(v) {
			out = append(out, v)
		}
	}
	return out
}

func (s *store[T]) count(filter func(T) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if filter == nil {
		return len(s.order)
	}
	n := 0
	for _, id := range s.order {
		if filter(s.byID[id]) {
			n++
		}
	}
	return n
}
