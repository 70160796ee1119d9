package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/fleetops/rental/internal/apperrors"
)

// ErrDuplicate marks an Add with an id the store already holds.
var ErrDuplicate = errors.New("entity already exists")

// Entity is anything a RecordStore can key, soft-remove and copy. Clone
// must return a deep copy sharing no mutable state with the receiver.
type Entity[T any] interface {
	EntityID() string
	Deactivate()
	Clone() T
}

// RecordStore is a keyed snapshot store for one entity family. Every
// mutating operation durably persists the full snapshot before returning;
// a failed write rolls the in-memory state back and leaves the previous
// snapshot file intact (write-new-then-rename, never truncate-then-write).
// Reads hand out clones and writes store clones, so callers never share
// mutable state with the store or with each other.
type RecordStore[T Entity[T]] struct {
	path string
	mu   sync.RWMutex
	data map[string]T
}

// NewRecordStore opens the snapshot at path, loading it if present. A
// missing file starts an empty store.
func NewRecordStore[T Entity[T]](path string) (*RecordStore[T], error) {
	s := &RecordStore[T]{
		path: path,
		data: make(map[string]T),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RecordStore[T]) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &apperrors.PersistenceError{Path: s.path, Cause: err}
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&s.data); err != nil {
		return &apperrors.PersistenceError{Path: s.path, Cause: err}
	}
	return nil
}

// persistLocked writes the full snapshot to a sibling temp file and
// renames it over the old one. Callers hold s.mu.
func (s *RecordStore[T]) persistLocked() error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &apperrors.PersistenceError{Path: s.path, Cause: err}
	}
	tmpName := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &apperrors.PersistenceError{Path: s.path, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &apperrors.PersistenceError{Path: s.path, Cause: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &apperrors.PersistenceError{Path: s.path, Cause: err}
	}
	return nil
}

// Load returns the full id-to-entity mapping.
func (s *RecordStore[T]) Load() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]T, len(s.data))
	for id, e := range s.data {
		out[id] = e.Clone()
	}
	return out
}

// Add inserts a new entity and persists the snapshot.
func (s *RecordStore[T]) Add(entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entity.EntityID()
	if _, exists := s.data[id]; exists {
		return ErrDuplicate
	}
	s.data[id] = entity.Clone()
	if err := s.persistLocked(); err != nil {
		delete(s.data, id)
		return err
	}
	return nil
}

// Update replaces an existing entity and persists the snapshot.
func (s *RecordStore[T]) Update(entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entity.EntityID()
	prev, exists := s.data[id]
	if !exists {
		return &apperrors.NotFoundError{Entity: "entity", ID: id}
	}
	s.data[id] = entity.Clone()
	if err := s.persistLocked(); err != nil {
		s.data[id] = prev
		return err
	}
	return nil
}

// Remove soft-deletes: the entity is deactivated, not dropped, because
// ledger history may still reference its id.
func (s *RecordStore[T]) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entity, exists := s.data[id]
	if !exists {
		return &apperrors.NotFoundError{Entity: "entity", ID: id}
	}
	prev := entity.Clone()
	entity.Deactivate()
	if err := s.persistLocked(); err != nil {
		s.data[id] = prev
		return err
	}
	return nil
}

// discard hard-deletes an entry. Only used to compensate a multi-store
// write that failed partway; the ledger stays append-only for callers.
func (s *RecordStore[T]) discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[id]; !exists {
		return
	}
	delete(s.data, id)
	_ = s.persistLocked()
}

// Get returns a copy of the entity for id.
func (s *RecordStore[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.data[id]
	if !ok {
		return entity, false
	}
	return entity.Clone(), true
}

// FindBy returns copies of all entities matching the predicate.
func (s *RecordStore[T]) FindBy(pred func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []T
	for _, e := range s.data {
		if pred(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// All returns a copy of every entity in the store.
func (s *RecordStore[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.data))
	for _, e := range s.data {
		out = append(out, e.Clone())
	}
	return out
}

// Count returns the number of entities, active or not.
func (s *RecordStore[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
