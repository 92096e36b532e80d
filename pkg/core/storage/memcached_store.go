package storage

import (
	"bytes"
	"slices"
)

// MemCachedStore is a wrapper around persistent store that caches all changes
// being made for them to be later flushed in one batch. Deleted keys are
// kept in the cache with nil values.
type MemCachedStore struct {
	MemoryStore

	// Persistent Store.
	ps Store
}

type (
	// KeyValue represents key-value pair.
	KeyValue struct {
		Key   []byte
		Value []byte

		Exists bool
	}

	// MemBatch represents a changeset to be persisted.
	MemBatch struct {
		Put     []KeyValue
		Deleted []KeyValue
	}
)

// NewMemCachedStore creates a new MemCachedStore object.
func NewMemCachedStore(lower Store) *MemCachedStore {
	return &MemCachedStore{
		MemoryStore: *NewMemoryStore(),
		ps:          lower,
	}
}

// Get implements the Store interface.
func (s *MemCachedStore) Get(key []byte) ([]byte, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	if val, ok := s.mem[string(key)]; ok {
		if val == nil {
			return nil, ErrKeyNotFound
		}
		return val, nil
	}
	return s.ps.Get(key)
}

// Put puts a copy of the value into the cache.
func (s *MemCachedStore) Put(key, value []byte) {
	if value == nil {
		value = []byte{}
	}
	s.mut.Lock()
	s.mem[string(key)] = slices.Clone(value)
	s.mut.Unlock()
}

// Delete marks the key as deleted.
func (s *MemCachedStore) Delete(key []byte) {
	s.mut.Lock()
	s.mem[string(key)] = nil
	s.mut.Unlock()
}

// PutChangeSet implements the Store interface, the changes are cached
// (including deletions) until Persist. Never returns an error.
func (s *MemCachedStore) PutChangeSet(puts map[string][]byte) error {
	s.mut.Lock()
	for k := range puts {
		s.mem[k] = puts[k]
	}
	s.mut.Unlock()
	return nil
}

// GetBatch returns currently accumulated changeset.
func (s *MemCachedStore) GetBatch() *MemBatch {
	s.mut.RLock()
	defer s.mut.RUnlock()

	var b MemBatch

	for k, v := range s.mem {
		key := []byte(k)
		_, err := s.ps.Get(key)
		if v == nil {
			b.Deleted = append(b.Deleted, KeyValue{Key: key, Exists: err == nil})
		} else {
			b.Put = append(b.Put, KeyValue{Key: key, Value: v, Exists: err == nil})
		}
	}
	byKey := func(a, b KeyValue) int { return bytes.Compare(a.Key, b.Key) }
	slices.SortFunc(b.Put, byKey)
	slices.SortFunc(b.Deleted, byKey)
	return &b
}

// Seek implements the Store interface. Cached values take precedence over
// the ones from the persistent store.
func (s *MemCachedStore) Seek(rng SeekRange, f func(k, v []byte) bool) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	mem := s.MemoryStore.sorted(rng)
	var lower []KeyValue
	s.ps.Seek(rng, func(k, v []byte) bool {
		if _, ok := s.mem[string(k)]; !ok {
			lower = append(lower, KeyValue{Key: bytes.Clone(k), Value: bytes.Clone(v)})
		}
		return true
	})

	less := getLessFunc(rng.Backwards)
	var i, j int
	for i < len(mem) || j < len(lower) {
		var kv KeyValue
		if j == len(lower) || (i < len(mem) && less(mem[i].Key, lower[j].Key)) {
			kv = mem[i]
			i++
		} else {
			kv = lower[j]
			j++
		}
		if kv.Value == nil {
			continue
		}
		if !f(kv.Key, kv.Value) {
			return
		}
	}
}

// Persist flushes all the cached changes into the lower Store and returns
// the number of keys flushed (deletions included).
func (s *MemCachedStore) Persist() (int, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	keys := len(s.mem)
	if keys == 0 {
		return 0, nil
	}
	err := s.ps.PutChangeSet(s.mem)
	if err != nil {
		return 0, err
	}
	s.mem = make(map[string][]byte)
	return keys, nil
}

// Close implements Store interface, clears up memory and closes the lower layer
// Store.
func (s *MemCachedStore) Close() error {
	// It's always successful.
	_ = s.MemoryStore.Close()
	return s.ps.Close()
}
