package typeddict

import (
	"sync"
	"sync/atomic"
)

const numShards = 64

// handleShard is one shard of a handleTable.
type handleShard[T any] struct {
	mu      sync.RWMutex
	entries map[uint64]T
}

// handleTable maps 8-byte ids stored inside cells to Go values that cannot
// live in a byte buffer. Id 0 is never issued.
type handleTable[T any] struct {
	shards [numShards]handleShard[T]
	next   atomic.Uint64
}

func newHandleTable[T any]() *handleTable[T] {
	t := &handleTable[T]{}
	for i := range t.shards {
		t.shards[i].entries = make(map[uint64]T)
	}
	t.next.Store(1)

	return t
}

func (t *handleTable[T]) shard(id uint64) *handleShard[T] {
	return &t.shards[id%numShards]
}

func (t *handleTable[T]) put(v T) uint64 {
	id := t.next.Add(1) - 1
	s := t.shard(id)
	s.mu.Lock()
	s.entries[id] = v
	s.mu.Unlock()

	return id
}

func (t *handleTable[T]) get(id uint64) (T, bool) {
	if id == 0 {
		var zero T
		return zero, false
	}

	s := t.shard(id)
	s.mu.RLock()
	v, ok := s.entries[id]
	s.mu.RUnlock()

	return v, ok
}

func (t *handleTable[T]) remove(id uint64) {
	if id == 0 {
		return
	}

	s := t.shard(id)
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

func (t *handleTable[T]) len() int {
	n := 0
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}

	return n
}
