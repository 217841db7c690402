package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrSlotNotFound is returned by Slots.Get when no value exists for a key.
var ErrSlotNotFound = errors.New("slot not found")

// Slots is a string-keyed blob store. Values are replaced wholesale on Put.
type Slots interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// MemorySlots keeps values in process memory.
type MemorySlots struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{m: map[string][]byte{}}
}

func (s *MemorySlots) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemorySlots) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = map[string][]byte{}
	}
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemorySlots) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *MemorySlots) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemorySlots) Close() error { return nil }
