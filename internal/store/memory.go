package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// NewMemory creates an in-memory ObjectStorage implementation.
// It exists for tests and local development; objects live only as long as
// the process.
func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string]memObject),
	}
}

var _ ObjectStorage = (*Memory)(nil)

// Memory is an in-memory, thread-safe implementation of the ObjectStorage
// interface.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memObject

	// PutCount tracks the total number of PutObject calls, so tests can
	// assert how many uploads a run performed.
	PutCount int
}

type memObject struct {
	data        []byte
	contentType string
}

func (m *Memory) PutObject(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	m.objects[key] = memObject{data: cp, contentType: contentType}
	m.PutCount++

	return nil
}

func (m *Memory) GetObject(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	cp := make([]byte, len(obj.data))
	copy(cp, obj.data)

	return cp, nil
}

func (m *Memory) ListKeys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return keys, nil
}

func (m *Memory) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)

	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			delete(m.objects, k)
		}
	}

	return nil
}

func (m *Memory) ObjectExists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.objects[key]

	return ok, nil
}

func (m *Memory) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.objects[key]; !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	return fmt.Sprintf("https://memory.invalid/%s?expires=%d", key, int64(ttl.Seconds())), nil
}
