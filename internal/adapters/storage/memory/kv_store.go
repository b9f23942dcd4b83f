package memory

import (
	"context"
	"sync"

	"eldercare-reminders/internal/ports/kv"
)

type kvStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewKVStore es el store por defecto (KV_DRIVER=memory); se pierde al reiniciar.
func NewKVStore() kv.Store {
	return &kvStore{data: make(map[string]string)}
}

func (s *kvStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok, nil
}

func (s *kvStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

func (s *kvStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
