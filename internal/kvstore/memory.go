package kvstore

import (
	"context"
	gocache "github.com/patrickmn/go-cache"
)

// Memory keeps values in process memory. Values never expire.
type Memory struct {
	cache *gocache.Cache
}

func NewMemory() *Memory {
	return &Memory{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (m *Memory) Save(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.cache.Set(key, stored, gocache.NoExpiration)
	return nil
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	value, found := m.cache.Get(key)
	if !found {
		return nil, nil
	}
	return value.([]byte), nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.cache.Flush()
	return nil
}
