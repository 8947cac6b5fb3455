package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryCache keeps entries in process. It backs single-instance deployments
// that run without Redis.
type memoryCache struct {
	backend     *gocache.Cache
	serviceName string
}

func NewMemoryCache(serviceName string) Cache {
	return &memoryCache{
		backend:     gocache.New(gocache.NoExpiration, time.Minute),
		serviceName: serviceName,
	}
}

func (m *memoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.backend.Set(key, value, ttl)
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	raw, ok := m.backend.Get(key)
	if !ok {
		return "", nil
	}
	s, _ := raw.(string)
	return s, nil
}

func (m *memoryCache) SetNX(_ context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return m.backend.Add(key, value, ttl) == nil, nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.backend.Delete(key)
	return nil
}

func (m *memoryCache) Increment(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	// Add only succeeds for a fresh window, so concurrent first hits agree on
	// the expiry.
	_ = m.backend.Add(key, int64(0), window)
	count, err := m.backend.IncrementInt64(key, 1)
	if err != nil {
		// The window expired between Add and Increment.
		m.backend.Set(key, int64(1), window)
		return 1, window, nil
	}

	_, exp, ok := m.backend.GetWithExpiration(key)
	if !ok || exp.IsZero() {
		return count, window, nil
	}
	remaining := time.Until(exp)
	if remaining < 0 {
		remaining = 0
	}
	return count, remaining, nil
}

func (m *memoryCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", m.serviceName, operation, key)
}
