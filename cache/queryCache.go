package cache

import (
	"sync"
	"time"

	"github.com/go-errors/errors"
)

type entry struct {
	data      interface{}
	fetchedAt time.Time
}

// QueryCache is a keyed, stale-time-bounded cache for fetch results.
// Entries are served until their per-query stale time elapses, then the
// fallback loader runs again. A failed reload keeps the stale entry
// out of the cache rather than poisoning it.
type QueryCache struct {
	entries map[string]entry
	mxState *sync.RWMutex
}

func CreateQueryCache() *QueryCache {
	return &QueryCache{
		entries: make(map[string]entry),
		mxState: new(sync.RWMutex),
	}
}

func (p *QueryCache) Get(
	key string,
	staleTime time.Duration,
	fallback func() (interface{}, error),
) (interface{}, error) {
	p.mxState.RLock()
	cached, exists := p.entries[key]
	p.mxState.RUnlock()
	if exists && time.Since(cached.fetchedAt) < staleTime {
		return cached.data, nil
	}
	data, err := fallback()
	if err != nil {
		return nil, err
	}
	p.mxState.Lock()
	p.entries[key] = entry{data: data, fetchedAt: time.Now()}
	p.mxState.Unlock()
	return data, nil
}

func (p *QueryCache) Invalidate(key string) {
	defer p.mxState.Unlock()
	p.mxState.Lock()
	delete(p.entries, key)
}

func (p *QueryCache) Reset() {
	defer p.mxState.Unlock()
	p.mxState.Lock()
	p.entries = make(map[string]entry)
}

// GetTyped is the typed convenience wrapper over Get.
func GetTyped[T any](
	cache *QueryCache,
	key string,
	staleTime time.Duration,
	fallback func() (T, error),
) (T, error) {
	var zero T
	data, err := cache.Get(key, staleTime, func() (interface{}, error) {
		return fallback()
	})
	if err != nil {
		return zero, err
	}
	value, ok := data.(T)
	if !ok {
		return zero, errors.Errorf("cache entry %q holds %T", key, data)
	}
	return value, nil
}
