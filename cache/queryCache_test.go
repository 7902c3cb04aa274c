package cache

import (
	"testing"
	"time"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCacheServesFreshEntry(t *testing.T) {
	queryCache := CreateQueryCache()
	calls := 0
	loader := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	first, err := queryCache.Get("key", time.Minute, loader)
	require.NoError(t, err)
	second, err := queryCache.Get("key", time.Minute, loader)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 1, calls)
}

func TestQueryCacheReloadsAfterStaleTime(t *testing.T) {
	queryCache := CreateQueryCache()
	calls := 0
	loader := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := queryCache.Get("key", time.Millisecond, loader)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	value, err := queryCache.Get("key", time.Millisecond, loader)
	require.NoError(t, err)

	assert.Equal(t, 2, value)
	assert.Equal(t, 2, calls)
}

func TestQueryCacheInvalidate(t *testing.T) {
	queryCache := CreateQueryCache()
	calls := 0
	loader := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := queryCache.Get("key", time.Minute, loader)
	require.NoError(t, err)
	queryCache.Invalidate("key")
	_, err = queryCache.Get("key", time.Minute, loader)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestQueryCacheFailedLoadIsNotCached(t *testing.T) {
	queryCache := CreateQueryCache()
	calls := 0
	loader := func() (interface{}, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("rpc down")
		}
		return calls, nil
	}

	_, err := queryCache.Get("key", time.Minute, loader)
	require.Error(t, err)
	value, err := queryCache.Get("key", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
}

func TestGetTyped(t *testing.T) {
	queryCache := CreateQueryCache()
	value, err := GetTyped(queryCache, "key", time.Minute, func() (string, error) {
		return "hello", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", value)

	// Same key reloaded under a different type after stale reset.
	_, err = GetTyped(queryCache, "key", time.Minute, func() (int, error) {
		return 1, nil
	})
	assert.Error(t, err)
}
