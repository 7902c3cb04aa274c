package markets

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCollapsesBurst(t *testing.T) {
	var calls atomic.Int64
	debouncer := CreateDebouncer(30*time.Millisecond, func() {
		calls.Add(1)
	})

	for i := 0; i < 10; i++ {
		debouncer.Trigger()
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}

func TestDebouncerTrailingEdge(t *testing.T) {
	var calls atomic.Int64
	debouncer := CreateDebouncer(30*time.Millisecond, func() {
		calls.Add(1)
	})

	debouncer.Trigger()
	assert.Equal(t, int64(0), calls.Load())
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}

func TestDebouncerCancel(t *testing.T) {
	var calls atomic.Int64
	debouncer := CreateDebouncer(30*time.Millisecond, func() {
		calls.Add(1)
	})

	debouncer.Trigger()
	debouncer.Cancel()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(0), calls.Load())

	// Still usable after a cancel.
	debouncer.Trigger()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}
