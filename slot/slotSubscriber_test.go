package slot

import (
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
)

func testSlotSubscriber() *SlotSubscriber {
	return CreateSlotSubscriber(rpc.New("http://localhost:8899"), nil, SlotSubscriberConfig{})
}

func TestSetSlotNeverMovesBackwards(t *testing.T) {
	subscriber := testSlotSubscriber()
	assert.True(t, subscriber.setSlot(100))
	assert.Equal(t, uint64(100), subscriber.GetSlot())
	assert.False(t, subscriber.setSlot(99))
	assert.Equal(t, uint64(100), subscriber.GetSlot())
	assert.True(t, subscriber.setSlot(101))
	assert.Equal(t, uint64(101), subscriber.GetSlot())
}

// Teardown and reads may interleave with the recv and stall-check
// goroutines, so every flag and the subscription handle go through the
// state mutex.
func TestUnsubscribeConcurrentWithReads(t *testing.T) {
	subscriber := testSlotSubscriber()
	subscriber.setSlot(42)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			subscriber.Unsubscribe()
			_ = subscriber.GetSlot()
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			subscriber.setSlot(43)
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(43), subscriber.GetSlot())
}
