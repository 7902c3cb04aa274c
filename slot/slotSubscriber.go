package slot

import (
	"context"
	"fmt"
	"sync"
	"time"

	futarchy "github.com/LukasDeco/meta-dao-frontend"
	"github.com/LukasDeco/meta-dao-frontend/lib/event"
	"github.com/LukasDeco/meta-dao-frontend/utils"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

type SlotSubscriberConfig struct {
	ResubTimeoutMs *int64
}

// SlotSubscriber tracks the chain's current slot over the websocket
// slot feed, falling back to a fresh subscription when the feed goes
// quiet. Market updates are sequenced against this.
type SlotSubscriber struct {
	currentSlot  uint64
	connection   *rpc.Client
	wsConnection *ws.Client
	subscription *ws.SlotSubscription
	eventEmitter *event.EventEmitter

	resubTimeoutMs  int64
	lastReceived    int64
	isUnsubscribing bool
	mxState         *sync.RWMutex
	cancel          func()
}

func CreateSlotSubscriber(
	connection *rpc.Client,
	wsConnection *ws.Client,
	config SlotSubscriberConfig,
) *SlotSubscriber {
	return &SlotSubscriber{
		connection:     connection,
		wsConnection:   wsConnection,
		eventEmitter:   futarchy.EventEmitter(),
		resubTimeoutMs: utils.TTM[int64](config.ResubTimeoutMs == nil, int64(10000), func() int64 { return max(10000, *config.ResubTimeoutMs) }),
		mxState:        new(sync.RWMutex),
	}
}

func (p *SlotSubscriber) Subscribe() error {
	p.mxState.RLock()
	subscribed := p.subscription != nil
	p.mxState.RUnlock()
	if subscribed {
		return nil
	}

	slot, err := p.connection.GetSlot(context.TODO(), rpc.CommitmentConfirmed)
	if err == nil {
		p.setSlot(slot)
	}

	subscription, err := p.wsConnection.SlotSubscribe()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.mxState.Lock()
	p.subscription = subscription
	p.lastReceived = time.Now().UnixMilli()
	p.cancel = cancel
	p.mxState.Unlock()
	go func(ctx context.Context) {
		for {
			received, err := subscription.Recv(ctx)
			if err != nil {
				if ctx.Err() == nil {
					fmt.Println("SlotSubscriber error :", err)
				}
				return
			}
			if received == nil {
				continue
			}
			p.mxState.Lock()
			p.lastReceived = time.Now().UnixMilli()
			p.mxState.Unlock()
			if p.setSlot(received.Slot) {
				p.eventEmitter.Emit(futarchy.EventNewSlot, received.Slot)
			}
		}
	}(ctx)
	go func(ctx context.Context) {
		ticker := time.NewTicker(500 * time.Millisecond)
		for {
			select {
			case <-ticker.C:
				p.mxState.RLock()
				unsubscribing := p.isUnsubscribing
				stalled := time.Now().UnixMilli()-p.lastReceived > p.resubTimeoutMs
				p.mxState.RUnlock()
				if !unsubscribing && stalled {
					p.resubscribe()
				}
			case <-ctx.Done():
				ticker.Stop()
				return
			}
		}
	}(ctx)
	return nil
}

func (p *SlotSubscriber) setSlot(slot uint64) bool {
	defer p.mxState.Unlock()
	p.mxState.Lock()
	if p.currentSlot == 0 || p.currentSlot < slot {
		p.currentSlot = slot
		return true
	}
	return false
}

func (p *SlotSubscriber) resubscribe() {
	p.Unsubscribe()
	if err := p.Subscribe(); err != nil {
		fmt.Println("SlotSubscriber resubscribe failed :", err)
	}
}

func (p *SlotSubscriber) GetSlot() uint64 {
	defer p.mxState.RUnlock()
	p.mxState.RLock()
	return p.currentSlot
}

func (p *SlotSubscriber) Unsubscribe() {
	p.mxState.Lock()
	p.isUnsubscribing = true
	cancel := p.cancel
	subscription := p.subscription
	p.cancel = nil
	p.subscription = nil
	p.mxState.Unlock()

	if cancel != nil {
		cancel()
	}
	if subscription != nil {
		subscription.Unsubscribe()
	}

	p.mxState.Lock()
	p.isUnsubscribing = false
	p.mxState.Unlock()
}
