package orderbook

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

type OrderStatus string

const (
	OrderStatusOpen            OrderStatus = "open"
	OrderStatusPartiallyFilled OrderStatus = "partially filled"
)

// UserOrder is a PriceLevelRecord known to belong to the connected
// identity, augmented with a derived fill status. Rebuilt wholesale
// each refresh cycle.
type UserOrder struct {
	PriceLevelRecord
	Status OrderStatus
}

type placementKey struct {
	Market        MarketKind
	Side          Side
	ClientOrderId uint64
}

// PlacementHistory records the size of the user's own submitted orders
// keyed by (market, side, clientOrderId). Client order ids are issued
// from a monotonic per-client counter, so the key is unique per
// identity within a proposal. Partial-fill status is derived by
// comparing a resting record against this history, never stored.
type PlacementHistory struct {
	sizes   map[placementKey]uint64
	mxState *sync.RWMutex
}

func CreatePlacementHistory() *PlacementHistory {
	return &PlacementHistory{
		sizes:   make(map[placementKey]uint64),
		mxState: new(sync.RWMutex),
	}
}

func (p *PlacementHistory) Record(market MarketKind, side Side, clientOrderId uint64, size uint64) {
	defer p.mxState.Unlock()
	p.mxState.Lock()
	p.sizes[placementKey{Market: market, Side: side, ClientOrderId: clientOrderId}] = size
}

func (p *PlacementHistory) Lookup(market MarketKind, side Side, clientOrderId uint64) (uint64, bool) {
	defer p.mxState.RUnlock()
	p.mxState.RLock()
	size, exists := p.sizes[placementKey{Market: market, Side: side, ClientOrderId: clientOrderId}]
	return size, exists
}

func (p *PlacementHistory) Reset() {
	defer p.mxState.Unlock()
	p.mxState.Lock()
	p.sizes = make(map[placementKey]uint64)
}

// ExtractUserOrders filters the raw record collections of both markets
// down to records owned by the connected identity. Ownership is matched
// against the identity's resolved open-orders account references; the
// raw wallet key never appears as a record owner and would never match.
// Output order is stable: pass before fail, bids before asks, then
// input order.
func ExtractUserOrders(
	pass *MarketPairState,
	fail *MarketPairState,
	ownerRefs []solana.PublicKey,
	history *PlacementHistory,
) []UserOrder {
	if len(ownerRefs) == 0 {
		return nil
	}
	var orders []UserOrder
	for _, records := range [][]PriceLevelRecord{pass.RawBids, pass.RawAsks, fail.RawBids, fail.RawAsks} {
		for _, record := range records {
			if !ownedBy(record.Owner, ownerRefs) {
				continue
			}
			order := UserOrder{PriceLevelRecord: record, Status: OrderStatusOpen}
			placedSize, known := history.Lookup(record.Market, record.Side, record.ClientOrderId)
			if known && record.Size < placedSize {
				order.Status = OrderStatusPartiallyFilled
			}
			orders = append(orders, order)
		}
	}
	return orders
}

func ownedBy(owner solana.PublicKey, refs []solana.PublicKey) bool {
	for _, ref := range refs {
		if owner.Equals(ref) {
			return true
		}
	}
	return false
}
