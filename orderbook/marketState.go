package orderbook

// MarketPairState holds both ladders of one conditional market plus the
// derived top-of-book and spread. It is rebuilt wholesale on every
// snapshot or push event and discarded on proposal switch.
//
// Per-side last-applied slots make the never-downgrade rule
// enforceable: an update whose slot is not newer than the applied one
// is rejected, so a racing snapshot cannot overwrite fresher push
// state.
//
// Updates replace the ladders and record slices wholesale and never
// mutate them in place, so a shallow copy of the struct taken under
// the owner's lock is a consistent read-only view.
type MarketPairState struct {
	Market MarketKind

	Bids Ladder
	Asks Ladder

	RawBids []PriceLevelRecord
	RawAsks []PriceLevelRecord

	BidSlot uint64
	AskSlot uint64

	Spread SpreadInfo
}

func CreateMarketPairState(market MarketKind) *MarketPairState {
	state := &MarketPairState{Market: market}
	state.Reset()
	return state
}

// Reset returns the pair to the uninitialized state: sentinel ladders,
// zero slots, infinite spread. The only path that may downgrade a
// populated side.
func (p *MarketPairState) Reset() {
	p.Bids = BuildLadder(nil, SideBid)
	p.Asks = BuildLadder(nil, SideAsk)
	p.RawBids = nil
	p.RawAsks = nil
	p.BidSlot = 0
	p.AskSlot = 0
	p.Spread = CalculateSpread(p.Bids, p.Asks)
}

// ApplySide replaces one side from a snapshot or push payload. Returns
// false when the update lost the slot race and nothing changed. The
// other side is left untouched.
func (p *MarketPairState) ApplySide(side Side, records []PriceLevelRecord, slot uint64) bool {
	applied := p.appliedSlot(side)
	if applied != 0 && slot <= applied {
		return false
	}
	ladder := BuildLadder(records, side)
	if side == SideBid {
		p.Bids = ladder
		p.RawBids = records
		p.BidSlot = slot
	} else {
		p.Asks = ladder
		p.RawAsks = records
		p.AskSlot = slot
	}
	p.Spread = CalculateSpread(p.Bids, p.Asks)
	return true
}

func (p *MarketPairState) appliedSlot(side Side) uint64 {
	if side == SideBid {
		return p.BidSlot
	}
	return p.AskSlot
}

// LastSlot reports the freshest slot either side has seen.
func (p *MarketPairState) LastSlot() uint64 {
	if p.BidSlot > p.AskSlot {
		return p.BidSlot
	}
	return p.AskSlot
}
