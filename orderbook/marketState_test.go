package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukasDeco/meta-dao-frontend/lib/openbook"
)

func TestApplySideRejectsStaleSlot(t *testing.T) {
	state := CreateMarketPairState(MarketPass)

	applied := state.ApplySide(SideBid, []PriceLevelRecord{bidRecord(100, 5)}, 50)
	require.True(t, applied)
	assert.Equal(t, uint64(50), state.BidSlot)

	// A racing snapshot from an older slot must lose.
	applied = state.ApplySide(SideBid, []PriceLevelRecord{bidRecord(200, 1)}, 50)
	assert.False(t, applied)
	applied = state.ApplySide(SideBid, []PriceLevelRecord{bidRecord(200, 1)}, 40)
	assert.False(t, applied)
	assert.Equal(t, uint64(100), state.Bids.Best().Price)

	applied = state.ApplySide(SideBid, []PriceLevelRecord{bidRecord(200, 1)}, 51)
	assert.True(t, applied)
	assert.Equal(t, uint64(200), state.Bids.Best().Price)
}

func TestApplySideLeavesOtherSideUntouched(t *testing.T) {
	state := CreateMarketPairState(MarketPass)
	state.ApplySide(SideAsk, []PriceLevelRecord{askRecord(110, 2)}, 10)

	state.ApplySide(SideBid, []PriceLevelRecord{bidRecord(100, 5)}, 20)

	assert.Equal(t, uint64(110), state.Asks.Best().Price)
	assert.Equal(t, uint64(10), state.AskSlot)
	assert.Equal(t, uint64(100), state.Bids.Best().Price)
	assert.Equal(t, uint64(20), state.BidSlot)
	assert.Equal(t, uint64(20), state.LastSlot())
}

func TestApplySideRecomputesSpread(t *testing.T) {
	state := CreateMarketPairState(MarketPass)
	assert.True(t, state.Spread.IsInfinite)

	state.ApplySide(SideBid, []PriceLevelRecord{bidRecord(100*openbook.QUOTE_LOTS_PER_UNIT, 5)}, 1)
	assert.True(t, state.Spread.IsInfinite)

	state.ApplySide(SideAsk, []PriceLevelRecord{askRecord(110*openbook.QUOTE_LOTS_PER_UNIT, 2)}, 1)
	assert.False(t, state.Spread.IsInfinite)
	assert.Equal(t, "10.00 (10.00%)", state.Spread.Descriptor)
}

// Reset is the only path allowed to downgrade a populated side.
func TestResetClearsStateAndSlots(t *testing.T) {
	state := CreateMarketPairState(MarketPass)
	state.ApplySide(SideBid, []PriceLevelRecord{bidRecord(100, 5)}, 50)
	state.ApplySide(SideAsk, []PriceLevelRecord{askRecord(110, 2)}, 50)

	state.Reset()

	assert.True(t, state.Bids.IsEmpty())
	assert.True(t, state.Asks.IsEmpty())
	assert.Nil(t, state.RawBids)
	assert.Nil(t, state.RawAsks)
	assert.Equal(t, uint64(0), state.BidSlot)
	assert.Equal(t, uint64(0), state.AskSlot)
	assert.True(t, state.Spread.IsInfinite)

	// After a reset any slot is acceptable again.
	applied := state.ApplySide(SideBid, []PriceLevelRecord{bidRecord(90, 1)}, 1)
	assert.True(t, applied)
}
