package orderbook

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukasDeco/meta-dao-frontend/lib/openbook"
)

func bidRecord(price uint64, size uint64) PriceLevelRecord {
	return PriceLevelRecord{Price: price, Size: size, Side: SideBid, Market: MarketPass}
}

func askRecord(price uint64, size uint64) PriceLevelRecord {
	return PriceLevelRecord{Price: price, Size: size, Side: SideAsk, Market: MarketPass}
}

func TestBuildLadderDeduplicatesPrices(t *testing.T) {
	records := []PriceLevelRecord{
		bidRecord(100, 5),
		bidRecord(100, 3),
		bidRecord(90, 10),
		bidRecord(95, 1),
		bidRecord(90, 2),
	}
	ladder := BuildLadder(records, SideBid)

	seen := make(map[uint64]bool)
	var total uint64
	for _, level := range ladder.Levels {
		require.False(t, seen[level.Price], "price %d appears twice", level.Price)
		seen[level.Price] = true
		total += level.Size
	}
	assert.Equal(t, uint64(21), total)
}

func TestBuildLadderOrdering(t *testing.T) {
	records := []PriceLevelRecord{
		bidRecord(90, 1),
		bidRecord(110, 1),
		bidRecord(100, 1),
	}
	bids := BuildLadder(records, SideBid)
	for i := 1; i < len(bids.Levels); i++ {
		assert.Greater(t, bids.Levels[i-1].Price, bids.Levels[i].Price)
	}

	askRecords := []PriceLevelRecord{
		askRecord(120, 1),
		askRecord(105, 1),
		askRecord(110, 1),
	}
	asks := BuildLadder(askRecords, SideAsk)
	for i := 1; i < len(asks.Levels); i++ {
		assert.Less(t, asks.Levels[i-1].Price, asks.Levels[i].Price)
	}
}

func TestBuildLadderEmptySides(t *testing.T) {
	bids := BuildLadder(nil, SideBid)
	require.Len(t, bids.Levels, 1)
	assert.Equal(t, uint64(0), bids.Best().Price)
	assert.Equal(t, uint64(0), bids.Best().Size)
	assert.True(t, bids.IsEmpty())

	asks := BuildLadder(nil, SideAsk)
	require.Len(t, asks.Levels, 1)
	assert.Equal(t, uint64(math.MaxUint64), asks.Best().Price)
	assert.Equal(t, uint64(0), asks.Best().Size)
	assert.True(t, asks.IsEmpty())
}

func TestDisplayPriceScalingRoundTrip(t *testing.T) {
	priceLots := uint64(123456)
	display := DisplayPrice(priceLots)
	assert.Equal(t, "12.3456", display)

	parsed, err := decimal.NewFromString(display)
	require.NoError(t, err)
	recovered := parsed.Mul(decimal.NewFromInt(openbook.QUOTE_LOTS_PER_UNIT)).IntPart()
	assert.Equal(t, int64(priceLots), recovered)
}

func TestConcreteScenario(t *testing.T) {
	// Human prices 100 and 90 as quote lots, sizes in base lots.
	bids := BuildLadder([]PriceLevelRecord{
		bidRecord(100*openbook.QUOTE_LOTS_PER_UNIT, 5),
		bidRecord(100*openbook.QUOTE_LOTS_PER_UNIT, 3),
		bidRecord(90*openbook.QUOTE_LOTS_PER_UNIT, 10),
	}, SideBid)
	require.Len(t, bids.Levels, 2)
	assert.Equal(t, LadderLevel{Price: 100 * openbook.QUOTE_LOTS_PER_UNIT, Size: 8}, bids.Levels[0])
	assert.Equal(t, LadderLevel{Price: 90 * openbook.QUOTE_LOTS_PER_UNIT, Size: 10}, bids.Levels[1])

	asks := BuildLadder([]PriceLevelRecord{
		askRecord(110*openbook.QUOTE_LOTS_PER_UNIT, 2),
		askRecord(120*openbook.QUOTE_LOTS_PER_UNIT, 1),
	}, SideAsk)
	require.Len(t, asks.Levels, 2)
	assert.Equal(t, LadderLevel{Price: 110 * openbook.QUOTE_LOTS_PER_UNIT, Size: 2}, asks.Levels[0])
	assert.Equal(t, LadderLevel{Price: 120 * openbook.QUOTE_LOTS_PER_UNIT, Size: 1}, asks.Levels[1])

	spread := CalculateSpread(bids, asks)
	assert.False(t, spread.IsInfinite)
	assert.Equal(t, "10.00 (10.00%)", spread.Descriptor)
}

func TestDisplayLevels(t *testing.T) {
	ladder := BuildLadder([]PriceLevelRecord{
		bidRecord(1005000, 7),
	}, SideBid)
	levels := ladder.DisplayLevels()
	require.Len(t, levels, 1)
	assert.Equal(t, "100.5000", levels[0].Price)
}
