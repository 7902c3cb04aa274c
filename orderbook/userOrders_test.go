package orderbook

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairWithBids(market MarketKind, records ...PriceLevelRecord) *MarketPairState {
	state := CreateMarketPairState(market)
	state.ApplySide(SideBid, records, 1)
	return state
}

func TestExtractUserOrdersMatchesResolvedReference(t *testing.T) {
	openOrdersAccount := solana.NewWallet().PublicKey()
	otherAccount := solana.NewWallet().PublicKey()

	mine := PriceLevelRecord{Price: 100, Size: 5, Owner: openOrdersAccount, Side: SideBid, Market: MarketPass, ClientOrderId: 7}
	theirs := PriceLevelRecord{Price: 90, Size: 3, Owner: otherAccount, Side: SideBid, Market: MarketPass, ClientOrderId: 8}

	pass := pairWithBids(MarketPass, mine, theirs)
	fail := CreateMarketPairState(MarketFail)
	history := CreatePlacementHistory()

	orders := ExtractUserOrders(pass, fail, []solana.PublicKey{openOrdersAccount}, history)
	require.Len(t, orders, 1)
	assert.Equal(t, mine, orders[0].PriceLevelRecord)
	assert.Equal(t, OrderStatusOpen, orders[0].Status)
}

func TestExtractUserOrdersNoReferencesIsNoop(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	pass := pairWithBids(MarketPass, PriceLevelRecord{Price: 100, Size: 5, Owner: owner, Side: SideBid, Market: MarketPass})
	fail := CreateMarketPairState(MarketFail)

	orders := ExtractUserOrders(pass, fail, nil, CreatePlacementHistory())
	assert.Nil(t, orders)
}

// A raw wallet key never appears as a record owner; matching against it
// must find nothing.
func TestExtractUserOrdersWalletKeyNeverMatches(t *testing.T) {
	wallet := solana.NewWallet().PublicKey()
	openOrdersAccount := solana.NewWallet().PublicKey()

	pass := pairWithBids(MarketPass, PriceLevelRecord{Price: 100, Size: 5, Owner: openOrdersAccount, Side: SideBid, Market: MarketPass})
	fail := CreateMarketPairState(MarketFail)

	orders := ExtractUserOrders(pass, fail, []solana.PublicKey{wallet}, CreatePlacementHistory())
	assert.Empty(t, orders)
}

func TestExtractUserOrdersPartialFill(t *testing.T) {
	openOrdersAccount := solana.NewWallet().PublicKey()
	history := CreatePlacementHistory()
	history.Record(MarketPass, SideBid, 42, 10)
	history.Record(MarketPass, SideBid, 43, 5)

	partial := PriceLevelRecord{Price: 100, Size: 6, Owner: openOrdersAccount, Side: SideBid, Market: MarketPass, ClientOrderId: 42}
	untouched := PriceLevelRecord{Price: 95, Size: 5, Owner: openOrdersAccount, Side: SideBid, Market: MarketPass, ClientOrderId: 43}

	pass := pairWithBids(MarketPass, partial, untouched)
	fail := CreateMarketPairState(MarketFail)

	orders := ExtractUserOrders(pass, fail, []solana.PublicKey{openOrdersAccount}, history)
	require.Len(t, orders, 2)
	assert.Equal(t, OrderStatusPartiallyFilled, orders[0].Status)
	assert.Equal(t, OrderStatusOpen, orders[1].Status)
}

func TestExtractUserOrdersStableOrdering(t *testing.T) {
	openOrdersAccount := solana.NewWallet().PublicKey()
	history := CreatePlacementHistory()

	passBid := PriceLevelRecord{Price: 100, Size: 1, Owner: openOrdersAccount, Side: SideBid, Market: MarketPass, ClientOrderId: 1}
	passAsk := PriceLevelRecord{Price: 110, Size: 1, Owner: openOrdersAccount, Side: SideAsk, Market: MarketPass, ClientOrderId: 2}
	failBid := PriceLevelRecord{Price: 90, Size: 1, Owner: openOrdersAccount, Side: SideBid, Market: MarketFail, ClientOrderId: 3}

	pass := CreateMarketPairState(MarketPass)
	pass.ApplySide(SideBid, []PriceLevelRecord{passBid}, 1)
	pass.ApplySide(SideAsk, []PriceLevelRecord{passAsk}, 1)
	fail := CreateMarketPairState(MarketFail)
	fail.ApplySide(SideBid, []PriceLevelRecord{failBid}, 1)

	orders := ExtractUserOrders(pass, fail, []solana.PublicKey{openOrdersAccount}, history)
	require.Len(t, orders, 3)
	assert.Equal(t, uint64(1), orders[0].ClientOrderId)
	assert.Equal(t, uint64(2), orders[1].ClientOrderId)
	assert.Equal(t, uint64(3), orders[2].ClientOrderId)
}

func TestPlacementHistoryReset(t *testing.T) {
	history := CreatePlacementHistory()
	history.Record(MarketPass, SideBid, 1, 10)

	_, known := history.Lookup(MarketPass, SideBid, 1)
	require.True(t, known)

	history.Reset()
	_, known = history.Lookup(MarketPass, SideBid, 1)
	assert.False(t, known)
}
