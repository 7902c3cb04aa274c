package orderbook

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const InfiniteSpread = "∞ (∞%)"

type SpreadInfo struct {
	TopBid     LadderLevel
	TopAsk     LadderLevel
	IsInfinite bool
	// Descriptor is the formatted "spread (percent%)" string consumed
	// directly by presentation.
	Descriptor string
}

// CalculateSpread derives top-of-book and the spread descriptor from
// both ladders of a market. A side resting at its sentinel yields the
// infinite-spread marker, never a numeric percentage.
func CalculateSpread(bids Ladder, asks Ladder) SpreadInfo {
	topBid := bids.Best()
	topAsk := asks.Best()
	info := SpreadInfo{
		TopBid: topBid,
		TopAsk: topAsk,
	}
	if topBid.Price == 0 || topAsk.Price == ASK_SENTINEL_PRICE {
		info.IsInfinite = true
		info.Descriptor = InfiniteSpread
		return info
	}
	bid := priceDecimal(topBid.Price)
	ask := priceDecimal(topAsk.Price)
	spread := ask.Sub(bid)
	percent := spread.Div(bid).Mul(decimal.NewFromInt(100))
	info.Descriptor = fmt.Sprintf("%s (%s%%)", spread.StringFixed(2), percent.StringFixed(2))
	return info
}
