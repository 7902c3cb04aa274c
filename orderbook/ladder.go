package orderbook

import (
	"math/big"
	"slices"

	"github.com/LukasDeco/meta-dao-frontend/lib/openbook"
	"github.com/shopspring/decimal"
)

// BuildLadder aggregates raw records into the sorted, price-deduplicated
// ladder for one side. Aggregation and ordering work on the raw integer
// price; nothing here touches floating point.
func BuildLadder(records []PriceLevelRecord, side Side) Ladder {
	if len(records) == 0 {
		if side == SideBid {
			return Ladder{Side: side, Levels: []LadderLevel{{Price: 0, Size: 0}}}
		}
		return Ladder{Side: side, Levels: []LadderLevel{{Price: ASK_SENTINEL_PRICE, Size: 0}}}
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b PriceLevelRecord) int {
		switch {
		case a.Price < b.Price:
			return -1
		case a.Price > b.Price:
			return 1
		}
		return 0
	})
	if side == SideBid {
		slices.Reverse(sorted)
	}

	sizeByPrice := make(map[uint64]uint64, len(sorted))
	var order []uint64
	for _, record := range sorted {
		if _, exists := sizeByPrice[record.Price]; !exists {
			order = append(order, record.Price)
		}
		sizeByPrice[record.Price] += record.Size
	}

	levels := make([]LadderLevel, 0, len(order))
	for _, price := range order {
		levels = append(levels, LadderLevel{Price: price, Size: sizeByPrice[price]})
	}
	return Ladder{Side: side, Levels: levels}
}

// DisplayPrice converts a raw quote-lot price to its four-decimal
// display form. This is the only place the integer leaves lot space.
func DisplayPrice(priceLots uint64) string {
	return priceDecimal(priceLots).StringFixed(openbook.PRICE_DISPLAY_DECIMALS)
}

func priceDecimal(priceLots uint64) decimal.Decimal {
	raw := decimal.NewFromBigInt(new(big.Int).SetUint64(priceLots), 0)
	return raw.Div(decimal.NewFromInt(openbook.QUOTE_LOTS_PER_UNIT))
}

type DisplayLevel struct {
	Price string
	Size  uint64
}

func (l Ladder) DisplayLevels() []DisplayLevel {
	levels := make([]DisplayLevel, 0, len(l.Levels))
	for _, level := range l.Levels {
		levels = append(levels, DisplayLevel{
			Price: DisplayPrice(level.Price),
			Size:  level.Size,
		})
	}
	return levels
}
