package orderbook

import (
	"math"

	"github.com/gagliardetto/solana-go"
)

type Side uint8

const (
	SideBid Side = 0
	SideAsk Side = 1
)

func (s Side) String() string {
	if s == SideBid {
		return "bid"
	}
	return "ask"
}

// MarketKind selects one of the two conditional markets of a proposal.
type MarketKind uint8

const (
	MarketPass MarketKind = 0
	MarketFail MarketKind = 1
)

func (m MarketKind) String() string {
	if m == MarketPass {
		return "pass"
	}
	return "fail"
}

// PriceLevelRecord is one resting order as read from the chain. Price
// is the raw quote-lot integer; records are immutable and superseded
// wholesale by the next fetch, never mutated.
type PriceLevelRecord struct {
	Price         uint64
	Size          uint64
	Owner         solana.PublicKey
	OwnerSlot     uint8
	Side          Side
	Market        MarketKind
	ClientOrderId uint64
	Timestamp     uint64
}

type LadderLevel struct {
	Price uint64
	Size  uint64
}

// Ladder is the aggregated view of one side: unique prices, bids
// descending, asks ascending, each size the sum of records at that
// price.
type Ladder struct {
	Side   Side
	Levels []LadderLevel
}

// Sentinel entries keep an empty side indexable by top-of-book logic.
const ASK_SENTINEL_PRICE = uint64(math.MaxUint64)

func (l Ladder) Best() LadderLevel {
	return l.Levels[0]
}

func (l Ladder) IsEmpty() bool {
	if len(l.Levels) != 1 {
		return false
	}
	if l.Side == SideBid {
		return l.Levels[0].Price == 0 && l.Levels[0].Size == 0
	}
	return l.Levels[0].Price == ASK_SENTINEL_PRICE && l.Levels[0].Size == 0
}
