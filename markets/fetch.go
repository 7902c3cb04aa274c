package markets

import (
	"github.com/LukasDeco/meta-dao-frontend/lib/openbook"
	"github.com/LukasDeco/meta-dao-frontend/orderbook"
)

// RecordsFromBookSide converts decoded leaf nodes into price level
// records tagged with their side and market. Quantities below one lot
// should not occur on chain but are dropped if they do.
func RecordsFromBookSide(
	bookSide *openbook.BookSide,
	side orderbook.Side,
	market orderbook.MarketKind,
) []orderbook.PriceLevelRecord {
	leaves := bookSide.Leaves()
	records := make([]orderbook.PriceLevelRecord, 0, len(leaves))
	for _, leaf := range leaves {
		if leaf.Quantity <= 0 {
			continue
		}
		records = append(records, orderbook.PriceLevelRecord{
			Price:         leaf.PriceLots(),
			Size:          uint64(leaf.Quantity),
			Owner:         leaf.Owner,
			OwnerSlot:     leaf.OwnerSlot,
			Side:          side,
			Market:        market,
			ClientOrderId: leaf.ClientOrderId,
			Timestamp:     leaf.Timestamp,
		})
	}
	return records
}
