package openbook

import (
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// MarketState is the decoded market account layout.
type MarketState struct {
	Bump               uint8
	BaseDecimals       uint8
	QuoteDecimals      uint8
	Padding1           [5]uint8
	MarketAuthority    solana.PublicKey
	TimeExpiry         int64
	CollectFeeAdmin    solana.PublicKey
	OpenOrdersAdmin    solana.PublicKey
	ConsumeEventsAdmin solana.PublicKey
	CloseMarketAdmin   solana.PublicKey
	Name               [16]uint8
	Bids               solana.PublicKey
	Asks               solana.PublicKey
	EventHeap          solana.PublicKey
	OracleA            solana.PublicKey
	OracleB            solana.PublicKey
	ConfFilter         float64
	MaxStalenessSlots  int64
	QuoteLotSize       int64
	BaseLotSize        int64
	SeqNum             uint64
	RegistrationTime   int64
	MakerFee           int64
	TakerFee           int64
	FeesAccrued        bin.Uint128
	FeesToReferrers    bin.Uint128
	ReferrerRebates    uint64
	FeesAvailable      uint64
	MakerVolume        bin.Uint128
	TakerVolume        bin.Uint128
	BaseMint           solana.PublicKey
	QuoteMint          solana.PublicKey
	MarketBaseVault    solana.PublicKey
	BaseDepositTotal   uint64
	MarketQuoteVault   solana.PublicKey
	QuoteDepositTotal  uint64
	Reserved           [128]uint8
}

// Market pairs a market address with its last decoded state.
type Market struct {
	Address solana.PublicKey
	Data    *MarketState
}

// Reload decodes a fresh account buffer in place. A failed decode
// leaves the previous state untouched.
func (p *Market) Reload(buffer []byte) *Market {
	if len(buffer) <= 8 {
		fmt.Println("Market reload failed: pubkey=", p.Address.String(), ",len=", len(buffer))
		return p
	}
	var marketState MarketState
	if err := bin.NewBinDecoder(buffer[8:]).Decode(&marketState); err != nil {
		fmt.Println("Market reload failed: pubkey=", p.Address.String(), ",err=", err)
		return p
	}
	p.Data = &marketState
	return p
}

func LoadMarketFromBuffer(address solana.PublicKey, buffer []byte) *Market {
	market := &Market{Address: address}
	market.Reload(buffer)
	return market
}

func LoadMarketFromAddress(ctx context.Context, connection *rpc.Client, address solana.PublicKey) *Market {
	accountInfo, err := connection.GetAccountInfo(ctx, address)
	if err != nil {
		return nil
	}
	market := LoadMarketFromBuffer(address, accountInfo.GetBinary())
	if market.Data == nil {
		return nil
	}
	return market
}
