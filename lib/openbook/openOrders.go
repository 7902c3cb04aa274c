package openbook

import (
	"context"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/go-errors/errors"
)

type OpenOrder struct {
	Id          bin.Uint128
	ClientId    uint64
	LockedPrice int64
	IsFree      uint8
	SideAndTree uint8
	Padding     [6]uint8
}

type OpenOrdersPosition struct {
	BidsBaseLots     int64
	AsksBaseLots     int64
	BaseFreeNative   uint64
	QuoteFreeNative  uint64
	LockedMakerFees  uint64
	ReferrerRebates  uint64
	PenaltyHeapCount uint64
	MakerVolume      bin.Uint128
	TakerVolume      bin.Uint128
	Reserved         [88]uint8
}

// OpenOrdersState is the decoded layout of an open-orders account, the
// per-owner intermediary that resting orders are recorded against.
type OpenOrdersState struct {
	Owner      solana.PublicKey
	Market     solana.PublicKey
	Name       [32]uint8
	Delegate   solana.PublicKey
	AccountNum uint32
	Bump       uint8
	Padding    [3]uint8
	Position   OpenOrdersPosition
	Orders     [MAX_OPEN_ORDERS]OpenOrder
}

type OpenOrdersAccount struct {
	Address solana.PublicKey
	Data    *OpenOrdersState
}

func DecodeOpenOrdersAccount(address solana.PublicKey, buffer []byte) (*OpenOrdersAccount, error) {
	if len(buffer) <= 8 {
		return nil, errors.Errorf("open orders buffer too short: %d bytes", len(buffer))
	}
	var state OpenOrdersState
	if err := bin.NewBinDecoder(buffer[8:]).Decode(&state); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return &OpenOrdersAccount{Address: address, Data: &state}, nil
}

// FindOpenOrdersAccountsForOwner resolves the owner's open-orders
// account addresses on a market via a filtered program scan. Raw wallet
// keys never appear as record owners, so these are the references the
// user-order extractor matches against.
func FindOpenOrdersAccountsForOwner(
	ctx context.Context,
	connection *rpc.Client,
	programId solana.PublicKey,
	owner solana.PublicKey,
	market solana.PublicKey,
	filters []rpc.RPCFilter,
) ([]solana.PublicKey, error) {
	out, err := connection.GetProgramAccountsWithOpts(
		ctx,
		programId,
		&rpc.GetProgramAccountsOpts{
			Commitment: rpc.CommitmentConfirmed,
			Filters:    filters,
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	var keys []solana.PublicKey
	for _, keyedAccount := range out {
		keys = append(keys, keyedAccount.Pubkey)
	}
	return keys, nil
}
