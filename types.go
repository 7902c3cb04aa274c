package futarchy

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type IWallet interface {
	GetPublicKey() solana.PublicKey
	GetPrivateKey() solana.PrivateKey
	SignTransaction(tx *solana.Transaction) *solana.Transaction
	SignAllTransactions(txs []*solana.Transaction) []*solana.Transaction
}

type ConfirmOptions struct {
	Commitment      rpc.CommitmentType
	TransactionOpts rpc.TransactionOpts
}

func DefaultConfirmOptions() ConfirmOptions {
	return ConfirmOptions{
		Commitment: rpc.CommitmentConfirmed,
		TransactionOpts: rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: rpc.CommitmentConfirmed,
		},
	}
}

type BaseTxParams struct {
	ComputeUnits      uint64
	ComputeUnitsPrice uint64
}

type TxParams struct {
	BaseTxParams
}

// Event names emitted through the shared event emitter.
const (
	EventMarketsUpdated    = "marketsUpdated"
	EventMarketSideUpdated = "marketSideUpdated"
	EventUserOrdersUpdated = "userOrdersUpdated"
	EventProposalChanged   = "proposalChanged"
	EventNewSlot           = "newSlot"
)
