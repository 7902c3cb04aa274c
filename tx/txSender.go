package tx

import (
	"context"
	"sync"
	"time"

	futarchy "github.com/LukasDeco/meta-dao-frontend"
	"github.com/LukasDeco/meta-dao-frontend/priorityFee"
	"github.com/gagliardetto/solana-go"
	addresslookuptable "github.com/gagliardetto/solana-go/programs/address-lookup-table"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/go-errors/errors"
)

const DEFAULT_COMPUTE_UNITS = 200_000

const BLOCKHASH_REFRESH_INTERVAL = 400 * time.Millisecond

const REQUEST_TIMEOUT = 30 * time.Second

type TxSigAndSlot struct {
	TxSig solana.Signature
	Slot  uint64
}

// TxSender signs and submits transaction bundles. It keeps a recent
// blockhash warm in the background and prepends compute-budget
// instructions priced by the priority-fee subscriber.
type TxSender struct {
	connection            *rpc.Client
	wallet                futarchy.IWallet
	opts                  futarchy.ConfirmOptions
	priorityFeeSubscriber *priorityFee.PriorityFeeSubscriber

	recentBlockHash solana.Hash
	recentSlot      uint64
	timeoutCount    uint64
	mxState         *sync.RWMutex
	cancel          func()
}

func CreateTxSender(
	connection *rpc.Client,
	wallet futarchy.IWallet,
	opts futarchy.ConfirmOptions,
	priorityFeeSubscriber *priorityFee.PriorityFeeSubscriber,
) *TxSender {
	txSender := &TxSender{
		connection:            connection,
		wallet:                wallet,
		opts:                  opts,
		priorityFeeSubscriber: priorityFeeSubscriber,
		mxState:               new(sync.RWMutex),
	}
	txSender.subscribeBlockHash()
	return txSender
}

func (p *TxSender) subscribeBlockHash() {
	p.refreshBlockHash()
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go func(ctx context.Context) {
		ticker := time.NewTicker(BLOCKHASH_REFRESH_INTERVAL)
		for {
			select {
			case <-ticker.C:
				p.refreshBlockHash()
			case <-ctx.Done():
				ticker.Stop()
				return
			}
		}
	}(ctx)
}

func (p *TxSender) refreshBlockHash() {
	ctx, cancel := context.WithTimeout(context.Background(), REQUEST_TIMEOUT)
	defer cancel()
	out, err := p.connection.GetLatestBlockhash(ctx, p.opts.Commitment)
	if err != nil || out == nil {
		return
	}
	defer p.mxState.Unlock()
	p.mxState.Lock()
	p.recentBlockHash = out.Value.Blockhash
	p.recentSlot = out.Context.Slot
}

func (p *TxSender) GetRecentBlockHash() solana.Hash {
	defer p.mxState.RUnlock()
	p.mxState.RLock()
	return p.recentBlockHash
}

// GetTransaction assembles a transaction from instructions, prepending
// compute-budget instructions when the params deviate from defaults.
func (p *TxSender) GetTransaction(
	ixs []solana.Instruction,
	lookupTables []addresslookuptable.KeyedAddressLookupTable,
	txParams *futarchy.TxParams,
	sign bool,
) (*solana.Transaction, error) {
	allIx := []solana.Instruction{}
	computeUnits := uint64(DEFAULT_COMPUTE_UNITS)
	computeUnitsPrice := uint64(0)
	if txParams != nil {
		if txParams.ComputeUnits > 0 {
			computeUnits = txParams.ComputeUnits
		}
		computeUnitsPrice = txParams.ComputeUnitsPrice
	}
	if computeUnitsPrice == 0 && p.priorityFeeSubscriber != nil {
		computeUnitsPrice = p.priorityFeeSubscriber.GetCustomStrategyResult()
	}
	if computeUnits != DEFAULT_COMPUTE_UNITS {
		allIx = append(allIx, computebudget.NewSetComputeUnitLimitInstructionBuilder().SetUnits(uint32(computeUnits)).Build())
	}
	if computeUnitsPrice != 0 {
		allIx = append(allIx, computebudget.NewSetComputeUnitPriceInstructionBuilder().SetMicroLamports(computeUnitsPrice).Build())
	}
	allIx = append(allIx, ixs...)

	addressTables := make(map[solana.PublicKey]solana.PublicKeySlice)
	for _, lookupTable := range lookupTables {
		addressTables[lookupTable.Key] = lookupTable.State.Addresses
	}

	blockHash := p.GetRecentBlockHash()
	if blockHash.IsZero() {
		return nil, errors.New("no recent blockhash available")
	}
	transaction, err := solana.NewTransaction(
		allIx,
		blockHash,
		solana.TransactionPayer(p.wallet.GetPublicKey()),
		solana.TransactionAddressTables(addressTables),
	)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	if sign {
		p.wallet.SignTransaction(transaction)
	}
	return transaction, nil
}

func (p *TxSender) Send(
	ctx context.Context,
	tx *solana.Transaction,
	opts *futarchy.ConfirmOptions,
	preSigned bool,
) (*TxSigAndSlot, error) {
	if opts == nil {
		opts = &p.opts
	}
	signedTx := tx
	if !preSigned {
		signedTx = p.wallet.SignTransaction(tx)
	}
	rawTx, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return p.SendRawTransaction(ctx, rawTx, opts)
}

func (p *TxSender) SendRawTransaction(
	ctx context.Context,
	rawTransaction []byte,
	opts *futarchy.ConfirmOptions,
) (*TxSigAndSlot, error) {
	sendCtx, cancel := context.WithTimeout(ctx, REQUEST_TIMEOUT)
	defer cancel()
	txSig, err := p.connection.SendRawTransactionWithOpts(sendCtx, rawTransaction, opts.TransactionOpts)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	p.mxState.RLock()
	slot := p.recentSlot
	p.mxState.RUnlock()
	return &TxSigAndSlot{
		TxSig: txSig,
		Slot:  slot,
	}, nil
}

func (p *TxSender) GetTimeoutCount() uint64 {
	return p.timeoutCount
}

func (p *TxSender) Close() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
