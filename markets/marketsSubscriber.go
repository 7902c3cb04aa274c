package markets

import (
	"context"
	"fmt"
	"sync"
	"time"

	futarchy "github.com/LukasDeco/meta-dao-frontend"
	"github.com/LukasDeco/meta-dao-frontend/accounts"
	"github.com/LukasDeco/meta-dao-frontend/lib/autocrat"
	"github.com/LukasDeco/meta-dao-frontend/lib/openbook"
	"github.com/LukasDeco/meta-dao-frontend/orderbook"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/go-errors/errors"
)

const FETCH_DEBOUNCE_DELAY = 300 * time.Millisecond

type SideKey struct {
	Market orderbook.MarketKind
	Side   orderbook.Side
}

type ProposalMarketsSubscriberConfig struct {
	Connection   *rpc.Client
	WsConnection *ws.Client
	Commitment   rpc.CommitmentType
	FetchTimeout time.Duration
}

// ProposalMarketsSubscriber tracks the two conditional markets of one
// proposal. It reconciles two data paths into the same pair states: a
// debounced bulk snapshot over RPC and per-book-side websocket pushes.
// Slot gates on each side resolve races between the two paths; an
// epoch counter discards snapshot completions that started before the
// latest proposal switch.
type ProposalMarketsSubscriber struct {
	connection   *rpc.Client
	wsConnection *ws.Client
	commitment   rpc.CommitmentType
	fetchTimeout time.Duration

	proposal   *autocrat.Proposal
	passMarket *accounts.DataAndSlot[*openbook.Market]
	failMarket *accounts.DataAndSlot[*openbook.Market]

	passState *orderbook.MarketPairState
	failState *orderbook.MarketPairState

	sideSubscriptions map[SideKey]*accounts.WsAccountSubscriber
	fetchDebouncer    *Debouncer
	epoch             uint64
	mxState           *sync.RWMutex
}

func CreateProposalMarketsSubscriber(config ProposalMarketsSubscriberConfig) *ProposalMarketsSubscriber {
	if config.Connection == nil {
		panic("ProposalMarketsSubscriber requires a connection")
	}
	commitment := config.Commitment
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	fetchTimeout := config.FetchTimeout
	if fetchTimeout == 0 {
		fetchTimeout = 30 * time.Second
	}
	subscriber := &ProposalMarketsSubscriber{
		connection:        config.Connection,
		wsConnection:      config.WsConnection,
		commitment:        commitment,
		fetchTimeout:      fetchTimeout,
		passState:         orderbook.CreateMarketPairState(orderbook.MarketPass),
		failState:         orderbook.CreateMarketPairState(orderbook.MarketFail),
		sideSubscriptions: make(map[SideKey]*accounts.WsAccountSubscriber),
		mxState:           new(sync.RWMutex),
	}
	subscriber.fetchDebouncer = CreateDebouncer(FETCH_DEBOUNCE_DELAY, func() {
		if err := subscriber.FetchMarketsInfo(context.Background()); err != nil {
			fmt.Println("Markets fetch failed: err=", err)
		}
	})
	return subscriber
}

// SetProposal switches the subscriber to a new proposal. All state of
// the previous proposal is torn down before anything of the new one is
// fetched, so views never mix markets across proposals.
func (p *ProposalMarketsSubscriber) SetProposal(ctx context.Context, proposal *autocrat.Proposal) error {
	if proposal == nil || proposal.Data == nil {
		return errors.New("cannot subscribe to a nil proposal")
	}
	p.fetchDebouncer.Cancel()
	p.unsubscribeSides()

	p.mxState.Lock()
	p.epoch++
	p.proposal = proposal
	p.passMarket = nil
	p.failMarket = nil
	p.passState.Reset()
	p.failState.Reset()
	p.mxState.Unlock()

	futarchy.EventEmitter().EmitSync(futarchy.EventProposalChanged, proposal)

	if err := p.FetchMarketsInfo(ctx); err != nil {
		return err
	}
	p.subscribeSides()
	return nil
}

// TriggerFetch schedules a debounced snapshot refresh. Bursts of
// triggers collapse into one fetch after the burst settles.
func (p *ProposalMarketsSubscriber) TriggerFetch() {
	p.fetchDebouncer.Trigger()
}

// FetchMarketsInfo loads both market headers and all four book sides in
// one batched call and applies them at the response slot. The snapshot
// is all or nothing: a missing account aborts the whole application and
// the previous state stays visible. A proposal switch between request
// and response also discards the result.
func (p *ProposalMarketsSubscriber) FetchMarketsInfo(ctx context.Context) error {
	p.mxState.RLock()
	proposal := p.proposal
	epoch := p.epoch
	p.mxState.RUnlock()
	if proposal == nil || proposal.Data == nil {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	passMarket := openbook.LoadMarketFromAddress(fetchCtx, p.connection, proposal.Data.OpenbookPassMarket)
	failMarket := openbook.LoadMarketFromAddress(fetchCtx, p.connection, proposal.Data.OpenbookFailMarket)
	if passMarket == nil || failMarket == nil {
		return errors.New("conditional market accounts did not decode")
	}

	keys := []solana.PublicKey{
		passMarket.Data.Bids,
		passMarket.Data.Asks,
		failMarket.Data.Bids,
		failMarket.Data.Asks,
	}
	rpcResponse, err := p.connection.GetMultipleAccountsWithOpts(
		fetchCtx,
		keys,
		&rpc.GetMultipleAccountsOpts{
			Encoding:   solana.EncodingBase64Zstd,
			Commitment: p.commitment,
		},
	)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if len(rpcResponse.Value) != len(keys) {
		return errors.Errorf("book side snapshot returned %d of %d accounts", len(rpcResponse.Value), len(keys))
	}
	slot := rpcResponse.Context.Slot

	bookSides := make([]*openbook.BookSide, len(keys))
	for i, account := range rpcResponse.Value {
		if account == nil {
			return errors.Errorf("book side account %s is missing", keys[i].String())
		}
		bookSide, err := openbook.DecodeBookSide(account.Data.GetBinary())
		if err != nil {
			return errors.Wrap(err, 0)
		}
		bookSides[i] = bookSide
	}

	p.commitSnapshot(epoch, passMarket, failMarket, bookSides, slot)
	return nil
}

// commitSnapshot applies a decoded snapshot, unless the proposal epoch
// moved on since the fetch was dispatched. A stale completion is
// dropped whole so it can never write into the next proposal's state.
func (p *ProposalMarketsSubscriber) commitSnapshot(
	epoch uint64,
	passMarket *openbook.Market,
	failMarket *openbook.Market,
	bookSides []*openbook.BookSide,
	slot uint64,
) bool {
	p.mxState.Lock()
	if p.epoch != epoch {
		p.mxState.Unlock()
		return false
	}
	p.passMarket = &accounts.DataAndSlot[*openbook.Market]{Data: passMarket, Slot: slot}
	p.failMarket = &accounts.DataAndSlot[*openbook.Market]{Data: failMarket, Slot: slot}
	p.passState.ApplySide(orderbook.SideBid, RecordsFromBookSide(bookSides[0], orderbook.SideBid, orderbook.MarketPass), slot)
	p.passState.ApplySide(orderbook.SideAsk, RecordsFromBookSide(bookSides[1], orderbook.SideAsk, orderbook.MarketPass), slot)
	p.failState.ApplySide(orderbook.SideBid, RecordsFromBookSide(bookSides[2], orderbook.SideBid, orderbook.MarketFail), slot)
	p.failState.ApplySide(orderbook.SideAsk, RecordsFromBookSide(bookSides[3], orderbook.SideAsk, orderbook.MarketFail), slot)
	p.mxState.Unlock()

	futarchy.EventEmitter().Emit(futarchy.EventMarketsUpdated, slot)
	return true
}

func (p *ProposalMarketsSubscriber) subscribeSides() {
	if p.wsConnection == nil {
		return
	}
	passMarket := p.GetPassMarket()
	failMarket := p.GetFailMarket()
	if passMarket == nil || failMarket == nil || passMarket.Data == nil || failMarket.Data == nil {
		return
	}
	sideAccounts := map[SideKey]solana.PublicKey{
		{Market: orderbook.MarketPass, Side: orderbook.SideBid}: passMarket.Data.Bids,
		{Market: orderbook.MarketPass, Side: orderbook.SideAsk}: passMarket.Data.Asks,
		{Market: orderbook.MarketFail, Side: orderbook.SideBid}: failMarket.Data.Bids,
		{Market: orderbook.MarketFail, Side: orderbook.SideAsk}: failMarket.Data.Asks,
	}
	for key, account := range sideAccounts {
		key := key
		subscriber := accounts.CreateWsAccountSubscriber(p.wsConnection, account, p.commitment)
		err := subscriber.Subscribe(func(buffer []byte, slot uint64) {
			p.handleSidePush(key, buffer, slot)
		})
		if err != nil {
			fmt.Println("Book side subscribe failed: market=", key.Market.String(), ",side=", key.Side.String(), ",err=", err)
			continue
		}
		p.mxState.Lock()
		p.sideSubscriptions[key] = subscriber
		p.mxState.Unlock()
	}
}

// handleSidePush applies one pushed book side. Decode failures are
// logged and dropped; the previous ladder stays visible until a clean
// update arrives.
func (p *ProposalMarketsSubscriber) handleSidePush(key SideKey, buffer []byte, slot uint64) {
	bookSide, err := openbook.DecodeBookSide(buffer)
	if err != nil {
		fmt.Println("Book side decode failed: market=", key.Market.String(), ",side=", key.Side.String(), ",err=", err)
		return
	}
	records := RecordsFromBookSide(bookSide, key.Side, key.Market)

	defer p.mxState.Unlock()
	p.mxState.Lock()
	state := p.pairState(key.Market)
	if !state.ApplySide(key.Side, records, slot) {
		return
	}
	futarchy.EventEmitter().Emit(futarchy.EventMarketSideUpdated, key, slot)
}

func (p *ProposalMarketsSubscriber) pairState(market orderbook.MarketKind) *orderbook.MarketPairState {
	if market == orderbook.MarketPass {
		return p.passState
	}
	return p.failState
}

func (p *ProposalMarketsSubscriber) unsubscribeSides() {
	defer p.mxState.Unlock()
	p.mxState.Lock()
	for key, subscriber := range p.sideSubscriptions {
		subscriber.Unsubscribe()
		delete(p.sideSubscriptions, key)
	}
}

func (p *ProposalMarketsSubscriber) GetProposal() *autocrat.Proposal {
	defer p.mxState.RUnlock()
	p.mxState.RLock()
	return p.proposal
}

func (p *ProposalMarketsSubscriber) GetPassMarket() *openbook.Market {
	defer p.mxState.RUnlock()
	p.mxState.RLock()
	if p.passMarket == nil {
		return nil
	}
	return p.passMarket.Data
}

func (p *ProposalMarketsSubscriber) GetFailMarket() *openbook.Market {
	defer p.mxState.RUnlock()
	p.mxState.RLock()
	if p.failMarket == nil {
		return nil
	}
	return p.failMarket.Data
}

// GetMarketSlot reports the snapshot slot the market headers were last
// refreshed at.
func (p *ProposalMarketsSubscriber) GetMarketSlot() uint64 {
	defer p.mxState.RUnlock()
	p.mxState.RLock()
	if p.passMarket == nil {
		return 0
	}
	return p.passMarket.Slot
}

// GetPassState returns a view of the pass market copied under the
// subscriber lock. Pushes landing after the call do not show through,
// so callers may read it without synchronization.
func (p *ProposalMarketsSubscriber) GetPassState() *orderbook.MarketPairState {
	defer p.mxState.RUnlock()
	p.mxState.RLock()
	view := *p.passState
	return &view
}

// GetFailState returns a view of the fail market copied under the
// subscriber lock, like GetPassState.
func (p *ProposalMarketsSubscriber) GetFailState() *orderbook.MarketPairState {
	defer p.mxState.RUnlock()
	p.mxState.RLock()
	view := *p.failState
	return &view
}

func (p *ProposalMarketsSubscriber) Unsubscribe() {
	p.fetchDebouncer.Cancel()
	p.unsubscribeSides()
}
