package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	futarchy "github.com/LukasDeco/meta-dao-frontend"
	"github.com/LukasDeco/meta-dao-frontend/accounts"
	"github.com/LukasDeco/meta-dao-frontend/cache"
	"github.com/LukasDeco/meta-dao-frontend/config"
	"github.com/LukasDeco/meta-dao-frontend/connection"
	"github.com/LukasDeco/meta-dao-frontend/lib/autocrat"
	"github.com/LukasDeco/meta-dao-frontend/lib/openbook"
	"github.com/LukasDeco/meta-dao-frontend/markets"
	"github.com/LukasDeco/meta-dao-frontend/orderbook"
	"github.com/LukasDeco/meta-dao-frontend/priorityFee"
	"github.com/LukasDeco/meta-dao-frontend/slot"
	"github.com/LukasDeco/meta-dao-frontend/tx"
	"github.com/LukasDeco/meta-dao-frontend/utils"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/go-errors/errors"
	"github.com/shopspring/decimal"
)

const PROPOSAL_STALE_TIME = 30 * time.Second

const DEFAULT_POLLING_FREQUENCY = 10 * time.Second

type Config struct {
	Env               config.FutarchyEnv
	ConnectionConfig  connection.Config
	Wallet            futarchy.IWallet
	ConfirmOpts       *futarchy.ConfirmOptions
	PollingFrequency  time.Duration
	PriorityFeeMethod priorityFee.PriorityFeeMethod
	HeliusRpcUrl      string
	FetchTimeout      time.Duration
}

// MarketView is the display-ready projection of one conditional market.
type MarketView struct {
	Bids        orderbook.Ladder
	Asks        orderbook.Ladder
	DisplayBids []orderbook.DisplayLevel
	DisplayAsks []orderbook.DisplayLevel
	Spread      orderbook.SpreadInfo
	LastSlot    uint64
}

// Snapshot is the reactive surface handed to the presentation layer.
// It is rebuilt from authoritative state on every call, never mutated.
type Snapshot struct {
	Pass       MarketView
	Fail       MarketView
	UserOrders []orderbook.UserOrder
	Loading    bool
}

// FutarchyClient is the order action dispatcher and exposed surface of
// the module. It owns the markets subscriber, the user-order state and
// the transaction path; all display state is re-derived from fetches,
// never optimistically mutated.
type FutarchyClient struct {
	futarchyConfig *config.FutarchyConfig
	logger         *slog.Logger

	connectionManager *connection.Manager
	connection        *rpc.Client
	wallet            futarchy.IWallet
	opts              futarchy.ConfirmOptions

	autocratProgramId solana.PublicKey
	openbookProgramId solana.PublicKey

	txSender              *tx.TxSender
	priorityFeeSubscriber *priorityFee.PriorityFeeSubscriber
	slotSubscriber        *slot.SlotSubscriber
	marketsSubscriber     *markets.ProposalMarketsSubscriber
	bulkAccountLoader     *accounts.BulkAccountLoader
	proposalLoads         *loaderRegistry
	openOrdersLoads       *loaderRegistry
	queryCache            *cache.QueryCache
	history               *orderbook.PlacementHistory

	openOrdersRefs map[orderbook.MarketKind][]solana.PublicKey
	userOrders     []orderbook.UserOrder
	identity       solana.PublicKey

	clientOrderSeq atomic.Uint64
	loading        atomic.Bool
	fetchTimeout   time.Duration
	mxState        *sync.RWMutex
}

func CreateFutarchyClient(clientConfig Config) (*FutarchyClient, error) {
	futarchyConfig := config.GetConfig()
	if clientConfig.Env != config.FutarchyEnvNone {
		futarchyConfig = config.Initialize(clientConfig.Env, nil)
	}
	autocratProgramId, err := solana.PublicKeyFromBase58(futarchyConfig.AUTOCRAT_PROGRAM_ID)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	openbookProgramId, err := solana.PublicKeyFromBase58(futarchyConfig.OPENBOOK_PROGRAM_ID)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	connectionManager := connection.CreateManager()
	connectionManager.AddConfig(clientConfig.ConnectionConfig)
	rpcConnection := connectionManager.GetRpc()
	wsConnection := connectionManager.GetWs()

	opts := futarchy.DefaultConfirmOptions()
	if clientConfig.ConfirmOpts != nil {
		opts = *clientConfig.ConfirmOpts
	}
	pollingFrequency := clientConfig.PollingFrequency
	if pollingFrequency == 0 {
		pollingFrequency = DEFAULT_POLLING_FREQUENCY
	}

	fetchTimeout := clientConfig.FetchTimeout
	if fetchTimeout == 0 {
		fetchTimeout = 30 * time.Second
	}

	priorityFeeMethod := clientConfig.PriorityFeeMethod
	if priorityFeeMethod == "" {
		priorityFeeMethod = priorityFee.PriorityFeeMethodSolana
	}
	priorityFeeSubscriber := priorityFee.CreatePriorityFeeSubscriber(priorityFee.PriorityFeeSubscriberConfig{
		Connection:        rpcConnection,
		PriorityFeeMethod: priorityFeeMethod,
		HeliusRpcUrl:      clientConfig.HeliusRpcUrl,
	})

	client := &FutarchyClient{
		futarchyConfig:        futarchyConfig,
		logger:                slog.Default().With("component", "futarchyClient"),
		connectionManager:     connectionManager,
		connection:            rpcConnection,
		wallet:                clientConfig.Wallet,
		opts:                  opts,
		autocratProgramId:     autocratProgramId,
		openbookProgramId:     openbookProgramId,
		priorityFeeSubscriber: priorityFeeSubscriber,
		slotSubscriber:        slot.CreateSlotSubscriber(rpcConnection, wsConnection, slot.SlotSubscriberConfig{}),
		bulkAccountLoader:     accounts.CreateBulkAccountLoader(rpcConnection, opts.Commitment, pollingFrequency),
		queryCache:            cache.CreateQueryCache(),
		fetchTimeout:          fetchTimeout,
		history:               orderbook.CreatePlacementHistory(),
		openOrdersRefs:        make(map[orderbook.MarketKind][]solana.PublicKey),
		mxState:               new(sync.RWMutex),
	}
	client.proposalLoads = createLoaderRegistry(client.bulkAccountLoader)
	client.openOrdersLoads = createLoaderRegistry(client.bulkAccountLoader)
	client.marketsSubscriber = markets.CreateProposalMarketsSubscriber(markets.ProposalMarketsSubscriberConfig{
		Connection:   rpcConnection,
		WsConnection: wsConnection,
		Commitment:   opts.Commitment,
		FetchTimeout: fetchTimeout,
	})
	if clientConfig.Wallet != nil {
		client.txSender = tx.CreateTxSender(rpcConnection, clientConfig.Wallet, opts, priorityFeeSubscriber)
		client.identity = clientConfig.Wallet.GetPublicKey()
	}
	client.clientOrderSeq.Store(uint64(time.Now().UnixMilli()))
	return client, nil
}

// Subscribe starts the background feeds: slot sequencing and priority
// fee sampling. Market feeds start when a proposal is set.
func (p *FutarchyClient) Subscribe() error {
	if err := p.slotSubscriber.Subscribe(); err != nil {
		return err
	}
	p.priorityFeeSubscriber.Subscribe()
	return nil
}

func (p *FutarchyClient) Unsubscribe() {
	p.proposalLoads.clear()
	p.openOrdersLoads.clear()
	p.marketsSubscriber.Unsubscribe()
	p.slotSubscriber.Unsubscribe()
	p.priorityFeeSubscriber.Unsubscribe()
	if p.txSender != nil {
		p.txSender.Close()
	}
}

// SetProposal switches the client to the proposal with the given
// number. All per-proposal state, including user orders and placement
// history, is reset before the new markets are fetched.
func (p *FutarchyClient) SetProposal(ctx context.Context, number uint32) error {
	proposalAddress := autocrat.GetProposalPublicKey(p.autocratProgramId, number)
	proposal, err := cache.GetTyped(
		p.queryCache,
		fmt.Sprintf("proposal-%d", number),
		PROPOSAL_STALE_TIME,
		func() (*autocrat.Proposal, error) {
			return autocrat.LoadProposalFromAddress(ctx, p.connection, proposalAddress)
		},
	)
	if err != nil {
		return err
	}

	p.history.Reset()
	p.proposalLoads.clear()
	p.openOrdersLoads.clear()
	p.mxState.Lock()
	p.openOrdersRefs = make(map[orderbook.MarketKind][]solana.PublicKey)
	p.userOrders = nil
	p.mxState.Unlock()
	futarchy.EventEmitter().EmitSync(futarchy.EventUserOrdersUpdated, []orderbook.UserOrder(nil))

	if err := p.marketsSubscriber.SetProposal(ctx, proposal); err != nil {
		return err
	}
	p.proposalLoads.add(proposal.Address, func(buffer []byte, accountSlot uint64) {
		proposal.Reload(buffer)
		p.marketsSubscriber.TriggerFetch()
	})
	if !p.identity.IsZero() {
		if err := p.FetchOpenOrders(ctx, p.identity); err != nil {
			p.logger.Error("open orders fetch failed", "error", err)
		}
	}
	return nil
}

// FetchMarketsInfo refreshes the full market snapshot on demand.
func (p *FutarchyClient) FetchMarketsInfo(ctx context.Context) error {
	return p.marketsSubscriber.FetchMarketsInfo(ctx)
}

// ListProposals scans the autocrat program for all proposal accounts,
// cached briefly so proposal pickers do not hammer the RPC node.
func (p *FutarchyClient) ListProposals(ctx context.Context) ([]*autocrat.Proposal, error) {
	return cache.GetTyped(
		p.queryCache,
		"proposals",
		PROPOSAL_STALE_TIME,
		func() ([]*autocrat.Proposal, error) {
			return autocrat.FetchProposals(ctx, p.connection, p.autocratProgramId)
		},
	)
}

// FetchOpenOrders resolves the identity's open-orders account
// references on both conditional markets and rebuilds the user order
// list from them. An absent identity is a no-op, not an error.
func (p *FutarchyClient) FetchOpenOrders(ctx context.Context, identity solana.PublicKey) error {
	p.openOrdersLoads.clear()
	if identity.IsZero() {
		p.mxState.Lock()
		p.openOrdersRefs = make(map[orderbook.MarketKind][]solana.PublicKey)
		p.userOrders = nil
		p.mxState.Unlock()
		futarchy.EventEmitter().EmitSync(futarchy.EventUserOrdersUpdated, []orderbook.UserOrder(nil))
		return nil
	}
	p.mxState.Lock()
	p.identity = identity
	p.mxState.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	refs := make(map[orderbook.MarketKind][]solana.PublicKey)
	for kind, market := range map[orderbook.MarketKind]*openbook.Market{
		orderbook.MarketPass: p.marketsSubscriber.GetPassMarket(),
		orderbook.MarketFail: p.marketsSubscriber.GetFailMarket(),
	} {
		if market == nil {
			continue
		}
		marketRefs, err := openbook.FindOpenOrdersAccountsForOwner(
			fetchCtx,
			p.connection,
			p.openbookProgramId,
			identity,
			market.Address,
			[]rpc.RPCFilter{
				futarchy.GetOpenOrdersFilter(),
				futarchy.GetOpenOrdersOwnerFilter(identity),
				futarchy.GetOpenOrdersMarketFilter(market.Address),
			},
		)
		if err != nil {
			return err
		}
		refs[kind] = marketRefs
		for _, ref := range marketRefs {
			p.openOrdersLoads.add(ref, func(buffer []byte, accountSlot uint64) {
				p.refreshUserOrders()
			})
		}
	}

	p.mxState.Lock()
	p.openOrdersRefs = refs
	p.mxState.Unlock()
	p.refreshUserOrders()
	return nil
}

func (p *FutarchyClient) refreshUserOrders() {
	p.mxState.RLock()
	var refs []solana.PublicKey
	for _, marketRefs := range p.openOrdersRefs {
		refs = append(refs, marketRefs...)
	}
	p.mxState.RUnlock()

	orders := orderbook.ExtractUserOrders(
		p.marketsSubscriber.GetPassState(),
		p.marketsSubscriber.GetFailState(),
		refs,
		p.history,
	)
	p.mxState.Lock()
	p.userOrders = orders
	p.mxState.Unlock()
	futarchy.EventEmitter().Emit(futarchy.EventUserOrdersUpdated, orders)
}

func (p *FutarchyClient) nextClientOrderId() uint64 {
	return p.clientOrderSeq.Add(1)
}

func (p *FutarchyClient) marketFor(isPass bool) *openbook.Market {
	if isPass {
		return p.marketsSubscriber.GetPassMarket()
	}
	return p.marketsSubscriber.GetFailMarket()
}

func (p *FutarchyClient) marketKind(isPass bool) orderbook.MarketKind {
	return utils.TT(isPass, orderbook.MarketPass, orderbook.MarketFail)
}

func (p *FutarchyClient) openOrdersRef(kind orderbook.MarketKind) solana.PublicKey {
	p.mxState.RLock()
	refs := p.openOrdersRefs[kind]
	p.mxState.RUnlock()
	if len(refs) > 0 {
		return refs[0]
	}
	return openbook.GetOpenOrdersAccountPublicKey(p.openbookProgramId, p.identity, 1)
}

// orderLots converts human decimal amount and price into the integer
// lot quantities the program expects. All downstream comparison happens
// on these integers; the decimals stop here.
func orderLots(market *openbook.Market, amount decimal.Decimal, price decimal.Decimal) (int64, int64, int64) {
	priceLots := price.Mul(decimal.NewFromInt(openbook.QUOTE_LOTS_PER_UNIT)).IntPart()
	baseLots := amount.
		Mul(decimal.New(1, int32(market.Data.BaseDecimals))).
		Div(decimal.NewFromInt(market.Data.BaseLotSize)).
		IntPart()
	maxQuoteLots := utils.MulX(utils.BN(priceLots), utils.BN(baseLots)).Int64()
	return priceLots, baseLots, maxQuoteLots
}

// PlaceOrderTransactions builds the unsigned transaction bundle for an
// order without submitting it. The issued client order id is recorded
// in the placement history so later fills can be correlated.
func (p *FutarchyClient) PlaceOrderTransactions(
	ctx context.Context,
	amount decimal.Decimal,
	price decimal.Decimal,
	isLimit bool,
	isAsk bool,
	isPass bool,
) ([]*solana.Transaction, uint64, error) {
	if p.wallet == nil {
		return nil, 0, nil
	}
	market := p.marketFor(isPass)
	if market == nil || market.Data == nil {
		return nil, 0, errors.New("market is not loaded, set a proposal first")
	}
	priceLots, baseLots, maxQuoteLots := orderLots(market, amount, price)
	clientOrderId := p.nextClientOrderId()

	side := utils.TT(isAsk, openbook.SideAsk, openbook.SideBid)
	orderType := utils.TT(isLimit, openbook.OrderTypeLimit, openbook.OrderTypeImmediateOrCancel)
	marketVault := utils.TT(isAsk, market.Data.MarketBaseVault, market.Data.MarketQuoteVault)
	userMint := utils.TT(isAsk, market.Data.BaseMint, market.Data.QuoteMint)
	userTokenAccount, _, err := solana.FindAssociatedTokenAddress(p.wallet.GetPublicKey(), userMint)
	if err != nil {
		return nil, 0, errors.Wrap(err, 0)
	}

	kind := p.marketKind(isPass)
	instruction, err := openbook.NewPlaceOrderInstructionBuilder(p.openbookProgramId).
		SetArgs(openbook.PlaceOrderArgs{
			Side:                      side,
			PriceLots:                 priceLots,
			MaxBaseLots:               baseLots,
			MaxQuoteLotsIncludingFees: maxQuoteLots,
			ClientOrderId:             clientOrderId,
			OrderType:                 orderType,
			SelfTradeBehavior:         openbook.SelfTradeDecrementTake,
			Limit:                     255,
		}).
		SetSignerAccount(p.wallet.GetPublicKey()).
		SetOpenOrdersAccount(p.openOrdersRef(kind)).
		SetMarketAccount(market.Address).
		SetBidsAccount(market.Data.Bids).
		SetAsksAccount(market.Data.Asks).
		SetEventHeapAccount(market.Data.EventHeap).
		SetMarketVaultAccount(marketVault).
		SetUserTokenAccount(userTokenAccount).
		SetTokenProgramAccount(solana.TokenProgramID).
		SetSystemProgramAccount(solana.SystemProgramID).
		ValidateAndBuild()
	if err != nil {
		return nil, 0, err
	}
	transaction, err := p.txSender.GetTransaction([]solana.Instruction{instruction}, nil, nil, false)
	if err != nil {
		return nil, 0, err
	}
	p.history.Record(kind, utils.TT(isAsk, orderbook.SideAsk, orderbook.SideBid), clientOrderId, uint64(baseLots))
	return []*solana.Transaction{transaction}, clientOrderId, nil
}

// PlaceOrder builds, submits and confirms an order, then triggers the
// authoritative re-fetch of markets and user orders. No retry and no
// rollback; on failure the loading flag is cleared and the error is
// returned for user-visible feedback.
func (p *FutarchyClient) PlaceOrder(
	ctx context.Context,
	amount decimal.Decimal,
	price decimal.Decimal,
	isLimit bool,
	isAsk bool,
	isPass bool,
) (*tx.TxSigAndSlot, error) {
	if p.wallet == nil {
		return nil, nil
	}
	p.loading.Store(true)
	defer p.loading.Store(false)

	transactions, clientOrderId, err := p.PlaceOrderTransactions(ctx, amount, price, isLimit, isAsk, isPass)
	if err != nil {
		p.logger.Error("place order failed", "error", err)
		return nil, err
	}
	var last *tx.TxSigAndSlot
	for _, transaction := range transactions {
		result, err := p.txSender.Send(ctx, transaction, &p.opts, false)
		if err != nil {
			p.logger.Error("place order send failed", "clientOrderId", clientOrderId, "error", err)
			return nil, err
		}
		last = result
	}
	p.logger.Info("order placed", "clientOrderId", clientOrderId, "market", p.marketKind(isPass).String())
	p.afterAction(ctx)
	return last, nil
}

// CancelOrder cancels one resting order by its client order id.
func (p *FutarchyClient) CancelOrder(ctx context.Context, order orderbook.UserOrder) (*tx.TxSigAndSlot, error) {
	if p.wallet == nil {
		return nil, nil
	}
	p.loading.Store(true)
	defer p.loading.Store(false)

	market := p.marketFor(order.Market == orderbook.MarketPass)
	if market == nil || market.Data == nil {
		return nil, errors.New("market is not loaded, set a proposal first")
	}
	instruction, err := openbook.NewCancelOrderByClientIdInstruction(
		p.openbookProgramId,
		order.ClientOrderId,
		openbook.CancelOrderAccounts{
			Signer:     p.wallet.GetPublicKey(),
			OpenOrders: order.Owner,
			Market:     market.Address,
			Bids:       market.Data.Bids,
			Asks:       market.Data.Asks,
		},
	)
	if err != nil {
		p.logger.Error("cancel order failed", "clientOrderId", order.ClientOrderId, "error", err)
		return nil, err
	}
	result, err := p.sendInstructions(ctx, instruction)
	if err != nil {
		p.logger.Error("cancel order send failed", "clientOrderId", order.ClientOrderId, "error", err)
		return nil, err
	}
	p.afterAction(ctx)
	return result, nil
}

// EditOrder atomically replaces one resting order: the cancel and the
// new placement ride in the same transaction. The new order gets a
// fresh client order id and placement history entry.
func (p *FutarchyClient) EditOrder(
	ctx context.Context,
	order orderbook.UserOrder,
	newAmount decimal.Decimal,
	newPrice decimal.Decimal,
) (*tx.TxSigAndSlot, error) {
	if p.wallet == nil {
		return nil, nil
	}
	p.loading.Store(true)
	defer p.loading.Store(false)

	market := p.marketFor(order.Market == orderbook.MarketPass)
	if market == nil || market.Data == nil {
		return nil, errors.New("market is not loaded, set a proposal first")
	}
	cancelInstruction, err := openbook.NewCancelOrderByClientIdInstruction(
		p.openbookProgramId,
		order.ClientOrderId,
		openbook.CancelOrderAccounts{
			Signer:     p.wallet.GetPublicKey(),
			OpenOrders: order.Owner,
			Market:     market.Address,
			Bids:       market.Data.Bids,
			Asks:       market.Data.Asks,
		},
	)
	if err != nil {
		return nil, err
	}

	isAsk := order.Side == orderbook.SideAsk
	priceLots, baseLots, maxQuoteLots := orderLots(market, newAmount, newPrice)
	clientOrderId := p.nextClientOrderId()
	marketVault := utils.TT(isAsk, market.Data.MarketBaseVault, market.Data.MarketQuoteVault)
	userMint := utils.TT(isAsk, market.Data.BaseMint, market.Data.QuoteMint)
	userTokenAccount, _, err := solana.FindAssociatedTokenAddress(p.wallet.GetPublicKey(), userMint)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	placeInstruction, err := openbook.NewPlaceOrderInstructionBuilder(p.openbookProgramId).
		SetArgs(openbook.PlaceOrderArgs{
			Side:                      utils.TT(isAsk, openbook.SideAsk, openbook.SideBid),
			PriceLots:                 priceLots,
			MaxBaseLots:               baseLots,
			MaxQuoteLotsIncludingFees: maxQuoteLots,
			ClientOrderId:             clientOrderId,
			OrderType:                 openbook.OrderTypeLimit,
			SelfTradeBehavior:         openbook.SelfTradeDecrementTake,
			Limit:                     255,
		}).
		SetSignerAccount(p.wallet.GetPublicKey()).
		SetOpenOrdersAccount(order.Owner).
		SetMarketAccount(market.Address).
		SetBidsAccount(market.Data.Bids).
		SetAsksAccount(market.Data.Asks).
		SetEventHeapAccount(market.Data.EventHeap).
		SetMarketVaultAccount(marketVault).
		SetUserTokenAccount(userTokenAccount).
		SetTokenProgramAccount(solana.TokenProgramID).
		SetSystemProgramAccount(solana.SystemProgramID).
		ValidateAndBuild()
	if err != nil {
		return nil, err
	}

	result, err := p.sendInstructions(ctx, cancelInstruction, placeInstruction)
	if err != nil {
		p.logger.Error("edit order send failed", "clientOrderId", order.ClientOrderId, "error", err)
		return nil, err
	}
	p.history.Record(order.Market, order.Side, clientOrderId, uint64(baseLots))
	p.afterAction(ctx)
	return result, nil
}

// OrderSpec describes one order in a bulk replacement.
type OrderSpec struct {
	Amount decimal.Decimal
	Price  decimal.Decimal
}

// ReplaceOrders atomically swaps every resting order the identity has
// on one side of a market for the given set. All cancels and placements
// ride in a single instruction; each new order gets a fresh client
// order id and placement history entry.
func (p *FutarchyClient) ReplaceOrders(
	ctx context.Context,
	isAsk bool,
	isPass bool,
	specs []OrderSpec,
) (*tx.TxSigAndSlot, error) {
	if p.wallet == nil {
		return nil, nil
	}
	p.loading.Store(true)
	defer p.loading.Store(false)

	market := p.marketFor(isPass)
	if market == nil || market.Data == nil {
		return nil, errors.New("market is not loaded, set a proposal first")
	}
	marketVault := utils.TT(isAsk, market.Data.MarketBaseVault, market.Data.MarketQuoteVault)
	userMint := utils.TT(isAsk, market.Data.BaseMint, market.Data.QuoteMint)
	userTokenAccount, _, err := solana.FindAssociatedTokenAddress(p.wallet.GetPublicKey(), userMint)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	side := utils.TT(isAsk, openbook.SideAsk, openbook.SideBid)
	kind := p.marketKind(isPass)
	orders := make([]openbook.PlaceOrderArgs, 0, len(specs))
	lotsByOrderId := make(map[uint64]uint64, len(specs))
	for _, spec := range specs {
		priceLots, baseLots, maxQuoteLots := orderLots(market, spec.Amount, spec.Price)
		clientOrderId := p.nextClientOrderId()
		orders = append(orders, openbook.PlaceOrderArgs{
			Side:                      side,
			PriceLots:                 priceLots,
			MaxBaseLots:               baseLots,
			MaxQuoteLotsIncludingFees: maxQuoteLots,
			ClientOrderId:             clientOrderId,
			OrderType:                 openbook.OrderTypeLimit,
			SelfTradeBehavior:         openbook.SelfTradeDecrementTake,
			Limit:                     255,
		})
		lotsByOrderId[clientOrderId] = uint64(baseLots)
	}
	instruction, err := openbook.NewCancelAllAndPlaceOrdersInstruction(
		p.openbookProgramId,
		orders,
		255,
		openbook.PlaceOrderAccounts{
			Signer:           p.wallet.GetPublicKey(),
			OpenOrders:       p.openOrdersRef(kind),
			Market:           market.Address,
			Bids:             market.Data.Bids,
			Asks:             market.Data.Asks,
			EventHeap:        market.Data.EventHeap,
			MarketVault:      marketVault,
			UserTokenAccount: userTokenAccount,
			TokenProgram:     solana.TokenProgramID,
			SystemProgram:    solana.SystemProgramID,
		},
	)
	if err != nil {
		return nil, err
	}
	result, err := p.sendInstructions(ctx, instruction)
	if err != nil {
		p.logger.Error("replace orders send failed", "market", kind.String(), "error", err)
		return nil, err
	}
	orderSide := utils.TT(isAsk, orderbook.SideAsk, orderbook.SideBid)
	for clientOrderId, baseLots := range lotsByOrderId {
		p.history.Record(kind, orderSide, clientOrderId, baseLots)
	}
	p.afterAction(ctx)
	return result, nil
}

// SettleFunds sweeps the identity's settled balances out of its
// open-orders account on the selected market.
func (p *FutarchyClient) SettleFunds(ctx context.Context, isPass bool) (*tx.TxSigAndSlot, error) {
	if p.wallet == nil {
		return nil, nil
	}
	p.loading.Store(true)
	defer p.loading.Store(false)

	market := p.marketFor(isPass)
	if market == nil || market.Data == nil {
		return nil, errors.New("market is not loaded, set a proposal first")
	}
	userBaseAccount, _, err := solana.FindAssociatedTokenAddress(p.wallet.GetPublicKey(), market.Data.BaseMint)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	userQuoteAccount, _, err := solana.FindAssociatedTokenAddress(p.wallet.GetPublicKey(), market.Data.QuoteMint)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	instruction, err := openbook.NewSettleFundsInstruction(
		p.openbookProgramId,
		openbook.SettleFundsAccounts{
			Signer:           p.wallet.GetPublicKey(),
			OpenOrders:       p.openOrdersRef(p.marketKind(isPass)),
			Market:           market.Address,
			MarketAuthority:  openbook.GetMarketAuthorityPublicKey(p.openbookProgramId, market.Address),
			MarketBaseVault:  market.Data.MarketBaseVault,
			MarketQuoteVault: market.Data.MarketQuoteVault,
			UserBaseAccount:  userBaseAccount,
			UserQuoteAccount: userQuoteAccount,
			TokenProgram:     solana.TokenProgramID,
			SystemProgram:    solana.SystemProgramID,
		},
	)
	if err != nil {
		return nil, err
	}
	result, err := p.sendInstructions(ctx, instruction)
	if err != nil {
		p.logger.Error("settle funds send failed", "market", p.marketKind(isPass).String(), "error", err)
		return nil, err
	}
	p.afterAction(ctx)
	return result, nil
}

func (p *FutarchyClient) sendInstructions(ctx context.Context, instructions ...solana.Instruction) (*tx.TxSigAndSlot, error) {
	transaction, err := p.txSender.GetTransaction(instructions, nil, nil, false)
	if err != nil {
		return nil, err
	}
	return p.txSender.Send(ctx, transaction, &p.opts, false)
}

// afterAction schedules the authoritative re-fetch that replaces any
// state the action may have changed on chain.
func (p *FutarchyClient) afterAction(ctx context.Context) {
	p.marketsSubscriber.TriggerFetch()
	p.mxState.RLock()
	identity := p.identity
	p.mxState.RUnlock()
	if identity.IsZero() {
		return
	}
	go func() {
		if err := p.FetchOpenOrders(ctx, identity); err != nil {
			p.logger.Error("open orders refresh failed", "error", err)
		}
	}()
}

// GetSnapshot projects the current reactive state for presentation.
func (p *FutarchyClient) GetSnapshot() Snapshot {
	p.mxState.RLock()
	userOrders := p.userOrders
	p.mxState.RUnlock()
	return Snapshot{
		Pass:       marketView(p.marketsSubscriber.GetPassState()),
		Fail:       marketView(p.marketsSubscriber.GetFailState()),
		UserOrders: userOrders,
		Loading:    p.loading.Load(),
	}
}

func marketView(state *orderbook.MarketPairState) MarketView {
	return MarketView{
		Bids:        state.Bids,
		Asks:        state.Asks,
		DisplayBids: state.Bids.DisplayLevels(),
		DisplayAsks: state.Asks.DisplayLevels(),
		Spread:      state.Spread,
		LastSlot:    state.LastSlot(),
	}
}

func (p *FutarchyClient) GetUserOrders() []orderbook.UserOrder {
	p.mxState.RLock()
	defer p.mxState.RUnlock()
	return p.userOrders
}

func (p *FutarchyClient) IsLoading() bool {
	return p.loading.Load()
}

func (p *FutarchyClient) GetSlot() uint64 {
	return p.slotSubscriber.GetSlot()
}
