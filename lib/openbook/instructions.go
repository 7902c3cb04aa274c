package openbook

import (
	"bytes"
	"crypto/sha256"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/go-errors/errors"
	"github.com/iancoleman/strcase"
)

type Side uint8

const (
	SideBid Side = 0
	SideAsk Side = 1
)

type PlaceOrderType uint8

const (
	OrderTypeLimit             PlaceOrderType = 0
	OrderTypeImmediateOrCancel PlaceOrderType = 1
	OrderTypePostOnly          PlaceOrderType = 2
	OrderTypeMarket            PlaceOrderType = 3
	OrderTypePostOnlySlide     PlaceOrderType = 4
)

type SelfTradeBehavior uint8

const (
	SelfTradeDecrementTake    SelfTradeBehavior = 0
	SelfTradeCancelProvide    SelfTradeBehavior = 1
	SelfTradeAbortTransaction SelfTradeBehavior = 2
)

type PlaceOrderArgs struct {
	Side                      Side
	PriceLots                 int64
	MaxBaseLots               int64
	MaxQuoteLotsIncludingFees int64
	ClientOrderId             uint64
	OrderType                 PlaceOrderType
	ExpiryTimestamp           uint64
	SelfTradeBehavior         SelfTradeBehavior
	Limit                     uint8
}

func instructionDiscriminator(name string) []byte {
	hash := sha256.Sum256([]byte("global:" + strcase.ToSnake(name)))
	return hash[0:8]
}

func encodeInstructionData(name string, args ...interface{}) ([]byte, error) {
	buffer := new(bytes.Buffer)
	buffer.Write(instructionDiscriminator(name))
	encoder := bin.NewBorshEncoder(buffer)
	for _, arg := range args {
		if err := encoder.Encode(arg); err != nil {
			return nil, errors.Wrap(err, 0)
		}
	}
	return buffer.Bytes(), nil
}

// PlaceOrderInstruction builds the place_order instruction.
type PlaceOrderInstruction struct {
	Args             PlaceOrderArgs
	ProgramId        solana.PublicKey
	AccountMetaSlice solana.AccountMetaSlice
}

func NewPlaceOrderInstructionBuilder(programId solana.PublicKey) *PlaceOrderInstruction {
	return &PlaceOrderInstruction{
		ProgramId:        programId,
		AccountMetaSlice: make(solana.AccountMetaSlice, 10),
	}
}

func (inst *PlaceOrderInstruction) SetArgs(args PlaceOrderArgs) *PlaceOrderInstruction {
	inst.Args = args
	return inst
}

func (inst *PlaceOrderInstruction) SetSignerAccount(signer solana.PublicKey) *PlaceOrderInstruction {
	inst.AccountMetaSlice[0] = solana.Meta(signer).SIGNER()
	return inst
}

func (inst *PlaceOrderInstruction) SetOpenOrdersAccount(openOrders solana.PublicKey) *PlaceOrderInstruction {
	inst.AccountMetaSlice[1] = solana.Meta(openOrders).WRITE()
	return inst
}

func (inst *PlaceOrderInstruction) SetMarketAccount(market solana.PublicKey) *PlaceOrderInstruction {
	inst.AccountMetaSlice[2] = solana.Meta(market).WRITE()
	return inst
}

func (inst *PlaceOrderInstruction) SetBidsAccount(bids solana.PublicKey) *PlaceOrderInstruction {
	inst.AccountMetaSlice[3] = solana.Meta(bids).WRITE()
	return inst
}

func (inst *PlaceOrderInstruction) SetAsksAccount(asks solana.PublicKey) *PlaceOrderInstruction {
	inst.AccountMetaSlice[4] = solana.Meta(asks).WRITE()
	return inst
}

func (inst *PlaceOrderInstruction) SetEventHeapAccount(eventHeap solana.PublicKey) *PlaceOrderInstruction {
	inst.AccountMetaSlice[5] = solana.Meta(eventHeap).WRITE()
	return inst
}

func (inst *PlaceOrderInstruction) SetMarketVaultAccount(marketVault solana.PublicKey) *PlaceOrderInstruction {
	inst.AccountMetaSlice[6] = solana.Meta(marketVault).WRITE()
	return inst
}

func (inst *PlaceOrderInstruction) SetUserTokenAccount(userTokenAccount solana.PublicKey) *PlaceOrderInstruction {
	inst.AccountMetaSlice[7] = solana.Meta(userTokenAccount).WRITE()
	return inst
}

func (inst *PlaceOrderInstruction) SetTokenProgramAccount(tokenProgram solana.PublicKey) *PlaceOrderInstruction {
	inst.AccountMetaSlice[8] = solana.Meta(tokenProgram)
	return inst
}

func (inst *PlaceOrderInstruction) SetSystemProgramAccount(systemProgram solana.PublicKey) *PlaceOrderInstruction {
	inst.AccountMetaSlice[9] = solana.Meta(systemProgram)
	return inst
}

func (inst *PlaceOrderInstruction) Validate() error {
	if inst.Args.MaxBaseLots <= 0 {
		return errors.New("max base lots must be positive")
	}
	if inst.Args.PriceLots <= 0 {
		return errors.New("price lots must be positive")
	}
	for idx, account := range inst.AccountMetaSlice {
		if account == nil {
			return errors.Errorf("account at index %d is not set", idx)
		}
	}
	return nil
}

func (inst *PlaceOrderInstruction) Build() (solana.Instruction, error) {
	data, err := encodeInstructionData("placeOrder", inst.Args)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(inst.ProgramId, inst.AccountMetaSlice, data), nil
}

func (inst *PlaceOrderInstruction) ValidateAndBuild() (solana.Instruction, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst.Build()
}

type CancelOrderAccounts struct {
	Signer     solana.PublicKey
	OpenOrders solana.PublicKey
	Market     solana.PublicKey
	Bids       solana.PublicKey
	Asks       solana.PublicKey
}

func NewCancelOrderByClientIdInstruction(
	programId solana.PublicKey,
	clientOrderId uint64,
	accounts CancelOrderAccounts,
) (solana.Instruction, error) {
	data, err := encodeInstructionData("cancelOrderByClientOrderId", clientOrderId)
	if err != nil {
		return nil, err
	}
	metas := solana.AccountMetaSlice{
		solana.Meta(accounts.Signer).SIGNER(),
		solana.Meta(accounts.OpenOrders).WRITE(),
		solana.Meta(accounts.Market),
		solana.Meta(accounts.Bids).WRITE(),
		solana.Meta(accounts.Asks).WRITE(),
	}
	return solana.NewInstruction(programId, metas, data), nil
}

type PlaceOrderAccounts struct {
	Signer           solana.PublicKey
	OpenOrders       solana.PublicKey
	Market           solana.PublicKey
	Bids             solana.PublicKey
	Asks             solana.PublicKey
	EventHeap        solana.PublicKey
	MarketVault      solana.PublicKey
	UserTokenAccount solana.PublicKey
	TokenProgram     solana.PublicKey
	SystemProgram    solana.PublicKey
}

// NewCancelAllAndPlaceOrdersInstruction replaces the owner's resting
// orders on the market with the given set atomically. Bulk quote
// refreshes are built on this.
func NewCancelAllAndPlaceOrdersInstruction(
	programId solana.PublicKey,
	orders []PlaceOrderArgs,
	limit uint8,
	accounts PlaceOrderAccounts,
) (solana.Instruction, error) {
	data, err := encodeInstructionData("cancelAllAndPlaceOrders", orders, limit)
	if err != nil {
		return nil, err
	}
	metas := solana.AccountMetaSlice{
		solana.Meta(accounts.Signer).SIGNER(),
		solana.Meta(accounts.OpenOrders).WRITE(),
		solana.Meta(accounts.Market).WRITE(),
		solana.Meta(accounts.Bids).WRITE(),
		solana.Meta(accounts.Asks).WRITE(),
		solana.Meta(accounts.EventHeap).WRITE(),
		solana.Meta(accounts.MarketVault).WRITE(),
		solana.Meta(accounts.UserTokenAccount).WRITE(),
		solana.Meta(accounts.TokenProgram),
		solana.Meta(accounts.SystemProgram),
	}
	return solana.NewInstruction(programId, metas, data), nil
}

type SettleFundsAccounts struct {
	Signer           solana.PublicKey
	OpenOrders       solana.PublicKey
	Market           solana.PublicKey
	MarketAuthority  solana.PublicKey
	MarketBaseVault  solana.PublicKey
	MarketQuoteVault solana.PublicKey
	UserBaseAccount  solana.PublicKey
	UserQuoteAccount solana.PublicKey
	TokenProgram     solana.PublicKey
	SystemProgram    solana.PublicKey
}

func NewSettleFundsInstruction(
	programId solana.PublicKey,
	accounts SettleFundsAccounts,
) (solana.Instruction, error) {
	data, err := encodeInstructionData("settleFunds")
	if err != nil {
		return nil, err
	}
	metas := solana.AccountMetaSlice{
		solana.Meta(accounts.Signer).SIGNER(),
		solana.Meta(accounts.OpenOrders).WRITE(),
		solana.Meta(accounts.Market).WRITE(),
		solana.Meta(accounts.MarketAuthority),
		solana.Meta(accounts.MarketBaseVault).WRITE(),
		solana.Meta(accounts.MarketQuoteVault).WRITE(),
		solana.Meta(accounts.UserBaseAccount).WRITE(),
		solana.Meta(accounts.UserQuoteAccount).WRITE(),
		solana.Meta(accounts.TokenProgram),
		solana.Meta(accounts.SystemProgram),
	}
	return solana.NewInstruction(programId, metas, data), nil
}
