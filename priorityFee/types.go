package priorityFee

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type SolanaPriorityFeeResponse struct {
	Slot              uint64
	PrioritizationFee uint64
}

type IPriorityFeeStrategy interface {
	Calculate(samples []SolanaPriorityFeeResponse) uint64
}

type PriorityFeeMethod string

const (
	PriorityFeeMethodSolana PriorityFeeMethod = "solana"
	PriorityFeeMethodHelius PriorityFeeMethod = "helius"
)

type PriorityFeeSubscriberConfig struct {
	// rpc connection, optional if using PriorityFeeMethodHelius
	Connection *rpc.Client
	// frequency to refresh priority fee samples, in milliseconds
	FrequencyMs uint64
	// addresses you plan to write lock, used to determine priority fees
	Addresses []solana.PublicKey
	// custom strategy to calculate priority fees, defaults to average
	CustomStrategy IPriorityFeeStrategy
	// method for fetching priority fee samples
	PriorityFeeMethod PriorityFeeMethod
	// lookback window to determine priority fees, in slots
	SlotsToCheck uint64
	// url for helius rpc, required if using PriorityFeeMethodHelius
	HeliusRpcUrl string
	// clamp any returned priority fee value to this value
	MaxFeeMicroLamports uint64
	// multiplier applied to priority fee before the clamp, defaults to 1.0
	PriorityFeeMultiplier float64
}
