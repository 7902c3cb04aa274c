package priorityFee

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// GetRecentPrioritizationFees returns prioritization fees from recent
// blocks touching the given accounts. A node's prioritization-fee cache
// stores data from up to 150 blocks.
func GetRecentPrioritizationFees(
	cl *rpc.Client,
	ctx context.Context,
	accounts solana.PublicKeySlice,
	percentile uint,
) (out []SolanaPriorityFeeResponse, err error) {
	params := []interface{}{accounts}
	if percentile > 0 {
		obj := rpc.M{}
		obj["percentile"] = percentile
		params = append(params, obj)
	}

	err = cl.RPCCallForInto(ctx, &out, "getRecentPrioritizationFees", params)
	return
}
