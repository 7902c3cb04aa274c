package futarchy

import (
	"crypto/sha256"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/iancoleman/strcase"
)

const DISCRIMINATOR_SIZE = 8

// GetAccountFilter builds a memcmp filter on the anchor account
// discriminator, sha256("account:<CamelCaseName>")[0:8].
func GetAccountFilter(accountName string) rpc.RPCFilter {
	hash := sha256.Sum256([]byte(fmt.Sprintf("account:%s", strcase.ToCamel(accountName))))
	hashCut := hash[0:DISCRIMINATOR_SIZE]
	return rpc.RPCFilter{
		Memcmp: &rpc.RPCFilterMemcmp{
			Offset: 0,
			Bytes:  hashCut[:],
		},
	}
}

func GetProposalFilter() rpc.RPCFilter {
	return GetAccountFilter("Proposal")
}

func GetOpenOrdersFilter() rpc.RPCFilter {
	return GetAccountFilter("OpenOrdersAccount")
}

// Owner sits directly after the discriminator in OpenOrdersAccount.
func GetOpenOrdersOwnerFilter(owner solana.PublicKey) rpc.RPCFilter {
	return rpc.RPCFilter{
		Memcmp: &rpc.RPCFilterMemcmp{
			Offset: DISCRIMINATOR_SIZE,
			Bytes:  owner.Bytes(),
		},
	}
}

func GetOpenOrdersMarketFilter(market solana.PublicKey) rpc.RPCFilter {
	return rpc.RPCFilter{
		Memcmp: &rpc.RPCFilterMemcmp{
			Offset: DISCRIMINATOR_SIZE + 32,
			Bytes:  market.Bytes(),
		},
	}
}
