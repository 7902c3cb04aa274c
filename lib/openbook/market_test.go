package openbook

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The account reads honor the caller's context, so a deadline set by
// the fetch path bounds them too.
func TestLoadMarketFromAddressHonorsContext(t *testing.T) {
	connection := rpc.New("http://localhost:8899")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	market := LoadMarketFromAddress(ctx, connection, solana.NewWallet().PublicKey())
	assert.Nil(t, market)
}

func TestFindOpenOrdersAccountsForOwnerHonorsContext(t *testing.T) {
	connection := rpc.New("http://localhost:8899")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	keys, err := FindOpenOrdersAccountsForOwner(
		ctx,
		connection,
		testProgramId,
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
		nil,
	)
	require.Error(t, err)
	assert.Nil(t, keys)
}
