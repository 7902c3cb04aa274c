package accounts

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"
)

func TestAddRemoveAccountCallbacks(t *testing.T) {
	loader := CreateBulkAccountLoader(rpc.New("http://localhost:8899"), rpc.CommitmentConfirmed, 0)
	key := solana.NewWallet().PublicKey()

	firstId := loader.AddAccount(key, func([]byte, uint64) {})
	secondId := loader.AddAccount(key, func([]byte, uint64) {})
	require.NotEqual(t, firstId, secondId)
	require.Len(t, loader.accountsToLoad, 1)
	require.Len(t, loader.accountsToLoad[key.String()].Callbacks, 2)

	loader.RemoveAccount(key, firstId)
	require.Len(t, loader.accountsToLoad[key.String()].Callbacks, 1)

	loader.RemoveAccount(key, secondId)
	require.Empty(t, loader.accountsToLoad)
	require.Empty(t, loader.bufferAndSlotMap)
}
