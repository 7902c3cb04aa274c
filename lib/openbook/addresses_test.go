package openbook

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

var testProgramId = solana.MustPublicKeyFromBase58("opnb2LAfJYbRMAHHvqjCwQxanZn7ReEHp1k81EohpZb")

func TestGetOpenOrdersAccountPublicKey(t *testing.T) {
	owner := solana.NewWallet().PublicKey()

	address, nonce := GetOpenOrdersAccountPublicKeyAndNonce(testProgramId, owner, 1)
	require.False(t, address.IsZero())
	require.False(t, address.IsOnCurve())

	derived, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("OpenOrders"), owner.Bytes(), {1, 0, 0, 0}},
		testProgramId,
	)
	require.NoError(t, err)
	require.Equal(t, derived, address)
	require.NotZero(t, nonce)

	cached := GetOpenOrdersAccountPublicKey(testProgramId, owner, 1)
	require.Equal(t, address, cached)
	require.Equal(t, cached, GetOpenOrdersAccountPublicKey(testProgramId, owner, 1))

	other := GetOpenOrdersAccountPublicKey(testProgramId, owner, 2)
	require.NotEqual(t, cached, other)
}

func TestGetMarketAuthorityPublicKey(t *testing.T) {
	market := solana.NewWallet().PublicKey()

	authority := GetMarketAuthorityPublicKey(testProgramId, market)
	require.False(t, authority.IsZero())
	require.Equal(t, authority, GetMarketAuthorityPublicKey(testProgramId, market))
	require.NotEqual(t, authority, GetMarketAuthorityPublicKey(testProgramId, solana.NewWallet().PublicKey()))
}

func TestGetEventAuthorityPublicKey(t *testing.T) {
	authority := GetEventAuthorityPublicKey(testProgramId)
	require.False(t, authority.IsZero())
	require.False(t, authority.IsOnCurve())
	require.Equal(t, authority, GetEventAuthorityPublicKey(testProgramId))
}
