package client

import (
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	seq       int
	callbacks map[string]solana.PublicKey
}

func createFakeLoader() *fakeLoader {
	return &fakeLoader{callbacks: make(map[string]solana.PublicKey)}
}

func (p *fakeLoader) AddAccount(publicKey solana.PublicKey, callback func([]byte, uint64)) string {
	p.seq++
	callbackId := fmt.Sprintf("fake-%d", p.seq)
	p.callbacks[callbackId] = publicKey
	return callbackId
}

func (p *fakeLoader) RemoveAccount(publicKey solana.PublicKey, callbackId string) {
	if p.callbacks[callbackId] == publicKey {
		delete(p.callbacks, callbackId)
	}
}

// Re-registering for the same accounts must never stack callbacks; the
// registry retires everything it added when cleared.
func TestLoaderRegistryClearRetiresCallbacks(t *testing.T) {
	loader := createFakeLoader()
	registry := createLoaderRegistry(loader)
	accountA := solana.NewWallet().PublicKey()
	accountB := solana.NewWallet().PublicKey()

	registry.add(accountA, func([]byte, uint64) {})
	registry.add(accountB, func([]byte, uint64) {})
	require.Len(t, loader.callbacks, 2)

	registry.clear()
	assert.Empty(t, loader.callbacks)

	// Re-register after clear, as a proposal switch does.
	registry.add(accountA, func([]byte, uint64) {})
	assert.Len(t, loader.callbacks, 1)

	registry.clear()
	registry.clear()
	assert.Empty(t, loader.callbacks)
}
