package client

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

type accountLoader interface {
	AddAccount(publicKey solana.PublicKey, callback func([]byte, uint64)) string
	RemoveAccount(publicKey solana.PublicKey, callbackId string)
}

type loaderRef struct {
	account    solana.PublicKey
	callbackId string
}

// loaderRegistry remembers the callbacks one concern registered on the
// bulk account loader so a proposal or identity switch retires them
// instead of stacking new ones on top of the old.
type loaderRegistry struct {
	loader accountLoader
	refs   []loaderRef
	mx     sync.Mutex
}

func createLoaderRegistry(loader accountLoader) *loaderRegistry {
	return &loaderRegistry{loader: loader}
}

func (p *loaderRegistry) add(account solana.PublicKey, callback func([]byte, uint64)) {
	callbackId := p.loader.AddAccount(account, callback)
	p.mx.Lock()
	p.refs = append(p.refs, loaderRef{account: account, callbackId: callbackId})
	p.mx.Unlock()
}

// clear unregisters everything this registry added. Safe to call with
// nothing registered.
func (p *loaderRegistry) clear() {
	p.mx.Lock()
	refs := p.refs
	p.refs = nil
	p.mx.Unlock()
	for _, ref := range refs {
		p.loader.RemoveAccount(ref.account, ref.callbackId)
	}
}
