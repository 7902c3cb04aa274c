package futarchy

import "github.com/gagliardetto/solana-go"

// Wallet wraps a local private key behind IWallet. When no identity is
// connected the client carries a nil IWallet and all identity-scoped
// operations become no-ops.
type Wallet struct {
	IWallet
	PrivateKey solana.PrivateKey
}

func (p *Wallet) GetPublicKey() solana.PublicKey {
	return p.PrivateKey.PublicKey()
}

func (p *Wallet) GetPrivateKey() solana.PrivateKey {
	return p.PrivateKey
}

func (p *Wallet) SignTransaction(tx *solana.Transaction) *solana.Transaction {
	_, _ = tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if p.PrivateKey.PublicKey().Equals(key) {
			return &p.PrivateKey
		}
		return nil
	})
	return tx
}

func (p *Wallet) SignAllTransactions(txs []*solana.Transaction) []*solana.Transaction {
	for _, tx := range txs {
		p.SignTransaction(tx)
	}
	return txs
}
