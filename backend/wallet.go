package backend

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

type Wallet struct {
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey
}

func (backend *Backend) ImportWallet(key string) error {
	privateKey, err := solana.PrivateKeyFromBase58(key)
	if err != nil {
		return errors.Wrap(err, "import wallet")
	}
	backend.AddWallet(privateKey)
	return nil
}

func (backend *Backend) AddWallet(privateKey solana.PrivateKey) {
	wallet := &Wallet{
		PrivateKey: privateKey,
		PublicKey:  privateKey.PublicKey(),
	}
	backend.wallets = append(backend.wallets, wallet)
	if backend.player.IsZero() {
		backend.player = wallet.PublicKey
	}
}

func (backend *Backend) getWallet(key solana.PublicKey) *solana.PrivateKey {
	for _, wallet := range backend.wallets {
		if wallet.PublicKey.Equals(key) {
			return &wallet.PrivateKey
		}
	}
	return nil
}
