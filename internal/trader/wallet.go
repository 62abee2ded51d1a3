package trader

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ErrInvalidKeyFormat is returned when a secret key cannot be decoded or
// does not derive a valid signing key.
var ErrInvalidKeyFormat = errors.New("invalid key format")

// Wallet holds the signing key for a trade session. The key lives only in
// process memory and is never serialized back out.
type Wallet struct {
	key solana.PrivateKey
}

// LoadWallet decodes a base58-encoded 64-byte secret into a wallet.
func LoadWallet(secret string) (*Wallet, error) {
	raw, err := base58.Decode(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}
	if len(raw) != 64 {
		return nil, fmt.Errorf("%w: expected 64-byte secret, got %d bytes", ErrInvalidKeyFormat, len(raw))
	}

	key := solana.PrivateKey(raw)
	if !isOnCurve(key.PublicKey().Bytes()) {
		return nil, fmt.Errorf("%w: derived public key is not on the ed25519 curve", ErrInvalidKeyFormat)
	}

	return &Wallet{key: key}, nil
}

// PublicKey returns the wallet's address.
func (w *Wallet) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

// Sign signs every required signature slot owned by this wallet.
func (w *Wallet) Sign(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.key.PublicKey()) {
			return &w.key
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	return nil
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
