package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrUserRejected       = errors.New("user rejected transaction")
)

// ConfirmFunc is asked before every signature. Returning false rejects it.
type ConfirmFunc func(action string) bool

// Wallet is the connected account used for store writes and message signing.
type Wallet interface {
	Connected() bool
	Address() string
	// Approve asks the holder to confirm action and returns ErrUserRejected
	// when declined.
	Approve(action string) error
	SignMessage(ctx context.Context, message string) ([]byte, error)
	Transactor(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error)
}

// KeyWallet signs with a locally held secp256k1 key.
type KeyWallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	confirm ConfirmFunc
}

// NewKeyWallet parses a hex private key. An empty key yields a
// disconnected wallet.
func NewKeyWallet(hexKey string, confirm ConfirmFunc) (*KeyWallet, error) {
	w := &KeyWallet{confirm: confirm}
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return w, nil
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse wallet key: %w", err)
	}
	w.key = key
	w.address = crypto.PubkeyToAddress(key.PublicKey)
	return w, nil
}

func (w *KeyWallet) Connected() bool {
	return w.key != nil
}

func (w *KeyWallet) Address() string {
	if w.key == nil {
		return ""
	}
	return w.address.Hex()
}

func (w *KeyWallet) Approve(action string) error {
	if w.confirm != nil && !w.confirm(action) {
		return ErrUserRejected
	}
	return nil
}

// SignMessage produces an EIP-191 personal_sign signature with V in {27, 28}.
func (w *KeyWallet) SignMessage(ctx context.Context, message string) ([]byte, error) {
	if w.key == nil {
		return nil, ErrWalletNotConnected
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := w.Approve("sign message:\n" + message); err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), w.key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

func (w *KeyWallet) Transactor(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	if w.key == nil {
		return nil, ErrWalletNotConnected
	}
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

// RecoverSigner returns the address that produced a SignMessage signature.
func RecoverSigner(message string, sig []byte) (string, error) {
	if len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("invalid signature length %d", len(sig))
	}
	normalized := append([]byte(nil), sig...)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), normalized)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}
