package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

func TestKeyWallet_Disconnected(t *testing.T) {
	w, err := NewKeyWallet("", nil)
	require.NoError(t, err)
	assert.False(t, w.Connected())
	assert.Empty(t, w.Address())

	_, err = w.SignMessage(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrWalletNotConnected)

	_, err = w.Transactor(context.Background(), big.NewInt(1))
	assert.ErrorIs(t, err, ErrWalletNotConnected)
}

func TestKeyWallet_InvalidKey(t *testing.T) {
	_, err := NewKeyWallet("0xnothex", nil)
	assert.Error(t, err)
}

func TestKeyWallet_SignAndRecover(t *testing.T) {
	w, err := NewKeyWallet("0x"+testKey, nil)
	require.NoError(t, err)
	require.True(t, w.Connected())

	sig, err := w.SignMessage(context.Background(), "publickey:0x1")
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	signer, err := RecoverSigner("publickey:0x1", sig)
	require.NoError(t, err)
	assert.Equal(t, w.Address(), signer)
}

func TestKeyWallet_Rejected(t *testing.T) {
	var asked string
	w, err := NewKeyWallet(testKey, func(action string) bool {
		asked = action
		return false
	})
	require.NoError(t, err)

	_, err = w.SignMessage(context.Background(), "msg")
	assert.ErrorIs(t, err, ErrUserRejected)
	assert.Contains(t, asked, "msg")
}

func TestKeyWallet_Transactor(t *testing.T) {
	w, err := NewKeyWallet(testKey, nil)
	require.NoError(t, err)
	opts, err := w.Transactor(context.Background(), big.NewInt(11155111))
	require.NoError(t, err)
	assert.Equal(t, w.Address(), opts.From.Hex())
	assert.NotNil(t, opts.Context)
}

func TestRecoverSigner_BadLength(t *testing.T) {
	_, err := RecoverSigner("m", []byte{1, 2})
	assert.Error(t, err)
}
