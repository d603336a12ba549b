package chain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallet(t *testing.T) *KeyWallet {
	t.Helper()
	w, err := NewKeyWallet(testKey, nil)
	require.NoError(t, err)
	return w
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore("0xstore", newTestWallet(t))
	data, err := s.GetData(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)
}

func TestMemoryStore_SetGet(t *testing.T) {
	w := newTestWallet(t)
	s := NewMemoryStore("0xstore", w)
	ctx := context.Background()

	tx, err := s.SetData(ctx, "k", []byte("v"))
	require.NoError(t, err)
	assert.Equal(t, "k", tx.Key)
	assert.Equal(t, w.Address(), tx.From)
	assert.Equal(t, "0xstore", tx.To)
	assert.Len(t, tx.Id, 66)

	tx2, err := s.SetData(ctx, "k", []byte("v"))
	require.NoError(t, err)
	assert.NotEqual(t, tx.Id, tx2.Id)

	data, err := s.GetData(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)

	// returned slices are copies
	data[0] = 'x'
	again, _ := s.GetData(ctx, "k")
	assert.Equal(t, []byte("v"), again)
}

func TestMemoryStore_Availability(t *testing.T) {
	s := NewMemoryStore("", newTestWallet(t))
	ok, err := s.IsAvailable(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	s.SetAvailable(false)
	ok, _ = s.IsAvailable(context.Background())
	assert.False(t, ok)
}

func TestMemoryStore_WriteRequiresWallet(t *testing.T) {
	w, err := NewKeyWallet("", nil)
	require.NoError(t, err)
	s := NewMemoryStore("", w)
	_, err = s.SetData(context.Background(), "k", nil)
	assert.ErrorIs(t, err, ErrWalletNotConnected)
}

func TestMemoryStore_WriteRejected(t *testing.T) {
	w, err := NewKeyWallet(testKey, func(string) bool { return false })
	require.NoError(t, err)
	s := NewMemoryStore("", w)
	_, err = s.SetData(context.Background(), "k", []byte("v"))
	assert.ErrorIs(t, err, ErrUserRejected)

	data, _ := s.GetData(context.Background(), "k")
	assert.Empty(t, data)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	s := NewMemoryStore("", newTestWallet(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.GetData(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
