package chain

import (
	"context"
	"errors"

	"artisan-dex/core/model"
)

var (
	ErrStoreUnavailable = errors.New("store unavailable")
)

// DataStore is the key/value surface of the auction contract.
type DataStore interface {
	IsAvailable(ctx context.Context) (bool, error)
	// GetData returns an empty slice for keys that were never written.
	GetData(ctx context.Context, key string) ([]byte, error)
	SetData(ctx context.Context, key string, value []byte) (*model.ChainTransaction, error)
	// Address identifies the store in signing messages.
	Address() string
}
