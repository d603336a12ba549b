package chain

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"artisan-dex/core/model"
)

// MemoryStore is an in-process DataStore used for development and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	data      map[string][]byte
	address   string
	wallet    Wallet
	available bool
	nonce     uint64
}

func NewMemoryStore(address string, wallet Wallet) *MemoryStore {
	return &MemoryStore{
		data:      make(map[string][]byte),
		address:   address,
		wallet:    wallet,
		available: true,
	}
}

func (s *MemoryStore) Address() string {
	return s.address
}

func (s *MemoryStore) SetAvailable(available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = available
}

// Put writes a raw value without going through the wallet.
func (s *MemoryStore) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
}

func (s *MemoryStore) IsAvailable(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.available, nil
}

func (s *MemoryStore) GetData(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte{}, s.data[key]...), nil
}

func (s *MemoryStore) SetData(ctx context.Context, key string, value []byte) (*model.ChainTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.wallet.Connected() {
		return nil, ErrWalletNotConnected
	}
	if err := s.wallet.Approve(fmt.Sprintf("send %s(%q) to %s", methodSetData, key, s.address)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	s.nonce++
	return &model.ChainTransaction{
		Id:   "0x" + model.Keccak256(key+"/"+strconv.FormatUint(s.nonce, 10)),
		From: s.wallet.Address(),
		To:   s.address,
		Key:  key,
	}, nil
}
