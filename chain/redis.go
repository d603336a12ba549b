package chain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"artisan-dex/core/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the auction key space in Redis under a namespace prefix.
type RedisStore struct {
	client    *redis.Client
	namespace string
	address   string
	wallet    Wallet
}

func NewRedisStore(url, namespace, address string, wallet Wallet) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client, namespace: namespace, address: address, wallet: wallet}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Address() string {
	return s.address
}

func (s *RedisStore) key(k string) string {
	return s.namespace + k
}

func (s *RedisStore) IsAvailable(ctx context.Context) (bool, error) {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) GetData(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []byte{}, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) SetData(ctx context.Context, key string, value []byte) (*model.ChainTransaction, error) {
	if !s.wallet.Connected() {
		return nil, ErrWalletNotConnected
	}
	if err := s.wallet.Approve(fmt.Sprintf("send %s(%q) to %s", methodSetData, key, s.address)); err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return nil, err
	}
	return &model.ChainTransaction{
		Id:   "0x" + model.Keccak256(key+"/"+strconv.FormatInt(time.Now().UnixNano(), 10)),
		From: s.wallet.Address(),
		To:   s.address,
		Key:  key,
	}, nil
}
