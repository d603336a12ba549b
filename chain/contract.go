package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"artisan-dex/core/model"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// ContractBackend is the slice of a JSON-RPC client the contract store needs.
// *ethclient.Client satisfies it.
type ContractBackend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// ContractStore talks to the deployed key/value contract over JSON-RPC.
type ContractStore struct {
	backend   ContractBackend
	address   common.Address
	contract  *bind.BoundContract
	wallet    Wallet
	waitMined bool
}

func NewContractStore(backend ContractBackend, address string, wallet Wallet, waitMined bool) (*ContractStore, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid contract address %q", address)
	}
	addr := common.HexToAddress(address)
	return &ContractStore{
		backend:   backend,
		address:   addr,
		contract:  bind.NewBoundContract(addr, StoreABI, backend, backend, backend),
		wallet:    wallet,
		waitMined: waitMined,
	}, nil
}

func (s *ContractStore) Address() string {
	return s.address.Hex()
}

// LatestBlockNumber returns the head block the backend currently sees.
func (s *ContractStore) LatestBlockNumber(ctx context.Context) (int64, error) {
	header, err := s.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Int64(), nil
}

func (s *ContractStore) IsAvailable(ctx context.Context) (bool, error) {
	var out []interface{}
	if err := s.contract.Call(&bind.CallOpts{Context: ctx}, &out, methodIsAvailable); err != nil {
		return false, err
	}
	return unpackBool(methodIsAvailable, out)
}

func (s *ContractStore) GetData(ctx context.Context, key string) ([]byte, error) {
	var out []interface{}
	if err := s.contract.Call(&bind.CallOpts{Context: ctx}, &out, methodGetData, key); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []byte{}, nil
	}
	data, ok := out[0].([]byte)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected result type %T", methodGetData, out[0])
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func (s *ContractStore) SetData(ctx context.Context, key string, value []byte) (*model.ChainTransaction, error) {
	if !s.wallet.Connected() {
		return nil, ErrWalletNotConnected
	}
	if err := s.wallet.Approve(fmt.Sprintf("send %s(%q) to %s", methodSetData, key, s.address.Hex())); err != nil {
		return nil, err
	}
	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		logrus.Errorf("ChainID err: %v", err)
		return nil, err
	}
	opts, err := s.wallet.Transactor(ctx, chainID)
	if err != nil {
		return nil, err
	}
	tx, err := s.contract.Transact(opts, methodSetData, key, value)
	if err != nil {
		if isUserRejection(err) {
			return nil, fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
		return nil, err
	}
	logrus.Infof("setData %s submitted, tx %s", key, tx.Hash().Hex())

	res := &model.ChainTransaction{
		Id:   tx.Hash().Hex(),
		From: opts.From.Hex(),
		To:   s.address.Hex(),
		Key:  key,
	}
	if !s.waitMined {
		return res, nil
	}
	receipt, err := bind.WaitMined(ctx, s.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait mined %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status == 0 {
		return nil, fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}
	res.Block = receipt.BlockNumber.Uint64()
	logrus.Infof("setData %s mined in block %d", key, res.Block)
	return res, nil
}

func unpackBool(method string, out []interface{}) (bool, error) {
	if len(out) == 0 {
		return false, fmt.Errorf("%s: empty result", method)
	}
	v, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("%s: unexpected result type %T", method, out[0])
	}
	return v, nil
}

func isUserRejection(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "user rejected")
}
