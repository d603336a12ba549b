package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

type BlockchainClient struct {
	client *ethclient.Client
}

func NewBlockchainClient(ethURL string) (*BlockchainClient, error) {
	client, err := ethclient.Dial(ethURL)
	if err != nil {
		return nil, err
	}
	return &BlockchainClient{client: client}, nil
}

func (bc *BlockchainClient) Client() *ethclient.Client {
	return bc.client
}

func (bc *BlockchainClient) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := bc.client.ChainID(ctx)
	if err != nil {
		logrus.Errorf("ChainID err: %v", err)
		return nil, err
	}
	return id, nil
}

func (bc *BlockchainClient) Close() {
	bc.client.Close()
}
