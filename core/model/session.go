package model

import "fmt"

const (
	PublicKeyHexLength  = 2000
	DefaultDurationDays = 30
)

// SignatureSession holds the parameters embedded in the bid disclosure
// signing message. None of them carry cryptographic meaning.
type SignatureSession struct {
	PublicKey       string `json:"publicKey"`
	ContractAddress string `json:"contractAddress"`
	ChainId         int64  `json:"chainId"`
	StartTimestamp  int64  `json:"startTimestamp"`
	DurationDays    int    `json:"durationDays"`
}

func (s *SignatureSession) Message() string {
	return fmt.Sprintf("publickey:%s\ncontractAddresses:%s\ncontractsChainId:%d\nstartTimestamp:%d\ndurationDays:%d",
		s.PublicKey, s.ContractAddress, s.ChainId, s.StartTimestamp, s.DurationDays)
}
