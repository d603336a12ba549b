package model

// ChainTransaction describes the outcome of a single store write.
// For non-chain backends Id is synthetic and Block is zero.
type ChainTransaction struct {
	Id    string `json:"id"`
	From  string `json:"from"`
	To    string `json:"to"`
	Key   string `json:"key"`
	Block uint64 `json:"block,omitempty"`
}
