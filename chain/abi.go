package chain

import (
	"strings"

	"artisan-dex/utils/generics/must"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const StoreABIJson = `[
{"inputs":[],"name":"isAvailable","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"string","name":"key","type":"string"}],"name":"getData","outputs":[{"internalType":"bytes","name":"","type":"bytes"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"string","name":"key","type":"string"},{"internalType":"bytes","name":"value","type":"bytes"}],"name":"setData","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var (
	StoreABI = must.Must(abi.JSON(strings.NewReader(StoreABIJson)))
)

const (
	methodIsAvailable = "isAvailable"
	methodGetData     = "getData"
	methodSetData     = "setData"
)
