package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Networks maps network names used in options and DID identifiers to EVM
// chain ids
var Networks = map[string]int64{
	"mainnet":   1,
	"homestead": 1,
	"goerli":    5,
	"sepolia":   11155111,
	"holesky":   17000,
	"polygon":   137,
	"matic":     137,
	"amoy":      80002,
	"xdc":       50,
	"apothem":   51,
	"local":     1337,
}

// ChainID resolves a network name, or a hex chain id such as 0x1, to its
// numeric chain id
func ChainID(network string) (int64, bool) {
	n := strings.ToLower(network)
	if id, ok := Networks[n]; ok {
		return id, true
	}

	if !strings.HasPrefix(n, "0x") {
		return 0, false
	}

	id, err := hexutil.DecodeUint64(n)
	if err != nil {
		return 0, false
	}

	return int64(id), true
}
