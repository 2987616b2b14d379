package engine

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/chain"
)

var ErrNoRPC = errors.New("no chain rpc configured")

// unconfiguredBackend stands in when no RPC endpoint is set so documents
// which need no chain reads still verify
type unconfiguredBackend struct{}

var _ chain.Backend = unconfiguredBackend{}

func (unconfiguredBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return nil, ErrNoRPC
}

func (unconfiguredBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, ErrNoRPC
}
