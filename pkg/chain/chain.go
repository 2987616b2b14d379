package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/tcfw/docverify/internal/utils/logging"
)

var (
	ErrContractNotDeployed = errors.New("contract not deployed")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrMethodNotFound      = errors.New("method not found")
)

// MethodNotFoundError is returned when calling a method the contract ABI
// does not declare
type MethodNotFoundError struct {
	Method string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("contract.%s is not a function", e.Method)
}

func (e *MethodNotFoundError) Is(target error) bool {
	return target == ErrMethodNotFound
}

// Backend is the subset of an ethereum RPC client needed for read only
// contract calls. *ethclient.Client satisfies it.
type Backend interface {
	CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

var _ Backend = (*ethclient.Client)(nil)

// Dial connects to an ethereum JSON-RPC endpoint
func Dial(ctx context.Context, rpc string) (*ethclient.Client, error) {
	c, err := ethclient.DialContext(ctx, rpc)
	if err != nil {
		return nil, errors.Wrap(err, "dialing rpc")
	}

	return c, nil
}

// Contract is a read only view of a contract ABI which can be pointed at any
// address
type Contract struct {
	abi     abi.ABI
	backend Backend
}

func NewContract(abiJSON string, backend Backend) (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, errors.Wrap(err, "parsing abi")
	}

	return &Contract{abi: parsed, backend: backend}, nil
}

func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// Method returns the ABI method with the given name
func (c *Contract) Method(name string) (abi.Method, error) {
	m, ok := c.abi.Methods[name]
	if !ok {
		return abi.Method{}, &MethodNotFoundError{Method: name}
	}

	return m, nil
}

// Call executes a constant method against the contract at addr and returns
// the decoded outputs
func (c *Contract) Call(ctx context.Context, addr common.Address, method string, args ...interface{}) ([]interface{}, error) {
	if _, err := c.Method(method); err != nil {
		return nil, err
	}

	input, err := c.abi.Pack(method, args...)
	if err != nil {
		logging.WithError(err).WithField("method", method).Debug("packing call arguments")
		return nil, ErrInvalidArgument
	}

	code, err := c.backend.CodeAt(ctx, addr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "fetching contract code")
	}

	if len(code) == 0 {
		return nil, ErrContractNotDeployed
	}

	output, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: input}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "calling %s", method)
	}

	res, err := c.abi.Unpack(method, output)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s result", method)
	}

	return res, nil
}

// ParseAddress validates a hex encoded contract address
func ParseAddress(addr string) (common.Address, error) {
	if !common.IsHexAddress(addr) {
		return common.Address{}, ErrInvalidArgument
	}

	return common.HexToAddress(addr), nil
}
