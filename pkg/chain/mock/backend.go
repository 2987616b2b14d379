package mock

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

type Handler func(addr common.Address, args []interface{}) ([]interface{}, error)

// Backend is an in memory chain backend which answers calls by decoding the
// ABI input and dispatching to a handler per method
type Backend struct {
	ABI      abi.ABI
	Handlers map[string]Handler

	mu    sync.Mutex
	code  map[common.Address][]byte
	calls map[string]int
}

func NewBackend(a abi.ABI) *Backend {
	return &Backend{
		ABI:      a,
		Handlers: map[string]Handler{},
		code:     map[common.Address][]byte{},
		calls:    map[string]int{},
	}
}

// Deploy marks addr as holding contract code
func (b *Backend) Deploy(addr common.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.code[addr] = []byte{0x60, 0x80, 0x60, 0x40}
}

// Calls reports how many eth_call requests were made for method
func (b *Backend) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.calls[method]
}

func (b *Backend) CodeAt(_ context.Context, contract common.Address, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.code[contract], nil
}

func (b *Backend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if call.To == nil || len(call.Data) < 4 {
		return nil, errors.New("malformed call")
	}

	m, err := b.ABI.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.calls[m.Name]++
	h, ok := b.Handlers[m.Name]
	b.mu.Unlock()

	if !ok {
		return nil, errors.New("execution reverted")
	}

	args, err := m.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}

	out, err := h(*call.To, args)
	if err != nil {
		return nil, err
	}

	return m.Outputs.Pack(out...)
}
