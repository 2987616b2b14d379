package documentstore

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/chain"
	"github.com/tcfw/docverify/pkg/document"
)

// ABI is the read only part of the DocumentStore contract
const ABI = `[
	{"type":"function","name":"isIssued","stateMutability":"view","constant":true,
	 "inputs":[{"name":"document","type":"bytes32"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"isRevoked","stateMutability":"view","constant":true,
	 "inputs":[{"name":"document","type":"bytes32"}],
	 "outputs":[{"name":"","type":"bool"}]}
]`

type Method string

const (
	MethodIsIssued  Method = "isIssued"
	MethodIsRevoked Method = "isRevoked"
)

// Call is a single read against a document store
type Call struct {
	ContractAddress string
	Method          Method
	Args            []interface{}
}

type Store struct {
	contract *chain.Contract
}

func New(backend chain.Backend) (*Store, error) {
	c, err := chain.NewContract(ABI, backend)
	if err != nil {
		return nil, err
	}

	return &Store{contract: c}, nil
}

// Execute invokes one of the store's read methods and returns its single
// result
func (s *Store) Execute(ctx context.Context, call Call) (interface{}, error) {
	m, err := s.contract.Method(string(call.Method))
	if err != nil {
		return nil, err
	}

	addr, err := chain.ParseAddress(call.ContractAddress)
	if err != nil {
		return nil, err
	}

	args, err := coerceArgs(m, call.Args)
	if err != nil {
		return nil, err
	}

	out, err := s.contract.Call(ctx, addr, m.Name, args...)
	if err != nil {
		return nil, err
	}

	if len(out) != 1 {
		return nil, errors.Errorf("unexpected %d results from %s", len(out), m.Name)
	}

	return out[0], nil
}

func (s *Store) IsIssued(ctx context.Context, addr string, h document.Hash) (bool, error) {
	return s.boolCall(ctx, addr, MethodIsIssued, h)
}

func (s *Store) IsRevoked(ctx context.Context, addr string, h document.Hash) (bool, error) {
	return s.boolCall(ctx, addr, MethodIsRevoked, h)
}

func (s *Store) boolCall(ctx context.Context, addr string, m Method, h document.Hash) (bool, error) {
	res, err := s.Execute(ctx, Call{ContractAddress: addr, Method: m, Args: []interface{}{h}})
	if err != nil {
		return false, err
	}

	b, ok := res.(bool)
	if !ok {
		return false, errors.Errorf("%s returned %T", m, res)
	}

	return b, nil
}

// coerceArgs converts hex strings and document hashes into the bytes32
// values the ABI encoder expects
func coerceArgs(m abi.Method, args []interface{}) ([]interface{}, error) {
	if len(args) != len(m.Inputs) {
		return nil, chain.ErrInvalidArgument
	}

	out := make([]interface{}, len(args))
	for i, a := range args {
		if m.Inputs[i].Type.T != abi.FixedBytesTy || m.Inputs[i].Type.Size != 32 {
			out[i] = a
			continue
		}

		switch v := a.(type) {
		case document.Hash:
			out[i] = [32]byte(v)
		case common.Hash:
			out[i] = [32]byte(v)
		case string:
			h, err := document.ParseHash(v)
			if err != nil {
				return nil, chain.ErrInvalidArgument
			}
			out[i] = [32]byte(h)
		default:
			out[i] = a
		}
	}

	return out, nil
}
