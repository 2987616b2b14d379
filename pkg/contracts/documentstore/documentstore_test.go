package documentstore

import (
	"context"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/docverify/pkg/chain"
	"github.com/tcfw/docverify/pkg/chain/mock"
	"github.com/tcfw/docverify/pkg/document"
)

const (
	storeAddress = "0x007d40224f6562461633ccfbaffd359ebb2fc9ba"
	issuedHash   = "0x1a040999254caaf7a33cba67ec6a9b862da1dacf8a0d1e3bb76347060fc615d6"
)

func newTestStore(t *testing.T) (*Store, *mock.Backend) {
	parsed, err := abi.JSON(strings.NewReader(ABI))
	require.NoError(t, err)

	issued, err := document.ParseHash(issuedHash)
	require.NoError(t, err)

	b := mock.NewBackend(parsed)
	b.Deploy(common.HexToAddress(storeAddress))
	b.Handlers["isIssued"] = func(_ common.Address, args []interface{}) ([]interface{}, error) {
		return []interface{}{args[0].([32]byte) == [32]byte(issued)}, nil
	}
	b.Handlers["isRevoked"] = func(_ common.Address, args []interface{}) ([]interface{}, error) {
		return []interface{}{false}, nil
	}

	s, err := New(b)
	require.NoError(t, err)

	return s, b
}

func TestExecute(t *testing.T) {
	s, _ := newTestStore(t)

	tests := map[string]struct {
		call   Call
		expect interface{}
		err    string
	}{
		"zero address": {
			call: Call{ContractAddress: common.Address{}.Hex(), Method: MethodIsIssued, Args: []interface{}{issuedHash}},
			err:  "contract not deployed",
		},
		"issued hash": {
			call:   Call{ContractAddress: storeAddress, Method: MethodIsIssued, Args: []interface{}{issuedHash}},
			expect: true,
		},
		"zero hash": {
			call:   Call{ContractAddress: storeAddress, Method: MethodIsIssued, Args: []interface{}{document.Hash{}}},
			expect: false,
		},
		"unknown method": {
			call: Call{ContractAddress: storeAddress, Method: "foo", Args: []interface{}{issuedHash}},
			err:  "contract.foo is not a function",
		},
		"bad argument": {
			call: Call{ContractAddress: storeAddress, Method: MethodIsIssued, Args: []interface{}{"not hex"}},
			err:  "invalid argument",
		},
		"missing argument": {
			call: Call{ContractAddress: storeAddress, Method: MethodIsRevoked},
			err:  "invalid argument",
		},
		"bad address": {
			call: Call{ContractAddress: "0x1234", Method: MethodIsIssued, Args: []interface{}{issuedHash}},
			err:  "invalid argument",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := s.Execute(context.Background(), test.call)
			if test.err != "" {
				assert.EqualError(t, err, test.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expect, res)
		})
	}
}

func TestExecuteErrorClasses(t *testing.T) {
	s, b := newTestStore(t)

	_, err := s.Execute(context.Background(), Call{ContractAddress: common.Address{}.Hex(), Method: MethodIsIssued, Args: []interface{}{issuedHash}})
	assert.ErrorIs(t, err, chain.ErrContractNotDeployed)

	_, err = s.Execute(context.Background(), Call{ContractAddress: storeAddress, Method: "issue", Args: []interface{}{issuedHash}})
	assert.ErrorIs(t, err, chain.ErrMethodNotFound)

	assert.Equal(t, 0, b.Calls("isIssued"))
}

func TestIsIssuedIsRevoked(t *testing.T) {
	s, b := newTestStore(t)

	h, _ := document.ParseHash(issuedHash)

	issued, err := s.IsIssued(context.Background(), storeAddress, h)
	require.NoError(t, err)
	assert.True(t, issued)

	revoked, err := s.IsRevoked(context.Background(), storeAddress, h)
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.Equal(t, 1, b.Calls("isIssued"))
	assert.Equal(t, 1, b.Calls("isRevoked"))
}
