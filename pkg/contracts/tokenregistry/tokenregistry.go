package tokenregistry

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/chain"
)

// ABI is the ERC-721 ownerOf read used to check whether a document was minted
const ABI = `[
	{"type":"function","name":"ownerOf","stateMutability":"view","constant":true,
	 "inputs":[{"name":"tokenId","type":"uint256"}],
	 "outputs":[{"name":"","type":"address"}]}
]`

type Client struct {
	contract *chain.Contract
}

func New(backend chain.Backend) (*Client, error) {
	c, err := chain.NewContract(ABI, backend)
	if err != nil {
		return nil, err
	}

	return &Client{contract: c}, nil
}

// OwnerOf returns the current owner of tokenID on the registry at addr
func (c *Client) OwnerOf(ctx context.Context, registry string, tokenID *big.Int) (common.Address, error) {
	addr, err := chain.ParseAddress(registry)
	if err != nil {
		return common.Address{}, err
	}

	out, err := c.contract.Call(ctx, addr, "ownerOf", tokenID)
	if err != nil {
		return common.Address{}, err
	}

	if len(out) != 1 {
		return common.Address{}, errors.Errorf("unexpected %d results from ownerOf", len(out))
	}

	owner, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, errors.Errorf("ownerOf returned %T", out[0])
	}

	return owner, nil
}
