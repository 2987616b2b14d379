package tokenregistry

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/docverify/pkg/chain"
	"github.com/tcfw/docverify/pkg/chain/mock"
)

func TestOwnerOf(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(ABI))
	require.NoError(t, err)

	registry := common.HexToAddress("0xe59877ac86c0310e9ddaeb627f42fdee5f793fbe")
	owner := common.HexToAddress("0x6ffed6e6591b808130a9b248fea32101b5220eca")

	b := mock.NewBackend(parsed)
	b.Deploy(registry)
	b.Handlers["ownerOf"] = func(_ common.Address, args []interface{}) ([]interface{}, error) {
		if args[0].(*big.Int).Cmp(big.NewInt(1)) == 0 {
			return []interface{}{owner}, nil
		}
		return nil, errors.New("execution reverted: ERC721: owner query for nonexistent token")
	}

	c, err := New(b)
	require.NoError(t, err)

	got, err := c.OwnerOf(context.Background(), registry.Hex(), big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	_, err = c.OwnerOf(context.Background(), registry.Hex(), big.NewInt(2))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent token")

	_, err = c.OwnerOf(context.Background(), common.Address{}.Hex(), big.NewInt(1))
	assert.Equal(t, chain.ErrContractNotDeployed, err)
}
