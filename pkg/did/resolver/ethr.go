package resolver

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/chain"
	"github.com/tcfw/docverify/pkg/cryptography"
	"github.com/tcfw/docverify/pkg/did/w3cdid"
)

// resolveEthr builds the implicit controller document of a did:ethr
// identifier. Registry delegates and attribute changes are not read.
func (r *Resolver) resolveEthr(d w3cdid.URL) (*w3cdid.Document, error) {
	network := "mainnet"
	id := d.Id()

	if i := strings.LastIndex(id, ":"); i >= 0 {
		network, id = id[:i], id[i+1:]
	}

	chainID, ok := chain.ChainID(network)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidDID, "unknown network %q", network)
	}

	addr, err := ethrAddress(id)
	if err != nil {
		return nil, err
	}

	controller := string(d) + "#controller"

	return &w3cdid.Document{
		Context: []string{w3cdid.ContextV1},
		ID:      string(d),
		VerificationMethod: []cryptography.VerificationMethod{{
			ID:                  controller,
			Type:                cryptography.EcdsaSecp256k1RecoveryMethod2020,
			Controller:          string(d),
			BlockchainAccountID: fmt.Sprintf("eip155:%d:%s", chainID, addr.Hex()),
		}},
		Authentication:  []string{controller},
		AssertionMethod: []string{controller},
	}, nil
}

// ethrAddress accepts either an address or a compressed public key
func ethrAddress(id string) (common.Address, error) {
	if common.IsHexAddress(id) {
		return common.HexToAddress(id), nil
	}

	raw, err := hexutil.Decode(id)
	if err != nil || len(raw) != 33 {
		return common.Address{}, errors.Wrapf(ErrInvalidDID, "bad ethr identifier %q", id)
	}

	pub, err := ethCrypto.DecompressPubkey(raw)
	if err != nil {
		return common.Address{}, errors.Wrap(ErrInvalidDID, err.Error())
	}

	return ethCrypto.PubkeyToAddress(*pub), nil
}
