package did

import (
	"crypto"

	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/cryptography"
	"github.com/tcfw/docverify/pkg/did/w3cdid"
)

type PublicIdentity struct {
	ID         string
	PublicKeys []PublicKey
}

type PublicKey struct {
	ID   string
	Type cryptography.VerificationMethodType
	Key  crypto.PublicKey

	// Account is the CAIP-10 account id for recovery based methods
	Account string
}

// Document renders the identity as a DID document
func (p *PublicIdentity) Document() (*w3cdid.Document, error) {
	doc := &w3cdid.Document{
		Context: []string{w3cdid.ContextV1},
		ID:      p.ID,
	}

	for _, pk := range p.PublicKeys {
		vm := cryptography.VerificationMethod{
			ID:         pk.ID,
			Type:       pk.Type,
			Controller: p.ID,
		}

		if pk.Account != "" {
			vm.BlockchainAccountID = pk.Account
		} else {
			mb, err := cryptography.EncodeMultibase(pk.Key)
			if err != nil {
				return nil, errors.Wrap(err, "encoding public key")
			}
			vm.PublicKeyMultibase = mb
		}

		doc.VerificationMethod = append(doc.VerificationMethod, vm)
		doc.AssertionMethod = append(doc.AssertionMethod, pk.ID)
	}

	return doc, nil
}
