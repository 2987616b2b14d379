package tokenregistry

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/fragment"
	"github.com/tcfw/docverify/pkg/verifier"
)

const (
	Name = "OpenAttestationEthereumTokenRegistryStatus"

	skipMessage      = `Document issuers doesn't have "tokenRegistry" property or TOKEN_REGISTRY method`
	notMintedMessage = "Document has not been issued under token registry"
)

var codes = fragment.TokenRegistryStatusCodes

// OwnerReader reads the owner of a token on a registry contract
type OwnerReader interface {
	OwnerOf(ctx context.Context, registry string, tokenID *big.Int) (common.Address, error)
}

type MintedStatus struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Minted     bool   `json:"minted" yaml:"minted"`
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type Data struct {
	Details verifier.Details[MintedStatus]
}

// MintedOnAll is true when the document was minted on every registry
func (d Data) MintedOnAll() bool {
	for _, s := range d.Details.Items {
		if !s.Minted {
			return false
		}
	}

	return true
}

type wireData struct {
	MintedOnAll bool                           `json:"mintedOnAll" yaml:"mintedOnAll"`
	Details     verifier.Details[MintedStatus] `json:"details" yaml:"details"`
}

func (d Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireData{MintedOnAll: d.MintedOnAll(), Details: d.Details})
}

func (d Data) MarshalYAML() (interface{}, error) {
	return wireData{MintedOnAll: d.MintedOnAll(), Details: d.Details}, nil
}

type checker struct {
	reader OwnerReader
}

func New(reader OwnerReader) verifier.Verifier {
	c := &checker{reader: reader}

	return verifier.New(verifier.Definition{
		Name:        Name,
		Type:        fragment.TypeDocumentStatus,
		Codes:       codes.CodeSet,
		SkipMessage: skipMessage,
		Test:        test,
		Check:       c.check,
	})
}

func test(doc *document.Document, _ *verifier.Options) bool {
	for _, iss := range doc.Issuers {
		if iss.IdentityProof.Method == document.ProofMethodTokenRegistry || iss.TokenRegistry != "" {
			return true
		}
	}

	return false
}

func (c *checker) check(ctx context.Context, doc *document.Document, opts *verifier.Options) (fragment.Outcome, error) {
	registries := doc.TokenRegistries()
	switch {
	case len(registries) == 0:
		return fragment.Outcome{}, errors.New("no token registry address found on issuers")
	case len(registries) > 1:
		return fragment.Outcome{}, errors.Errorf("Only one token registry is allowed. Found %d", len(registries))
	}

	if err := doc.Signature.Validate(); err != nil {
		return fragment.Outcome{}, errors.Wrap(err, "malformed signature")
	}

	tokenID, err := doc.Signature.TokenID()
	if err != nil {
		return fragment.Outcome{}, errors.Wrap(err, "reading token id")
	}

	results := verifier.Gather(ctx, registries, opts.Limit(), func(ctx context.Context, registry string) (common.Address, error) {
		return c.reader.OwnerOf(ctx, registry, tokenID)
	})

	statuses := make([]MintedStatus, 0, len(results))
	for _, r := range results {
		s := MintedStatus{Identifier: r.Key}

		switch {
		case r.Err != nil:
			s.Reason = r.Err.Error()
		case r.Value == (common.Address{}):
			s.Reason = notMintedMessage
		default:
			s.Minted = true
		}

		statuses = append(statuses, s)
	}

	data := Data{Details: verifier.NewDetails(doc, statuses)}

	if !data.MintedOnAll() {
		for _, s := range statuses {
			if !s.Minted {
				return fragment.Invalid(data, codes.DocumentNotMinted.Reason(s.Reason)), nil
			}
		}
	}

	return fragment.Valid(data), nil
}
