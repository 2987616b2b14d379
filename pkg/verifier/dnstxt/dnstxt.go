package dnstxt

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/chain"
	"github.com/tcfw/docverify/pkg/dnsprove"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/fragment"
	"github.com/tcfw/docverify/pkg/verifier"
)

const (
	Name = "OpenAttestationDnsTxtIdentityProof"

	skipMessage = `Document issuers doesn't have "documentStore" / "tokenRegistry" property or doesn't use DNS-TXT type`
)

var codes = fragment.DnsTxtCodes

type checker struct {
	querier dnsprove.Querier
}

func New(q dnsprove.Querier) verifier.Verifier {
	c := &checker{querier: q}

	return verifier.New(verifier.Definition{
		Name:        Name,
		Type:        fragment.TypeIssuerIdentity,
		Codes:       codes.CodeSet,
		SkipMessage: skipMessage,
		Test:        test,
		Check:       c.check,
	})
}

func contractIssuer(iss document.Issuer) bool {
	switch iss.IdentityProof.Method {
	case document.ProofMethodDocumentStore, document.ProofMethodTokenRegistry:
		return true
	case document.ProofMethodDID, document.ProofMethodDNSDID:
	}

	return false
}

func test(doc *document.Document, _ *verifier.Options) bool {
	for _, iss := range doc.Issuers {
		if contractIssuer(iss) && iss.IdentityProof.Location != "" {
			return true
		}
	}

	return false
}

func (c *checker) check(ctx context.Context, doc *document.Document, opts *verifier.Options) (fragment.Outcome, error) {
	network := verifier.NetworkMainnet
	if opts != nil && opts.Network != "" {
		network = opts.Network
	}

	chainID, ok := chain.ChainID(network)
	if !ok {
		return fragment.Outcome{}, errors.Errorf("unknown network %q", network)
	}

	var issuers []document.Issuer
	for i, iss := range doc.Issuers {
		if !contractIssuer(iss) {
			continue
		}

		if iss.IdentityProof.Location == "" || iss.ContractAddress() == "" {
			return fragment.Outcome{}, fragment.NewError(codes.InvalidIssuers, "issuer %d is missing an identity proof location or contract address", i)
		}

		issuers = append(issuers, iss)
	}

	netID := strconv.FormatInt(chainID, 10)

	results := verifier.Gather(ctx, issuers, opts.Limit(), func(ctx context.Context, iss document.Issuer) (bool, error) {
		records, err := dnsprove.QueryTxtRecords(ctx, c.querier, iss.IdentityProof.Location)
		if err != nil {
			return false, err
		}

		for _, r := range records {
			if r.Net == "ethereum" && r.NetID == netID && strings.EqualFold(r.Addr, iss.ContractAddress()) {
				return true, nil
			}
		}

		return false, nil
	})

	statuses := make([]verifier.IdentityStatus, 0, len(results))
	for _, r := range results {
		s := verifier.IdentityStatus{
			Identifier: r.Key.ContractAddress(),
			Location:   r.Key.IdentityProof.Location,
			Identified: r.Err == nil && r.Value,
		}

		switch {
		case r.Err != nil:
			s.Reason = r.Err.Error()
		case !r.Value:
			s.Reason = "Matching DNS record not found for " + s.Identifier
		}

		statuses = append(statuses, s)
	}

	data := verifier.IdentityData{Details: verifier.NewDetails(doc, statuses)}

	if s, ok := data.FirstUnidentified(); ok {
		return fragment.Invalid(data, codes.MatchingRecordNotFound.Reason(s.Reason)), nil
	}

	return fragment.Valid(data), nil
}
