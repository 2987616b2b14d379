package dnsdid

import (
	"context"
	"strings"

	"github.com/tcfw/docverify/pkg/dnsprove"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/fragment"
	"github.com/tcfw/docverify/pkg/verifier"
)

const (
	Name = "OpenAttestationDnsDidIdentityProof"

	skipMessage = "Document was not issued using DNS-DID"
)

var codes = fragment.DnsDidCodes

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

func test(doc *document.Document, _ *verifier.Options) bool {
	for _, iss := range doc.Issuers {
		switch iss.IdentityProof.Method {
		case document.ProofMethodDNSDID:
			return true
		case document.ProofMethodDID, document.ProofMethodDocumentStore, document.ProofMethodTokenRegistry:
		}
	}

	return false
}

func (c *checker) check(ctx context.Context, doc *document.Document, opts *verifier.Options) (fragment.Outcome, error) {
	var issuers []document.Issuer
	for i, iss := range doc.Issuers {
		if iss.IdentityProof.Method != document.ProofMethodDNSDID {
			continue
		}

		if iss.IdentityProof.Location == "" || iss.IdentityProof.Key == "" {
			return fragment.Outcome{}, fragment.NewError(codes.MalformedIdentityProof, "issuer %d identity proof is missing a key or location", i)
		}

		issuers = append(issuers, iss)
	}

	results := verifier.Gather(ctx, issuers, opts.Limit(), func(ctx context.Context, iss document.Issuer) (bool, error) {
		records, err := dnsprove.QueryDidRecords(ctx, c.querier, iss.IdentityProof.Location)
		if err != nil {
			return false, err
		}

		for _, r := range records {
			if strings.EqualFold(r.PublicKey, iss.IdentityProof.Key) {
				return true, nil
			}
		}

		return false, nil
	})

	statuses := make([]verifier.IdentityStatus, 0, len(results))
	for _, r := range results {
		s := verifier.IdentityStatus{
			Identifier: r.Key.IdentityProof.Key,
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
