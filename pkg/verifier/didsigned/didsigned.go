package didsigned

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/tcfw/docverify/internal/utils/logging"
	"github.com/tcfw/docverify/pkg/did"
	"github.com/tcfw/docverify/pkg/did/w3cdid"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/fragment"
	"github.com/tcfw/docverify/pkg/verifier"
)

const (
	Name = "OpenAttestationDidSignedDocumentStatus"

	skipMessage = "Document was not signed by DID directly"
)

var codes = fragment.DidSignedStatusCodes

var (
	ErrProofMissing      = errors.New("document is not signed, proof is missing")
	ErrRevocationMissing = errors.New("revocation block not found for issuer")
)

type failure int

const (
	failureNone failure = iota
	failureUnsigned
	failureWrongSignature
)

type issuerStatus struct {
	issuance   verifier.IssuanceStatus
	revocation *verifier.RevocationStatus
	failure    failure
}

type checker struct {
	resolver did.Resolver
}

func New(resolver did.Resolver) verifier.Verifier {
	c := &checker{resolver: resolver}

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
		switch iss.IdentityProof.Method {
		case document.ProofMethodDID, document.ProofMethodDNSDID:
			return true
		case document.ProofMethodDocumentStore, document.ProofMethodTokenRegistry:
		}
	}

	return false
}

func (c *checker) check(ctx context.Context, doc *document.Document, opts *verifier.Options) (fragment.Outcome, error) {
	if doc.Proof == nil {
		return fragment.Outcome{}, ErrProofMissing
	}

	var issuers []int
	for i, iss := range doc.Issuers {
		if !iss.IsDIDSigned() {
			continue
		}

		if iss.Revocation == nil {
			return fragment.Outcome{}, errors.Wrapf(ErrRevocationMissing, "%d", i)
		}

		issuers = append(issuers, i)
	}

	if err := doc.Signature.Validate(); err != nil {
		return fragment.Outcome{}, errors.Wrap(err, "malformed signature")
	}

	msg, err := doc.Signature.SigningMessage()
	if err != nil {
		return fragment.Outcome{}, errors.Wrap(err, "reading merkle root")
	}

	results := verifier.Gather(ctx, issuers, opts.Limit(), func(ctx context.Context, i int) (issuerStatus, error) {
		return c.checkIssuer(ctx, doc, doc.Issuers[i], msg), nil
	})

	statuses := make([]issuerStatus, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			statuses = append(statuses, issuerStatus{
				issuance: verifier.IssuanceStatus{Identifier: doc.Issuers[r.Key].DID(), Reason: r.Err.Error()},
				failure:  failureUnsigned,
			})
			continue
		}

		statuses = append(statuses, r.Value)
	}

	var (
		issuance   []verifier.IssuanceStatus
		revocation []verifier.RevocationStatus
	)

	for _, s := range statuses {
		issuance = append(issuance, s.issuance)
		if s.revocation != nil {
			revocation = append(revocation, *s.revocation)
		}
	}

	data := verifier.IssuanceData{
		Issuance:   verifier.NewDetails(doc, issuance),
		Revocation: verifier.NewDetails(doc, revocation),
	}

	for _, s := range statuses {
		switch s.failure {
		case failureUnsigned:
			return fragment.Invalid(data, codes.Unsigned.Reason(s.issuance.Reason)), nil
		case failureWrongSignature:
			return fragment.Invalid(data, codes.WrongSignature.Reason(s.issuance.Reason)), nil
		}
	}

	if s, ok := data.FirstRevoked(); ok {
		return fragment.Invalid(data, codes.DocumentRevoked.Reason(s.Reason)), nil
	}

	return fragment.Valid(data), nil
}

func (c *checker) checkIssuer(ctx context.Context, doc *document.Document, iss document.Issuer, msg []byte) issuerStatus {
	id := iss.DID()
	key := iss.VerificationMethod()

	st := issuerStatus{issuance: verifier.IssuanceStatus{Identifier: id}}

	resolved, err := c.resolver.Resolve(ctx, w3cdid.URL(id))
	if err != nil {
		logging.WithError(err).WithField("did", id).Debug("resolving issuer did")
		st.issuance.Reason = err.Error()
		st.failure = failureUnsigned
		return st
	}

	_, hasKey := resolved.FindVerificationMethod(key)
	proof, hasProof := doc.FindProof(key)
	if !hasKey || !hasProof {
		st.issuance.Reason = fmt.Sprintf("Proof not found for %s", key)
		st.failure = failureUnsigned
		return st
	}

	if err := verifyProof(resolved, key, proof, msg); err != nil {
		logging.WithError(err).WithField("key", key).Debug("verifying proof")
		st.issuance.Reason = fmt.Sprintf("Merkle root is not signed by %s", key)
		st.failure = failureWrongSignature
		return st
	}

	st.issuance.Issued = true
	st.revocation = revocationStatus(id, iss.Revocation)

	return st
}

func verifyProof(resolved *w3cdid.Document, key string, proof *document.SignatureProof, msg []byte) error {
	sig, err := hexutil.Decode(proof.Signature)
	if err != nil {
		return errors.Wrap(err, "decoding signature")
	}

	return resolved.Verify(key, sig, msg)
}

// revocationStatus only recognises NONE as not revoked. Any other declared
// mechanism is reported as revoked.
func revocationStatus(id string, r *document.Revocation) *verifier.RevocationStatus {
	s := &verifier.RevocationStatus{Identifier: id}

	if r.Type != document.RevocationNone {
		s.Revoked = true
		s.Reason = fmt.Sprintf("Revocation type %s for %s is not supported and is treated as revoked", r.Type, id)
	}

	return s
}
