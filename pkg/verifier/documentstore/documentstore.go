package documentstore

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/fragment"
	"github.com/tcfw/docverify/pkg/verifier"
)

const (
	Name = "OpenAttestationEthereumDocumentStoreStatus"

	skipMessage = `Document issuers doesn't have "documentStore" property or DOCUMENT_STORE method`
)

var codes = fragment.DocumentStoreStatusCodes

// StoreReader is the read side of a document store contract
type StoreReader interface {
	IsIssued(ctx context.Context, store string, h document.Hash) (bool, error)
	IsRevoked(ctx context.Context, store string, h document.Hash) (bool, error)
}

type checker struct {
	reader StoreReader
}

func New(reader StoreReader) verifier.Verifier {
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
		if iss.IdentityProof.Method == document.ProofMethodDocumentStore || iss.DocumentStore != "" {
			return true
		}
	}

	return false
}

type storeStatus struct {
	issuance   verifier.IssuanceStatus
	revocation verifier.RevocationStatus
}

func (c *checker) check(ctx context.Context, doc *document.Document, opts *verifier.Options) (fragment.Outcome, error) {
	stores := doc.DocumentStores()
	if len(stores) == 0 {
		return fragment.Outcome{}, errors.New("no document store address found on issuers")
	}

	root, err := doc.Signature.Root()
	if err != nil {
		return fragment.Outcome{}, errors.Wrap(err, "reading merkle root")
	}

	hashes, err := doc.Signature.IntermediateHashes()
	if err != nil {
		return fragment.Outcome{}, errors.Wrap(err, "reading intermediate hashes")
	}

	if hashes[len(hashes)-1] != root {
		hashes = append(hashes, root)
	}

	results := verifier.Gather(ctx, stores, opts.Limit(), func(ctx context.Context, store string) (storeStatus, error) {
		return storeStatus{
			issuance:   c.issuance(ctx, store, root),
			revocation: c.revocation(ctx, store, hashes, opts.Limit()),
		}, nil
	})

	issuance := make([]verifier.IssuanceStatus, 0, len(results))
	revocation := make([]verifier.RevocationStatus, 0, len(results))

	for _, r := range results {
		if r.Err != nil {
			issuance = append(issuance, verifier.IssuanceStatus{Identifier: r.Key, Reason: r.Err.Error()})
			revocation = append(revocation, verifier.RevocationStatus{Identifier: r.Key, Revoked: true, Reason: r.Err.Error()})
			continue
		}

		issuance = append(issuance, r.Value.issuance)
		revocation = append(revocation, r.Value.revocation)
	}

	data := verifier.IssuanceData{
		Issuance:   verifier.NewDetails(doc, issuance),
		Revocation: verifier.NewDetails(doc, revocation),
	}

	if s, ok := data.FirstNotIssued(); ok {
		return fragment.Invalid(data, codes.DocumentNotIssued.Reason(s.Reason)), nil
	}

	if s, ok := data.FirstRevoked(); ok {
		return fragment.Invalid(data, codes.DocumentRevoked.Reason(s.Reason)), nil
	}

	return fragment.Valid(data), nil
}

func (c *checker) issuance(ctx context.Context, store string, root document.Hash) verifier.IssuanceStatus {
	s := verifier.IssuanceStatus{Identifier: store}

	issued, err := c.reader.IsIssued(ctx, store, root)
	switch {
	case err != nil:
		s.Reason = err.Error()
	case !issued:
		s.Reason = fmt.Sprintf("Document %s has not been issued under contract %s", root.Hex(), store)
	default:
		s.Issued = true
	}

	return s
}

// revocation checks every hash on the merkle path; revoking any of them
// revokes the document. A failed lookup counts as revoked.
func (c *checker) revocation(ctx context.Context, store string, hashes []document.Hash, limit int) verifier.RevocationStatus {
	results := verifier.Gather(ctx, hashes, limit, func(ctx context.Context, h document.Hash) (bool, error) {
		return c.reader.IsRevoked(ctx, store, h)
	})

	for _, r := range results {
		if r.Err != nil {
			return verifier.RevocationStatus{Identifier: store, Revoked: true, Reason: r.Err.Error()}
		}

		if r.Value {
			return verifier.RevocationStatus{
				Identifier: store,
				Revoked:    true,
				Reason:     fmt.Sprintf("Document %s has been revoked under contract %s", r.Key.Hex(), store),
			}
		}
	}

	return verifier.RevocationStatus{Identifier: store}
}
