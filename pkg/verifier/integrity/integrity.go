package integrity

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/fragment"
	"github.com/tcfw/docverify/pkg/verifier"
)

const (
	Name = "OpenAttestationHash"

	skipMessage     = "Document does not have merkle root, target hash or data."
	tamperedMessage = "Document has been tampered with"
)

var codes = fragment.HashCodes

// New returns the merkle proof check. It confirms the signature block is self
// consistent: folding the proof path over the target hash must give the merkle
// root. The target hash is taken as given and is not recomputed from the
// document data, so a DOCUMENT_TAMPERED result means the signature block was
// altered, and data changed together with a matching target hash goes unseen.
func New() verifier.Verifier {
	return verifier.New(verifier.Definition{
		Name:        Name,
		Type:        fragment.TypeDocumentIntegrity,
		Codes:       codes.CodeSet,
		SkipMessage: skipMessage,
		Test:        test,
		Check:       check,
	})
}

func test(doc *document.Document, _ *verifier.Options) bool {
	return doc.Signature.MerkleRoot != "" && doc.Signature.TargetHash != ""
}

func check(_ context.Context, doc *document.Document, _ *verifier.Options) (fragment.Outcome, error) {
	ok, err := doc.Signature.VerifyProof()
	if err != nil {
		return fragment.Outcome{}, errors.Wrap(err, "checking merkle proof")
	}

	if !ok {
		return fragment.Invalid(false, codes.DocumentTampered.Reason(tamperedMessage)), nil
	}

	return fragment.Valid(true), nil
}
