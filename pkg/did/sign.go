package did

import (
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/document"
)

const (
	ProofTypeOpenAttestation = "OpenAttestationSignature2018"
	ProofPurposeAssertion    = "assertionMethod"
)

// SignDocument signs the document merkle root with id and records the
// signature in the document's proof array, replacing any earlier proof by
// the same verification method
func SignDocument(doc *document.Document, id PrivateIdentity, created time.Time) error {
	msg, err := doc.Signature.SigningMessage()
	if err != nil {
		return errors.Wrap(err, "reading merkle root")
	}

	sig, err := id.Sign(msg)
	if err != nil {
		return errors.Wrap(err, "signing merkle root")
	}

	proof := document.SignatureProof{
		Type:               ProofTypeOpenAttestation,
		Created:            created.UTC().Format(time.RFC3339),
		ProofPurpose:       ProofPurposeAssertion,
		VerificationMethod: id.VerificationMethod(),
		Signature:          hexutil.Encode(sig),
	}

	if existing, ok := doc.FindProof(proof.VerificationMethod); ok {
		*existing = proof
		return nil
	}

	if doc.Proof == nil {
		doc.Proof = []document.SignatureProof{}
	}

	doc.Proof = append(doc.Proof, proof)
	return nil
}
