package document

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

type Version string

const (
	// V2 documents may carry multiple issuers each with their own identity proof
	V2 Version = "2.0"
	// V3 documents carry exactly one issuer
	V3 Version = "3.0"
)

// ProofMethod is the identity proof tag carried by an issuer. It determines
// which verifiers apply to that issuer.
type ProofMethod string

const (
	ProofMethodDocumentStore ProofMethod = "DOCUMENT_STORE"
	ProofMethodTokenRegistry ProofMethod = "TOKEN_REGISTRY"
	ProofMethodDID           ProofMethod = "DID"
	ProofMethodDNSDID        ProofMethod = "DNS_DID"
)

type RevocationType string

const (
	RevocationNone          RevocationType = "NONE"
	RevocationStore         RevocationType = "REVOCATION_STORE"
	RevocationOCSPResponder RevocationType = "OCSP_RESPONDER"
)

var (
	ErrNoIssuers          = errors.New("document has no issuers")
	ErrUnknownProofMethod = errors.New("unknown identity proof method")
)

type Document struct {
	Version   Version          `json:"version"`
	Issuers   []Issuer         `json:"issuers"`
	Signature Signature        `json:"signature"`
	Proof     []SignatureProof `json:"proof,omitempty"`
}

type Issuer struct {
	ID            string        `json:"id,omitempty"`
	Name          string        `json:"name,omitempty"`
	IdentityProof IdentityProof `json:"identityProof"`
	Revocation    *Revocation   `json:"revocation,omitempty"`

	//legacy v2 address fields
	DocumentStore string `json:"documentStore,omitempty"`
	TokenRegistry string `json:"tokenRegistry,omitempty"`
}

type IdentityProof struct {
	Method   ProofMethod `json:"method"`
	Value    string      `json:"value,omitempty"`
	Key      string      `json:"key,omitempty"`
	Location string      `json:"location,omitempty"`
}

type Revocation struct {
	Type     RevocationType `json:"type"`
	Location string         `json:"location,omitempty"`
}

// SignatureProof binds a verification method to a signature over the merkle root
type SignatureProof struct {
	Type               string `json:"type"`
	Created            string `json:"created,omitempty"`
	ProofPurpose       string `json:"proofPurpose,omitempty"`
	VerificationMethod string `json:"verificationMethod"`
	Signature          string `json:"signature"`
}

// Parse decodes a normalized document and checks its structural invariants
func Parse(b []byte) (*Document, error) {
	d := &Document{}
	if err := json.Unmarshal(b, d); err != nil {
		return nil, errors.Wrap(err, "unmarshalling document")
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate checks the document has at least one issuer and every issuer
// carries a known proof method
func (d *Document) Validate() error {
	if len(d.Issuers) == 0 {
		return ErrNoIssuers
	}

	for i, iss := range d.Issuers {
		if !iss.IdentityProof.Method.Known() {
			return errors.Wrapf(ErrUnknownProofMethod, "issuer %d: %q", i, iss.IdentityProof.Method)
		}
	}

	return nil
}

func (m ProofMethod) Known() bool {
	switch m {
	case ProofMethodDocumentStore, ProofMethodTokenRegistry, ProofMethodDID, ProofMethodDNSDID:
		return true
	default:
		return false
	}
}

// IsSingleIssuer reports whether status details should be flattened to a
// single object rather than a per-issuer list
func (d *Document) IsSingleIssuer() bool {
	return d.Version == V3
}

// TokenRegistries returns the distinct token registry addresses referenced by
// issuers in discovery order
func (d *Document) TokenRegistries() []string {
	return d.distinct(func(iss Issuer) string {
		return iss.TokenRegistryAddress()
	})
}

// DocumentStores returns the distinct document store addresses referenced by
// issuers in discovery order
func (d *Document) DocumentStores() []string {
	return d.distinct(func(iss Issuer) string {
		return iss.DocumentStoreAddress()
	})
}

func (d *Document) distinct(f func(Issuer) string) []string {
	seen := map[string]struct{}{}
	var out []string

	for _, iss := range d.Issuers {
		v := f(iss)
		if v == "" {
			continue
		}

		k := strings.ToLower(v)
		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}
		out = append(out, v)
	}

	return out
}

// FindProof returns the proof entry signed by the given verification method
func (d *Document) FindProof(verificationMethod string) (*SignatureProof, bool) {
	for i := range d.Proof {
		if d.Proof[i].VerificationMethod == verificationMethod {
			return &d.Proof[i], true
		}
	}

	return nil, false
}

func (i Issuer) TokenRegistryAddress() string {
	if i.IdentityProof.Method == ProofMethodTokenRegistry && i.IdentityProof.Value != "" {
		return i.IdentityProof.Value
	}

	return i.TokenRegistry
}

func (i Issuer) DocumentStoreAddress() string {
	if i.IdentityProof.Method == ProofMethodDocumentStore && i.IdentityProof.Value != "" {
		return i.IdentityProof.Value
	}

	return i.DocumentStore
}

// ContractAddress is the document store or token registry the issuer is bound to
func (i Issuer) ContractAddress() string {
	if a := i.DocumentStoreAddress(); a != "" {
		return a
	}

	return i.TokenRegistryAddress()
}

// DID returns the issuer DID, falling back to the DID part of the key
func (i Issuer) DID() string {
	if i.IdentityProof.Value != "" {
		return i.IdentityProof.Value
	}

	if i.ID != "" && strings.HasPrefix(i.ID, "did:") {
		return i.ID
	}

	return strings.SplitN(i.IdentityProof.Key, "#", 2)[0]
}

// VerificationMethod returns the key the issuer is expected to sign with
func (i Issuer) VerificationMethod() string {
	if i.IdentityProof.Key != "" {
		return i.IdentityProof.Key
	}

	return i.DID() + "#controller"
}

func (i Issuer) IsDIDSigned() bool {
	switch i.IdentityProof.Method {
	case ProofMethodDID, ProofMethodDNSDID:
		return true
	default:
		return false
	}
}
