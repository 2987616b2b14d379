package did

import (
	"crypto"
	"crypto/ed25519"
	"io"

	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/cryptography"
)

type PrivateIdentity interface {
	PrivateKey() crypto.PrivateKey
	PublicIdentity() (*PublicIdentity, error)

	// VerificationMethod is the key id signatures are attributed to
	VerificationMethod() string
	Sign(msg []byte) ([]byte, error)
}

// EthrIdentity is a secp256k1 key identified by its did:ethr address
type EthrIdentity struct {
	sk *cryptography.Secp256k1PrivateKey
}

func NewEthrIdentity(sk []byte) (*EthrIdentity, error) {
	k, err := cryptography.ParseSecp256k1PrivateKey(sk)
	if err != nil {
		return nil, err
	}

	return &EthrIdentity{k}, nil
}

func GenerateEthrIdentity() (*EthrIdentity, error) {
	k, err := cryptography.NewEcdsaSecp256k1PrivateKey()
	if err != nil {
		return nil, err
	}

	return &EthrIdentity{k}, nil
}

func (e *EthrIdentity) DID() string {
	return "did:ethr:" + e.sk.Address().Hex()
}

func (e *EthrIdentity) VerificationMethod() string {
	return e.DID() + "#controller"
}

func (e *EthrIdentity) Sign(msg []byte) ([]byte, error) {
	return e.sk.SignPersonal(msg)
}

func (e *EthrIdentity) PublicIdentity() (*PublicIdentity, error) {
	return &PublicIdentity{
		ID: e.DID(),
		PublicKeys: []PublicKey{{
			ID:      e.VerificationMethod(),
			Type:    cryptography.EcdsaSecp256k1RecoveryMethod2020,
			Key:     e.sk.Public(),
			Account: "eip155:1:" + e.sk.Address().Hex(),
		}},
	}, nil
}

func (e *EthrIdentity) PrivateKey() crypto.PrivateKey {
	return e.sk
}

// Ed25519Identity is an ed25519 key controlled by an externally hosted DID
// such as did:web
type Ed25519Identity struct {
	did string
	sk  ed25519.PrivateKey
}

func NewEd25519Identity(did string, sk []byte) (*Ed25519Identity, error) {
	if len(sk) != ed25519.PrivateKeySize {
		return nil, errors.New("invalid ed25519 private key length")
	}

	return &Ed25519Identity{did: did, sk: ed25519.PrivateKey(sk)}, nil
}

func GenerateEd25519Identity(did string, rand io.Reader) (*Ed25519Identity, error) {
	_, sk, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, err
	}

	return &Ed25519Identity{did: did, sk: sk}, nil
}

func (e *Ed25519Identity) DID() string {
	return e.did
}

func (e *Ed25519Identity) VerificationMethod() string {
	return e.did + "#key-1"
}

func (e *Ed25519Identity) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(e.sk, msg), nil
}

func (e *Ed25519Identity) PublicIdentity() (*PublicIdentity, error) {
	pk := e.sk.Public().(ed25519.PublicKey)

	return &PublicIdentity{
		ID: e.did,
		PublicKeys: []PublicKey{{
			ID:   e.VerificationMethod(),
			Type: cryptography.Ed25519VerificationKey2018,
			Key:  pk,
		}},
	}, nil
}

func (e *Ed25519Identity) PrivateKey() crypto.PrivateKey {
	return e.sk
}
