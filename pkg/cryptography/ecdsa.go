package cryptography

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"io"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const secp256k1SignatureLength = 65

type Secp256k1PrivateKey struct {
	*ecdsa.PrivateKey
}

func NewEcdsaSecp256k1PrivateKey() (*Secp256k1PrivateKey, error) {
	pk, err := ecdsa.GenerateKey(ethCrypto.S256(), rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generating ecdsa key")
	}

	return &Secp256k1PrivateKey{pk}, nil
}

func ParseSecp256k1PrivateKey(d []byte) (*Secp256k1PrivateKey, error) {
	pk, err := ethCrypto.ToECDSA(d)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshalling ecdsa key")
	}

	return &Secp256k1PrivateKey{pk}, nil
}

func (p *Secp256k1PrivateKey) Bytes() ([]byte, error) {
	return ethCrypto.FromECDSA(p.PrivateKey), nil
}

// Sign signs a 32 byte digest. Longer input is hashed with keccak256 first.
func (p *Secp256k1PrivateKey) Sign(_ io.Reader, digest []byte, _ crypto.SignerOpts) ([]byte, error) {
	dig := digest

	if len(dig) != 32 {
		dig = ethCrypto.Keccak256(digest)
	}

	return ethCrypto.Sign(dig, p.PrivateKey)
}

// SignPersonal produces an EIP-191 personal message signature with a 27/28
// recovery id, as wallets do
func (p *Secp256k1PrivateKey) SignPersonal(msg []byte) ([]byte, error) {
	sig, err := ethCrypto.Sign(accounts.TextHash(msg), p.PrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "signing message")
	}

	sig[64] += 27
	return sig, nil
}

func (p *Secp256k1PrivateKey) Address() common.Address {
	return ethCrypto.PubkeyToAddress(p.PublicKey)
}

func (p *Secp256k1PrivateKey) Public() crypto.PublicKey {
	return &Secp256k1PublicKey{p.PublicKey}
}

func NewSecp256k1PublicKey(d []byte) (*Secp256k1PublicKey, error) {
	pub, err := ethCrypto.UnmarshalPubkey(d)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshalling ecdsa pub key")
	}

	return &Secp256k1PublicKey{*pub}, nil
}

type Secp256k1PublicKey struct {
	ecdsa.PublicKey
}

func (p *Secp256k1PublicKey) Bytes() ([]byte, error) {
	return ethCrypto.FromECDSAPub(&p.PublicKey), nil
}

func (p *Secp256k1PublicKey) Verify(sig, digest []byte) (bool, error) {
	if len(sig) == secp256k1SignatureLength {
		sig = sig[:64]
	}

	return ethCrypto.VerifySignature(
		ethCrypto.FromECDSAPub(&p.PublicKey),
		digest,
		sig,
	), nil
}

// ValidateEcdsaSecp256k1 checks a signature over keccak256(msg) against a
// multibase encoded public key
func ValidateEcdsaSecp256k1(vm VerificationMethod, signature []byte, msg []byte) (bool, error) {
	pkbytes, err := decodeMultibase(vm.PublicKeyMultibase)
	if err != nil {
		return false, errors.Wrap(err, "decoding multibase")
	}

	pub, err := NewSecp256k1PublicKey(pkbytes)
	if err != nil {
		return false, errors.Wrap(err, "unmarshalling public key")
	}

	return pub.Verify(signature, ethCrypto.Keccak256(msg))
}

// ValidateEcdsaSecp256k1Recovery recovers the signer of a personal message
// signature and compares it with the verification method's account
func ValidateEcdsaSecp256k1Recovery(vm VerificationMethod, signature []byte, msg []byte) (bool, error) {
	expected, err := vm.Address()
	if err != nil {
		return false, err
	}

	if len(signature) != secp256k1SignatureLength {
		return false, nil
	}

	sig := make([]byte, secp256k1SignatureLength)
	copy(sig, signature)

	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := ethCrypto.SigToPub(accounts.TextHash(msg), sig)
	if err != nil {
		return false, nil
	}

	return ethCrypto.PubkeyToAddress(*pub) == expected, nil
}
