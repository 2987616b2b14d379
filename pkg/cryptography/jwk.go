package cryptography

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/sha256"
	"math/big"

	"github.com/pkg/errors"
)

// ValidateJsonWebKey2020 supports Ed25519 (OKP) and P-256 keys. ECDSA
// signatures are expected in the JWS r||s form over sha256(msg).
func ValidateJsonWebKey2020(vm VerificationMethod, sig []byte, msg []byte) (bool, error) {
	jwk, err := vm.JWK()
	if err != nil {
		return false, err
	}

	switch k := jwk.Key.(type) {
	case ed25519.PublicKey:
		return ed25519.Verify(k, msg, sig), nil
	case *ecdsa.PublicKey:
		size := (k.Curve.Params().BitSize + 7) / 8
		if len(sig) != 2*size {
			return false, nil
		}

		h := sha256.Sum256(msg)
		r := new(big.Int).SetBytes(sig[:size])
		s := new(big.Int).SetBytes(sig[size:])

		return ecdsa.Verify(k, h[:], r, s), nil
	default:
		return false, errors.Wrapf(ErrUnsupportedPublicKeyType, "%T", k)
	}
}
