package cryptography

import (
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"gopkg.in/square/go-jose.v2"
)

type VerificationMethodType string

var (
	ErrInvalidPublicKey         = errors.New("invalid public key")
	ErrInvalidPublicKeyLength   = errors.New("invalid public key length")
	ErrInvalidPublicKeyType     = errors.New("invalid public key type")
	ErrUnsupportedPublicKeyType = errors.New("unsupported public key type")
	ErrInvalidSignature         = errors.New("invalid signature")
)

const (
	EcdsaSecp256k1RecoveryMethod2020  VerificationMethodType = "EcdsaSecp256k1RecoveryMethod2020"
	EcdsaSecp256k1VerificationKey2019 VerificationMethodType = "EcdsaSecp256k1VerificationKey2019"
	Ed25519VerificationKey2018        VerificationMethodType = "Ed25519VerificationKey2018"
	Ed25519VerificationKey2020        VerificationMethodType = "Ed25519VerificationKey2020"
	JsonWebKey2020                    VerificationMethodType = "JsonWebKey2020"
	X25519KeyAgreementKey2019         VerificationMethodType = "X25519KeyAgreementKey2019"
)

type VerificationMethod struct {
	ID                  string                 `json:"id"`
	Type                VerificationMethodType `json:"type"`
	Controller          string                 `json:"controller"`
	PublicKeyJwk        json.RawMessage        `json:"publicKeyJwk,omitempty"`
	PublicKeyMultibase  string                 `json:"publicKeyMultibase,omitempty"`
	BlockchainAccountID string                 `json:"blockchainAccountId,omitempty"`
}

// SignatureValidator checks sig was produced over msg by the key described by vm
type SignatureValidator func(vm VerificationMethod, sig []byte, msg []byte) (bool, error)

var validators = map[VerificationMethodType]SignatureValidator{
	Ed25519VerificationKey2018:        ValidateEd25519,
	Ed25519VerificationKey2020:        ValidateEd25519,
	EcdsaSecp256k1VerificationKey2019: ValidateEcdsaSecp256k1,
	EcdsaSecp256k1RecoveryMethod2020:  ValidateEcdsaSecp256k1Recovery,
	JsonWebKey2020:                    ValidateJsonWebKey2020,
}

// Verify validates the signature with the validator registered for the
// verification method type
func Verify(vm VerificationMethod, sig []byte, msg []byte) error {
	validator, ok := validators[vm.Type]
	if !ok {
		return errors.Wrap(ErrUnsupportedPublicKeyType, string(vm.Type))
	}

	ok, err := validator(vm, sig, msg)
	if err != nil {
		return err
	}

	if !ok {
		return ErrInvalidSignature
	}

	return nil
}

// JWK decodes the publicKeyJwk member
func (vm VerificationMethod) JWK() (*jose.JSONWebKey, error) {
	if len(vm.PublicKeyJwk) == 0 {
		return nil, ErrInvalidPublicKey
	}

	jwk := &jose.JSONWebKey{}
	if err := jwk.UnmarshalJSON(vm.PublicKeyJwk); err != nil {
		return nil, errors.Wrap(err, "decoding jwk")
	}

	if !jwk.Valid() || !jwk.IsPublic() {
		return nil, ErrInvalidPublicKey
	}

	return jwk, nil
}

// Address returns the ethereum address the verification method is bound to.
// Both CAIP-10 (eip155:1:0xabc) and legacy (0xabc@eip155:1) account ids are
// accepted.
func (vm VerificationMethod) Address() (common.Address, error) {
	id := vm.BlockchainAccountID
	if id == "" {
		return common.Address{}, errors.Wrap(ErrInvalidPublicKey, "no blockchain account id")
	}

	if at := strings.Index(id, "@"); at >= 0 {
		id = id[:at]
	} else if colon := strings.LastIndex(id, ":"); colon >= 0 {
		id = id[colon+1:]
	}

	if !common.IsHexAddress(id) {
		return common.Address{}, errors.Wrapf(ErrInvalidPublicKey, "bad account id %q", vm.BlockchainAccountID)
	}

	return common.HexToAddress(id), nil
}
