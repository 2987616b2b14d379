package document

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

const (
	HashLength = 32

	SignatureTypeMerkleProof = "SHA3MerkleProof"
)

var (
	ErrInvalidHash = errors.New("invalid hash")
)

type Signature struct {
	Type       string   `json:"type"`
	TargetHash string   `json:"targetHash"`
	Proof      []string `json:"proof,omitempty"`
	MerkleRoot string   `json:"merkleRoot"`
}

// Hash is a 32 byte keccak256 digest as used by the signature block
type Hash [HashLength]byte

func ParseHash(s string) (Hash, error) {
	var h Hash

	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return h, errors.Wrapf(ErrInvalidHash, "%q: empty", s)
	}

	raw, err := hex.DecodeString(digits)
	if err != nil {
		return h, errors.Wrapf(ErrInvalidHash, "%q: %s", s, err)
	}

	if len(raw) > HashLength {
		return h, errors.Wrapf(ErrInvalidHash, "%q: too long", s)
	}

	//left pad
	copy(h[HashLength-len(raw):], raw)

	return h, nil
}

func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Root returns the merkle root as a hash
func (s Signature) Root() (Hash, error) {
	return ParseHash(s.MerkleRoot)
}

// Validate checks the merkle root, target hash and every proof entry are
// well formed hashes. It does not check the proof path leads to the root.
func (s Signature) Validate() error {
	if _, err := s.Root(); err != nil {
		return errors.Wrap(err, "merkle root")
	}

	if _, err := s.IntermediateHashes(); err != nil {
		return err
	}

	return nil
}

// SigningMessage is the payload DID issuers sign: the 0x prefixed lower case
// merkle root
func (s Signature) SigningMessage() ([]byte, error) {
	h, err := s.Root()
	if err != nil {
		return nil, err
	}

	return []byte(h.Hex()), nil
}

// TokenID returns the merkle root as the on-chain token identifier
func (s Signature) TokenID() (*big.Int, error) {
	h, err := s.Root()
	if err != nil {
		return nil, err
	}

	return new(big.Int).SetBytes(h[:]), nil
}

// IntermediateHashes returns every hash on the path from the target hash to
// the merkle root, both inclusive
func (s Signature) IntermediateHashes() ([]Hash, error) {
	cur, err := ParseHash(s.TargetHash)
	if err != nil {
		return nil, errors.Wrap(err, "target hash")
	}

	hashes := []Hash{cur}

	for i, p := range s.Proof {
		sibling, err := ParseHash(p)
		if err != nil {
			return nil, errors.Wrapf(err, "proof %d", i)
		}

		cur = CombineHashes(cur, sibling)
		hashes = append(hashes, cur)
	}

	return hashes, nil
}

// VerifyProof checks that folding the proof path over the target hash yields
// the merkle root
func (s Signature) VerifyProof() (bool, error) {
	root, err := s.Root()
	if err != nil {
		return false, errors.Wrap(err, "merkle root")
	}

	hashes, err := s.IntermediateHashes()
	if err != nil {
		return false, err
	}

	return hashes[len(hashes)-1] == root, nil
}

// CombineHashes hashes a sorted pair so proofs don't need to carry left/right
func CombineHashes(a, b Hash) Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(a[:])
	hasher.Write(b[:])

	var out Hash
	copy(out[:], hasher.Sum(nil))
	return out
}
