package resolver

import (
	"encoding/hex"
	"testing"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tcfw/docverify/pkg/cryptography"
)

func compressedHex(t *testing.T, sk *cryptography.Secp256k1PrivateKey) string {
	t.Helper()
	return hex.EncodeToString(ethCrypto.CompressPubkey(&sk.PublicKey))
}
