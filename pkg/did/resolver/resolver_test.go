package resolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/docverify/pkg/cryptography"
	"github.com/tcfw/docverify/pkg/did/w3cdid"
)

const ethrAddr = "0x6FFED6E6591b808130a9b248fEA32101b5220eca"

func TestResolveEthr(t *testing.T) {
	r := New()

	addr := common.HexToAddress(ethrAddr).Hex()

	tests := map[string]string{
		"did:ethr:" + ethrAddr:                 "eip155:1:" + addr,
		"did:ethr:sepolia:" + ethrAddr:         "eip155:11155111:" + addr,
		"did:ethr:0x89:" + ethrAddr:            "eip155:137:" + addr,
		"did:ethr:" + ethrAddr + "#controller": "eip155:1:" + addr,
	}

	for k, account := range tests {
		t.Run(k, func(t *testing.T) {
			doc, err := r.Resolve(context.Background(), w3cdid.URL(k))
			require.NoError(t, err)

			base := string(w3cdid.URL(k).Base())
			assert.Equal(t, base, doc.ID)

			vm, ok := doc.FindVerificationMethod(base + "#controller")
			require.True(t, ok)
			assert.Equal(t, cryptography.EcdsaSecp256k1RecoveryMethod2020, vm.Type)
			assert.Equal(t, account, vm.BlockchainAccountID)
		})
	}
}

func TestResolveEthrPublicKey(t *testing.T) {
	sk, err := cryptography.NewEcdsaSecp256k1PrivateKey()
	require.NoError(t, err)

	compressed := "0x" + strings.ToLower(compressedHex(t, sk))

	doc, err := New().Resolve(context.Background(), w3cdid.URL("did:ethr:"+compressed))
	require.NoError(t, err)

	addr, err := doc.VerificationMethod[0].Address()
	require.NoError(t, err)
	assert.Equal(t, sk.Address(), addr)
}

func TestResolveErrors(t *testing.T) {
	r := New()

	_, err := r.Resolve(context.Background(), "did:key:z6Mk")
	assert.Equal(t, ErrUnknownMethod, err)

	_, err = r.Resolve(context.Background(), "not-a-did")
	assert.ErrorIs(t, err, ErrInvalidDID)

	_, err = r.Resolve(context.Background(), "did:ethr:nowhere:"+ethrAddr)
	assert.ErrorIs(t, err, ErrInvalidDID)

	_, err = r.Resolve(context.Background(), "did:ethr:0x1234")
	assert.ErrorIs(t, err, ErrInvalidDID)
}

func TestWebURL(t *testing.T) {
	tests := map[string]string{
		"did:web:example.com":                  "https://example.com/.well-known/did.json",
		"did:web:example.com:user:alice":       "https://example.com/user/alice/did.json",
		"did:web:localhost%3A8443":             "https://localhost:8443/.well-known/did.json",
		"did:web:localhost%3A8443:issuers:abc": "https://localhost:8443/issuers/abc/did.json",
	}

	for k, expect := range tests {
		t.Run(k, func(t *testing.T) {
			u, err := webURL(w3cdid.URL(k))
			require.NoError(t, err)
			assert.Equal(t, expect, u)
		})
	}
}

func TestResolveWeb(t *testing.T) {
	var did string

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/.well-known/did.json":
			json.NewEncoder(w).Encode(w3cdid.Document{
				Context: []string{w3cdid.ContextV1},
				ID:      did,
				VerificationMethod: []cryptography.VerificationMethod{{
					ID:                 "#key-1",
					Type:               cryptography.Ed25519VerificationKey2018,
					Controller:         did,
					PublicKeyMultibase: "z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK",
				}},
			})
		case "/wrong/did.json":
			json.NewEncoder(w).Encode(w3cdid.Document{ID: "did:web:elsewhere.com"})
		default:
			http.NotFound(w, req)
		}
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "https://")
	did = "did:web:" + strings.ReplaceAll(host, ":", "%3A")

	r := New(WithHTTPClient(srv.Client()))

	doc, err := r.Resolve(context.Background(), w3cdid.URL(did+"#key-1"))
	require.NoError(t, err)
	assert.Equal(t, did, doc.ID)

	_, ok := doc.FindVerificationMethod(did + "#key-1")
	assert.True(t, ok)

	_, err = r.Resolve(context.Background(), w3cdid.URL(did+":missing"))
	assert.Equal(t, ErrNotFound, err)

	_, err = r.Resolve(context.Background(), w3cdid.URL(did+":wrong"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

type countingResolver struct {
	calls int32
}

func (c *countingResolver) Resolve(_ context.Context, d w3cdid.URL) (*w3cdid.Document, error) {
	atomic.AddInt32(&c.calls, 1)

	if d.Method() != "ethr" {
		return nil, ErrUnknownMethod
	}

	return New().Resolve(context.Background(), d)
}

func TestCached(t *testing.T) {
	next := &countingResolver{}

	c, err := NewCached(next, 2)
	require.NoError(t, err)

	d := w3cdid.URL("did:ethr:" + ethrAddr)

	first, err := c.Resolve(context.Background(), d+"#controller")
	require.NoError(t, err)

	first.VerificationMethod[0].BlockchainAccountID = "tampered"

	second, err := c.Resolve(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&next.calls))
	assert.Equal(t, "eip155:1:"+common.HexToAddress(ethrAddr).Hex(), second.VerificationMethod[0].BlockchainAccountID)

	_, err = c.Resolve(context.Background(), "did:web:example.com")
	assert.Equal(t, ErrUnknownMethod, err)

	_, err = c.Resolve(context.Background(), "did:web:example.com")
	assert.Equal(t, ErrUnknownMethod, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&next.calls))
}
