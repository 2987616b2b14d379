package documentstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/fragment"
	"github.com/tcfw/docverify/pkg/verifier"
)

const (
	store   = "0x007d40224f6562461633ccfbaffd359ebb2fc9ba"
	target  = "0x0000000000000000000000000000000000000000000000000000000000000001"
	sibling = "0x0000000000000000000000000000000000000000000000000000000000000002"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) IsIssued(ctx context.Context, store string, h document.Hash) (bool, error) {
	args := m.Called(ctx, store, h)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) IsRevoked(ctx context.Context, store string, h document.Hash) (bool, error) {
	args := m.Called(ctx, store, h)
	return args.Bool(0), args.Error(1)
}

func hashes(t *testing.T) (document.Hash, document.Hash, document.Hash) {
	a, err := document.ParseHash(target)
	require.NoError(t, err)

	b, err := document.ParseHash(sibling)
	require.NoError(t, err)

	return a, b, document.CombineHashes(a, b)
}

func storeDoc(t *testing.T, version document.Version) *document.Document {
	_, _, root := hashes(t)

	return &document.Document{
		Version: version,
		Issuers: []document.Issuer{{
			Name:          "ACME",
			IdentityProof: document.IdentityProof{Method: document.ProofMethodDocumentStore, Value: store, Location: "example.com"},
		}},
		Signature: document.Signature{
			Type:       document.SignatureTypeMerkleProof,
			TargetHash: target,
			Proof:      []string{sibling},
			MerkleRoot: root.Hex(),
		},
	}
}

func TestTest(t *testing.T) {
	v := New(&mockStore{})

	assert.True(t, v.Test(storeDoc(t, document.V3), nil))
	assert.False(t, v.Test(&document.Document{Issuers: []document.Issuer{{IdentityProof: document.IdentityProof{Method: document.ProofMethodDID}}}}, nil))

	f := v.Skip(context.Background(), nil, nil)
	assert.Equal(t, &fragment.Reason{Code: 4, CodeString: "SKIPPED", Message: skipMessage}, f.Reason)
}

func TestVerifyIssued(t *testing.T) {
	targetHash, _, root := hashes(t)

	s := &mockStore{}
	s.On("IsIssued", mock.Anything, store, root).Return(true, nil)
	s.On("IsRevoked", mock.Anything, store, mock.Anything).Return(false, nil)

	f := New(s).Verify(context.Background(), storeDoc(t, document.V3), nil)

	assert.Equal(t, fragment.StatusValid, f.Status)
	s.AssertCalled(t, "IsRevoked", mock.Anything, store, targetHash)
	s.AssertCalled(t, "IsRevoked", mock.Anything, store, root)
	s.AssertNumberOfCalls(t, "IsRevoked", 2)

	b, err := json.Marshal(f.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"issuedOnAll": true,
		"revokedOnAny": false,
		"details": {
			"issuance": {"identifier": "0x007d40224f6562461633ccfbaffd359ebb2fc9ba", "issued": true},
			"revocation": {"identifier": "0x007d40224f6562461633ccfbaffd359ebb2fc9ba", "revoked": false}
		}
	}`, string(b))
}

func TestVerifyNotIssued(t *testing.T) {
	_, _, root := hashes(t)

	s := &mockStore{}
	s.On("IsIssued", mock.Anything, store, root).Return(false, nil)
	s.On("IsRevoked", mock.Anything, store, mock.Anything).Return(false, nil)

	f := New(s).Verify(context.Background(), storeDoc(t, document.V2), nil)

	assert.Equal(t, fragment.StatusInvalid, f.Status)
	assert.Equal(t, "DOCUMENT_NOT_ISSUED", f.Reason.CodeString)
	assert.Equal(t, "Document "+root.Hex()+" has not been issued under contract "+store, f.Reason.Message)
	assert.False(t, f.Data.(verifier.IssuanceData).IssuedOnAll())
}

func TestVerifyRevokedIntermediate(t *testing.T) {
	targetHash, _, root := hashes(t)

	s := &mockStore{}
	s.On("IsIssued", mock.Anything, store, root).Return(true, nil)
	s.On("IsRevoked", mock.Anything, store, targetHash).Return(true, nil)
	s.On("IsRevoked", mock.Anything, store, root).Return(false, nil)

	f := New(s).Verify(context.Background(), storeDoc(t, document.V3), nil)

	assert.Equal(t, fragment.StatusInvalid, f.Status)
	assert.Equal(t, &fragment.Reason{
		Code:       5,
		CodeString: "DOCUMENT_REVOKED",
		Message:    "Document " + target + " has been revoked under contract " + store,
	}, f.Reason)
	assert.True(t, f.Data.(verifier.IssuanceData).RevokedOnAny())
}

func TestVerifyLookupFailure(t *testing.T) {
	_, _, root := hashes(t)

	s := &mockStore{}
	s.On("IsIssued", mock.Anything, store, root).Return(false, errors.New("contract not deployed"))
	s.On("IsRevoked", mock.Anything, store, mock.Anything).Return(false, errors.New("contract not deployed"))

	f := New(s).Verify(context.Background(), storeDoc(t, document.V3), nil)

	assert.Equal(t, fragment.StatusInvalid, f.Status)
	assert.Equal(t, "DOCUMENT_NOT_ISSUED", f.Reason.CodeString)
	assert.Equal(t, "contract not deployed", f.Reason.Message)

	data := f.Data.(verifier.IssuanceData)
	assert.True(t, data.RevokedOnAny())
}

func TestVerifyMalformedSignature(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*document.Signature)
	}{
		{name: "target not hex", mutate: func(s *document.Signature) { s.TargetHash = "zz" }},
		{name: "empty root", mutate: func(s *document.Signature) { s.MerkleRoot = "" }},
		{name: "empty target", mutate: func(s *document.Signature) { s.TargetHash = "" }},
		{name: "empty proof entry", mutate: func(s *document.Signature) { s.Proof = []string{""} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockStore{}

			doc := storeDoc(t, document.V3)
			tt.mutate(&doc.Signature)

			f := New(s).Verify(context.Background(), doc, nil)

			assert.Equal(t, fragment.StatusError, f.Status)
			assert.Equal(t, "UNEXPECTED_ERROR", f.Reason.CodeString)
			s.AssertNumberOfCalls(t, "IsIssued", 0)
			s.AssertNumberOfCalls(t, "IsRevoked", 0)
		})
	}
}
