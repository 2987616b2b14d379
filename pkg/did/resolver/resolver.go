package resolver

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/did"
	"github.com/tcfw/docverify/pkg/did/w3cdid"
)

var (
	ErrUnknownMethod = errors.New("unknown did method")
	ErrInvalidDID    = errors.New("invalid did")
	ErrNotFound      = errors.New("notFound")
)

const defaultWebTimeout = 10 * time.Second

type Option func(*Resolver)

// WithHTTPClient sets the client used for did:web lookups
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.http = c
	}
}

func WithWebTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.webTimeout = d
	}
}

type Resolver struct {
	http       *http.Client
	webTimeout time.Duration
}

var _ did.Resolver = (*Resolver)(nil)

func New(opts ...Option) *Resolver {
	r := &Resolver{
		http:       http.DefaultClient,
		webTimeout: defaultWebTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve resolves a public DID ID via any supported DID method
func (r *Resolver) Resolve(ctx context.Context, d w3cdid.URL) (*w3cdid.Document, error) {
	if !d.Valid() {
		return nil, errors.Wrap(ErrInvalidDID, string(d))
	}

	d = d.Base()

	switch d.Method() {
	case "ethr":
		return r.resolveEthr(d)
	case "web":
		return r.resolveWeb(ctx, d)
	default:
		return nil, ErrUnknownMethod
	}
}
