package verifier

import (
	"context"

	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/fragment"
)

const (
	NetworkMainnet = "mainnet"
)

// Verifier is a single fragment producing check.
//
// Skip and Test never touch capability providers. Verify never fails: any
// internal failure ends up as an ERROR fragment.
type Verifier interface {
	Name() string
	Type() fragment.Type

	Skip(ctx context.Context, doc *document.Document, opts *Options) fragment.Fragment
	Test(doc *document.Document, opts *Options) bool
	Verify(ctx context.Context, doc *document.Document, opts *Options) fragment.Fragment
}

// Coded is implemented by verifiers which declare their own reason codes
type Coded interface {
	Codes() fragment.CodeSet
}

// Options are per request knobs shared by every verifier
type Options struct {
	// Network selects which chain identity records must point at
	Network string

	// Concurrency bounds per verifier fan-out. 0 means unbounded.
	Concurrency int
}

func DefaultOptions() *Options {
	return &Options{Network: NetworkMainnet}
}

// Limit is the fan-out bound to hand to Gather
func (o *Options) Limit() int {
	if o == nil {
		return 0
	}

	return o.Concurrency
}
