package verifier

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/tcfw/docverify/internal/utils/logging"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/fragment"
)

type TestFunc func(doc *document.Document, opts *Options) bool

// CheckFunc performs the actual verification. A returned error is converted
// into an ERROR fragment by the adapter.
type CheckFunc func(ctx context.Context, doc *document.Document, opts *Options) (fragment.Outcome, error)

// Definition describes a verifier to the shared adapter
type Definition struct {
	Name        string
	Type        fragment.Type
	Codes       fragment.CodeSet
	SkipMessage string

	Test  TestFunc
	Check CheckFunc
}

type adapter struct {
	def Definition
}

var (
	_ Verifier = (*adapter)(nil)
	_ Coded    = (*adapter)(nil)
)

// New wraps a definition so that Verify can only ever produce a fragment
func New(def Definition) Verifier {
	return &adapter{def: def}
}

func (a *adapter) Name() string {
	return a.def.Name
}

func (a *adapter) Type() fragment.Type {
	return a.def.Type
}

func (a *adapter) Codes() fragment.CodeSet {
	return a.def.Codes
}

func (a *adapter) Skip(_ context.Context, _ *document.Document, _ *Options) fragment.Fragment {
	return fragment.Fragment{
		Name:   a.def.Name,
		Type:   a.def.Type,
		Status: fragment.StatusSkipped,
		Reason: a.def.Codes.Skipped.Reason(a.def.SkipMessage),
	}
}

func (a *adapter) Test(doc *document.Document, opts *Options) bool {
	if doc == nil || a.def.Test == nil {
		return false
	}

	return a.def.Test(doc, opts)
}

func (a *adapter) Verify(ctx context.Context, doc *document.Document, opts *Options) (f fragment.Fragment) {
	defer func() {
		if r := recover(); r != nil {
			f = a.errorFragment(errors.Errorf("panic: %v", r))
		}
	}()

	if doc == nil {
		return a.errorFragment(errors.New("no document provided"))
	}

	outcome, err := a.def.Check(ctx, doc, opts)
	if err != nil {
		return a.errorFragment(err)
	}

	return a.wrap(outcome)
}

func (a *adapter) wrap(o fragment.Outcome) fragment.Fragment {
	f := fragment.Fragment{
		Name:   a.def.Name,
		Type:   a.def.Type,
		Status: o.Status,
		Data:   o.Data,
		Reason: o.Reason,
	}

	switch o.Status {
	case fragment.StatusValid:
		f.Reason = nil
	case fragment.StatusInvalid:
		if f.Reason == nil {
			f.Reason = a.def.Codes.UnexpectedError.Reason("verification failed")
		}
	default:
		//checks report failures through errors, not outcomes
		return a.errorFragment(fmt.Errorf("check produced unsupported status %q", o.Status))
	}

	return f
}

func (a *adapter) errorFragment(err error) fragment.Fragment {
	code := a.def.Codes.UnexpectedError

	var coded *fragment.Error
	if errors.As(err, &coded) {
		code = coded.Code
	}

	logging.WithError(err).WithField("verifier", a.def.Name).Debug("verifier errored")

	return fragment.Fragment{
		Name:   a.def.Name,
		Type:   a.def.Type,
		Status: fragment.StatusError,
		Data:   fragment.ErrorData{Error: err.Error()},
		Reason: code.Reason(err.Error()),
	}
}
