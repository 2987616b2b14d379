package verifier

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/tcfw/docverify/internal/utils/logging"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/fragment"
	"golang.org/x/sync/errgroup"
)

var defaultUnexpectedError = fragment.Code{Value: 0, Name: "UNEXPECTED_ERROR"}

var (
	ErrNoDocument    = errors.New("no document provided")
	ErrNoVerifiers   = errors.New("no verifiers registered")
	ErrDuplicateName = errors.New("verifier already registered")
)

// Observer receives timing and outcome information from the runner
type Observer interface {
	ObserveFragment(f fragment.Fragment, d time.Duration)
	ObserveOverall(o fragment.Overall, d time.Duration)
}

type RunnerOption func(*Runner) error

func WithVerifiers(v ...Verifier) RunnerOption {
	return func(r *Runner) error {
		for _, vv := range v {
			if err := r.register(vv); err != nil {
				return err
			}
		}
		return nil
	}
}

func WithObserver(o Observer) RunnerOption {
	return func(r *Runner) error {
		r.observer = o
		return nil
	}
}

// Runner selects applicable verifiers for a document, runs them concurrently
// and collects their fragments in registration order
type Runner struct {
	verifiers []Verifier
	names     map[string]struct{}

	observer Observer
}

func NewRunner(opts ...RunnerOption) (*Runner, error) {
	r := &Runner{names: map[string]struct{}{}}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if len(r.verifiers) == 0 {
		return nil, ErrNoVerifiers
	}

	return r, nil
}

func (r *Runner) register(v Verifier) error {
	if _, ok := r.names[v.Name()]; ok {
		return errors.Wrap(ErrDuplicateName, v.Name())
	}

	r.names[v.Name()] = struct{}{}
	r.verifiers = append(r.verifiers, v)
	return nil
}

func (r *Runner) Verifiers() []Verifier {
	return r.verifiers
}

// Verify runs every registered verifier against the document. If ctx is done
// before all verifiers have joined, every fragment is discarded and the
// context error is returned.
func (r *Runner) Verify(ctx context.Context, doc *document.Document, opts *Options) ([]fragment.Fragment, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}

	if opts == nil {
		opts = DefaultOptions()
	}

	fragments := make([]fragment.Fragment, len(r.verifiers))
	g := &errgroup.Group{}

	for i, v := range r.verifiers {
		i, v := i, v

		applicable, err := safeTest(v, doc, opts)
		if err != nil {
			fragments[i] = failedFragment(v, err)
			continue
		}

		if !applicable {
			fragments[i] = v.Skip(ctx, doc, opts)
			continue
		}

		g.Go(func() error {
			start := time.Now()

			fragments[i] = safeVerify(ctx, v, doc, opts)

			if r.observer != nil {
				r.observer.ObserveFragment(fragments[i], time.Since(start))
			}
			return nil
		})
	}

	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "verification abandoned")
	}

	for _, f := range fragments {
		logging.WithFields(logging.Fields{
			"verifier": f.Name,
			"status":   f.Status,
		}).Debug("fragment")
	}

	return fragments, nil
}

// Report runs Verify and reduces the fragments into an overall status
func (r *Runner) Report(ctx context.Context, doc *document.Document, opts *Options) (*Report, error) {
	start := time.Now()

	fragments, err := r.Verify(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Status:    fragment.Reduce(fragments),
		Fragments: fragments,
	}

	if r.observer != nil {
		r.observer.ObserveOverall(rep.Status, time.Since(start))
	}

	return rep, nil
}

func safeTest(v Verifier, doc *document.Document, opts *Options) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("test panicked: %v", r)
		}
	}()

	return v.Test(doc, opts), nil
}

func safeVerify(ctx context.Context, v Verifier, doc *document.Document, opts *Options) (f fragment.Fragment) {
	defer func() {
		if r := recover(); r != nil {
			f = failedFragment(v, errors.Errorf("panic: %v", r))
		}
	}()

	return v.Verify(ctx, doc, opts)
}

// failedFragment is used when a verifier misbehaves outside of its own
// error handling. Verifiers which don't declare codes get code 0.
func failedFragment(v Verifier, err error) fragment.Fragment {
	code := defaultUnexpectedError
	if c, ok := v.(Coded); ok {
		code = c.Codes().UnexpectedError
	}

	return fragment.Fragment{
		Name:   v.Name(),
		Type:   v.Type(),
		Status: fragment.StatusError,
		Data:   fragment.ErrorData{Error: err.Error()},
		Reason: code.Reason(err.Error()),
	}
}
