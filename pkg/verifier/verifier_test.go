package verifier

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/fragment"
)

var testCodes = fragment.CodeSet{
	UnexpectedError: fragment.Code{Value: 0, Name: "UNEXPECTED_ERROR"},
	Skipped:         fragment.Code{Value: 9, Name: "SKIPPED"},
}

func testDoc() *document.Document {
	return &document.Document{
		Version: document.V3,
		Issuers: []document.Issuer{{IdentityProof: document.IdentityProof{Method: document.ProofMethodDID}}},
	}
}

func newTestVerifier(name string, applies bool, check CheckFunc) Verifier {
	return New(Definition{
		Name:        name,
		Type:        fragment.TypeDocumentStatus,
		Codes:       testCodes,
		SkipMessage: name + " not applicable",
		Test:        func(*document.Document, *Options) bool { return applies },
		Check:       check,
	})
}

func TestAdapterSkip(t *testing.T) {
	v := newTestVerifier("skipper", false, nil)

	f := v.Skip(context.Background(), testDoc(), nil)

	assert.Equal(t, fragment.Fragment{
		Name:   "skipper",
		Type:   fragment.TypeDocumentStatus,
		Status: fragment.StatusSkipped,
		Reason: &fragment.Reason{Code: 9, CodeString: "SKIPPED", Message: "skipper not applicable"},
	}, f)
}

func TestAdapterVerify(t *testing.T) {
	tests := map[string]struct {
		check  CheckFunc
		status fragment.Status
		reason *fragment.Reason
	}{
		"valid": {
			check: func(context.Context, *document.Document, *Options) (fragment.Outcome, error) {
				return fragment.Valid("ok"), nil
			},
			status: fragment.StatusValid,
		},
		"invalid with reason": {
			check: func(context.Context, *document.Document, *Options) (fragment.Outcome, error) {
				return fragment.Invalid(nil, &fragment.Reason{Code: 1, CodeString: "NOPE", Message: "nope"}), nil
			},
			status: fragment.StatusInvalid,
			reason: &fragment.Reason{Code: 1, CodeString: "NOPE", Message: "nope"},
		},
		"invalid without reason": {
			check: func(context.Context, *document.Document, *Options) (fragment.Outcome, error) {
				return fragment.Invalid(nil, nil), nil
			},
			status: fragment.StatusInvalid,
			reason: &fragment.Reason{Code: 0, CodeString: "UNEXPECTED_ERROR", Message: "verification failed"},
		},
		"error": {
			check: func(context.Context, *document.Document, *Options) (fragment.Outcome, error) {
				return fragment.Outcome{}, errors.New("rpc down")
			},
			status: fragment.StatusError,
			reason: &fragment.Reason{Code: 0, CodeString: "UNEXPECTED_ERROR", Message: "rpc down"},
		},
		"coded error": {
			check: func(context.Context, *document.Document, *Options) (fragment.Outcome, error) {
				return fragment.Outcome{}, errors.Wrap(fragment.NewError(fragment.Code{Value: 3, Name: "INVALID_ISSUERS"}, "bad issuers"), "checking")
			},
			status: fragment.StatusError,
			reason: &fragment.Reason{Code: 3, CodeString: "INVALID_ISSUERS", Message: "checking: bad issuers"},
		},
		"panic": {
			check: func(context.Context, *document.Document, *Options) (fragment.Outcome, error) {
				panic("boom")
			},
			status: fragment.StatusError,
			reason: &fragment.Reason{Code: 0, CodeString: "UNEXPECTED_ERROR", Message: "panic: boom"},
		},
		"unsupported status": {
			check: func(context.Context, *document.Document, *Options) (fragment.Outcome, error) {
				return fragment.Outcome{Status: fragment.StatusSkipped}, nil
			},
			status: fragment.StatusError,
			reason: &fragment.Reason{Code: 0, CodeString: "UNEXPECTED_ERROR", Message: `check produced unsupported status "SKIPPED"`},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			v := newTestVerifier("v", true, test.check)

			f := v.Verify(context.Background(), testDoc(), nil)

			assert.Equal(t, "v", f.Name)
			assert.Equal(t, test.status, f.Status)
			assert.Equal(t, test.reason, f.Reason)

			if test.status == fragment.StatusError {
				assert.Equal(t, fragment.ErrorData{Error: test.reason.Message}, f.Data)
			}
		})
	}
}

func TestAdapterNilDocument(t *testing.T) {
	v := newTestVerifier("v", true, nil)

	assert.False(t, v.Test(nil, nil))
	assert.Equal(t, fragment.StatusError, v.Verify(context.Background(), nil, nil).Status)
}

func TestGatherKeepsOrderAndIsolatesFailures(t *testing.T) {
	keys := []string{"a", "b", "c", "d"}

	results := Gather(context.Background(), keys, 0, func(_ context.Context, k string) (int, error) {
		switch k {
		case "b":
			return 0, errors.New("b failed")
		case "c":
			panic("c exploded")
		}
		return len(k), nil
	})

	require.Len(t, results, 4)
	for i, k := range keys {
		assert.Equal(t, k, results[i].Key)
	}

	assert.NoError(t, results[0].Err)
	assert.Equal(t, 1, results[0].Value)
	assert.EqualError(t, results[1].Err, "b failed")
	assert.EqualError(t, results[2].Err, "panic: c exploded")
	assert.NoError(t, results[3].Err)

	idx := Index(results)
	assert.EqualError(t, idx["b"].Err, "b failed")
}

func TestGatherDispatchesAllBeforeJoin(t *testing.T) {
	keys := []int{1, 2, 3, 4, 5}

	var started sync.WaitGroup
	started.Add(len(keys))

	results := Gather(context.Background(), keys, 0, func(_ context.Context, k int) (bool, error) {
		started.Done()

		done := make(chan struct{})
		go func() {
			started.Wait()
			close(done)
		}()

		select {
		case <-done:
			return true, nil
		case <-time.After(5 * time.Second):
			return false, errors.New("calls were not concurrent")
		}
	})

	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.True(t, r.Value)
	}
}

func TestGatherEmpty(t *testing.T) {
	results := Gather(context.Background(), []string{}, 2, func(context.Context, string) (int, error) {
		t.Fatal("should not be called")
		return 0, nil
	})

	assert.Empty(t, results)
}

func TestRunnerSkipsAndRuns(t *testing.T) {
	valid := newTestVerifier("valid", true, func(context.Context, *document.Document, *Options) (fragment.Outcome, error) {
		return fragment.Valid(nil), nil
	})
	skipped := newTestVerifier("skipped", false, func(context.Context, *document.Document, *Options) (fragment.Outcome, error) {
		t.Fatal("skipped verifier must not run")
		return fragment.Outcome{}, nil
	})
	broken := newTestVerifier("broken", true, func(context.Context, *document.Document, *Options) (fragment.Outcome, error) {
		return fragment.Outcome{}, errors.New("kaput")
	})

	r, err := NewRunner(WithVerifiers(valid, skipped, broken))
	require.NoError(t, err)

	fragments, err := r.Verify(context.Background(), testDoc(), nil)
	require.NoError(t, err)
	require.Len(t, fragments, 3)

	assert.Equal(t, "valid", fragments[0].Name)
	assert.Equal(t, fragment.StatusValid, fragments[0].Status)
	assert.Equal(t, "skipped", fragments[1].Name)
	assert.Equal(t, fragment.StatusSkipped, fragments[1].Status)
	assert.Equal(t, "broken", fragments[2].Name)
	assert.Equal(t, fragment.StatusError, fragments[2].Status)

	rep, err := r.Report(context.Background(), testDoc(), nil)
	require.NoError(t, err)
	assert.Equal(t, fragment.OverallError, rep.Status)
	assert.False(t, rep.Valid())
}

func TestRunnerVerifiersRunConcurrently(t *testing.T) {
	var started sync.WaitGroup
	started.Add(2)

	check := func(context.Context, *document.Document, *Options) (fragment.Outcome, error) {
		started.Done()

		done := make(chan struct{})
		go func() {
			started.Wait()
			close(done)
		}()

		select {
		case <-done:
			return fragment.Valid(nil), nil
		case <-time.After(5 * time.Second):
			return fragment.Outcome{}, errors.New("verifiers were not concurrent")
		}
	}

	r, err := NewRunner(WithVerifiers(newTestVerifier("a", true, check), newTestVerifier("b", true, check)))
	require.NoError(t, err)

	rep, err := r.Report(context.Background(), testDoc(), nil)
	require.NoError(t, err)
	assert.Equal(t, fragment.OverallValid, rep.Status)
}

func TestRunnerTimeoutDiscardsFragments(t *testing.T) {
	slow := newTestVerifier("slow", true, func(ctx context.Context, _ *document.Document, _ *Options) (fragment.Outcome, error) {
		<-ctx.Done()
		return fragment.Outcome{}, ctx.Err()
	})

	r, err := NewRunner(WithVerifiers(slow))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	fragments, err := r.Verify(ctx, testDoc(), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, fragments)
}

type panickyVerifier struct{}

func (panickyVerifier) Name() string        { return "panicky" }
func (panickyVerifier) Type() fragment.Type { return fragment.TypeIssuerIdentity }
func (panickyVerifier) Skip(context.Context, *document.Document, *Options) fragment.Fragment {
	return fragment.Fragment{}
}
func (panickyVerifier) Test(*document.Document, *Options) bool { panic("test blew up") }
func (panickyVerifier) Verify(context.Context, *document.Document, *Options) fragment.Fragment {
	return fragment.Fragment{}
}

func TestRunnerGuardsMisbehavingVerifiers(t *testing.T) {
	r, err := NewRunner(WithVerifiers(panickyVerifier{}))
	require.NoError(t, err)

	fragments, err := r.Verify(context.Background(), testDoc(), nil)
	require.NoError(t, err)
	require.Len(t, fragments, 1)

	assert.Equal(t, fragment.StatusError, fragments[0].Status)
	assert.Equal(t, "test panicked: test blew up", fragments[0].Reason.Message)
}

func TestRunnerFailedFragmentUsesDeclaredCodes(t *testing.T) {
	v := New(Definition{
		Name:  "hashlike",
		Type:  fragment.TypeDocumentIntegrity,
		Codes: fragment.HashCodes.CodeSet,
		Test: func(*document.Document, *Options) bool {
			panic("test blew up")
		},
	})

	r, err := NewRunner(WithVerifiers(v, panickyVerifier{}))
	require.NoError(t, err)

	fragments, err := r.Verify(context.Background(), testDoc(), nil)
	require.NoError(t, err)
	require.Len(t, fragments, 2)

	assert.Equal(t, fragment.StatusError, fragments[0].Status)
	assert.Equal(t, &fragment.Reason{Code: 1, CodeString: "UNEXPECTED_ERROR", Message: "test panicked: test blew up"}, fragments[0].Reason)

	assert.Equal(t, 0, fragments[1].Reason.Code)
	assert.Equal(t, "UNEXPECTED_ERROR", fragments[1].Reason.CodeString)
}

func TestNewRunnerErrors(t *testing.T) {
	_, err := NewRunner()
	assert.Equal(t, ErrNoVerifiers, err)

	v := newTestVerifier("dup", true, nil)
	_, err = NewRunner(WithVerifiers(v, v))
	assert.ErrorIs(t, err, ErrDuplicateName)

	r, _ := NewRunner(WithVerifiers(newTestVerifier("a", true, nil)))
	_, err = r.Verify(context.Background(), nil, nil)
	assert.Equal(t, ErrNoDocument, err)
}

type recordingObserver struct {
	mu        sync.Mutex
	fragments []string
	overall   fragment.Overall
}

func (o *recordingObserver) ObserveFragment(f fragment.Fragment, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fragments = append(o.fragments, f.Name)
}

func (o *recordingObserver) ObserveOverall(s fragment.Overall, _ time.Duration) {
	o.overall = s
}

func TestRunnerObserver(t *testing.T) {
	obs := &recordingObserver{}

	r, err := NewRunner(
		WithVerifiers(
			newTestVerifier("ran", true, func(context.Context, *document.Document, *Options) (fragment.Outcome, error) {
				return fragment.Valid(nil), nil
			}),
			newTestVerifier("skipped", false, nil),
		),
		WithObserver(obs),
	)
	require.NoError(t, err)

	_, err = r.Report(context.Background(), testDoc(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"ran"}, obs.fragments)
	assert.Equal(t, fragment.OverallValid, obs.overall)
}

func TestReportIDDeterministic(t *testing.T) {
	rep := &Report{
		Status: fragment.OverallInvalid,
		Fragments: []fragment.Fragment{
			{Name: "a", Type: fragment.TypeDocumentStatus, Status: fragment.StatusInvalid, Reason: &fragment.Reason{Code: 1, CodeString: "X", Message: "x"}},
		},
	}

	id1, err := rep.ID()
	require.NoError(t, err)

	id2, err := rep.ID()
	require.NoError(t, err)

	assert.Equal(t, id1, id2)

	rep.Status = fragment.OverallValid
	id3, _ := rep.ID()
	assert.NotEqual(t, id1, id3)
}
