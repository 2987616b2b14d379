package chain

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jpillora/backoff"
	"github.com/tcfw/docverify/internal/utils/logging"
)

const (
	defaultRetryAttempts = 3
	defaultRetryMin      = 200 * time.Millisecond
	defaultRetryMax      = 5 * time.Second
)

type RetryOption func(*Retrying)

func WithAttempts(n int) RetryOption {
	return func(r *Retrying) {
		if n > 0 {
			r.attempts = n
		}
	}
}

func WithBackoff(min, max time.Duration) RetryOption {
	return func(r *Retrying) {
		r.min = min
		r.max = max
	}
}

// Retrying retries transient RPC failures of the wrapped backend
type Retrying struct {
	backend Backend

	attempts int
	min      time.Duration
	max      time.Duration
}

var _ Backend = (*Retrying)(nil)

func NewRetrying(b Backend, opts ...RetryOption) *Retrying {
	r := &Retrying{
		backend:  b,
		attempts: defaultRetryAttempts,
		min:      defaultRetryMin,
		max:      defaultRetryMax,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Retrying) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	var code []byte
	err := r.do(ctx, "eth_getCode", func() (err error) {
		code, err = r.backend.CodeAt(ctx, contract, blockNumber)
		return err
	})

	return code, err
}

func (r *Retrying) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var out []byte
	err := r.do(ctx, "eth_call", func() (err error) {
		out, err = r.backend.CallContract(ctx, call, blockNumber)
		return err
	})

	return out, err
}

func (r *Retrying) do(ctx context.Context, op string, fn func() error) error {
	bo := &backoff.Backoff{
		Min:    r.min,
		Max:    r.max,
		Factor: 2,
		Jitter: true,
	}

	var err error
	for i := 0; i < r.attempts; i++ {
		err = fn()
		if err == nil || permanent(ctx, err) {
			return err
		}

		if i == r.attempts-1 {
			break
		}

		d := bo.Duration()
		logging.WithError(err).
			WithField("op", op).
			WithField("attempt", i+1).
			WithField("waiting", d).
			Debug("retrying rpc call")

		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	return err
}

// permanent errors are not worth retrying; reverts are deterministic
func permanent(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}

	return strings.Contains(err.Error(), "execution reverted")
}
