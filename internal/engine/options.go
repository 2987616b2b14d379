package engine

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/docverify/internal/config"
	"github.com/tcfw/docverify/internal/metrics"
	"github.com/tcfw/docverify/pkg/chain"
	"github.com/tcfw/docverify/pkg/did"
	"github.com/tcfw/docverify/pkg/did/resolver"
	"github.com/tcfw/docverify/pkg/dnsprove"
)

type EngineOption func(*Engine) error

func WithConfig(c *config.Config) EngineOption {
	return func(e *Engine) error {
		e.cfg = c
		return nil
	}
}

func WithBackend(b chain.Backend) EngineOption {
	return func(e *Engine) error {
		e.backend = b
		return nil
	}
}

func WithResolver(r did.Resolver) EngineOption {
	return func(e *Engine) error {
		e.resolver = r
		return nil
	}
}

func WithQuerier(q dnsprove.Querier) EngineOption {
	return func(e *Engine) error {
		e.dns = q
		return nil
	}
}

func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) error {
		e.metrics = m
		return nil
	}
}

func WithLogger(l *logrus.Logger) EngineOption {
	return func(e *Engine) error {
		e.logger = l
		return nil
	}
}

// WithDefaultOptions builds every capability the engine has not been given
// from the engine config
func WithDefaultOptions(ctx context.Context) EngineOption {
	return func(e *Engine) error {
		if e.cfg == nil {
			return errors.New("config must be set before default options")
		}

		if e.logger == nil {
			e.logger = logrus.StandardLogger()
		}

		if e.backend == nil {
			b, err := dialBackend(ctx, e.cfg.Chain())
			if err != nil {
				return errors.Wrap(err, "initing chain backend")
			}
			e.backend = b
		}

		if e.resolver == nil {
			rc := e.cfg.Resolver()
			r, err := resolver.NewCached(resolver.New(resolver.WithWebTimeout(rc.WebTimeout)), rc.CacheSize)
			if err != nil {
				return errors.Wrap(err, "initing did resolver")
			}
			e.resolver = r
		}

		if e.dns == nil {
			rc := e.cfg.Resolver()
			e.dns = dnsprove.NewClient(
				dnsprove.WithServers(rc.DNS.Servers...),
				dnsprove.WithTimeout(rc.DNS.Timeout),
			)
		}

		if e.metrics == nil {
			e.metrics = metrics.New(prometheus.DefaultRegisterer)
		}

		return nil
	}
}

func dialBackend(ctx context.Context, c *config.Chain) (chain.Backend, error) {
	if c.RPC == "" {
		return unconfiguredBackend{}, nil
	}

	client, err := chain.Dial(ctx, c.RPC)
	if err != nil {
		return nil, err
	}

	return chain.NewRetrying(client,
		chain.WithAttempts(c.Retry.Attempts),
		chain.WithBackoff(c.Retry.Min, c.Retry.Max),
	), nil
}
