package engine

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/docverify/internal/config"
	"github.com/tcfw/docverify/internal/metrics"
	"github.com/tcfw/docverify/pkg/chain"
	"github.com/tcfw/docverify/pkg/contracts/documentstore"
	"github.com/tcfw/docverify/pkg/contracts/tokenregistry"
	"github.com/tcfw/docverify/pkg/did"
	"github.com/tcfw/docverify/pkg/dnsprove"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/verifier"
	"github.com/tcfw/docverify/pkg/verifier/didsigned"
	"github.com/tcfw/docverify/pkg/verifier/dnsdid"
	"github.com/tcfw/docverify/pkg/verifier/dnstxt"
	storeVerifier "github.com/tcfw/docverify/pkg/verifier/documentstore"
	"github.com/tcfw/docverify/pkg/verifier/integrity"
	registryVerifier "github.com/tcfw/docverify/pkg/verifier/tokenregistry"
)

// Engine owns the capability providers and the verifier runner built on them
type Engine struct {
	cfg *config.Config

	backend  chain.Backend
	resolver did.Resolver
	dns      dnsprove.Querier
	metrics  *metrics.Metrics

	store    *documentstore.Store
	registry *tokenregistry.Client
	runner   *verifier.Runner

	logger *logrus.Logger
}

func NewEngine(opts ...EngineOption) (*Engine, error) {
	e := &Engine{}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.cfg == nil || e.backend == nil || e.resolver == nil || e.dns == nil {
		return nil, errors.New("engine is missing a capability provider")
	}

	if e.logger == nil {
		e.logger = logrus.StandardLogger()
	}

	var err error

	e.store, err = documentstore.New(e.backend)
	if err != nil {
		return nil, errors.Wrap(err, "initing document store")
	}

	e.registry, err = tokenregistry.New(e.backend)
	if err != nil {
		return nil, errors.Wrap(err, "initing token registry")
	}

	e.runner, err = verifier.NewRunner(
		verifier.WithVerifiers(
			integrity.New(),
			storeVerifier.New(e.store),
			registryVerifier.New(e.registry),
			didsigned.New(e.resolver),
			dnstxt.New(e.dns),
			dnsdid.New(e.dns),
		),
		verifier.WithObserver(e.metrics),
	)
	if err != nil {
		return nil, errors.Wrap(err, "initing runner")
	}

	return e, nil
}

// Verify runs every verifier against doc within the configured timeout. An
// empty network falls back to the configured one.
func (e *Engine) Verify(ctx context.Context, doc *document.Document, network string) (*verifier.Report, error) {
	if network == "" {
		network = e.cfg.Network
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	rep, err := e.runner.Report(ctx, doc, &verifier.Options{
		Network:     network,
		Concurrency: e.cfg.Concurrency,
	})
	if err != nil {
		e.logger.WithError(err).Warn("verification failed")
		return nil, err
	}

	e.logger.WithField("status", rep.Status).Debug("verified document")

	return rep, nil
}

func (e *Engine) Store() *documentstore.Store {
	return e.store
}

func (e *Engine) Resolver() did.Resolver {
	return e.resolver
}

func (e *Engine) Verifiers() []verifier.Verifier {
	return e.runner.Verifiers()
}
