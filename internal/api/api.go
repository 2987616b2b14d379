package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tcfw/docverify/internal/utils/logging"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/verifier"
)

const (
	maxDocumentSize = 4 << 20
	readTimeout     = 10 * time.Second
)

// Verifier produces a report for a document
type Verifier interface {
	Verify(ctx context.Context, doc *document.Document, network string) (*verifier.Report, error)
}

type Api struct {
	v      Verifier
	router chi.Router
	srv    *http.Server
}

// NewAPI mounts the verification routes. Metrics are served from g.
func NewAPI(v Verifier, g prometheus.Gatherer) *Api {
	a := &Api{v: v}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/verify", a.handleVerify)
	})

	a.router = r

	return a
}

func (a *Api) Handler() http.Handler {
	return a.router
}

func (a *Api) ListenAndServe(l net.Addr) error {
	a.srv = &http.Server{
		Addr:              l.String(),
		Handler:           a.router,
		ReadHeaderTimeout: readTimeout,
	}

	logging.WithField("addr", l.String()).Info("starting api")

	if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (a *Api) Shutdown(ctx context.Context) error {
	if a.srv == nil {
		return nil
	}

	return a.srv.Shutdown(ctx)
}
