package cli

import (
	"context"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/docverify/internal/api"
	"github.com/tcfw/docverify/internal/config"
	"github.com/tcfw/docverify/internal/utils/logging"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "run the verification HTTP API",
		RunE:  runServe,
	}
)

func init() {
	serveCmd.Flags().String("addr", ":8080", "api listen address")
	viper.BindPFlag(config.Cfg_api_addr, serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e, cfg, err := newEngine(ctx)
	if err != nil {
		return err
	}

	addr, err := net.ResolveTCPAddr("tcp", cfg.APIAddr)
	if err != nil {
		return err
	}

	a := api.NewAPI(e, prometheus.DefaultGatherer)

	errCh := make(chan error, 1)

	go func() {
		if err := a.ListenAndServe(addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-waitExit(ctx):
		logging.Entry().Warn("Shutting down")

		sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer scancel()

		return a.Shutdown(sctx)
	}
}
