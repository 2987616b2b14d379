package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/docverify/internal/config"
	"github.com/tcfw/docverify/internal/engine"
)

var (
	rootCmd = &cobra.Command{
		Use:          "docverify",
		Short:        "verify and sign attested documents",
		SilenceUsage: true,
	}
)

func Execute() error {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase verbosity")
	viper.BindPFlag(config.Cfg_verbose, rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.PersistentFlags().StringP("network", "n", "", "network identity records must point at")
	viper.BindPFlag(config.Cfg_network, rootCmd.PersistentFlags().Lookup("network"))

	regCommands()

	return rootCmd.Execute()
}

func newEngine(ctx context.Context) (*engine.Engine, *config.Config, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, nil, err
	}

	e, err := engine.NewEngine(
		engine.WithConfig(cfg),
		engine.WithDefaultOptions(ctx),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "initing engine")
	}

	return e, cfg, nil
}

func readInput(path string) ([]byte, error) {
	var (
		b   []byte
		err error
	)

	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading document")
	}

	return b, nil
}

func waitExit(ctx context.Context) <-chan os.Signal {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	return sigs
}
