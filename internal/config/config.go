package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tcfw/docverify/internal/utils/logging"
)

const (
	Cfg_verbose            = "verbose"
	Cfg_network            = "network"
	Cfg_verify_timeout     = "verify.timeout"
	Cfg_verify_concurrency = "verify.concurrency"
	Cfg_api_addr           = "api.addr"
	Cfg_keystore_path      = "keystore.path"
)

var (
	defaults = map[string]interface{}{
		Cfg_verbose:            false,
		Cfg_network:            "mainnet",
		Cfg_verify_timeout:     30 * time.Second,
		Cfg_verify_concurrency: 0,
		Cfg_api_addr:           ":8080",
		Cfg_keystore_path:      "$HOME/.docverify/identity.yaml",
	}
)

func init() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

func GetConfig() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("docverify")
	viper.AddConfigPath("/etc/docverify/")
	viper.AddConfigPath("$HOME/.docverify")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("DOCVERIFY")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error
			logging.Entry().Debug("no config found")
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	return build()
}

func build() (*Config, error) {
	c := &Config{
		Network:     viper.GetString(Cfg_network),
		Timeout:     viper.GetDuration(Cfg_verify_timeout),
		Concurrency: viper.GetInt(Cfg_verify_concurrency),
		APIAddr:     viper.GetString(Cfg_api_addr),
		KeyStore:    expandPath(viper.GetString(Cfg_keystore_path)),
	}

	if c.Concurrency < 0 {
		return nil, errors.Errorf("%s must not be negative", Cfg_verify_concurrency)
	}

	var err error

	c.chain, err = buildChainConfig()
	if err != nil {
		return nil, errors.Wrap(err, "chain config")
	}

	c.resolver, err = buildResolverConfig()
	if err != nil {
		return nil, errors.Wrap(err, "resolver config")
	}

	if viper.GetBool(Cfg_verbose) {
		logging.SetLevel(logrus.DebugLevel)
		logging.WithField("level", "debug").Debug("setting log level")
	}

	return c, nil
}

type Config struct {
	Network     string
	Timeout     time.Duration
	Concurrency int
	APIAddr     string
	KeyStore    string

	chain    *Chain
	resolver *Resolver
}

func (c *Config) Chain() *Chain {
	return c.chain
}

func (c *Config) Resolver() *Resolver {
	return c.resolver
}

func expandPath(p string) string {
	return os.ExpandEnv(p)
}
