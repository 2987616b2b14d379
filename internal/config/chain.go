package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Chain struct {
	RPC string

	Retry struct {
		Attempts int
		Min      time.Duration
		Max      time.Duration
	}
}

const (
	Cfg_chain_rpc            = "chain.rpc"
	Cfg_chain_retry_attempts = "chain.retry.attempts"
	Cfg_chain_retry_min      = "chain.retry.min"
	Cfg_chain_retry_max      = "chain.retry.max"
)

var (
	chainDefaults = map[string]interface{}{
		Cfg_chain_rpc:            "",
		Cfg_chain_retry_attempts: 3,
		Cfg_chain_retry_min:      200 * time.Millisecond,
		Cfg_chain_retry_max:      5 * time.Second,
	}
)

func init() {
	for k, v := range chainDefaults {
		viper.SetDefault(k, v)
	}
}

func buildChainConfig() (*Chain, error) {
	c := &Chain{}

	c.RPC = viper.GetString(Cfg_chain_rpc)
	c.Retry.Attempts = viper.GetInt(Cfg_chain_retry_attempts)
	c.Retry.Min = viper.GetDuration(Cfg_chain_retry_min)
	c.Retry.Max = viper.GetDuration(Cfg_chain_retry_max)

	if c.Retry.Min > c.Retry.Max {
		return nil, errors.Errorf("%s is greater than %s", Cfg_chain_retry_min, Cfg_chain_retry_max)
	}

	return c, nil
}
