package config

import (
	"time"

	"github.com/spf13/viper"
	"github.com/tcfw/docverify/pkg/did/resolver"
	"github.com/tcfw/docverify/pkg/dnsprove"
)

type Resolver struct {
	CacheSize  int
	WebTimeout time.Duration

	DNS struct {
		Servers []string
		Timeout time.Duration
	}
}

const (
	Cfg_resolver_cacheSize   = "resolver.cacheSize"
	Cfg_resolver_web_timeout = "resolver.web.timeout"
	Cfg_dns_servers          = "dns.servers"
	Cfg_dns_timeout          = "dns.timeout"
)

var (
	resolverDefaults = map[string]interface{}{
		Cfg_resolver_cacheSize:   resolver.DefaultCacheSize,
		Cfg_resolver_web_timeout: 10 * time.Second,
		Cfg_dns_servers:          dnsprove.DefaultServers,
		Cfg_dns_timeout:          5 * time.Second,
	}
)

func init() {
	for k, v := range resolverDefaults {
		viper.SetDefault(k, v)
	}
}

func buildResolverConfig() (*Resolver, error) {
	c := &Resolver{}

	c.CacheSize = viper.GetInt(Cfg_resolver_cacheSize)
	c.WebTimeout = viper.GetDuration(Cfg_resolver_web_timeout)
	c.DNS.Servers = viper.GetStringSlice(Cfg_dns_servers)
	c.DNS.Timeout = viper.GetDuration(Cfg_dns_timeout)

	return c, nil
}
