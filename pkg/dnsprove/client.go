package dnsprove

import (
	"context"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
	"github.com/tcfw/docverify/internal/utils/logging"
)

var (
	DefaultServers = []string{"1.1.1.1:53", "8.8.8.8:53"}

	ErrNoServers = errors.New("no dns servers configured")
)

const defaultTimeout = 5 * time.Second

// Querier looks up the TXT records of a domain
type Querier interface {
	TXT(ctx context.Context, domain string) ([]string, error)
}

type Option func(*Client)

func WithServers(servers ...string) Option {
	return func(c *Client) {
		if len(servers) > 0 {
			c.servers = servers
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client queries recursive resolvers directly, trying each server in order
// until one answers
type Client struct {
	servers []string
	timeout time.Duration
}

var _ Querier = (*Client)(nil)

func NewClient(opts ...Option) *Client {
	c := &Client{
		servers: DefaultServers,
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) TXT(ctx context.Context, domain string) ([]string, error) {
	if len(c.servers) == 0 {
		return nil, ErrNoServers
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeTXT)
	m.RecursionDesired = true

	var lastErr error
	for _, server := range c.servers {
		resp, err := c.exchange(ctx, m, server)
		if err != nil {
			logging.WithError(err).WithField("server", server).Debug("dns query failed")
			lastErr = err
			continue
		}

		switch resp.Rcode {
		case dns.RcodeSuccess:
		case dns.RcodeNameError:
			return nil, nil
		default:
			lastErr = errors.Errorf("dns query for %s: %s", domain, dns.RcodeToString[resp.Rcode])
			continue
		}

		var records []string
		for _, rr := range resp.Answer {
			if txt, ok := rr.(*dns.TXT); ok {
				records = append(records, strings.Join(txt.Txt, ""))
			}
		}

		return records, nil
	}

	return nil, errors.Wrap(lastErr, "querying txt records")
}

func (c *Client) exchange(ctx context.Context, m *dns.Msg, server string) (*dns.Msg, error) {
	udp := &dns.Client{Net: "udp", Timeout: c.timeout}

	resp, _, err := udp.ExchangeContext(ctx, m, server)
	if err != nil {
		return nil, err
	}

	if resp.Truncated {
		tcp := &dns.Client{Net: "tcp", Timeout: c.timeout}
		resp, _, err = tcp.ExchangeContext(ctx, m, server)
	}

	return resp, err
}
