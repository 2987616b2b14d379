package resolver

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/tcfw/docverify/internal/utils/logging"
	"github.com/tcfw/docverify/pkg/did"
	"github.com/tcfw/docverify/pkg/did/w3cdid"
	"github.com/vmihailenco/msgpack/v5"
)

const DefaultCacheSize = 256

// Cached memoises successful resolutions. Documents are stored encoded so
// every caller gets its own copy.
type Cached struct {
	next  did.Resolver
	cache *lru.Cache[w3cdid.URL, []byte]
}

var _ did.Resolver = (*Cached)(nil)

func NewCached(next did.Resolver, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	c, err := lru.New[w3cdid.URL, []byte](size)
	if err != nil {
		return nil, errors.Wrap(err, "creating did cache")
	}

	return &Cached{next: next, cache: c}, nil
}

func (c *Cached) Resolve(ctx context.Context, d w3cdid.URL) (*w3cdid.Document, error) {
	key := d.Base()

	if b, ok := c.cache.Get(key); ok {
		doc := &w3cdid.Document{}
		if err := msgpack.Unmarshal(b, doc); err == nil {
			return doc, nil
		}

		logging.WithField("did", key).Warn("dropping undecodable cache entry")
		c.cache.Remove(key)
	}

	doc, err := c.next.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}

	b, err := msgpack.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encoding did document")
	}

	c.cache.Add(key, b)

	return doc, nil
}

func (c *Cached) Purge() {
	c.cache.Purge()
}
