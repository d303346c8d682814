package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/compound-analyzer/pkg/types/compound"
)

// DescriptorCache is a read-through descriptor cache keyed by the literal
// SMILES string.  It satisfies the analyzer's cache port: all redis failures
// are logged and reported as misses so an unhealthy cache never breaks an
// evaluation.
type DescriptorCache struct {
	client *Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
}

// DescriptorCacheOption customizes a DescriptorCache.
type DescriptorCacheOption func(*DescriptorCache)

// WithKeyPrefix overrides the default "cpd:desc:" key prefix.
func WithKeyPrefix(prefix string) DescriptorCacheOption {
	return func(c *DescriptorCache) { c.prefix = prefix }
}

// WithTTL overrides the default one-hour entry lifetime.  Zero disables
// expiry.
func WithTTL(ttl time.Duration) DescriptorCacheOption {
	return func(c *DescriptorCache) { c.ttl = ttl }
}

// NewDescriptorCache builds a cache on top of an open client.
func NewDescriptorCache(client *Client, log logging.Logger, opts ...DescriptorCacheOption) *DescriptorCache {
	c := &DescriptorCache{
		client: client,
		logger: log.Named("descriptor-cache"),
		prefix: "cpd:desc:",
		ttl:    time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *DescriptorCache) key(smiles string) string {
	return c.prefix + smiles
}

// Get returns the cached descriptor block for smiles, if present.
func (c *DescriptorCache) Get(ctx context.Context, smiles string) (compound.Descriptors, bool) {
	rdb, err := c.client.raw()
	if err != nil {
		return compound.Descriptors{}, false
	}
	data, err := rdb.Get(ctx, c.key(smiles)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.logger.Warn("cache read failed", logging.Err(err))
		}
		return compound.Descriptors{}, false
	}
	var d compound.Descriptors
	if err := json.Unmarshal(data, &d); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", logging.String("key", c.key(smiles)), logging.Err(err))
		_ = rdb.Del(ctx, c.key(smiles)).Err()
		return compound.Descriptors{}, false
	}
	return d, true
}

// Set stores the descriptor block for smiles.  Failures are logged only.
func (c *DescriptorCache) Set(ctx context.Context, smiles string, d compound.Descriptors) {
	rdb, err := c.client.raw()
	if err != nil {
		return
	}
	data, err := json.Marshal(d)
	if err != nil {
		c.logger.Warn("cache serialization failed", logging.Err(err))
		return
	}
	if err := rdb.Set(ctx, c.key(smiles), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", logging.Err(err))
	}
}
