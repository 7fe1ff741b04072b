package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/erwire/pkg/observability"
)

// Instrument wraps c so every lookup and write is reported to
// observability.Cache(). The key type reported is the key's kind
// ("geometry", "artifact"), ignoring any scope prefix.
func Instrument(c Cache) Cache {
	if c == nil {
		c = NewNullCache()
	}
	return &instrumented{inner: c}
}

type instrumented struct {
	inner Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func (c *instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *instrumented) Close() error { return c.inner.Close() }

// keyType extracts the key kind: the segment before the hash.
func keyType(key string) string {
	head, _, ok := strings.Cut(lastSegment(key), ":")
	if !ok {
		return "unknown"
	}
	return head
}

// lastSegment drops any scope prefix, keeping "<kind>:<hash>".
func lastSegment(key string) string {
	i := strings.LastIndex(key, ":")
	if i <= 0 {
		return key
	}
	j := strings.LastIndex(key[:i], ":")
	return key[j+1:]
}
