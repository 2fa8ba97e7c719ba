// internal/sources/cache.go
package sources

import (
	"context"
	"errors"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/shopspring/decimal"
)

type cacheEntry struct {
	cards   []NormalizedCard
	expires time.Time
}

// lookuper reports provider failures instead of folding them into an empty result.
type lookuper interface {
	Lookup(ctx context.Context, name string, ceiling decimal.Decimal, game string) ([]NormalizedCard, error)
}

// CachedSearcher keeps recent search results in a size-bounded LRU with a TTL.
// Failed provider calls are answered with an empty result and never cached.
type CachedSearcher struct {
	next  Searcher
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewCachedSearcher(next Searcher, size int, ttl time.Duration) (*CachedSearcher, error) {
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedSearcher{next: next, cache: cache, ttl: ttl, now: time.Now}, nil
}

func (c *CachedSearcher) Search(ctx context.Context, name string, ceiling decimal.Decimal, game string) ([]NormalizedCard, error) {
	key := strings.ToLower(strings.TrimSpace(game)) + "|" + strings.ToLower(strings.TrimSpace(name)) + "|" + ceiling.String()

	if v, ok := c.cache.Get(key); ok {
		entry := v.(cacheEntry)
		if c.now().Before(entry.expires) {
			return entry.cards, nil
		}
		c.cache.Remove(key)
	}

	var cards []NormalizedCard
	var err error
	if l, ok := c.next.(lookuper); ok {
		cards, err = l.Lookup(ctx, name, ceiling, game)
	} else {
		cards, err = c.next.Search(ctx, name, ceiling, game)
	}
	if errors.Is(err, ErrProviderUnavailable) {
		return []NormalizedCard{}, nil
	}
	if err != nil {
		return nil, err
	}
	if c.ttl > 0 {
		c.cache.Add(key, cacheEntry{cards: cards, expires: c.now().Add(c.ttl)})
	}
	return cards, nil
}

func (c *CachedSearcher) Purge() {
	c.cache.Purge()
}
