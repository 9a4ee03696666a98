package history

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"derisk/app/models"
	"derisk/pkg/log"
)

const (
	cacheExpiration = 5 * time.Minute
	cleanupInterval = 7 * time.Minute
)

// Source is where fresh history comes from, normally the backend client.
type Source interface {
	History(ctx context.Context, walletID string) ([]*models.TradeRecord, error)
}

// CachedFetcher keeps a per-address history cache so the dashboard can show
// something immediately and survive backend flakiness with stale data.
type CachedFetcher struct {
	Source Source

	cache *cache.Cache
}

func NewCachedFetcher(source Source) *CachedFetcher {
	return &CachedFetcher{
		Source: source,
		cache:  cache.New(cacheExpiration, cleanupInterval),
	}
}

// History fetches fresh records and falls back to the cached copy when the
// fetch fails. The context ties the fetch to the caller's lifetime.
func (f *CachedFetcher) History(ctx context.Context, walletID string) ([]*models.TradeRecord, error) {
	fresh, err := f.Source.History(ctx, walletID)
	if err != nil {
		if cached, found := f.cache.Get(walletID); found {
			log.Warnw("serving stale history", "wallet", walletID, "error", err.Error())
			return cached.([]*models.TradeRecord), nil
		}
		return nil, err
	}

	f.cache.Set(walletID, fresh, cache.DefaultExpiration)
	return fresh, nil
}

// Cached returns the cached records without touching the backend, for
// rendering while a fresh fetch is still in flight.
func (f *CachedFetcher) Cached(walletID string) ([]*models.TradeRecord, bool) {
	cached, found := f.cache.Get(walletID)
	if !found {
		return nil, false
	}
	return cached.([]*models.TradeRecord), true
}
