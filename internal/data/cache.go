package data

import (
	"context"
	"sync"
	"time"

	"optionscope/internal/models"
)

// CachedProvider memoizes expiry and chain lookups per ticker on top
// of another provider. Entries expire after the TTL, and callers can
// invalidate a ticker (or everything) explicitly; there is no implicit
// unbounded process-wide cache.
type CachedProvider struct {
	inner Provider
	ttl   time.Duration
	now   func() time.Time

	mu       sync.RWMutex
	expiries map[string]expiryEntry
	chains   map[chainKey]chainEntry
}

type chainKey struct {
	symbol string
	expiry time.Time
}

type expiryEntry struct {
	dates     []time.Time
	fetchedAt time.Time
}

type chainEntry struct {
	chain     *models.Chain
	fetchedAt time.Time
}

// NewCachedProvider wraps a provider with a TTL cache.
func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner:    inner,
		ttl:      ttl,
		now:      time.Now,
		expiries: make(map[string]expiryEntry),
		chains:   make(map[chainKey]chainEntry),
	}
}

// Name implements Provider.
func (p *CachedProvider) Name() string { return p.inner.Name() }

// GetExpiryDates implements Provider with memoization.
func (p *CachedProvider) GetExpiryDates(ctx context.Context, symbol string) ([]time.Time, error) {
	p.mu.RLock()
	entry, ok := p.expiries[symbol]
	p.mu.RUnlock()
	if ok && p.fresh(entry.fetchedAt) {
		return append([]time.Time(nil), entry.dates...), nil
	}

	dates, err := p.inner.GetExpiryDates(ctx, symbol)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.expiries[symbol] = expiryEntry{dates: dates, fetchedAt: p.now()}
	p.mu.Unlock()
	return append([]time.Time(nil), dates...), nil
}

// GetOptionChain implements Provider with memoization keyed by
// symbol and expiry. The zero expiry is never cached because the
// nearest expiry changes over time.
func (p *CachedProvider) GetOptionChain(ctx context.Context, symbol string, expiry time.Time) (*models.Chain, error) {
	if expiry.IsZero() {
		return p.inner.GetOptionChain(ctx, symbol, expiry)
	}

	key := chainKey{symbol: symbol, expiry: expiry}
	p.mu.RLock()
	entry, ok := p.chains[key]
	p.mu.RUnlock()
	if ok && p.fresh(entry.fetchedAt) {
		return entry.chain, nil
	}

	c, err := p.inner.GetOptionChain(ctx, symbol, expiry)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.chains[key] = chainEntry{chain: c, fetchedAt: p.now()}
	p.mu.Unlock()
	return c, nil
}

// Invalidate drops all cached entries for a ticker.
func (p *CachedProvider) Invalidate(symbol string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.expiries, symbol)
	for key := range p.chains {
		if key.symbol == symbol {
			delete(p.chains, key)
		}
	}
}

// InvalidateAll drops every cached entry.
func (p *CachedProvider) InvalidateAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expiries = make(map[string]expiryEntry)
	p.chains = make(map[chainKey]chainEntry)
}

func (p *CachedProvider) fresh(fetchedAt time.Time) bool {
	if p.ttl <= 0 {
		return true
	}
	return p.now().Sub(fetchedAt) < p.ttl
}
