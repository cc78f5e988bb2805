package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionscope/internal/models"
)

// countingProvider wraps another provider and counts fetches.
type countingProvider struct {
	inner       Provider
	expiryCalls int
	chainCalls  int
}

func (p *countingProvider) Name() string { return p.inner.Name() }

func (p *countingProvider) GetExpiryDates(ctx context.Context, symbol string) ([]time.Time, error) {
	p.expiryCalls++
	return p.inner.GetExpiryDates(ctx, symbol)
}

func (p *countingProvider) GetOptionChain(ctx context.Context, symbol string, expiry time.Time) (*models.Chain, error) {
	p.chainCalls++
	return p.inner.GetOptionChain(ctx, symbol, expiry)
}

func cacheTestChain(symbol string, expiry time.Time) *models.Chain {
	return &models.Chain{
		Symbol:    symbol,
		Expiry:    expiry,
		SpotPrice: 100,
		Rows: []models.OptionRow{
			{Strike: 100, Volume: 10, OpenInterest: 20, IV: 25, Type: models.Call},
			{Strike: 100, Volume: 30, OpenInterest: 40, IV: 28, Type: models.Put},
		},
	}
}

func TestCachedProvider_MemoizesWithinTTL(t *testing.T) {
	expiry := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	static := NewStaticProvider()
	static.Add(cacheTestChain("AAPL", expiry))
	counting := &countingProvider{inner: static}

	cached := NewCachedProvider(counting, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := cached.GetExpiryDates(ctx, "AAPL")
		require.NoError(t, err)
		_, err = cached.GetOptionChain(ctx, "AAPL", expiry)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, counting.expiryCalls)
	assert.Equal(t, 1, counting.chainCalls)
}

func TestCachedProvider_TTLExpiry(t *testing.T) {
	expiry := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	static := NewStaticProvider()
	static.Add(cacheTestChain("AAPL", expiry))
	counting := &countingProvider{inner: static}

	cached := NewCachedProvider(counting, time.Minute)
	clock := time.Date(2026, 8, 19, 12, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return clock }
	ctx := context.Background()

	_, err := cached.GetOptionChain(ctx, "AAPL", expiry)
	require.NoError(t, err)
	_, err = cached.GetOptionChain(ctx, "AAPL", expiry)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.chainCalls)

	clock = clock.Add(2 * time.Minute)
	_, err = cached.GetOptionChain(ctx, "AAPL", expiry)
	require.NoError(t, err)
	assert.Equal(t, 2, counting.chainCalls)
}

func TestCachedProvider_ZeroExpiryIsNeverCached(t *testing.T) {
	expiry := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	static := NewStaticProvider()
	static.Add(cacheTestChain("AAPL", expiry))
	counting := &countingProvider{inner: static}

	cached := NewCachedProvider(counting, time.Minute)
	ctx := context.Background()

	_, err := cached.GetOptionChain(ctx, "AAPL", time.Time{})
	require.NoError(t, err)
	_, err = cached.GetOptionChain(ctx, "AAPL", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, counting.chainCalls)
}

func TestCachedProvider_Invalidate(t *testing.T) {
	expiry := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	static := NewStaticProvider()
	static.Add(cacheTestChain("AAPL", expiry))
	static.Add(cacheTestChain("MSFT", expiry))
	counting := &countingProvider{inner: static}

	cached := NewCachedProvider(counting, 0) // no TTL, entries live until invalidated
	ctx := context.Background()

	_, err := cached.GetExpiryDates(ctx, "AAPL")
	require.NoError(t, err)
	_, err = cached.GetExpiryDates(ctx, "MSFT")
	require.NoError(t, err)

	cached.Invalidate("AAPL")

	_, err = cached.GetExpiryDates(ctx, "AAPL")
	require.NoError(t, err)
	_, err = cached.GetExpiryDates(ctx, "MSFT")
	require.NoError(t, err)
	assert.Equal(t, 3, counting.expiryCalls) // AAPL refetched, MSFT still cached
}

func TestCachedProvider_ErrorsAreNotCached(t *testing.T) {
	static := NewStaticProvider()
	counting := &countingProvider{inner: static}
	cached := NewCachedProvider(counting, time.Minute)
	ctx := context.Background()

	_, err := cached.GetExpiryDates(ctx, "GHOST")
	require.Error(t, err)
	_, err = cached.GetExpiryDates(ctx, "GHOST")
	require.Error(t, err)
	assert.Equal(t, 2, counting.expiryCalls)
}
