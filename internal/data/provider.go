// Package data provides option chain data providers. Providers are
// the fetch collaborators of the analysis core: they perform all I/O,
// retries, and caching so the core never has to.
package data

import (
	"context"
	"sort"
	"time"

	"optionscope/internal/errors"
	"optionscope/internal/models"
)

// Provider supplies option chain data for a ticker.
type Provider interface {
	// Name identifies the provider in logs and errors.
	Name() string
	// GetExpiryDates returns the available expiry dates for a ticker,
	// sorted ascending. Returns errors.ErrNoExpiries when none exist.
	GetExpiryDates(ctx context.Context, symbol string) ([]time.Time, error)
	// GetOptionChain fetches the normalized chain for one expiry.
	// Passing the zero time selects the nearest available expiry.
	// Returns errors.ErrEmptyChain when either side has no rows.
	GetOptionChain(ctx context.Context, symbol string, expiry time.Time) (*models.Chain, error)
}

// StaticProvider serves pre-built chains from memory. Tests and demos
// use it in place of a live source.
type StaticProvider struct {
	chains map[string]map[time.Time]*models.Chain
}

// NewStaticProvider creates an empty static provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{chains: make(map[string]map[time.Time]*models.Chain)}
}

// Add registers a chain under its symbol and expiry.
func (p *StaticProvider) Add(c *models.Chain) {
	bySymbol, ok := p.chains[c.Symbol]
	if !ok {
		bySymbol = make(map[time.Time]*models.Chain)
		p.chains[c.Symbol] = bySymbol
	}
	bySymbol[c.Expiry] = c
}

// Name implements Provider.
func (p *StaticProvider) Name() string { return "static" }

// GetExpiryDates implements Provider.
func (p *StaticProvider) GetExpiryDates(_ context.Context, symbol string) ([]time.Time, error) {
	bySymbol, ok := p.chains[symbol]
	if !ok || len(bySymbol) == 0 {
		return nil, errors.ErrNoExpiries
	}
	expiries := make([]time.Time, 0, len(bySymbol))
	for exp := range bySymbol {
		expiries = append(expiries, exp)
	}
	sort.Slice(expiries, func(i, j int) bool { return expiries[i].Before(expiries[j]) })
	return expiries, nil
}

// GetOptionChain implements Provider.
func (p *StaticProvider) GetOptionChain(ctx context.Context, symbol string, expiry time.Time) (*models.Chain, error) {
	bySymbol, ok := p.chains[symbol]
	if !ok {
		return nil, errors.ErrDataNotFound
	}
	if expiry.IsZero() {
		expiries, err := p.GetExpiryDates(ctx, symbol)
		if err != nil {
			return nil, err
		}
		expiry = expiries[0]
	}
	c, ok := bySymbol[expiry]
	if !ok {
		return nil, errors.ErrDataNotFound
	}
	if !c.HasBothSides() {
		return nil, errors.ErrEmptyChain
	}
	return c, nil
}
