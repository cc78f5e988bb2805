package data

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"optionscope/internal/chain"
	"optionscope/internal/errors"
	"optionscope/internal/models"
)

// CSVProvider reads option chains from local CSV files laid out as
// <dir>/<SYMBOL>/<YYYY-MM-DD>.csv, one row per contract.
type CSVProvider struct {
	dir string
}

// NewCSVProvider creates a CSV provider rooted at dir.
func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{dir: dir}
}

// Name implements Provider.
func (p *CSVProvider) Name() string { return "csv" }

type csvOptionRow struct {
	Type         string  `csv:"type"`
	Strike       float64 `csv:"strike"`
	Volume       int64   `csv:"volume"`
	OpenInterest int64   `csv:"open_interest"`
	IV           float64 `csv:"implied_volatility"`
}

// GetExpiryDates implements Provider. Expiries are derived from the
// file names under the symbol directory.
func (p *CSVProvider) GetExpiryDates(_ context.Context, symbol string) ([]time.Time, error) {
	entries, err := os.ReadDir(filepath.Join(p.dir, strings.ToUpper(symbol)))
	if err != nil {
		return nil, errors.NewFetchError(p.Name(), symbol, time.Time{}, err)
	}

	var expiries []time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		expiry, err := time.Parse("2006-01-02", strings.TrimSuffix(e.Name(), ".csv"))
		if err != nil {
			continue
		}
		expiries = append(expiries, expiry)
	}
	if len(expiries) == 0 {
		return nil, errors.ErrNoExpiries
	}
	sort.Slice(expiries, func(i, j int) bool { return expiries[i].Before(expiries[j]) })
	return expiries, nil
}

// GetOptionChain implements Provider.
func (p *CSVProvider) GetOptionChain(ctx context.Context, symbol string, expiry time.Time) (*models.Chain, error) {
	symbol = strings.ToUpper(symbol)
	if expiry.IsZero() {
		expiries, err := p.GetExpiryDates(ctx, symbol)
		if err != nil {
			return nil, err
		}
		expiry = expiries[0]
	}

	path := filepath.Join(p.dir, symbol, expiry.Format("2006-01-02")+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewFetchError(p.Name(), symbol, expiry, err)
	}
	defer f.Close()

	var rows []csvOptionRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.NewFetchError(p.Name(), symbol, expiry, err)
	}

	var calls, puts []models.RawOption
	for _, r := range rows {
		raw := models.RawOption{
			Strike:       r.Strike,
			Volume:       r.Volume,
			OpenInterest: r.OpenInterest,
			IV:           r.IV,
		}
		switch strings.ToUpper(r.Type) {
		case "CALL", "C":
			calls = append(calls, raw)
		case "PUT", "P":
			puts = append(puts, raw)
		default:
			return nil, errors.NewInvalidRowError("type", r.Type, "must be CALL or PUT")
		}
	}
	// CSV files carry no quote; the caller supplies the spot price.
	return chain.Normalize(symbol, expiry, 0, calls, puts)
}
