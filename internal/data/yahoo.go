package data

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"optionscope/internal/chain"
	"optionscope/internal/errors"
	"optionscope/internal/logging"
	"optionscope/internal/models"
	"optionscope/pkg/utils"
)

const yahooBaseURL = "https://query2.finance.yahoo.com/v7/finance/options"

// YahooProvider fetches option chains from the Yahoo Finance options
// endpoint. Transient failures are retried with the configured policy;
// exhaustion surfaces as a FetchError.
type YahooProvider struct {
	client *resty.Client
	retry  utils.RetryConfig
	logger zerolog.Logger
}

// NewYahooProvider creates a Yahoo Finance provider.
func NewYahooProvider(timeout time.Duration, retry utils.RetryConfig, logger zerolog.Logger) *YahooProvider {
	client := resty.New().
		SetBaseURL(yahooBaseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "optionscope/0.1")
	return &YahooProvider{
		client: client,
		retry:  retry,
		logger: logger,
	}
}

// Name implements Provider.
func (p *YahooProvider) Name() string { return "yahoo" }

// yahooResponse mirrors the slice of the Yahoo payload we consume.
type yahooResponse struct {
	OptionChain struct {
		Result []struct {
			UnderlyingSymbol string  `json:"underlyingSymbol"`
			ExpirationDates  []int64 `json:"expirationDates"`
			Quote            struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"quote"`
			Options []struct {
				ExpirationDate int64            `json:"expirationDate"`
				Calls          []yahooOptionRow `json:"calls"`
				Puts           []yahooOptionRow `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"optionChain"`
}

type yahooOptionRow struct {
	Strike            float64 `json:"strike"`
	Volume            int64   `json:"volume"`
	OpenInterest      int64   `json:"openInterest"`
	ImpliedVolatility float64 `json:"impliedVolatility"` // fraction, converted to percent
}

// GetExpiryDates implements Provider.
func (p *YahooProvider) GetExpiryDates(ctx context.Context, symbol string) ([]time.Time, error) {
	resp, err := p.fetch(ctx, symbol, time.Time{})
	if err != nil {
		return nil, err
	}
	result := resp.OptionChain.Result[0]
	if len(result.ExpirationDates) == 0 {
		return nil, errors.ErrNoExpiries
	}
	expiries := make([]time.Time, len(result.ExpirationDates))
	for i, ts := range result.ExpirationDates {
		expiries[i] = time.Unix(ts, 0).UTC()
	}
	return expiries, nil
}

// GetOptionChain implements Provider.
func (p *YahooProvider) GetOptionChain(ctx context.Context, symbol string, expiry time.Time) (*models.Chain, error) {
	start := time.Now()
	resp, err := p.fetch(ctx, symbol, expiry)
	if err != nil {
		logging.LogFetch(p.logger, symbol, expiry, 0, time.Since(start), err)
		return nil, err
	}
	result := resp.OptionChain.Result[0]
	if len(result.Options) == 0 {
		return nil, errors.ErrEmptyChain
	}
	opts := result.Options[0]
	if len(opts.Calls) == 0 || len(opts.Puts) == 0 {
		return nil, errors.ErrEmptyChain
	}

	c, err := chain.Normalize(
		symbol,
		time.Unix(opts.ExpirationDate, 0).UTC(),
		result.Quote.RegularMarketPrice,
		convertRows(opts.Calls),
		convertRows(opts.Puts),
	)
	if err != nil {
		return nil, err
	}

	logging.LogFetch(p.logger, symbol, c.Expiry, len(c.Rows), time.Since(start), nil)
	return c, nil
}

func (p *YahooProvider) fetch(ctx context.Context, symbol string, expiry time.Time) (*yahooResponse, error) {
	result, err := utils.RetryWithResult(ctx, p.retry, func() (*yahooResponse, error) {
		out := &yahooResponse{}
		req := p.client.R().
			SetContext(ctx).
			SetResult(out).
			SetPathParam("symbol", symbol)
		if !expiry.IsZero() {
			req.SetQueryParam("date", fmt.Sprintf("%d", expiry.UTC().Unix()))
		}
		resp, err := req.Get("/{symbol}")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("unexpected status %s", resp.Status())
		}
		if apiErr := out.OptionChain.Error; apiErr != nil {
			return nil, fmt.Errorf("%s: %s", apiErr.Code, apiErr.Description)
		}
		if len(out.OptionChain.Result) == 0 {
			return nil, errors.ErrDataNotFound
		}
		return out, nil
	})
	if err != nil {
		return nil, errors.NewFetchError(p.Name(), symbol, expiry, err)
	}
	return result, nil
}

func convertRows(rows []yahooOptionRow) []models.RawOption {
	out := make([]models.RawOption, len(rows))
	for i, r := range rows {
		out[i] = models.RawOption{
			Strike:       r.Strike,
			Volume:       r.Volume,
			OpenInterest: r.OpenInterest,
			IV:           r.ImpliedVolatility * 100,
		}
	}
	return out
}
