// Package chain normalizes raw call/put tables into a validated option chain.
package chain

import (
	"sort"
	"time"

	"optionscope/internal/errors"
	"optionscope/internal/models"
)

// Normalize converts raw call and put tables into a single validated
// chain. Every row is checked at this boundary; the first invalid row
// fails the whole construction.
func Normalize(symbol string, expiry time.Time, spot float64, calls, puts []models.RawOption) (*models.Chain, error) {
	if len(calls) == 0 || len(puts) == 0 {
		return nil, errors.ErrEmptyChain
	}

	rows := make([]models.OptionRow, 0, len(calls)+len(puts))
	for _, raw := range calls {
		row, err := normalizeRow(raw, models.Call)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	for _, raw := range puts {
		row, err := normalizeRow(raw, models.Put)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	// Stable strike order, calls before puts at equal strikes.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Strike != rows[j].Strike {
			return rows[i].Strike < rows[j].Strike
		}
		return rows[i].Type == models.Call && rows[j].Type == models.Put
	})

	return &models.Chain{
		Symbol:    symbol,
		Expiry:    expiry,
		SpotPrice: spot,
		Rows:      rows,
	}, nil
}

// New builds a chain from already-typed rows, applying the same
// validation as Normalize.
func New(symbol string, expiry time.Time, spot float64, rows []models.OptionRow) (*models.Chain, error) {
	if len(rows) == 0 {
		return nil, errors.ErrEmptyChain
	}
	for _, r := range rows {
		if err := ValidateRow(r); err != nil {
			return nil, err
		}
	}
	c := &models.Chain{
		Symbol:    symbol,
		Expiry:    expiry,
		SpotPrice: spot,
		Rows:      append([]models.OptionRow(nil), rows...),
	}
	if !c.HasBothSides() {
		return nil, errors.ErrEmptyChain
	}
	sort.SliceStable(c.Rows, func(i, j int) bool {
		if c.Rows[i].Strike != c.Rows[j].Strike {
			return c.Rows[i].Strike < c.Rows[j].Strike
		}
		return c.Rows[i].Type == models.Call && c.Rows[j].Type == models.Put
	})
	return c, nil
}

// ValidateRow checks a single option row against the chain invariants:
// strike > 0, volume >= 0, open interest >= 0, IV >= 0.
func ValidateRow(r models.OptionRow) error {
	if r.Strike <= 0 {
		return errors.NewInvalidRowError("strike", r.Strike, "must be positive")
	}
	if r.Volume < 0 {
		return errors.NewInvalidRowError("volume", r.Volume, "must be non-negative")
	}
	if r.OpenInterest < 0 {
		return errors.NewInvalidRowError("open_interest", r.OpenInterest, "must be non-negative")
	}
	if r.IV < 0 {
		return errors.NewInvalidRowError("iv", r.IV, "must be non-negative")
	}
	if r.Type != models.Call && r.Type != models.Put {
		return errors.NewInvalidRowError("type", string(r.Type), "must be CALL or PUT")
	}
	return nil
}

func normalizeRow(raw models.RawOption, t models.OptionType) (models.OptionRow, error) {
	row := models.OptionRow{
		Strike:       raw.Strike,
		Volume:       raw.Volume,
		OpenInterest: raw.OpenInterest,
		IV:           raw.IV,
		Type:         t,
	}
	if err := ValidateRow(row); err != nil {
		return models.OptionRow{}, err
	}
	return row, nil
}
