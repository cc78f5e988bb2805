package metrics

import (
	"math"

	"optionscope/internal/analysis"
	"optionscope/internal/errors"
	"optionscope/internal/models"
)

// EstimateRange derives the expected trading box from the
// open-interest-weighted strike distribution: one weighted standard
// deviation around the weighted mean, clipped to the observed strike
// range. A chain whose open interest is all zero falls back to equal
// weights. A single-strike chain collapses to that strike.
func EstimateRange(c *models.Chain) (analysis.PriceRange, error) {
	if len(c.Rows) == 0 {
		return analysis.PriceRange{}, errors.ErrEmptyChain
	}

	var totalOI float64
	for _, r := range c.Rows {
		totalOI += float64(r.OpenInterest)
	}

	weight := func(r models.OptionRow) float64 {
		if totalOI == 0 {
			return 1
		}
		return float64(r.OpenInterest)
	}

	var sumW, sumWX float64
	minStrike := c.Rows[0].Strike
	maxStrike := c.Rows[0].Strike
	for _, r := range c.Rows {
		w := weight(r)
		sumW += w
		sumWX += w * r.Strike
		if r.Strike < minStrike {
			minStrike = r.Strike
		}
		if r.Strike > maxStrike {
			maxStrike = r.Strike
		}
	}
	mean := sumWX / sumW

	var sumWD float64
	for _, r := range c.Rows {
		d := r.Strike - mean
		sumWD += weight(r) * d * d
	}
	sigma := math.Sqrt(sumWD / sumW)

	low := mean - sigma
	high := mean + sigma
	if low < minStrike {
		low = minStrike
	}
	if high > maxStrike {
		high = maxStrike
	}
	return analysis.PriceRange{Low: low, High: high}, nil
}
