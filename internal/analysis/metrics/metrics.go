// Package metrics computes derived sentiment signals from a normalized
// option chain. All functions are pure and never mutate the chain.
package metrics

import (
	"math"
	"sort"

	"optionscope/internal/analysis"
	"optionscope/internal/errors"
	"optionscope/internal/models"
)

// DefaultATMWindowSteps is the default ATM concentration window,
// expressed in strike steps on each side of the ATM strike.
const DefaultATMWindowSteps = 2.0

// PutCallRatio returns total put volume divided by total call volume.
// When the call volume sum is zero the ratio is undefined and
// errors.ErrNoCallVolume is returned; callers treat that as neutral
// sentiment rather than an NaN.
func PutCallRatio(c *models.Chain) (float64, error) {
	var callVol, putVol int64
	for _, r := range c.Rows {
		switch r.Type {
		case models.Call:
			callVol += r.Volume
		case models.Put:
			putVol += r.Volume
		}
	}
	if callVol == 0 {
		return 0, errors.ErrNoCallVolume
	}
	return float64(putVol) / float64(callVol), nil
}

// ATMStrike returns the strike closest to the spot price.
func ATMStrike(c *models.Chain, spot float64) (float64, error) {
	if len(c.Rows) == 0 {
		return 0, errors.ErrEmptyChain
	}
	atm := c.Rows[0].Strike
	best := math.Abs(atm - spot)
	for _, r := range c.Rows[1:] {
		if d := math.Abs(r.Strike - spot); d < best {
			best = d
			atm = r.Strike
		}
	}
	return atm, nil
}

// StrikeStep returns the smallest gap between adjacent distinct strikes
// in the chain. A chain with a single distinct strike has step 0.
// This is the unit used for the "near ATM" windows.
func StrikeStep(c *models.Chain) float64 {
	strikes := distinctStrikes(c)
	if len(strikes) < 2 {
		return 0
	}
	step := strikes[1] - strikes[0]
	for i := 2; i < len(strikes); i++ {
		if gap := strikes[i] - strikes[i-1]; gap < step {
			step = gap
		}
	}
	return step
}

// IVSkew returns the average put IV minus the average call IV for rows
// within one strike step of the ATM strike. A negative skew means puts
// are cheaper relative to calls. Both sides must be present near ATM.
func IVSkew(c *models.Chain, spot float64) (float64, error) {
	atm, err := ATMStrike(c, spot)
	if err != nil {
		return 0, err
	}
	window := StrikeStep(c)

	var callSum, putSum float64
	var callN, putN int
	for _, r := range c.Rows {
		if math.Abs(r.Strike-atm) > window+1e-9 {
			continue
		}
		switch r.Type {
		case models.Call:
			callSum += r.IV
			callN++
		case models.Put:
			putSum += r.IV
			putN++
		}
	}
	if callN == 0 || putN == 0 {
		return 0, errors.ErrEmptyChain
	}
	return putSum/float64(putN) - callSum/float64(callN), nil
}

// AvgIV returns the volume-weighted mean implied volatility across the
// chain together with the coverage: the fraction of rows that carried
// volume. Zero-volume rows do not contribute to the weighting. When
// every row has zero volume the unweighted mean is returned so the
// result stays bounded by the observed IV range.
func AvgIV(c *models.Chain) (avg, coverage float64, err error) {
	if len(c.Rows) == 0 {
		return 0, 0, errors.ErrEmptyChain
	}
	var weighted, weight, plain float64
	var covered int
	for _, r := range c.Rows {
		plain += r.IV
		if r.Volume > 0 {
			weighted += r.IV * float64(r.Volume)
			weight += float64(r.Volume)
			covered++
		}
	}
	coverage = float64(covered) / float64(len(c.Rows))
	if weight == 0 {
		return plain / float64(len(c.Rows)), coverage, nil
	}
	return weighted / weight, coverage, nil
}

// ATMConcentration returns the fraction of total volume plus open
// interest sitting at strikes within `window` (price units) of the ATM
// strike. The default window is DefaultATMWindowSteps strike steps;
// pass window <= 0 to apply it. A chain with no activity at all
// concentrates nothing and returns 0.
func ATMConcentration(c *models.Chain, spot, window float64) (float64, error) {
	atm, err := ATMStrike(c, spot)
	if err != nil {
		return 0, err
	}
	if window <= 0 {
		window = DefaultATMWindowSteps * StrikeStep(c)
	}

	var near, total float64
	for _, r := range c.Rows {
		activity := float64(r.Volume + r.OpenInterest)
		total += activity
		if math.Abs(r.Strike-atm) <= window+1e-9 {
			near += activity
		}
	}
	if total == 0 {
		return 0, nil
	}
	return near / total, nil
}

// MostTradedStrike returns the strike with the highest aggregate volume
// across both sides. Ties are broken by larger open interest, then by
// the strike closest to spot.
func MostTradedStrike(c *models.Chain, spot float64) (float64, error) {
	if len(c.Rows) == 0 {
		return 0, errors.ErrEmptyChain
	}
	type bucket struct {
		volume int64
		oi     int64
	}
	buckets := make(map[float64]*bucket)
	for _, r := range c.Rows {
		b, ok := buckets[r.Strike]
		if !ok {
			b = &bucket{}
			buckets[r.Strike] = b
		}
		b.volume += r.Volume
		b.oi += r.OpenInterest
	}

	var best float64
	first := true
	for strike, b := range buckets {
		if first {
			best = strike
			first = false
			continue
		}
		cur := buckets[best]
		switch {
		case b.volume > cur.volume:
			best = strike
		case b.volume == cur.volume && b.oi > cur.oi:
			best = strike
		case b.volume == cur.volume && b.oi == cur.oi &&
			math.Abs(strike-spot) < math.Abs(best-spot):
			best = strike
		}
	}
	return best, nil
}

// MostTradedBySide returns the activity at the highest-volume strike of
// one side, with the same tie-breaking as MostTradedStrike.
func MostTradedBySide(c *models.Chain, t models.OptionType, spot float64) (analysis.StrikeActivity, error) {
	var best analysis.StrikeActivity
	found := false
	for _, r := range c.Rows {
		if r.Type != t {
			continue
		}
		cand := analysis.StrikeActivity{
			Strike:       r.Strike,
			Volume:       r.Volume,
			OpenInterest: r.OpenInterest,
		}
		if !found {
			best = cand
			found = true
			continue
		}
		switch {
		case cand.Volume > best.Volume:
			best = cand
		case cand.Volume == best.Volume && cand.OpenInterest > best.OpenInterest:
			best = cand
		case cand.Volume == best.Volume && cand.OpenInterest == best.OpenInterest &&
			math.Abs(cand.Strike-spot) < math.Abs(best.Strike-spot):
			best = cand
		}
	}
	if !found {
		return analysis.StrikeActivity{}, errors.ErrEmptyChain
	}
	return best, nil
}

func distinctStrikes(c *models.Chain) []float64 {
	seen := make(map[float64]struct{}, len(c.Rows))
	var strikes []float64
	for _, r := range c.Rows {
		if _, ok := seen[r.Strike]; ok {
			continue
		}
		seen[r.Strike] = struct{}{}
		strikes = append(strikes, r.Strike)
	}
	sort.Float64s(strikes)
	return strikes
}
