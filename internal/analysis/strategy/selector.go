// Package strategy maps a metrics snapshot to a discrete strategy
// label through a fixed decision table.
package strategy

import (
	"optionscope/internal/analysis"
)

// Thresholds are the named constants of the decision table. They are
// heuristic; the defaults preserve the original tuning and are
// configurable rather than derived.
type Thresholds struct {
	// RatioBullish: put/call ratio above this reads as contrarian
	// bullish (heavy put hedging).
	RatioBullish float64
	// RatioBearish: put/call ratio below this reads as bearish
	// (complacent call chasing).
	RatioBearish float64
	// SkewBullish: IV skew (percent points) below this confirms a
	// bullish read; puts are cheap relative to calls.
	SkewBullish float64
	// SkewBearish: IV skew above this confirms a bearish read.
	SkewBearish float64
	// HighIV: average IV (percent) at or above this dominates the
	// directional signals.
	HighIV float64
	// MinReliability: below this index no directional call is made.
	MinReliability float64
}

// DefaultThresholds returns the default decision-table thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RatioBullish:   1.5,
		RatioBearish:   0.7,
		SkewBullish:    -2.0,
		SkewBearish:    2.0,
		HighIV:         60.0,
		MinReliability: 0.4,
	}
}

// Selector selects a strategy label for a snapshot.
type Selector struct {
	thresholds Thresholds
}

// NewSelector creates a selector with the default thresholds.
func NewSelector() *Selector {
	return &Selector{thresholds: DefaultThresholds()}
}

// NewSelectorWithThresholds creates a selector with custom thresholds.
func NewSelectorWithThresholds(t Thresholds) *Selector {
	return &Selector{thresholds: t}
}

// Select is a total function: every snapshot maps to exactly one label
// from the fixed set, with NEUTRAL as the explicit default. The rules
// are evaluated in order; the first match wins.
func (s *Selector) Select(snap analysis.MetricsSnapshot) analysis.StrategyLabel {
	t := s.thresholds

	// An undefined put/call ratio carries no sentiment, and a chain
	// below the reliability floor is not trusted either way.
	if !snap.PutCallDefined || snap.ReliabilityIndex < t.MinReliability {
		return analysis.Neutral
	}

	// Elevated volatility dominates any directional read.
	if snap.AvgIV >= t.HighIV {
		return analysis.HighVolatility
	}

	ratio := snap.PutCallRatio
	skew := snap.IVSkew

	switch {
	case ratio > t.RatioBullish && skew < t.SkewBullish:
		return analysis.StrongBuy
	case ratio > t.RatioBullish:
		return analysis.Buy
	case ratio < t.RatioBearish && skew > t.SkewBearish:
		return analysis.StrongSell
	case ratio < t.RatioBearish:
		return analysis.Sell
	default:
		return analysis.Neutral
	}
}
