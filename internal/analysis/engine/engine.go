// Package engine wires the metric calculators, reliability scorer, and
// strategy selector into the single analyze() entry point.
package engine

import (
	"time"

	"github.com/rs/zerolog"

	"optionscope/internal/analysis"
	"optionscope/internal/analysis/metrics"
	"optionscope/internal/analysis/scoring"
	"optionscope/internal/analysis/strategy"
	"optionscope/internal/errors"
	"optionscope/internal/models"
)

// Engine runs the pure analysis pipeline: Chain -> MetricsSnapshot ->
// StrategyLabel. It holds no mutable state between calls.
type Engine struct {
	scorer   *scoring.ReliabilityScorer
	selector *strategy.Selector
	atmSteps float64 // strike steps; <= 0 means the default window policy
	logger   zerolog.Logger
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights overrides the reliability weights.
func WithWeights(w scoring.Weights) Option {
	return func(e *Engine) { e.scorer = scoring.NewReliabilityScorerWithWeights(w) }
}

// WithThresholds overrides the selector thresholds.
func WithThresholds(t strategy.Thresholds) Option {
	return func(e *Engine) { e.selector = strategy.NewSelectorWithThresholds(t) }
}

// WithATMWindowSteps sets the ATM concentration window in strike steps.
func WithATMWindowSteps(steps float64) Option {
	return func(e *Engine) { e.atmSteps = steps }
}

// WithLogger sets the engine logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides the clock used for days-to-expiry. Tests use it.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an analysis engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		scorer:   scoring.NewReliabilityScorer(),
		selector: strategy.NewSelector(),
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze computes the metrics snapshot for a chain and selects a
// strategy. Chains missing either side are rejected up front; no
// partial snapshot is ever returned.
func (e *Engine) Analyze(c *models.Chain, spot float64) (*analysis.Report, error) {
	if c == nil || len(c.Rows) == 0 || !c.HasBothSides() {
		return nil, errors.ErrEmptyChain
	}

	snap := analysis.MetricsSnapshot{}

	ratio, err := metrics.PutCallRatio(c)
	switch {
	case err == nil:
		snap.PutCallRatio = ratio
		snap.PutCallDefined = true
	case errors.Is(err, errors.ErrNoCallVolume):
		// Undefined ratio reads as neutral sentiment downstream.
		snap.PutCallDefined = false
	default:
		return nil, err
	}

	snap.AvgIV, snap.IVCoverage, err = metrics.AvgIV(c)
	if err != nil {
		return nil, err
	}
	snap.ATMStrike, err = metrics.ATMStrike(c, spot)
	if err != nil {
		return nil, err
	}
	snap.IVSkew, err = metrics.IVSkew(c, spot)
	if err != nil {
		return nil, err
	}
	snap.ATMConcentration, err = metrics.ATMConcentration(c, spot, e.atmSteps*metrics.StrikeStep(c))
	if err != nil {
		return nil, err
	}
	snap.MostTradedStrike, err = metrics.MostTradedStrike(c, spot)
	if err != nil {
		return nil, err
	}
	snap.MostTradedCall, err = metrics.MostTradedBySide(c, models.Call, spot)
	if err != nil {
		return nil, err
	}
	snap.MostTradedPut, err = metrics.MostTradedBySide(c, models.Put, spot)
	if err != nil {
		return nil, err
	}
	snap.EstimatedRange, err = metrics.EstimateRange(c)
	if err != nil {
		return nil, err
	}

	snap.DaysToExpiry = c.Expiry.Sub(e.now()).Hours() / 24
	var totalVol, totalOI int64
	for _, r := range c.Rows {
		totalVol += r.Volume
		totalOI += r.OpenInterest
	}
	snap.ReliabilityIndex, _ = e.scorer.Score(scoring.Inputs{
		TotalVolume:       totalVol,
		TotalOpenInterest: totalOI,
		ATMConcentration:  snap.ATMConcentration,
		DaysToExpiry:      snap.DaysToExpiry,
	})

	label := e.selector.Select(snap)

	e.logger.Debug().
		Str("symbol", c.Symbol).
		Float64("spot", spot).
		Float64("put_call_ratio", snap.PutCallRatio).
		Bool("put_call_defined", snap.PutCallDefined).
		Float64("iv_skew", snap.IVSkew).
		Float64("reliability", snap.ReliabilityIndex).
		Str("label", string(label)).
		Msg("Chain analyzed")

	return &analysis.Report{Snapshot: snap, Label: label}, nil
}
