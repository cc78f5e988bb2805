package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionscope/internal/analysis"
	"optionscope/internal/errors"
	"optionscope/internal/models"
)

var (
	testNow    = time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)
	testExpiry = testNow.Add(30 * 24 * time.Hour)
)

func testChain(rows ...models.OptionRow) *models.Chain {
	return &models.Chain{
		Symbol:    "AAPL",
		Expiry:    testExpiry,
		SpotPrice: 100,
		Rows:      rows,
	}
}

func row(t models.OptionType, strike float64, vol, oi int64, iv float64) models.OptionRow {
	return models.OptionRow{Strike: strike, Volume: vol, OpenInterest: oi, IV: iv, Type: t}
}

func TestAnalyze_RejectsUnusableChains(t *testing.T) {
	e := New()

	_, err := e.Analyze(nil, 100)
	assert.ErrorIs(t, err, errors.ErrEmptyChain)

	_, err = e.Analyze(testChain(), 100)
	assert.ErrorIs(t, err, errors.ErrEmptyChain)

	callsOnly := testChain(row(models.Call, 100, 10, 10, 20))
	_, err = e.Analyze(callsOnly, 100)
	assert.ErrorIs(t, err, errors.ErrEmptyChain)
}

func TestAnalyze_FullPipeline(t *testing.T) {
	e := New(WithClock(func() time.Time { return testNow }))

	c := testChain(
		row(models.Call, 100, 2000, 4000, 25),
		row(models.Put, 100, 6000, 8000, 30),
	)
	report, err := e.Analyze(c, 100)
	require.NoError(t, err)

	snap := report.Snapshot
	assert.True(t, snap.PutCallDefined)
	assert.InDelta(t, 3.0, snap.PutCallRatio, 1e-12)
	assert.InDelta(t, 5.0, snap.IVSkew, 1e-12)
	assert.Equal(t, 100.0, snap.ATMStrike)
	assert.InDelta(t, 1.0, snap.ATMConcentration, 1e-12)
	assert.Equal(t, 100.0, snap.MostTradedStrike)
	assert.Equal(t, int64(2000), snap.MostTradedCall.Volume)
	assert.Equal(t, int64(6000), snap.MostTradedPut.Volume)
	assert.InDelta(t, 30.0, snap.DaysToExpiry, 1e-9)
	assert.Greater(t, snap.ReliabilityIndex, 0.4)

	// Heavy put positioning with a bearish skew reads as Buy, not
	// StrongBuy: the skew confirmation is missing.
	assert.Equal(t, analysis.Buy, report.Label)
}

func TestAnalyze_UndefinedRatioStaysNeutral(t *testing.T) {
	e := New(WithClock(func() time.Time { return testNow }))

	c := testChain(
		row(models.Call, 100, 0, 9000, 25),
		row(models.Put, 100, 9000, 9000, 30),
	)
	report, err := e.Analyze(c, 100)
	require.NoError(t, err)
	assert.False(t, report.Snapshot.PutCallDefined)
	assert.Equal(t, analysis.Neutral, report.Label)
}

func TestAnalyze_HighIVDominates(t *testing.T) {
	e := New(WithClock(func() time.Time { return testNow }))

	c := testChain(
		row(models.Call, 100, 2000, 4000, 70),
		row(models.Put, 100, 6000, 8000, 75),
	)
	report, err := e.Analyze(c, 100)
	require.NoError(t, err)
	assert.Equal(t, analysis.HighVolatility, report.Label)
}

func TestAnalyze_CustomATMWindow(t *testing.T) {
	e := New(
		WithClock(func() time.Time { return testNow }),
		WithATMWindowSteps(0.5),
	)

	c := testChain(
		row(models.Call, 100, 1000, 1000, 25),
		row(models.Put, 100, 1000, 1000, 27),
		row(models.Call, 110, 1000, 1000, 26),
		row(models.Put, 110, 1000, 1000, 28),
	)
	report, err := e.Analyze(c, 100)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, report.Snapshot.ATMConcentration, 1e-12)
}

func TestAnalyze_ExpiredChainScoresLowReliability(t *testing.T) {
	e := New(WithClock(func() time.Time { return testExpiry.Add(24 * time.Hour) }))

	c := testChain(
		row(models.Call, 100, 100, 200, 25),
		row(models.Put, 100, 300, 400, 30),
	)
	report, err := e.Analyze(c, 100)
	require.NoError(t, err)
	assert.Less(t, report.Snapshot.DaysToExpiry, 0.0)
	// Past expiry the time sub-score is 0; this thin chain cannot reach
	// the directional floor from the remaining components.
	assert.Equal(t, analysis.Neutral, report.Label)
}
