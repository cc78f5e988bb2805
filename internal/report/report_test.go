package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"optionscope/internal/analysis"
)

func sampleReport() *analysis.Report {
	return &analysis.Report{
		Snapshot: analysis.MetricsSnapshot{
			PutCallRatio:     3.0,
			PutCallDefined:   true,
			AvgIV:            28.75,
			IVCoverage:       1.0,
			IVSkew:           5.0,
			ATMStrike:        100,
			ATMConcentration: 1.0,
			MostTradedStrike: 100,
			MostTradedCall:   analysis.StrikeActivity{Strike: 100, Volume: 2000, OpenInterest: 4000},
			MostTradedPut:    analysis.StrikeActivity{Strike: 100, Volume: 6000, OpenInterest: 8000},
			ReliabilityIndex: 0.75,
			EstimatedRange:   analysis.PriceRange{Low: 95.5, High: 104.5},
			DaysToExpiry:     30,
		},
		Label: analysis.Buy,
	}
}

func TestRender(t *testing.T) {
	expiry := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	out := Render("AAPL", expiry, 100, sampleReport())

	assert.Contains(t, out, "AAPL options analysis")
	assert.Contains(t, out, "buy signal")
	assert.Contains(t, out, "2026-09-18 (30 days)")
	assert.Contains(t, out, "Call strike: $100  (volume 2,000, OI 4,000)")
	assert.Contains(t, out, "Put strike:  $100  (volume 6,000, OI 8,000)")
	assert.Contains(t, out, "Put/Call ratio:    3.00")
	assert.Contains(t, out, "IV skew (P-C):     5.00%")
	assert.Contains(t, out, "Index:          0.75 / 1.00")
	assert.Contains(t, out, "high confidence")
	assert.Contains(t, out, "Expected trading box: $95.50 ~ $104.50")
}

func TestRender_UndefinedRatio(t *testing.T) {
	r := sampleReport()
	r.Snapshot.PutCallDefined = false
	r.Label = analysis.Neutral

	out := Render("AAPL", time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC), 100, r)
	assert.Contains(t, out, "undefined (no call volume)")
	assert.Contains(t, out, "neutral / no signal")
}
