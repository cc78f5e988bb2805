// Package report renders an analysis result as a plain-text report
// shared by the CLI and the web presentation.
package report

import (
	"fmt"
	"strings"
	"time"

	"optionscope/internal/analysis"
	"optionscope/internal/analysis/scoring"
	"optionscope/pkg/utils"
)

// Build assembles the report lines for one analyzed chain.
func Build(symbol string, expiry time.Time, spot float64, r *analysis.Report) []string {
	snap := r.Snapshot

	lines := []string{
		fmt.Sprintf("%s options analysis", symbol),
		"",
		fmt.Sprintf("Strategy:      %s", labelText(r.Label)),
		fmt.Sprintf("Expiry:        %s (%.0f days)", utils.FormatDate(expiry), snap.DaysToExpiry),
		fmt.Sprintf("Spot:          %s", utils.FormatPrice(spot)),
		"",
		"Most traded",
		fmt.Sprintf("  Call strike: %s  (volume %s, OI %s)",
			utils.FormatStrike(snap.MostTradedCall.Strike),
			utils.FormatVolume(snap.MostTradedCall.Volume),
			utils.FormatVolume(snap.MostTradedCall.OpenInterest)),
		fmt.Sprintf("  Put strike:  %s  (volume %s, OI %s)",
			utils.FormatStrike(snap.MostTradedPut.Strike),
			utils.FormatVolume(snap.MostTradedPut.Volume),
			utils.FormatVolume(snap.MostTradedPut.OpenInterest)),
		"",
		"Sentiment",
		fmt.Sprintf("  Put/Call ratio:    %s", ratioText(snap)),
		fmt.Sprintf("  IV skew (P-C):     %.2f%%", snap.IVSkew),
		fmt.Sprintf("  Average IV:        %.1f%% (coverage %.0f%%)", snap.AvgIV, snap.IVCoverage*100),
		fmt.Sprintf("  ATM strike:        %s", utils.FormatStrike(snap.ATMStrike)),
		fmt.Sprintf("  ATM concentration: %.0f%%", snap.ATMConcentration*100),
		"",
		"Reliability",
		fmt.Sprintf("  Index:          %.2f / 1.00", snap.ReliabilityIndex),
		fmt.Sprintf("  Interpretation: %s", scoring.Interpret(snap.ReliabilityIndex)),
		"",
		fmt.Sprintf("Expected trading box: %s ~ %s",
			utils.FormatPrice(snap.EstimatedRange.Low),
			utils.FormatPrice(snap.EstimatedRange.High)),
	}
	return lines
}

// Render joins the report lines into a single string.
func Render(symbol string, expiry time.Time, spot float64, r *analysis.Report) string {
	return strings.Join(Build(symbol, expiry, spot, r), "\n")
}

func ratioText(snap analysis.MetricsSnapshot) string {
	if !snap.PutCallDefined {
		return "undefined (no call volume)"
	}
	return fmt.Sprintf("%.2f", snap.PutCallRatio)
}

func labelText(label analysis.StrategyLabel) string {
	switch label {
	case analysis.StrongBuy:
		return "strong buy signal"
	case analysis.Buy:
		return "buy signal"
	case analysis.Sell:
		return "sell signal"
	case analysis.StrongSell:
		return "strong sell signal"
	case analysis.HighVolatility:
		return "elevated volatility, stay on the sidelines"
	default:
		return "neutral / no signal"
	}
}
