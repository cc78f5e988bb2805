// Package analysis provides option chain analytics: derived sentiment
// metrics, reliability scoring, and strategy selection.
package analysis

// MetricsSnapshot holds the derived signals for one chain. It is
// computed once per chain and never mutated afterwards.
type MetricsSnapshot struct {
	PutCallRatio     float64
	PutCallDefined   bool // false when the call volume sum is zero
	AvgIV            float64
	IVCoverage       float64 // fraction of rows that carried volume
	IVSkew           float64 // put IV minus call IV near ATM, percent points
	ATMStrike        float64
	ATMConcentration float64
	MostTradedStrike float64
	MostTradedCall   StrikeActivity
	MostTradedPut    StrikeActivity
	ReliabilityIndex float64
	EstimatedRange   PriceRange
	DaysToExpiry     float64
}

// StrikeActivity summarizes trading activity at a single strike.
type StrikeActivity struct {
	Strike       float64
	Volume       int64
	OpenInterest int64
}

// PriceRange is the expected trading box derived from the
// open-interest-weighted strike distribution.
type PriceRange struct {
	Low  float64
	High float64
}

// StrategyLabel is the discrete recommendation emitted by the selector.
type StrategyLabel string

const (
	StrongBuy      StrategyLabel = "STRONG_BUY"
	Buy            StrategyLabel = "BUY"
	Neutral        StrategyLabel = "NEUTRAL"
	Sell           StrategyLabel = "SELL"
	StrongSell     StrategyLabel = "STRONG_SELL"
	HighVolatility StrategyLabel = "HIGH_VOLATILITY"
)

// Labels lists every label the selector can emit.
func Labels() []StrategyLabel {
	return []StrategyLabel{StrongBuy, Buy, Neutral, Sell, StrongSell, HighVolatility}
}

// Report pairs a snapshot with the selected strategy.
type Report struct {
	Snapshot MetricsSnapshot
	Label    StrategyLabel
}
