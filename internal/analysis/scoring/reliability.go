// Package scoring combines chain activity measures into a single
// reliability index for the generated signal.
package scoring

import "math"

// Weights defines the weight of each sub-score in the reliability
// index. The defaults sum to 1.0 so the index stays in [0,1].
type Weights struct {
	Volume float64
	OI     float64
	ATM    float64
	Time   float64
}

// DefaultWeights returns the default reliability weights.
func DefaultWeights() Weights {
	return Weights{
		Volume: 0.30,
		OI:     0.30,
		ATM:    0.20,
		Time:   0.20,
	}
}

// Saturation and time-curve constants. Each sub-score uses a fixed,
// documented curve; see the methods below.
const (
	// VolumeHalfSat is the total chain volume at which the volume
	// sub-score reaches 0.5.
	VolumeHalfSat = 5000.0
	// OIHalfSat is the total open interest at which the OI sub-score
	// reaches 0.5.
	OIHalfSat = 10000.0
	// TimePeakDays is the days-to-expiry at which the time sub-score
	// peaks at 1.0.
	TimePeakDays = 30.0
)

// Inputs are the raw measures the scorer consumes.
type Inputs struct {
	TotalVolume       int64
	TotalOpenInterest int64
	ATMConcentration  float64
	DaysToExpiry      float64
}

// ReliabilityScorer computes the weighted reliability index.
type ReliabilityScorer struct {
	weights Weights
}

// NewReliabilityScorer creates a scorer with the default weights.
func NewReliabilityScorer() *ReliabilityScorer {
	return &ReliabilityScorer{weights: DefaultWeights()}
}

// NewReliabilityScorerWithWeights creates a scorer with custom weights.
func NewReliabilityScorerWithWeights(w Weights) *ReliabilityScorer {
	return &ReliabilityScorer{weights: w}
}

// Score returns the reliability index in [0,1] together with the
// individual sub-scores.
func (s *ReliabilityScorer) Score(in Inputs) (float64, map[string]float64) {
	components := map[string]float64{
		"volume": VolumeScore(in.TotalVolume),
		"oi":     OIScore(in.TotalOpenInterest),
		"atm":    clamp01(in.ATMConcentration),
		"time":   TimeScore(in.DaysToExpiry),
	}

	totalWeight := s.weights.Volume + s.weights.OI + s.weights.ATM + s.weights.Time
	if totalWeight <= 0 {
		return 0, components
	}

	index := components["volume"]*s.weights.Volume +
		components["oi"]*s.weights.OI +
		components["atm"]*s.weights.ATM +
		components["time"]*s.weights.Time
	index /= totalWeight

	return clamp01(index), components
}

// VolumeScore maps total chain volume to [0,1) with the saturating
// curve v/(v+VolumeHalfSat): monotonic, 0 at no volume, 0.5 at the
// half-saturation constant.
func VolumeScore(totalVolume int64) float64 {
	if totalVolume <= 0 {
		return 0
	}
	v := float64(totalVolume)
	return v / (v + VolumeHalfSat)
}

// OIScore maps total open interest to [0,1) with the saturating curve
// oi/(oi+OIHalfSat).
func OIScore(totalOI int64) float64 {
	if totalOI <= 0 {
		return 0
	}
	v := float64(totalOI)
	return v / (v + OIHalfSat)
}

// TimeScore maps days-to-expiry to [0,1] with the single-peak curve
// (d/p)*exp(1-d/p), p = TimePeakDays: 0 at expiry, 1.0 at p days,
// decaying for far-dated chains. Negative (already expired) scores 0.
func TimeScore(daysToExpiry float64) float64 {
	if daysToExpiry <= 0 {
		return 0
	}
	x := daysToExpiry / TimePeakDays
	return clamp01(x * math.Exp(1-x))
}

// Interpret maps a reliability index to the human-readable message the
// report prints alongside it.
func Interpret(index float64) string {
	switch {
	case index >= 0.75:
		return "high confidence: active chain with concentrated positioning"
	case index >= 0.50:
		return "moderate confidence: reasonable activity, treat directional signals with care"
	case index >= 0.25:
		return "low confidence: thin activity, signals are easily distorted"
	default:
		return "very low confidence: not enough activity to trust any signal"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
