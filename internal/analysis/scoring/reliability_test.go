package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolumeScore(t *testing.T) {
	assert.Equal(t, 0.0, VolumeScore(0))
	assert.Equal(t, 0.0, VolumeScore(-5))
	assert.InDelta(t, 0.5, VolumeScore(5000), 1e-12)
	assert.Greater(t, VolumeScore(20000), VolumeScore(5000))
	assert.Less(t, VolumeScore(1_000_000_000), 1.0)
}

func TestOIScore(t *testing.T) {
	assert.Equal(t, 0.0, OIScore(0))
	assert.InDelta(t, 0.5, OIScore(10000), 1e-12)
	assert.Greater(t, OIScore(50000), OIScore(10000))
}

func TestTimeScore(t *testing.T) {
	assert.Equal(t, 0.0, TimeScore(0))
	assert.Equal(t, 0.0, TimeScore(-3))
	assert.InDelta(t, 1.0, TimeScore(TimePeakDays), 1e-12)
	assert.Less(t, TimeScore(7), TimeScore(TimePeakDays))
	assert.Less(t, TimeScore(180), TimeScore(TimePeakDays))
	assert.Greater(t, TimeScore(180), 0.0)
}

func TestScore_DefaultWeights(t *testing.T) {
	s := NewReliabilityScorer()
	index, components := s.Score(Inputs{
		TotalVolume:       5000,
		TotalOpenInterest: 10000,
		ATMConcentration:  1.0,
		DaysToExpiry:      30,
	})

	assert.InDelta(t, 0.5, components["volume"], 1e-12)
	assert.InDelta(t, 0.5, components["oi"], 1e-12)
	assert.InDelta(t, 1.0, components["atm"], 1e-12)
	assert.InDelta(t, 1.0, components["time"], 1e-12)
	// 0.5*0.3 + 0.5*0.3 + 1.0*0.2 + 1.0*0.2
	assert.InDelta(t, 0.70, index, 1e-12)
}

func TestScore_DeadChainScoresZero(t *testing.T) {
	s := NewReliabilityScorer()
	index, _ := s.Score(Inputs{})
	assert.Equal(t, 0.0, index)
}

func TestScore_CustomWeightsAreNormalized(t *testing.T) {
	s := NewReliabilityScorerWithWeights(Weights{Volume: 2, OI: 2, ATM: 0, Time: 0})
	index, _ := s.Score(Inputs{TotalVolume: 5000, TotalOpenInterest: 10000, ATMConcentration: 1, DaysToExpiry: 30})
	assert.InDelta(t, 0.5, index, 1e-12)
}

func TestScore_ZeroWeights(t *testing.T) {
	s := NewReliabilityScorerWithWeights(Weights{})
	index, _ := s.Score(Inputs{TotalVolume: 99999, TotalOpenInterest: 99999, ATMConcentration: 1, DaysToExpiry: 30})
	assert.Equal(t, 0.0, index)
}

func TestInterpret(t *testing.T) {
	assert.Contains(t, Interpret(0.9), "high confidence")
	assert.Contains(t, Interpret(0.75), "high confidence")
	assert.Contains(t, Interpret(0.6), "moderate confidence")
	assert.Contains(t, Interpret(0.3), "low confidence")
	assert.Contains(t, Interpret(0.1), "very low confidence")
}
