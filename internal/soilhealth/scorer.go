// Package soilhealth turns raw soil probe readings into a 0-100 health index.
//
// Each dimension has an agronomic optimum. Its sub-score starts at 100 on the
// optimum and decays linearly with distance from it, saturating at 0. The
// overall index is a fixed convex combination of the seven sub-scores.
//
// Every function here is pure: no I/O, no logging, no shared state. Inputs
// must be finite; callers sanitize telemetry before scoring.
package soilhealth

import (
	"math"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

// Optima for the nutrient curves, in mg/kg. They are the midpoints of the
// recommended ranges for Indian agricultural soils (N 140-225, P 6-12.5,
// K 70-150).
const (
	OptimumNitrogen   = 182.5
	OptimumPhosphorus = 9.25
	OptimumPotassium  = 110.0
	OptimumPH         = 7.0
	OptimumMoisture   = 30.0 // %
	OptimumTemp       = 25.0 // °C
)

// Linear penalties, in points per unit of deviation.
const (
	penaltyPH       = 20.0
	penaltyEC       = 25.0 // per dS/m above zero
	penaltyMoisture = 3.0
	penaltyTemp     = 4.0
)

// Weights sets the contribution of each sub-score to the composite.
type Weights struct {
	Nitrogen    float64
	Phosphorus  float64
	Potassium   float64
	PH          float64
	EC          float64
	Moisture    float64
	Temperature float64
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Nitrogen + w.Phosphorus + w.Potassium + w.PH + w.EC + w.Moisture + w.Temperature
}

// DefaultWeights is the canonical weight vector. It sums to 1.
var DefaultWeights = Weights{
	Nitrogen:    0.20,
	Phosphorus:  0.15,
	Potassium:   0.15,
	PH:          0.15,
	EC:          0.10,
	Moisture:    0.15,
	Temperature: 0.10,
}

// Breakdown is the result of scoring one reading.
type Breakdown struct {
	Scores models.SoilScores `json:"scores"`
	// Composite is the unrounded weighted sum; Category is derived from it.
	Composite      float64  `json:"composite"`
	OverallScore   int      `json:"overallScore"`
	Category       Category `json:"category"`
	Recommendation string   `json:"recommendation"`
}

// Score computes the sub-scores, composite index and category of r.
func Score(r models.SoilReading) Breakdown {
	scores := SubScores(r)
	composite := Weighted(scores)
	category := Categorize(composite)

	return Breakdown{
		Scores:         scores,
		Composite:      composite,
		OverallScore:   int(math.Round(composite)),
		Category:       category,
		Recommendation: category.Recommendation(),
	}
}

// SubScores normalizes each dimension of r to [0, 100].
func SubScores(r models.SoilReading) models.SoilScores {
	return models.SoilScores{
		Nitrogen:    relative(r.Nitrogen, OptimumNitrogen),
		Phosphorus:  relative(r.Phosphorus, OptimumPhosphorus),
		Potassium:   relative(r.Potassium, OptimumPotassium),
		PH:          linear(r.PH, OptimumPH, penaltyPH),
		EC:          clamp(100 - r.ElectricalConductivity*penaltyEC),
		Moisture:    linear(r.SoilMoisture, OptimumMoisture, penaltyMoisture),
		Temperature: linear(r.SoilTemperature, OptimumTemp, penaltyTemp),
	}
}

// Weighted combines sub-scores with DefaultWeights.
func Weighted(s models.SoilScores) float64 {
	w := DefaultWeights
	return s.Nitrogen*w.Nitrogen +
		s.Phosphorus*w.Phosphorus +
		s.Potassium*w.Potassium +
		s.PH*w.PH +
		s.EC*w.EC +
		s.Moisture*w.Moisture +
		s.Temperature*w.Temperature
}

// relative scores v against optimum with a tolerance radius equal to the
// optimum itself: 0 and 2*optimum both score 0.
func relative(v, optimum float64) float64 {
	return clamp(100 - math.Abs(v-optimum)/optimum*100)
}

func linear(v, optimum, perUnit float64) float64 {
	return clamp(100 - math.Abs(v-optimum)*perUnit)
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
