package soilhealth

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

func optimalReading() models.SoilReading {
	return models.SoilReading{
		Nitrogen:               OptimumNitrogen,
		Phosphorus:             OptimumPhosphorus,
		Potassium:              OptimumPotassium,
		PH:                     OptimumPH,
		ElectricalConductivity: 0,
		SoilMoisture:           OptimumMoisture,
		SoilTemperature:        OptimumTemp,
	}
}

// mockReading is the fallback reading the telemetry layer serves when
// ThingSpeak is unreachable.
func mockReading() models.SoilReading {
	return models.SoilReading{
		Nitrogen:               45.2,
		Phosphorus:             23.8,
		Potassium:              156.4,
		PH:                     6.5,
		ElectricalConductivity: 0.8,
		SoilMoisture:           68.5,
		SoilTemperature:        24.3,
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultWeights.Sum(), 1e-12)
}

func TestScoreAtOptimum(t *testing.T) {
	b := Score(optimalReading())

	for name, v := range map[string]float64{
		"nitrogen":    b.Scores.Nitrogen,
		"phosphorus":  b.Scores.Phosphorus,
		"potassium":   b.Scores.Potassium,
		"pH":          b.Scores.PH,
		"ec":          b.Scores.EC,
		"moisture":    b.Scores.Moisture,
		"temperature": b.Scores.Temperature,
	} {
		assert.Equal(t, 100.0, v, name)
	}
	assert.InDelta(t, 100.0, b.Composite, 1e-9)
	assert.Equal(t, 100, b.OverallScore)
	assert.Equal(t, Excellent, b.Category)
	assert.Equal(t, "Maintain current soil management practices", b.Recommendation)
}

func TestScoreMockReadingRegression(t *testing.T) {
	b := Score(mockReading())

	assert.InDelta(t, 24.767123287671, b.Scores.Nitrogen, 1e-9)
	assert.Equal(t, 0.0, b.Scores.Phosphorus)
	assert.InDelta(t, 57.818181818182, b.Scores.Potassium, 1e-9)
	assert.InDelta(t, 90.0, b.Scores.PH, 1e-9)
	assert.InDelta(t, 80.0, b.Scores.EC, 1e-9)
	assert.Equal(t, 0.0, b.Scores.Moisture)
	assert.InDelta(t, 97.2, b.Scores.Temperature, 1e-9)

	assert.InDelta(t, 44.846151930, b.Composite, 1e-6)
	assert.Equal(t, 45, b.OverallScore)
	assert.Equal(t, Poor, b.Category)
	assert.Equal(t, "Add organic matter and adjust nutrient levels urgently", b.Recommendation)
}

func TestCompositeIsWeightedSum(t *testing.T) {
	readings := []models.SoilReading{optimalReading(), mockReading(), {
		Nitrogen: 300, Phosphorus: 4, Potassium: 60, PH: 5.2,
		ElectricalConductivity: 2.1, SoilMoisture: 12, SoilTemperature: 33,
	}}

	for _, r := range readings {
		b := Score(r)
		s := b.Scores
		want := 0.20*s.Nitrogen + 0.15*s.Phosphorus + 0.15*s.Potassium +
			0.15*s.PH + 0.10*s.EC + 0.15*s.Moisture + 0.10*s.Temperature
		assert.InDelta(t, want, b.Composite, 1e-9)
		assert.Equal(t, int(math.Round(want)), b.OverallScore)
	}
}

func TestScoreIsBounded(t *testing.T) {
	values := []float64{-1e9, -500, -14, -1, 0, 0.5, 7, 30, 100, 182.5, 365, 1000, 1e9}

	for _, v := range values {
		for _, r := range []models.SoilReading{
			{Nitrogen: v, Phosphorus: v, Potassium: v, PH: v, ElectricalConductivity: v, SoilMoisture: v, SoilTemperature: v},
			{Nitrogen: v, Phosphorus: 9.25, Potassium: 110, PH: 7, SoilMoisture: 30, SoilTemperature: 25},
			{PH: v, ElectricalConductivity: -v, SoilTemperature: v},
		} {
			b := Score(r)
			for _, s := range []float64{b.Scores.Nitrogen, b.Scores.Phosphorus, b.Scores.Potassium, b.Scores.PH, b.Scores.EC, b.Scores.Moisture, b.Scores.Temperature, b.Composite} {
				require.GreaterOrEqual(t, s, 0.0, "value %v", v)
				require.LessOrEqual(t, s, 100.0, "value %v", v)
			}
			require.GreaterOrEqual(t, b.OverallScore, 0)
			require.LessOrEqual(t, b.OverallScore, 100)
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	r := mockReading()
	first := Score(r)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(r))
	}
	assert.Equal(t, mockReading(), r, "input must not be mutated")
}

func TestSubScoresNonIncreasingAwayFromOptimum(t *testing.T) {
	dims := []struct {
		name    string
		optimum float64
		step    float64
		set     func(*models.SoilReading, float64)
		get     func(models.SoilScores) float64
	}{
		{"nitrogen", OptimumNitrogen, 5, func(r *models.SoilReading, v float64) { r.Nitrogen = v }, func(s models.SoilScores) float64 { return s.Nitrogen }},
		{"phosphorus", OptimumPhosphorus, 0.5, func(r *models.SoilReading, v float64) { r.Phosphorus = v }, func(s models.SoilScores) float64 { return s.Phosphorus }},
		{"potassium", OptimumPotassium, 4, func(r *models.SoilReading, v float64) { r.Potassium = v }, func(s models.SoilScores) float64 { return s.Potassium }},
		{"pH", OptimumPH, 0.25, func(r *models.SoilReading, v float64) { r.PH = v }, func(s models.SoilScores) float64 { return s.PH }},
		{"ec", 0, 0.2, func(r *models.SoilReading, v float64) { r.ElectricalConductivity = v }, func(s models.SoilScores) float64 { return s.EC }},
		{"moisture", OptimumMoisture, 2, func(r *models.SoilReading, v float64) { r.SoilMoisture = v }, func(s models.SoilScores) float64 { return s.Moisture }},
		{"temperature", OptimumTemp, 1, func(r *models.SoilReading, v float64) { r.SoilTemperature = v }, func(s models.SoilScores) float64 { return s.Temperature }},
	}

	for _, d := range dims {
		t.Run(d.name, func(t *testing.T) {
			for _, dir := range []float64{1, -1} {
				r := optimalReading()
				prev := 100.0
				for i := 0; i <= 60; i++ {
					d.set(&r, d.optimum+dir*float64(i)*d.step)
					got := d.get(SubScores(r))
					require.LessOrEqual(t, got, prev, "step %d dir %v", i, dir)
					prev = got
				}
				if dir > 0 {
					assert.Equal(t, 0.0, prev, "score should saturate at 0")
				}
			}
		})
	}
}

func TestScoreClampsExtremes(t *testing.T) {
	r := optimalReading()
	r.PH = 20
	assert.Equal(t, 0.0, Score(r).Scores.PH)

	r = optimalReading()
	r.ElectricalConductivity = -3
	assert.Equal(t, 100.0, Score(r).Scores.EC)

	r = optimalReading()
	r.Nitrogen = 0
	assert.Equal(t, 0.0, Score(r).Scores.Nitrogen, "a failed sensor reporting 0 scores 0")
}

func TestCategorizeBoundaries(t *testing.T) {
	cases := []struct {
		composite float64
		want      Category
	}{
		{100, Excellent},
		{80, Excellent},
		{79.999, Good},
		{60, Good},
		{59.999, Poor},
		{40, Poor},
		{39.999, VeryPoor},
		{0, VeryPoor},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Categorize(tc.composite), "composite %v", tc.composite)
	}
}

func TestCategoryUsesUnroundedComposite(t *testing.T) {
	r := optimalReading()
	r.ElectricalConductivity = 2 // EC 50, costs 5 points
	r.SoilMoisture = 70          // moisture 0, costs 15 points
	r.SoilTemperature = 25.75    // temperature 97, costs 0.3 points

	b := Score(r)
	require.InDelta(t, 79.7, b.Composite, 1e-9)
	assert.Equal(t, 80, b.OverallScore)
	assert.Equal(t, Good, b.Category)
}

func TestParameterStatus(t *testing.T) {
	assert.Equal(t, StatusOptimal, ParameterStatus(80))
	assert.Equal(t, StatusGood, ParameterStatus(79.9))
	assert.Equal(t, StatusGood, ParameterStatus(60))
	assert.Equal(t, StatusNeedsAttention, ParameterStatus(40))
	assert.Equal(t, StatusCritical, ParameterStatus(39.9))

	st := Score(mockReading()).Statuses()
	assert.Equal(t, StatusCritical, st.Nitrogen)
	assert.Equal(t, StatusCritical, st.Phosphorus)
	assert.Equal(t, StatusNeedsAttention, st.Potassium)
	assert.Equal(t, StatusOptimal, st.PH)
	assert.Equal(t, StatusOptimal, st.EC)
	assert.Equal(t, StatusCritical, st.Moisture)
	assert.Equal(t, StatusOptimal, st.Temperature)
}

func TestCategoryRank(t *testing.T) {
	assert.Equal(t, 0, Excellent.Rank())
	assert.Equal(t, 3, VeryPoor.Rank())
	assert.Equal(t, -1, Category("Moderate").Rank())
	assert.Empty(t, Category("Moderate").Recommendation())
}

func TestTrendKeepsOrder(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := optimalReading()
	a.Timestamp = base
	b := mockReading()
	b.Timestamp = base.Add(time.Hour)

	points := Trend([]models.SoilReading{a, b})
	require.Len(t, points, 2)
	assert.Equal(t, base, points[0].Timestamp)
	assert.Equal(t, 100, points[0].OverallScore)
	assert.Equal(t, Poor, points[1].Category)
	assert.Empty(t, Trend(nil))
}

func TestSnapshotCopiesBreakdown(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot(mockReading(), at)

	assert.Equal(t, 45, snap.OverallScore)
	assert.Equal(t, string(Poor), snap.Category)
	assert.Equal(t, at, snap.CapturedAt)
	assert.Equal(t, mockReading(), snap.Reading)
}
