package soilhealth

import (
	"time"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

// TrendPoint is the score of one historical reading.
type TrendPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	OverallScore int       `json:"overallScore"`
	Category     Category  `json:"category"`
}

// Trend scores readings in order.
func Trend(readings []models.SoilReading) []TrendPoint {
	points := make([]TrendPoint, 0, len(readings))
	for _, r := range readings {
		b := Score(r)
		points = append(points, TrendPoint{
			Timestamp:    r.Timestamp,
			OverallScore: b.OverallScore,
			Category:     b.Category,
		})
	}
	return points
}

// Snapshot pairs a reading with its breakdown for persistence.
func Snapshot(r models.SoilReading, capturedAt time.Time) models.HealthSnapshot {
	b := Score(r)
	return models.HealthSnapshot{
		Reading:        r,
		Scores:         b.Scores,
		Composite:      b.Composite,
		OverallScore:   b.OverallScore,
		Category:       string(b.Category),
		Recommendation: b.Recommendation,
		CapturedAt:     capturedAt,
	}
}
