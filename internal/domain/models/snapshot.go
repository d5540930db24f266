package models

import "time"

// SoilScores holds one normalized 0-100 sub-score per soil dimension.
type SoilScores struct {
	Nitrogen    float64 `json:"nitrogen" bson:"nitrogen"`
	Phosphorus  float64 `json:"phosphorus" bson:"phosphorus"`
	Potassium   float64 `json:"potassium" bson:"potassium"`
	PH          float64 `json:"pH" bson:"ph"`
	EC          float64 `json:"ec" bson:"ec"`
	Moisture    float64 `json:"moisture" bson:"moisture"`
	Temperature float64 `json:"temperature" bson:"temperature"`
}

// HealthSnapshot is a scored soil reading captured by the monitor.
type HealthSnapshot struct {
	Reading        SoilReading `json:"reading" bson:"reading"`
	Scores         SoilScores  `json:"scores" bson:"scores"`
	Composite      float64     `json:"composite" bson:"composite"`
	OverallScore   int         `json:"overallScore" bson:"overall_score"`
	Category       string      `json:"category" bson:"category"`
	Recommendation string      `json:"recommendation" bson:"recommendation"`
	CapturedAt     time.Time   `json:"capturedAt" bson:"captured_at"`
}
