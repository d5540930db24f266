package models

import "time"

// RecommendationStatus tracks what the farmer did with a recommendation.
type RecommendationStatus string

const (
	StatusPending   RecommendationStatus = "pending"
	StatusApplied   RecommendationStatus = "applied"
	StatusScheduled RecommendationStatus = "scheduled"
)

// Valid reports whether s is a known status.
func (s RecommendationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApplied, StatusScheduled:
		return true
	}
	return false
}

// Recommendation is a fertilizer recommendation produced for a field.
type Recommendation struct {
	ID                  string               `json:"id" bson:"_id"`
	UserID              string               `json:"userId" bson:"user_id"`
	FarmID              string               `json:"farmId,omitempty" bson:"farm_id,omitempty"`
	FieldName           string               `json:"fieldName" bson:"field_name"`
	FieldSize           float64              `json:"fieldSize" bson:"field_size"`
	FieldSizeUnit       string               `json:"fieldSizeUnit" bson:"field_size_unit"`
	CropType            string               `json:"cropType" bson:"crop_type"`
	SoilType            string               `json:"soilType,omitempty" bson:"soil_type,omitempty"`
	SoilPH              float64              `json:"soilPh" bson:"soil_ph"`
	Nitrogen            float64              `json:"nitrogen" bson:"nitrogen"`
	Phosphorus          float64              `json:"phosphorus" bson:"phosphorus"`
	Potassium           float64              `json:"potassium" bson:"potassium"`
	Temperature         float64              `json:"temperature" bson:"temperature"`
	Humidity            float64              `json:"humidity" bson:"humidity"`
	SoilMoisture        float64              `json:"soilMoisture" bson:"soil_moisture"`
	PrimaryFertilizer   string               `json:"primaryFertilizer" bson:"primary_fertilizer"`
	SecondaryFertilizer string               `json:"secondaryFertilizer,omitempty" bson:"secondary_fertilizer,omitempty"`
	MLPrediction        string               `json:"mlPrediction" bson:"ml_prediction"`
	ConfidenceScore     float64              `json:"confidenceScore" bson:"confidence_score"`
	ApplicationRate     float64              `json:"applicationRate,omitempty" bson:"application_rate,omitempty"`
	ApplicationRateUnit string               `json:"applicationRateUnit,omitempty" bson:"application_rate_unit,omitempty"`
	ApplicationMethod   string               `json:"applicationMethod,omitempty" bson:"application_method,omitempty"`
	ApplicationTiming   string               `json:"applicationTiming,omitempty" bson:"application_timing,omitempty"`
	CostEstimate        string               `json:"costEstimate,omitempty" bson:"cost_estimate,omitempty"`
	Status              RecommendationStatus `json:"status" bson:"status"`
	// Enhanced keeps the upstream ML/LLM payload verbatim; see ParseEnhancedResult.
	Enhanced  map[string]any `json:"enhanced,omitempty" bson:"enhanced,omitempty"`
	CreatedAt time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updated_at"`
}

// RecommendationInput is the payload used to store a new recommendation.
type RecommendationInput struct {
	FarmID              string               `json:"farmId"`
	FieldName           string               `json:"fieldName" binding:"required"`
	FieldSize           float64              `json:"fieldSize"`
	FieldSizeUnit       string               `json:"fieldSizeUnit"`
	CropType            string               `json:"cropType" binding:"required"`
	SoilType            string               `json:"soilType"`
	SoilPH              float64              `json:"soilPh"`
	Nitrogen            float64              `json:"nitrogen"`
	Phosphorus          float64              `json:"phosphorus"`
	Potassium           float64              `json:"potassium"`
	Temperature         float64              `json:"temperature"`
	Humidity            float64              `json:"humidity"`
	SoilMoisture        float64              `json:"soilMoisture"`
	PrimaryFertilizer   string               `json:"primaryFertilizer" binding:"required"`
	SecondaryFertilizer string               `json:"secondaryFertilizer"`
	MLPrediction        string               `json:"mlPrediction"`
	ConfidenceScore     float64              `json:"confidenceScore"`
	ApplicationRate     float64              `json:"applicationRate"`
	ApplicationRateUnit string               `json:"applicationRateUnit"`
	ApplicationMethod   string               `json:"applicationMethod"`
	ApplicationTiming   string               `json:"applicationTiming"`
	CostEstimate        string               `json:"costEstimate"`
	Status              RecommendationStatus `json:"status"`
	Enhanced            map[string]any       `json:"enhanced"`
}
