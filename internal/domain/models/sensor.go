package models

import (
	"math"
	"time"
)

// ReadingSource tells where a reading came from.
type ReadingSource string

const (
	SourceThingSpeak ReadingSource = "thingspeak"
	SourceMock       ReadingSource = "mock"
	SourceManual     ReadingSource = "manual"
)

// SoilReading holds one set of soil probe measurements.
type SoilReading struct {
	Nitrogen               float64       `json:"nitrogen" bson:"nitrogen"`                              // mg/kg
	Phosphorus             float64       `json:"phosphorus" bson:"phosphorus"`                          // mg/kg
	Potassium              float64       `json:"potassium" bson:"potassium"`                            // mg/kg
	PH                     float64       `json:"pH" bson:"ph"`                                          // unitless
	ElectricalConductivity float64       `json:"electricalConductivity" bson:"electrical_conductivity"` // dS/m
	SoilMoisture           float64       `json:"soilMoisture" bson:"soil_moisture"`                     // %
	SoilTemperature        float64       `json:"soilTemperature" bson:"soil_temperature"`               // °C
	Timestamp              time.Time     `json:"timestamp" bson:"timestamp"`
	Source                 ReadingSource `json:"source" bson:"source"`
}

// Sanitized returns a copy where every non-finite measurement is replaced by 0.
func (r SoilReading) Sanitized() SoilReading {
	r.Nitrogen = finiteOrZero(r.Nitrogen)
	r.Phosphorus = finiteOrZero(r.Phosphorus)
	r.Potassium = finiteOrZero(r.Potassium)
	r.PH = finiteOrZero(r.PH)
	r.ElectricalConductivity = finiteOrZero(r.ElectricalConductivity)
	r.SoilMoisture = finiteOrZero(r.SoilMoisture)
	r.SoilTemperature = finiteOrZero(r.SoilTemperature)
	return r
}

// Finite reports whether all seven measurements are finite numbers.
func (r SoilReading) Finite() bool {
	for _, v := range []float64{r.Nitrogen, r.Phosphorus, r.Potassium, r.PH, r.ElectricalConductivity, r.SoilMoisture, r.SoilTemperature} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// EnvironmentReading captures ambient conditions around the field.
type EnvironmentReading struct {
	SunlightIntensity float64       `json:"sunlightIntensity" bson:"sunlight_intensity"` // lux
	Temperature       float64       `json:"temperature" bson:"temperature"`              // °C
	Humidity          float64       `json:"humidity" bson:"humidity"`                    // %
	Timestamp         time.Time     `json:"timestamp" bson:"timestamp"`
	Source            ReadingSource `json:"source" bson:"source"`
}

// Sanitized returns a copy where every non-finite measurement is replaced by 0.
func (r EnvironmentReading) Sanitized() EnvironmentReading {
	r.SunlightIntensity = finiteOrZero(r.SunlightIntensity)
	r.Temperature = finiteOrZero(r.Temperature)
	r.Humidity = finiteOrZero(r.Humidity)
	return r
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
