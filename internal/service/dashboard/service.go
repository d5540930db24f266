package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/domain/models"
	"github.com/mamadbah2/agricure/internal/i18n"
	"github.com/mamadbah2/agricure/internal/service/telemetry"
	"github.com/mamadbah2/agricure/internal/soilhealth"
)

// Telemetry is the subset of the telemetry service the dashboard reads.
type Telemetry interface {
	Snapshot(ctx context.Context) telemetry.Readings
	SoilHistory(ctx context.Context, n int) []models.SoilReading
}

// Parameter is one row of the per-parameter analysis.
type Parameter struct {
	Key         string            `json:"key"`
	Label       string            `json:"label"`
	Value       float64           `json:"value"`
	Unit        string            `json:"unit"`
	Score       float64           `json:"score"`
	Status      soilhealth.Status `json:"status"`
	StatusLabel string            `json:"statusLabel"`
}

// Health is the localized scorer output.
type Health struct {
	Title          string              `json:"title"`
	OverallScore   int                 `json:"overallScore"`
	Composite      float64             `json:"composite"`
	Category       soilhealth.Category `json:"category"`
	CategoryLabel  string              `json:"categoryLabel"`
	Recommendation string              `json:"recommendation"`
	Parameters     []Parameter         `json:"parameters"`
}

// Overview is everything the dashboard landing page shows.
type Overview struct {
	Language    i18n.Language             `json:"language"`
	Soil        models.SoilReading        `json:"soil"`
	Environment models.EnvironmentReading `json:"environment"`
	Health      Health                    `json:"health"`
}

// Service assembles dashboard views from live telemetry.
type Service struct {
	telemetry Telemetry
	logger    *zap.Logger
}

// NewService creates a dashboard service.
func NewService(t Telemetry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{telemetry: t, logger: logger}
}

// Overview reads the latest telemetry and scores it in lang.
func (s *Service) Overview(ctx context.Context, lang i18n.Language) Overview {
	readings := s.telemetry.Snapshot(ctx)
	return Overview{
		Language:    lang,
		Soil:        readings.Soil,
		Environment: readings.Environment,
		Health:      Localize(readings.Soil, lang),
	}
}

// Trend scores the last n soil readings, oldest first.
func (s *Service) Trend(ctx context.Context, n int) []soilhealth.TrendPoint {
	return soilhealth.Trend(s.telemetry.SoilHistory(ctx, n))
}

// Localize scores r and renders the result in lang.
func Localize(r models.SoilReading, lang i18n.Language) Health {
	b := soilhealth.Score(r)
	st := b.Statuses()
	sc := b.Scores

	rows := []struct {
		key, labelKey, unit string
		value, score        float64
		status              soilhealth.Status
	}{
		{"nitrogen", i18n.KeyParamNitrogen, "mg/kg", r.Nitrogen, sc.Nitrogen, st.Nitrogen},
		{"phosphorus", i18n.KeyParamPhosphorus, "mg/kg", r.Phosphorus, sc.Phosphorus, st.Phosphorus},
		{"potassium", i18n.KeyParamPotassium, "mg/kg", r.Potassium, sc.Potassium, st.Potassium},
		{"pH", i18n.KeyParamPH, "", r.PH, sc.PH, st.PH},
		{"electricalConductivity", i18n.KeyParamEC, "dS/m", r.ElectricalConductivity, sc.EC, st.EC},
		{"soilMoisture", i18n.KeyParamMoisture, "%", r.SoilMoisture, sc.Moisture, st.Moisture},
		{"soilTemperature", i18n.KeyParamTemperature, "°C", r.SoilTemperature, sc.Temperature, st.Temperature},
	}

	params := make([]Parameter, 0, len(rows))
	for _, row := range rows {
		params = append(params, Parameter{
			Key:         row.key,
			Label:       i18n.T(lang, row.labelKey),
			Value:       row.value,
			Unit:        row.unit,
			Score:       row.score,
			Status:      row.status,
			StatusLabel: i18n.StatusLabel(lang, row.status),
		})
	}

	return Health{
		Title:          i18n.T(lang, i18n.KeyOverallSoilHealth),
		OverallScore:   b.OverallScore,
		Composite:      b.Composite,
		Category:       b.Category,
		CategoryLabel:  i18n.CategoryLabel(lang, b.Category),
		Recommendation: i18n.Advice(lang, b.Category),
		Parameters:     params,
	}
}
