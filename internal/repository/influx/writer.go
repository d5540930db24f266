package influx

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/config"
	"github.com/mamadbah2/agricure/internal/domain/models"
)

// Measurement is the InfluxDB measurement holding soil snapshots.
const Measurement = "soil_health"

type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// SnapshotWriter stores soil health snapshots as time-series points.
type SnapshotWriter struct {
	client   influxdb2.Client
	writeAPI pointWriter
	logger   *zap.Logger
}

// NewSnapshotWriter connects a blocking write API to the configured bucket.
func NewSnapshotWriter(cfg config.InfluxConfig, logger *zap.Logger) (*SnapshotWriter, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("influx config incomplete")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &SnapshotWriter{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		logger:   logger,
	}, nil
}

// SaveSnapshot writes one point per snapshot, tagged by source and category.
func (w *SnapshotWriter) SaveSnapshot(ctx context.Context, s models.HealthSnapshot) error {
	if err := w.writeAPI.WritePoint(ctx, Point(s)); err != nil {
		return fmt.Errorf("write soil snapshot point: %w", err)
	}
	w.logger.Debug("soil snapshot written", zap.Int("overall_score", s.OverallScore))
	return nil
}

// Close releases the underlying HTTP client.
func (w *SnapshotWriter) Close() {
	if w.client != nil {
		w.client.Close()
	}
}

// Point converts s into an InfluxDB point.
func Point(s models.HealthSnapshot) *write.Point {
	r := s.Reading
	tags := map[string]string{
		"source":   string(r.Source),
		"category": s.Category,
	}
	fields := map[string]interface{}{
		"nitrogen":          r.Nitrogen,
		"phosphorus":        r.Phosphorus,
		"potassium":         r.Potassium,
		"ph":                r.PH,
		"ec":                r.ElectricalConductivity,
		"moisture":          r.SoilMoisture,
		"temperature":       r.SoilTemperature,
		"score_nitrogen":    s.Scores.Nitrogen,
		"score_phosphorus":  s.Scores.Phosphorus,
		"score_potassium":   s.Scores.Potassium,
		"score_ph":          s.Scores.PH,
		"score_ec":          s.Scores.EC,
		"score_moisture":    s.Scores.Moisture,
		"score_temperature": s.Scores.Temperature,
		"composite":         s.Composite,
		"overall_score":     s.OverallScore,
	}
	return influxdb2.NewPoint(Measurement, tags, fields, s.CapturedAt)
}
