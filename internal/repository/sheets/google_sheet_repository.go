package sheets

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/agricure/internal/config"
	"github.com/mamadbah2/agricure/internal/domain/models"
)

// SnapshotRange is where soil snapshots are appended.
const SnapshotRange = "SoilHealth!A:M"

// SnapshotHeader documents the column layout written by SaveSnapshot.
var SnapshotHeader = []interface{}{
	"captured_at", "source", "nitrogen", "phosphorus", "potassium", "ph",
	"ec", "moisture", "temperature", "composite", "overall_score", "category", "recommendation",
}

// GoogleSheetRepository exports soil health snapshots to a spreadsheet so
// agronomists can review them outside the dashboard.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetRange    string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed exporter. Extra
// client options are appended after the credentials from cfg.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, extra ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	opts = append(opts, extra...)

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetRange:    SnapshotRange,
		logger:        logger,
	}, nil
}

// SaveSnapshot appends one row per snapshot.
func (r *GoogleSheetRepository) SaveSnapshot(ctx context.Context, s models.HealthSnapshot) error {
	return r.WriteRow(ctx, r.sheetRange, SnapshotRow(s))
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// SnapshotRow flattens s in SnapshotHeader order.
func SnapshotRow(s models.HealthSnapshot) []interface{} {
	rd := s.Reading
	return []interface{}{
		s.CapturedAt.UTC().Format(time.RFC3339),
		string(rd.Source),
		rd.Nitrogen,
		rd.Phosphorus,
		rd.Potassium,
		rd.PH,
		rd.ElectricalConductivity,
		rd.SoilMoisture,
		rd.SoilTemperature,
		strconv.FormatFloat(s.Composite, 'f', 2, 64),
		s.OverallScore,
		s.Category,
		s.Recommendation,
	}
}
