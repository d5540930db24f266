package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/domain/models"
	"github.com/mamadbah2/agricure/pkg/clients/anthropic"
)

var (
	// ErrInvalidRecommendation wraps validation failures.
	ErrInvalidRecommendation = errors.New("invalid recommendation")
	// ErrNoEnhancement is returned by Plan for records without an ML/LLM payload.
	ErrNoEnhancement = errors.New("recommendation has no enhanced result")
	// ErrEnhancementUnavailable is returned by Enhance when no LLM is configured.
	ErrEnhancementUnavailable = errors.New("enhancement unavailable")
	// ErrUpstream wraps LLM failures.
	ErrUpstream = errors.New("enhancement provider failed")
)

// Store persists recommendations.
type Store interface {
	CreateRecommendation(ctx context.Context, rec models.Recommendation) error
	ListRecommendations(ctx context.Context, userID string, limit int) ([]models.Recommendation, error)
	GetRecommendation(ctx context.Context, id string) (models.Recommendation, error)
	UpdateRecommendation(ctx context.Context, rec models.Recommendation) error
	DeleteRecommendation(ctx context.Context, id string) error
}

// Service manages fertilizer recommendations.
type Service struct {
	store  Store
	llm    anthropic.Client
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService creates a recommendation service. llm may be nil, in which case
// Enhance returns ErrEnhancementUnavailable.
func NewService(store Store, llm anthropic.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		llm:    llm,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Create stores a recommendation for userID. Status defaults to pending.
func (s *Service) Create(ctx context.Context, userID string, in models.RecommendationInput) (models.Recommendation, error) {
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return models.Recommendation{}, fmt.Errorf("%w: unknown status %q", ErrInvalidRecommendation, status)
	}
	if strings.TrimSpace(in.FieldName) == "" || strings.TrimSpace(in.CropType) == "" || strings.TrimSpace(in.PrimaryFertilizer) == "" {
		return models.Recommendation{}, fmt.Errorf("%w: field name, crop type and primary fertilizer are required", ErrInvalidRecommendation)
	}
	if in.ConfidenceScore < 0 || in.ConfidenceScore > 100 {
		return models.Recommendation{}, fmt.Errorf("%w: confidence score must be within 0-100", ErrInvalidRecommendation)
	}
	if len(in.Enhanced) > 0 {
		if err := checkEnhanced(in.Enhanced); err != nil {
			return models.Recommendation{}, fmt.Errorf("%w: %v", ErrInvalidRecommendation, err)
		}
	}

	now := s.now().UTC()
	rec := models.Recommendation{
		ID:                  s.newID(),
		UserID:              userID,
		FarmID:              in.FarmID,
		FieldName:           strings.TrimSpace(in.FieldName),
		FieldSize:           in.FieldSize,
		FieldSizeUnit:       in.FieldSizeUnit,
		CropType:            strings.TrimSpace(in.CropType),
		SoilType:            in.SoilType,
		SoilPH:              in.SoilPH,
		Nitrogen:            in.Nitrogen,
		Phosphorus:          in.Phosphorus,
		Potassium:           in.Potassium,
		Temperature:         in.Temperature,
		Humidity:            in.Humidity,
		SoilMoisture:        in.SoilMoisture,
		PrimaryFertilizer:   strings.TrimSpace(in.PrimaryFertilizer),
		SecondaryFertilizer: in.SecondaryFertilizer,
		MLPrediction:        in.MLPrediction,
		ConfidenceScore:     in.ConfidenceScore,
		ApplicationRate:     in.ApplicationRate,
		ApplicationRateUnit: in.ApplicationRateUnit,
		ApplicationMethod:   in.ApplicationMethod,
		ApplicationTiming:   in.ApplicationTiming,
		CostEstimate:        in.CostEstimate,
		Status:              status,
		Enhanced:            in.Enhanced,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if rec.FieldSizeUnit == "" {
		rec.FieldSizeUnit = string(models.UnitHectares)
	}

	if err := s.store.CreateRecommendation(ctx, rec); err != nil {
		return models.Recommendation{}, fmt.Errorf("create recommendation: %w", err)
	}
	s.logger.Info("recommendation created", zap.String("recommendation_id", rec.ID), zap.String("user_id", userID))
	return rec, nil
}

// List returns the recommendations of userID, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]models.Recommendation, error) {
	recs, err := s.store.ListRecommendations(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return recs, nil
}

// Get returns a recommendation owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (models.Recommendation, error) {
	rec, err := s.store.GetRecommendation(ctx, id)
	if err != nil {
		return models.Recommendation{}, fmt.Errorf("get recommendation: %w", err)
	}
	if rec.UserID != userID {
		return models.Recommendation{}, models.ErrForbidden
	}
	return rec, nil
}

// UpdateStatus moves a recommendation to status.
func (s *Service) UpdateStatus(ctx context.Context, userID, id string, status models.RecommendationStatus) (models.Recommendation, error) {
	if !status.Valid() {
		return models.Recommendation{}, fmt.Errorf("%w: unknown status %q", ErrInvalidRecommendation, status)
	}
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Recommendation{}, err
	}

	rec.Status = status
	rec.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateRecommendation(ctx, rec); err != nil {
		return models.Recommendation{}, fmt.Errorf("update recommendation: %w", err)
	}
	return rec, nil
}

// Delete removes a recommendation owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteRecommendation(ctx, id); err != nil {
		return fmt.Errorf("delete recommendation: %w", err)
	}
	return nil
}

// Plan resolves the stored enhanced payload into the canonical plan.
func (s *Service) Plan(ctx context.Context, userID, id string) (models.FertilizerPlan, error) {
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.FertilizerPlan{}, err
	}
	if len(rec.Enhanced) == 0 {
		return models.FertilizerPlan{}, ErrNoEnhancement
	}

	result, err := parseEnhanced(rec.Enhanced)
	if err != nil {
		return models.FertilizerPlan{}, fmt.Errorf("resolve plan of %s: %w", id, err)
	}
	return models.Resolve(result), nil
}

// Enhance asks the LLM for a structured plan using reading when given, or
// the values stored on the recommendation otherwise, and saves it.
func (s *Service) Enhance(ctx context.Context, userID, id string, reading *models.SoilReading) (models.Recommendation, models.FertilizerPlan, error) {
	if s.llm == nil {
		return models.Recommendation{}, models.FertilizerPlan{}, ErrEnhancementUnavailable
	}
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Recommendation{}, models.FertilizerPlan{}, err
	}

	req := anthropic.EnhanceRequest{
		CropType:          rec.CropType,
		SoilType:          rec.SoilType,
		FieldSize:         rec.FieldSize,
		FieldSizeUnit:     rec.FieldSizeUnit,
		Nitrogen:          rec.Nitrogen,
		Phosphorus:        rec.Phosphorus,
		Potassium:         rec.Potassium,
		PH:                rec.SoilPH,
		SoilMoisture:      rec.SoilMoisture,
		Temperature:       rec.Temperature,
		Humidity:          rec.Humidity,
		PrimaryFertilizer: rec.PrimaryFertilizer,
	}
	if reading != nil {
		r := reading.Sanitized()
		req.Nitrogen, req.Phosphorus, req.Potassium = r.Nitrogen, r.Phosphorus, r.Potassium
		req.PH, req.SoilMoisture, req.Temperature = r.PH, r.SoilMoisture, r.SoilTemperature
	}

	raw, err := s.llm.EnhanceRecommendation(ctx, req)
	if err != nil {
		s.logger.Error("enhancement failed", zap.String("recommendation_id", id), zap.Error(err))
		return models.Recommendation{}, models.FertilizerPlan{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	result, err := models.ParseEnhancedResult(raw)
	if err != nil {
		return models.Recommendation{}, models.FertilizerPlan{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var enhanced map[string]any
	if err := json.Unmarshal(raw, &enhanced); err != nil {
		return models.Recommendation{}, models.FertilizerPlan{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	rec.Enhanced = enhanced
	rec.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateRecommendation(ctx, rec); err != nil {
		return models.Recommendation{}, models.FertilizerPlan{}, fmt.Errorf("store enhancement: %w", err)
	}

	s.logger.Info("recommendation enhanced", zap.String("recommendation_id", id), zap.String("schema", string(result.Schema())))
	return rec, models.Resolve(result), nil
}

func parseEnhanced(payload map[string]any) (models.EnhancedResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal enhanced payload: %w", err)
	}
	return models.ParseEnhancedResult(raw)
}

func checkEnhanced(payload map[string]any) error {
	_, err := parseEnhanced(payload)
	return err
}
