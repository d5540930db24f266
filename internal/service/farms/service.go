package farms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

// ErrInvalidFarm wraps every validation failure.
var ErrInvalidFarm = errors.New("invalid farm")

// Store persists farms.
type Store interface {
	CreateFarm(ctx context.Context, farm models.Farm) error
	ListFarms(ctx context.Context, userID string) ([]models.Farm, error)
	GetFarm(ctx context.Context, id string) (models.Farm, error)
	UpdateFarm(ctx context.Context, farm models.Farm) error
	DeleteFarm(ctx context.Context, id string) error
}

// Service manages the farms of each user.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService creates a farm service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Create registers a farm for userID.
func (s *Service) Create(ctx context.Context, userID string, in models.FarmInput) (models.Farm, error) {
	now := s.now().UTC()
	farm := models.Farm{
		ID:         s.newID(),
		UserID:     userID,
		Name:       strings.TrimSpace(in.Name),
		Size:       in.Size,
		Unit:       in.Unit,
		CropType:   strings.TrimSpace(in.CropType),
		SoilType:   strings.TrimSpace(in.SoilType),
		Location:   strings.TrimSpace(in.Location),
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		SowingDate: strings.TrimSpace(in.SowingDate),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := validate(farm); err != nil {
		return models.Farm{}, err
	}

	if err := s.store.CreateFarm(ctx, farm); err != nil {
		return models.Farm{}, fmt.Errorf("create farm: %w", err)
	}
	s.logger.Info("farm created", zap.String("farm_id", farm.ID), zap.String("user_id", userID))
	return farm, nil
}

// List returns the farms of userID.
func (s *Service) List(ctx context.Context, userID string) ([]models.Farm, error) {
	farms, err := s.store.ListFarms(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list farms: %w", err)
	}
	return farms, nil
}

// Get returns a farm owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (models.Farm, error) {
	farm, err := s.store.GetFarm(ctx, id)
	if err != nil {
		return models.Farm{}, fmt.Errorf("get farm: %w", err)
	}
	if farm.UserID != userID {
		return models.Farm{}, models.ErrForbidden
	}
	return farm, nil
}

// Update applies a partial update to a farm owned by userID.
func (s *Service) Update(ctx context.Context, userID, id string, up models.FarmUpdate) (models.Farm, error) {
	farm, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Farm{}, err
	}

	if up.Name != nil {
		farm.Name = strings.TrimSpace(*up.Name)
	}
	if up.Size != nil {
		farm.Size = *up.Size
	}
	if up.Unit != nil {
		farm.Unit = *up.Unit
	}
	if up.CropType != nil {
		farm.CropType = strings.TrimSpace(*up.CropType)
	}
	if up.SoilType != nil {
		farm.SoilType = strings.TrimSpace(*up.SoilType)
	}
	if up.Location != nil {
		farm.Location = strings.TrimSpace(*up.Location)
	}
	if up.Latitude != nil {
		farm.Latitude = up.Latitude
	}
	if up.Longitude != nil {
		farm.Longitude = up.Longitude
	}
	if up.SowingDate != nil {
		farm.SowingDate = strings.TrimSpace(*up.SowingDate)
	}
	if err := validate(farm); err != nil {
		return models.Farm{}, err
	}

	farm.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateFarm(ctx, farm); err != nil {
		return models.Farm{}, fmt.Errorf("update farm: %w", err)
	}
	return farm, nil
}

// Delete removes a farm owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteFarm(ctx, id); err != nil {
		return fmt.Errorf("delete farm: %w", err)
	}
	s.logger.Info("farm deleted", zap.String("farm_id", id), zap.String("user_id", userID))
	return nil
}

// Stats counts the farms of userID and sums their area in hectares.
func (s *Service) Stats(ctx context.Context, userID string) (models.FarmStats, error) {
	farms, err := s.List(ctx, userID)
	if err != nil {
		return models.FarmStats{}, err
	}
	return Summarize(farms), nil
}

// Summarize computes stats over farms, rounding the total to 2 decimals.
func Summarize(farms []models.Farm) models.FarmStats {
	var total float64
	for _, f := range farms {
		total += f.Unit.ToHectares(f.Size)
	}
	return models.FarmStats{
		TotalFarms: len(farms),
		TotalSize:  math.Round(total*100) / 100,
	}
}

func validate(f models.Farm) error {
	switch {
	case f.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidFarm)
	case f.CropType == "":
		return fmt.Errorf("%w: crop type is required", ErrInvalidFarm)
	case !(f.Size > 0) || math.IsInf(f.Size, 0):
		return fmt.Errorf("%w: size must be a positive number", ErrInvalidFarm)
	case !f.Unit.Valid():
		return fmt.Errorf("%w: unit must be hectares, acres or bigha", ErrInvalidFarm)
	}
	if f.Latitude != nil && (*f.Latitude < -90 || *f.Latitude > 90) {
		return fmt.Errorf("%w: latitude out of range", ErrInvalidFarm)
	}
	if f.Longitude != nil && (*f.Longitude < -180 || *f.Longitude > 180) {
		return fmt.Errorf("%w: longitude out of range", ErrInvalidFarm)
	}
	if f.SowingDate != "" {
		if _, err := time.Parse(time.DateOnly, f.SowingDate); err != nil {
			return fmt.Errorf("%w: sowing date must be YYYY-MM-DD", ErrInvalidFarm)
		}
	}
	return nil
}
