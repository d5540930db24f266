package telemetry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/agricure/internal/config"
	"github.com/mamadbah2/agricure/internal/domain/models"
	"github.com/mamadbah2/agricure/pkg/clients/thingspeak"
)

// Channel labels used in logs and metrics.
const (
	ChannelSoil        = "soil"
	ChannelEnvironment = "environment"
)

var errEmptyFeed = errors.New("channel returned no entries")

// Metrics receives telemetry fetch outcomes.
type Metrics interface {
	ObserveFetch(channel string, took time.Duration, err error)
	IncFallback(channel string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveFetch(string, time.Duration, error) {}
func (nopMetrics) IncFallback(string)                        {}

// Readings is the latest soil and environment pair.
type Readings struct {
	Soil        models.SoilReading        `json:"soil"`
	Environment models.EnvironmentReading `json:"environment"`
}

// Service reads sensor data from ThingSpeak. It never fails: whenever a
// channel cannot be read, mock data tagged with source=mock is returned.
type Service struct {
	client  thingspeak.Client
	soil    thingspeak.Channel
	env     thingspeak.Channel
	history int
	mock    *Mock
	metrics Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a telemetry service. mock and metrics may be nil.
func NewService(client thingspeak.Client, cfg config.ThingSpeakConfig, mock *Mock, metrics Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mock == nil {
		mock = NewMock(nil)
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	history := cfg.HistoryResults
	if history <= 0 {
		history = 24
	}

	return &Service{
		client:  client,
		soil:    thingspeak.Channel{ID: cfg.SoilChannelID, APIKey: cfg.SoilAPIKey},
		env:     thingspeak.Channel{ID: cfg.EnvChannelID, APIKey: cfg.EnvAPIKey},
		history: history,
		mock:    mock,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// LatestSoil returns the most recent soil reading.
func (s *Service) LatestSoil(ctx context.Context) models.SoilReading {
	feeds, err := s.fetch(ctx, ChannelSoil, s.soil, 1)
	if err != nil {
		return s.mock.Soil(s.now())
	}
	return soilFromFeed(feeds[len(feeds)-1])
}

// LatestEnvironment returns the most recent environment reading.
func (s *Service) LatestEnvironment(ctx context.Context) models.EnvironmentReading {
	feeds, err := s.fetch(ctx, ChannelEnvironment, s.env, 1)
	if err != nil {
		return s.mock.Environment(s.now())
	}
	return environmentFromFeed(feeds[len(feeds)-1])
}

// SoilHistory returns up to n soil readings, oldest first. n <= 0 uses the
// configured default.
func (s *Service) SoilHistory(ctx context.Context, n int) []models.SoilReading {
	n = s.historySize(n)
	feeds, err := s.fetch(ctx, ChannelSoil, s.soil, n)
	if err != nil {
		return s.mock.SoilHistory(n, s.now())
	}
	out := make([]models.SoilReading, 0, len(feeds))
	for _, f := range feeds {
		out = append(out, soilFromFeed(f))
	}
	return out
}

// EnvironmentHistory returns up to n environment readings, oldest first.
func (s *Service) EnvironmentHistory(ctx context.Context, n int) []models.EnvironmentReading {
	n = s.historySize(n)
	feeds, err := s.fetch(ctx, ChannelEnvironment, s.env, n)
	if err != nil {
		return s.mock.EnvironmentHistory(n, s.now())
	}
	out := make([]models.EnvironmentReading, 0, len(feeds))
	for _, f := range feeds {
		out = append(out, environmentFromFeed(f))
	}
	return out
}

// Snapshot reads both channels concurrently.
func (s *Service) Snapshot(ctx context.Context) Readings {
	var out Readings
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Soil = s.LatestSoil(gctx)
		return nil
	})
	g.Go(func() error {
		out.Environment = s.LatestEnvironment(gctx)
		return nil
	})
	_ = g.Wait()
	return out
}

func (s *Service) historySize(n int) int {
	if n <= 0 {
		return s.history
	}
	if n > 8000 {
		return 8000
	}
	return n
}

func (s *Service) fetch(ctx context.Context, label string, ch thingspeak.Channel, results int) ([]thingspeak.Feed, error) {
	start := s.now()
	feeds, err := s.client.Feeds(ctx, ch, results)
	if err == nil && len(feeds) == 0 {
		err = errEmptyFeed
	}
	s.metrics.ObserveFetch(label, s.now().Sub(start), err)

	if err != nil {
		s.metrics.IncFallback(label)
		level := zap.WarnLevel
		if errors.Is(err, thingspeak.ErrChannelNotConfigured) {
			level = zap.DebugLevel
		}
		s.logger.Log(level, "telemetry unavailable, serving mock data",
			zap.String("channel", label),
			zap.Error(err),
		)
		return nil, err
	}
	return feeds, nil
}

func soilFromFeed(f thingspeak.Feed) models.SoilReading {
	return models.SoilReading{
		Nitrogen:               f.Field(1),
		Phosphorus:             f.Field(2),
		Potassium:              f.Field(3),
		PH:                     f.Field(4),
		ElectricalConductivity: f.Field(5),
		SoilMoisture:           f.Field(6),
		SoilTemperature:        f.Field(7),
		Timestamp:              f.CreatedAt,
		Source:                 models.SourceThingSpeak,
	}.Sanitized()
}

func environmentFromFeed(f thingspeak.Feed) models.EnvironmentReading {
	return models.EnvironmentReading{
		SunlightIntensity: f.Field(1),
		Temperature:       f.Field(2),
		Humidity:          f.Field(3),
		Timestamp:         f.CreatedAt,
		Source:            models.SourceThingSpeak,
	}.Sanitized()
}
