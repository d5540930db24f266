package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/agricure/internal/domain/models"
	"github.com/mamadbah2/agricure/internal/soilhealth"
)

// Reader supplies the latest soil reading.
type Reader interface {
	LatestSoil(ctx context.Context) models.SoilReading
}

// Sink persists scored snapshots.
type Sink interface {
	SaveSnapshot(ctx context.Context, s models.HealthSnapshot) error
}

// NamedSink labels a sink for logs and metrics.
type NamedSink struct {
	Name string
	Sink Sink
}

// Notifier is told when soil health degrades to Very Poor.
type Notifier interface {
	NotifySoilHealth(ctx context.Context, s models.HealthSnapshot) error
}

// Metrics receives monitoring outcomes.
type Metrics interface {
	ObserveSnapshot(s models.HealthSnapshot, rank int)
	IncSinkError(sink string)
	IncAlertSent()
}

type nopMetrics struct{}

func (nopMetrics) ObserveSnapshot(models.HealthSnapshot, int) {}
func (nopMetrics) IncSinkError(string)                        {}
func (nopMetrics) IncAlertSent()                              {}

// Service scores the latest reading on every poll and fans the snapshot
// out to the configured sinks.
type Service struct {
	reader   Reader
	sinks    []NamedSink
	notifier Notifier
	metrics  Metrics
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	alerted bool
}

// NewService wires a monitor. notifier and metrics may be nil.
func NewService(reader Reader, sinks []NamedSink, notifier Notifier, metrics Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Service{
		reader:   reader,
		sinks:    sinks,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Poll captures one snapshot. The snapshot is always returned; the error
// joins every sink and alert failure of this run.
func (s *Service) Poll(ctx context.Context) (models.HealthSnapshot, error) {
	reading := s.reader.LatestSoil(ctx)
	snap := soilhealth.Snapshot(reading, s.now().UTC())
	category := soilhealth.Category(snap.Category)

	s.metrics.ObserveSnapshot(snap, category.Rank())
	s.logger.Info("soil health polled",
		zap.Int("overall_score", snap.OverallScore),
		zap.String("category", snap.Category),
		zap.String("source", string(reading.Source)),
	)

	errs := s.persist(ctx, snap)
	if err := s.maybeAlert(ctx, snap, category); err != nil {
		errs = append(errs, err)
	}
	return snap, errors.Join(errs...)
}

func (s *Service) persist(ctx context.Context, snap models.HealthSnapshot) []error {
	results := make([]error, len(s.sinks))
	var g errgroup.Group
	for i, sink := range s.sinks {
		g.Go(func() error {
			if err := sink.Sink.SaveSnapshot(ctx, snap); err != nil {
				s.metrics.IncSinkError(sink.Name)
				s.logger.Error("failed to persist soil snapshot", zap.String("sink", sink.Name), zap.Error(err))
				results[i] = fmt.Errorf("%s: %w", sink.Name, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// maybeAlert notifies once per entry into Very Poor. A failed delivery is
// retried on the next poll; leaving Very Poor re-arms the alert.
func (s *Service) maybeAlert(ctx context.Context, snap models.HealthSnapshot, category soilhealth.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category != soilhealth.VeryPoor {
		s.alerted = false
		return nil
	}
	if s.alerted || s.notifier == nil || snap.Reading.Source == models.SourceMock {
		return nil
	}

	if err := s.notifier.NotifySoilHealth(ctx, snap); err != nil {
		s.logger.Error("failed to send soil alert", zap.Error(err))
		return fmt.Errorf("alert: %w", err)
	}
	s.alerted = true
	s.metrics.IncAlertSent()
	return nil
}
