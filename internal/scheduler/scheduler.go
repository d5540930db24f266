package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/config"
	"github.com/mamadbah2/agricure/internal/domain/models"
)

// Poller is the job run on every tick.
type Poller interface {
	Poll(ctx context.Context) (models.HealthSnapshot, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	poller   Poller
	schedule string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running poller on cfg.Schedule in cfg.Timezone.
// Schedules use the standard 5-field cron syntax or descriptors such as "@every 5m".
func NewScheduler(cfg config.PollingConfig, poller Poller, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
		}
		loc = l
	}

	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("parse poll schedule %q: %w", cfg.Schedule, err)
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger), cron.Recover(cron.DiscardLogger)),
	)

	return &Scheduler{
		cron:     c,
		poller:   poller,
		schedule: cfg.Schedule,
		timeout:  2 * time.Minute,
		logger:   logger,
	}, nil
}

// Start registers the poll job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.pollSoilHealth); err != nil {
		return fmt.Errorf("schedule soil health poll: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running poll to finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping scheduler")
	return s.cron.Stop()
}

func (s *Scheduler) pollSoilHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	snap, err := s.poller.Poll(ctx)
	if err != nil {
		s.logger.Error("soil health poll completed with errors", zap.Error(err))
		return
	}
	s.logger.Debug("soil health poll completed",
		zap.Int("overall_score", snap.OverallScore),
		zap.String("category", snap.Category),
	)
}
