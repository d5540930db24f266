package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/domain/models"
	"github.com/mamadbah2/agricure/internal/i18n"
	"github.com/mamadbah2/agricure/internal/service/dashboard"
	"github.com/mamadbah2/agricure/internal/soilhealth"
)

const (
	maxHistory       = 8000
	defaultSnapshots = 50
	maxSnapshots     = 500
)

// Dashboard builds the scored soil views.
type Dashboard interface {
	Overview(ctx context.Context, lang i18n.Language) dashboard.Overview
	Trend(ctx context.Context, n int) []soilhealth.TrendPoint
}

// Telemetry exposes raw sensor readings.
type Telemetry interface {
	LatestSoil(ctx context.Context) models.SoilReading
	SoilHistory(ctx context.Context, n int) []models.SoilReading
	LatestEnvironment(ctx context.Context) models.EnvironmentReading
	EnvironmentHistory(ctx context.Context, n int) []models.EnvironmentReading
}

// SnapshotStore lists persisted soil health snapshots.
type SnapshotStore interface {
	RecentSnapshots(ctx context.Context, limit int) ([]models.HealthSnapshot, error)
}

// SoilHandler serves soil and environment telemetry.
type SoilHandler struct {
	dashboard Dashboard
	telemetry Telemetry
	prefs     LanguagePreferences
	snapshots SnapshotStore
	logger    *zap.Logger
	now       func() time.Time
}

// NewSoilHandler constructs the HTTP handler adapter. snapshots may be nil,
// in which case the snapshot listing is empty.
func NewSoilHandler(d Dashboard, t Telemetry, prefs LanguagePreferences, snapshots SnapshotStore, logger *zap.Logger) *SoilHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SoilHandler{
		dashboard: d,
		telemetry: t,
		prefs:     prefs,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// Latest returns the current readings scored in the user's language.
func (h *SoilHandler) Latest(c *gin.Context) {
	lang := resolveLanguage(c, h.prefs, h.logger)
	c.JSON(http.StatusOK, h.dashboard.Overview(c.Request.Context(), lang))
}

// History returns recent soil readings, oldest first.
func (h *SoilHandler) History(c *gin.Context) {
	n, err := intQuery(c, "results", 0, maxHistory)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.telemetry.SoilHistory(c.Request.Context(), n))
}

// Trend returns the overall score of recent readings.
func (h *SoilHandler) Trend(c *gin.Context) {
	n, err := intQuery(c, "results", 0, maxHistory)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.dashboard.Trend(c.Request.Context(), n))
}

// Score rates a caller-supplied reading.
func (h *SoilHandler) Score(c *gin.Context) {
	var reading models.SoilReading
	if err := c.ShouldBindJSON(&reading); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	if !reading.Finite() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "all measurements must be finite numbers"})
		return
	}
	reading.Source = models.SourceManual
	if reading.Timestamp.IsZero() {
		reading.Timestamp = h.now().UTC()
	}

	lang := resolveLanguage(c, h.prefs, h.logger)
	c.JSON(http.StatusOK, gin.H{
		"reading": reading,
		"health":  dashboard.Localize(reading, lang),
	})
}

// Snapshots lists the scored readings captured by the monitor, newest first.
func (h *SoilHandler) Snapshots(c *gin.Context) {
	limit, err := intQuery(c, "limit", defaultSnapshots, maxSnapshots)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if h.snapshots == nil {
		c.JSON(http.StatusOK, []models.HealthSnapshot{})
		return
	}
	snaps, err := h.snapshots.RecentSnapshots(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snaps)
}

// LatestEnvironment returns the current ambient conditions.
func (h *SoilHandler) LatestEnvironment(c *gin.Context) {
	c.JSON(http.StatusOK, h.telemetry.LatestEnvironment(c.Request.Context()))
}

// EnvironmentHistory returns recent ambient readings, oldest first.
func (h *SoilHandler) EnvironmentHistory(c *gin.Context) {
	n, err := intQuery(c, "results", 0, maxHistory)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.telemetry.EnvironmentHistory(c.Request.Context(), n))
}
