package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

const (
	defaultRecommendations = 20
	maxRecommendations     = 200
)

// RecommendationService manages fertilizer recommendations.
type RecommendationService interface {
	Create(ctx context.Context, userID string, in models.RecommendationInput) (models.Recommendation, error)
	List(ctx context.Context, userID string, limit int) ([]models.Recommendation, error)
	Get(ctx context.Context, userID, id string) (models.Recommendation, error)
	UpdateStatus(ctx context.Context, userID, id string, status models.RecommendationStatus) (models.Recommendation, error)
	Delete(ctx context.Context, userID, id string) error
	Plan(ctx context.Context, userID, id string) (models.FertilizerPlan, error)
	Enhance(ctx context.Context, userID, id string, reading *models.SoilReading) (models.Recommendation, models.FertilizerPlan, error)
}

// SoilReader supplies the live reading used when enhancing with sensor data.
type SoilReader interface {
	LatestSoil(ctx context.Context) models.SoilReading
}

// RecommendationHandler serves fertilizer recommendations.
type RecommendationHandler struct {
	svc    RecommendationService
	soil   SoilReader
	logger *zap.Logger
}

// NewRecommendationHandler constructs the HTTP handler adapter.
func NewRecommendationHandler(svc RecommendationService, soil SoilReader, logger *zap.Logger) *RecommendationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationHandler{svc: svc, soil: soil, logger: logger}
}

type statusBody struct {
	Status models.RecommendationStatus `json:"status" binding:"required"`
}

type enhanceBody struct {
	UseLiveReading bool                `json:"useLiveReading"`
	Reading        *models.SoilReading `json:"reading"`
}

func (h *RecommendationHandler) Create(c *gin.Context) {
	var in models.RecommendationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	rec, err := h.svc.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *RecommendationHandler) List(c *gin.Context) {
	limit, err := intQuery(c, "limit", defaultRecommendations, maxRecommendations)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	recs, err := h.svc.List(c.Request.Context(), userID(c), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *RecommendationHandler) Get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpdateStatus marks a recommendation applied or scheduled.
func (h *RecommendationHandler) UpdateStatus(c *gin.Context) {
	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	rec, err := h.svc.UpdateStatus(c.Request.Context(), userID(c), c.Param("id"), body.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Plan returns the canonical fertilizer plan of a recommendation.
func (h *RecommendationHandler) Plan(c *gin.Context) {
	plan, err := h.svc.Plan(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Enhance asks the LLM for a detailed plan. The body is optional: it may
// carry an explicit reading or request the live sensor reading.
func (h *RecommendationHandler) Enhance(c *gin.Context) {
	var body enhanceBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, h.logger, err)
		return
	}

	reading := body.Reading
	if reading == nil && body.UseLiveReading && h.soil != nil {
		live := h.soil.LatestSoil(c.Request.Context())
		reading = &live
	}
	if reading != nil && !reading.Finite() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "all measurements must be finite numbers"})
		return
	}

	rec, plan, err := h.svc.Enhance(c.Request.Context(), userID(c), c.Param("id"), reading)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendation": rec, "plan": plan})
}
