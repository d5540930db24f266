package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

// FarmService manages a user's farms.
type FarmService interface {
	Create(ctx context.Context, userID string, in models.FarmInput) (models.Farm, error)
	List(ctx context.Context, userID string) ([]models.Farm, error)
	Get(ctx context.Context, userID, id string) (models.Farm, error)
	Update(ctx context.Context, userID, id string, up models.FarmUpdate) (models.Farm, error)
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string) (models.FarmStats, error)
}

// FarmHandler serves farm CRUD.
type FarmHandler struct {
	svc    FarmService
	logger *zap.Logger
}

// NewFarmHandler constructs the HTTP handler adapter.
func NewFarmHandler(svc FarmService, logger *zap.Logger) *FarmHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FarmHandler{svc: svc, logger: logger}
}

func (h *FarmHandler) Create(c *gin.Context) {
	var in models.FarmInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	farm, err := h.svc.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, farm)
}

func (h *FarmHandler) List(c *gin.Context) {
	farms, err := h.svc.List(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, farms)
}

func (h *FarmHandler) Get(c *gin.Context) {
	farm, err := h.svc.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, farm)
}

func (h *FarmHandler) Update(c *gin.Context) {
	var up models.FarmUpdate
	if err := c.ShouldBindJSON(&up); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	farm, err := h.svc.Update(c.Request.Context(), userID(c), c.Param("id"), up)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, farm)
}

func (h *FarmHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats returns the farm count and total area in hectares.
func (h *FarmHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
