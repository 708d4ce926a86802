package handler

import (
	"net/http"

	"sproutplan/internal/apierror"
	"sproutplan/internal/dto"
	"sproutplan/internal/middleware"
	"sproutplan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdjustmentHandler struct {
	svc service.AdjustmentService
}

func NewAdjustmentHandler(svc service.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{svc: svc}
}

// Add records a manual adjustment on a forecast and recomputes it.
// POST /v1/forecasts/:id/adjustments
func (h *AdjustmentHandler) Add(c *gin.Context) {
	forecastID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid forecast id"))
		return
	}
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication context"))
		return
	}

	var req dto.AddAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Add(c.Request.Context(), forecastID, actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Revert deactivates an adjustment; the forecast is recomputed from the
// remaining active ones. One-shot: a reverted adjustment stays reverted.
// POST /v1/adjustments/:id/revert
func (h *AdjustmentHandler) Revert(c *gin.Context) {
	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid adjustment id"))
		return
	}
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication context"))
		return
	}

	var req dto.RevertAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Revert(c.Request.Context(), adjustmentID, actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
