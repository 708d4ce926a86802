package handler

import (
	"net/http"
	"time"

	"sproutplan/internal/apierror"
	"sproutplan/internal/dto"
	"sproutplan/internal/service"

	"github.com/gin-gonic/gin"
)

type AccuracyHandler struct {
	svc service.AccuracyService
}

func NewAccuracyHandler(svc service.AccuracyService) *AccuracyHandler {
	return &AccuracyHandler{svc: svc}
}

// Evaluate scores every elapsed forecast that has no accuracy record yet
// against realized sales. Idempotent: already-scored forecasts are skipped.
// POST /v1/accuracy/evaluate
func (h *AccuracyHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateAccuracyRequest
	if !bindAndValidate(c, &req) {
		return
	}

	asOf := time.Now()
	if req.AsOf != nil {
		parsed, err := time.Parse("2006-01-02", *req.AsOf)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("as_of must be YYYY-MM-DD"))
			return
		}
		asOf = parsed
	}

	items, err := h.svc.Evaluate(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// List returns accuracy records, optionally filtered by product.
// GET /v1/accuracy
func (h *AccuracyHandler) List(c *gin.Context) {
	filter := dto.AccuracyFilter{ProductID: c.Query("product_id")}
	items, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}
