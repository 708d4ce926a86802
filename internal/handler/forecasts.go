package handler

import (
	"net/http"
	"strconv"

	"sproutplan/internal/apierror"
	"sproutplan/internal/dto"
	"sproutplan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ForecastHandler struct {
	svc service.ForecastService
}

func NewForecastHandler(svc service.ForecastService) *ForecastHandler {
	return &ForecastHandler{svc: svc}
}

// Generate runs the forecast pipeline for the requested products and horizon.
// POST /v1/forecasts/generate
func (h *ForecastHandler) Generate(c *gin.Context) {
	var req dto.GenerateForecastsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	items, err := h.svc.GenerateForecasts(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// List returns forecasts filtered by product, date window and adjustment flag.
// GET /v1/forecasts
func (h *ForecastHandler) List(c *gin.Context) {
	filter := dto.ForecastFilter{
		ProductID: c.Query("product_id"),
		From:      c.Query("from"),
		Until:     c.Query("until"),
		Adjusted:  c.Query("adjusted"),
		Page:      parseIntQuery(c, "page", 1),
		Limit:     parseIntQuery(c, "limit", 50),
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Detail returns one forecast with its adjustment ledger and suggestion.
// GET /v1/forecasts/:id
func (h *ForecastHandler) Detail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid forecast id"))
		return
	}
	resp, err := h.svc.GetDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseIntQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
