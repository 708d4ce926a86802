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

type SuggestionHandler struct {
	scheduler service.SchedulerService
	approval  service.ApprovalService
}

func NewSuggestionHandler(scheduler service.SchedulerService, approval service.ApprovalService) *SuggestionHandler {
	return &SuggestionHandler{scheduler: scheduler, approval: approval}
}

// Generate derives production suggestions for all schedulable forecasts
// inside the horizon. Re-running refreshes open suggestions in place.
// POST /v1/suggestions/generate
func (h *SuggestionHandler) Generate(c *gin.Context) {
	var req dto.GenerateSuggestionsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	items, err := h.scheduler.GenerateSuggestions(c.Request.Context(), req.HorizonDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// List returns suggestions filtered by status and product.
// GET /v1/suggestions
func (h *SuggestionHandler) List(c *gin.Context) {
	filter := dto.SuggestionFilter{
		Status:    c.Query("status"),
		ProductID: c.Query("product_id"),
		Page:      parseIntQuery(c, "page", 1),
		Limit:     parseIntQuery(c, "limit", 50),
	}
	resp, err := h.scheduler.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Approve transitions a proposed suggestion to approved and provisions a
// production lot against the oldest seed batch with stock.
// POST /v1/suggestions/:id/approve
func (h *SuggestionHandler) Approve(c *gin.Context) {
	suggestionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid suggestion id"))
		return
	}
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication context"))
		return
	}

	var req dto.ApproveSuggestionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.approval.Approve(c.Request.Context(), suggestionID, actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reject transitions a proposed suggestion to rejected with a reason.
// POST /v1/suggestions/:id/reject
func (h *SuggestionHandler) Reject(c *gin.Context) {
	suggestionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid suggestion id"))
		return
	}
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication context"))
		return
	}

	var req dto.RejectSuggestionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.approval.Reject(c.Request.Context(), suggestionID, actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
