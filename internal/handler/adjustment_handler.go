package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockdesk/internal/domain"
	"stockdesk/internal/service"
)

// AdjustmentHandler handles stock adjustment endpoints.
type AdjustmentHandler struct {
	adjustmentService service.AdjustmentService
	optionsService    service.OptionsService
	log               *zap.Logger
}

// NewAdjustmentHandler creates a new AdjustmentHandler.
func NewAdjustmentHandler(adjustmentService service.AdjustmentService, optionsService service.OptionsService, log *zap.Logger) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentService: adjustmentService, optionsService: optionsService, log: log}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid adjustment ID")
		return 0, false
	}
	return id, true
}

// List handles GET /api/v1/stock-adjustments
func (h *AdjustmentHandler) List(c *gin.Context) {
	f, err := domain.ParseReportFilter(c.Request.URL.Query())
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	input := service.AdjustmentListInput{Filter: f, Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		input.Status = domain.AdjustmentStatus(raw)
		if !input.Status.Valid() {
			RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "invalid 'status': must be one of draft, pending, approved, completed, rejected")
			return
		}
	}

	res, err := h.adjustmentService.List(c.Request.Context(), input)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondPaginated(c, gin.H{"rows": res.Data, "summary": res.Summary, "meta": res.Meta}, res.Pagination)
}

// GetByID handles GET /api/v1/stock-adjustments/:id
func (h *AdjustmentHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	v, err := h.adjustmentService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, v)
}

// Activities handles GET /api/v1/stock-adjustments/:id/activities
func (h *AdjustmentHandler) Activities(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	acts, err := h.adjustmentService.Activities(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, acts)
}

// Create handles POST /api/v1/stock-adjustments
func (h *AdjustmentHandler) Create(c *gin.Context) {
	var input domain.AdjustmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", bindingMessage(err))
		return
	}
	v, err := h.adjustmentService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondCreated(c, v)
}

// Update handles PATCH /api/v1/stock-adjustments/:id
func (h *AdjustmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input domain.AdjustmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", bindingMessage(err))
		return
	}
	v, err := h.adjustmentService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, v)
}

// Delete handles DELETE /api/v1/stock-adjustments/:id
func (h *AdjustmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.adjustmentService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"message": "adjustment deleted"})
}

// Submit handles POST /api/v1/stock-adjustments/:id/submit
func (h *AdjustmentHandler) Submit(c *gin.Context) {
	h.transition(c, h.adjustmentService.Submit)
}

// Approve handles POST /api/v1/stock-adjustments/:id/approve
func (h *AdjustmentHandler) Approve(c *gin.Context) {
	h.transition(c, h.adjustmentService.Approve)
}

// Apply handles POST /api/v1/stock-adjustments/:id/apply
func (h *AdjustmentHandler) Apply(c *gin.Context) {
	h.transition(c, h.adjustmentService.Apply)
}

// Reject handles POST /api/v1/stock-adjustments/:id/reject
func (h *AdjustmentHandler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "REASON_REQUIRED", "a rejection reason is required")
		return
	}
	v, err := h.adjustmentService.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, v)
}

// FormOptions handles GET /api/v1/options/adjustment-form
func (h *AdjustmentHandler) FormOptions(c *gin.Context) {
	opts, err := h.optionsService.AdjustmentForm(c.Request.Context())
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, opts)
}

func (h *AdjustmentHandler) transition(c *gin.Context, action func(ctx context.Context, id int64) (*service.AdjustmentView, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	v, err := action(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, v)
}
