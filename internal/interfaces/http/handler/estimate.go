package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/openbooks/backend/internal/application/billing"
)

// EstimateHandler handles estimate API endpoints
type EstimateHandler struct {
	BaseHandler
	estimateService *billingapp.EstimateService
}

// NewEstimateHandler creates a new EstimateHandler
func NewEstimateHandler(estimateService *billingapp.EstimateService) *EstimateHandler {
	return &EstimateHandler{estimateService: estimateService}
}

// RegisterRoutes registers estimate routes
func (h *EstimateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	estimates := rg.Group("/estimates")
	{
		estimates.POST("", h.Create)
		estimates.GET("", h.List)
		estimates.GET("/:id", h.Get)
		estimates.PUT("/:id", h.Update)
		estimates.DELETE("/:id", h.Delete)
		estimates.POST("/:id/send", h.Send)
		estimates.POST("/:id/accept", h.Accept)
		estimates.POST("/:id/decline", h.Decline)
		estimates.POST("/:id/convert", h.Convert)
	}
}

// Create creates a new estimate
func (h *EstimateHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	var req billingapp.CreateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.estimateService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one estimate with its lines
func (h *EstimateHandler) Get(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.estimateService.Get(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a page of estimates
func (h *EstimateHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		filter.Filters["customer_id"] = customerID
	}

	page, err := h.estimateService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update replaces an estimate's editable fields and lines
func (h *EstimateHandler) Update(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	var req billingapp.CreateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.estimateService.Update(c.Request.Context(), companyID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an estimate
func (h *EstimateHandler) Delete(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	if err := h.estimateService.Delete(c.Request.Context(), companyID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Send marks an estimate as sent
func (h *EstimateHandler) Send(c *gin.Context) {
	h.transition(c, h.estimateService.MarkSent)
}

// Accept marks an estimate as accepted
func (h *EstimateHandler) Accept(c *gin.Context) {
	h.transition(c, h.estimateService.Accept)
}

// Decline marks an estimate as declined
func (h *EstimateHandler) Decline(c *gin.Context) {
	h.transition(c, h.estimateService.Decline)
}

// Convert turns an accepted estimate into a draft invoice
func (h *EstimateHandler) Convert(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.estimateService.Convert(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *EstimateHandler) transition(c *gin.Context, fn func(ctx context.Context, companyID, id uuid.UUID) (*billingapp.EstimateResponse, error)) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := fn(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
