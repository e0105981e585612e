package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/openbooks/backend/internal/application/billing"
)

// BillHandler handles vendor bill API endpoints
type BillHandler struct {
	BaseHandler
	billService *billingapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *billingapp.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// RegisterRoutes registers bill routes
func (h *BillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bills := rg.Group("/bills")
	{
		bills.POST("", h.Create)
		bills.GET("", h.List)
		bills.GET("/:id", h.Get)
		bills.PUT("/:id", h.Update)
		bills.DELETE("/:id", h.Delete)
		bills.POST("/:id/pay", h.MarkPaid)
		bills.POST("/:id/cancel", h.Cancel)
	}
}

// Create creates a new bill
func (h *BillHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	var req billingapp.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.billService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one bill with its lines
func (h *BillHandler) Get(c *gin.Context) {
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

	resp, err := h.billService.Get(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a page of bills
func (h *BillHandler) List(c *gin.Context) {
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
	if vendorID := c.Query("vendor_id"); vendorID != "" {
		filter.Filters["vendor_id"] = vendorID
	}

	page, err := h.billService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update replaces a bill's editable fields and lines
func (h *BillHandler) Update(c *gin.Context) {
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

	var req billingapp.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.billService.Update(c.Request.Context(), companyID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a bill
func (h *BillHandler) Delete(c *gin.Context) {
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

	if err := h.billService.Delete(c.Request.Context(), companyID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkPaid marks a bill as paid
func (h *BillHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.billService.MarkPaid)
}

// Cancel cancels a bill
func (h *BillHandler) Cancel(c *gin.Context) {
	h.transition(c, h.billService.Cancel)
}

func (h *BillHandler) transition(c *gin.Context, fn func(ctx context.Context, companyID, id uuid.UUID) (*billingapp.BillResponse, error)) {
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
