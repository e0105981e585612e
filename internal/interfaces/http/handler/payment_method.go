package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/openbooks/backend/internal/application/billing"
)

// PaymentMethodHandler handles payment method API endpoints
type PaymentMethodHandler struct {
	BaseHandler
	methodService *billingapp.PaymentMethodService
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler
func NewPaymentMethodHandler(methodService *billingapp.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodService: methodService}
}

// RegisterRoutes registers payment method routes
func (h *PaymentMethodHandler) RegisterRoutes(rg *gin.RouterGroup) {
	methods := rg.Group("/payment-methods")
	{
		methods.POST("", h.Create)
		methods.GET("", h.List)
		methods.POST("/:id/deactivate", h.Deactivate)
	}
}

// Create adds a payment method
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	var req billingapp.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.methodService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns all payment methods for the company
func (h *PaymentMethodHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	methods, err := h.methodService.List(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, methods)
}

// Deactivate retires a payment method from future use
func (h *PaymentMethodHandler) Deactivate(c *gin.Context) {
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

	resp, err := h.methodService.Deactivate(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
