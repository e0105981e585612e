package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reportapp "github.com/openbooks/backend/internal/application/report"
)

// ReportHandler handles financial report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/receivables-aging", h.ReceivablesAging)
		reports.GET("/sales-summary", h.SalesSummary)
		reports.GET("/expense-breakdown", h.ExpenseBreakdown)
	}
}

// ReceivablesAging returns outstanding balances per customer, bucketed
// by days past due as of today.
func (h *ReportHandler) ReceivablesAging(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	rows, err := h.reportService.ReceivablesAging(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// SalesSummary aggregates invoicing activity over the requested period
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	companyID, from, to, ok := h.periodParams(c)
	if !ok {
		return
	}

	summary, err := h.reportService.SalesSummary(c.Request.Context(), companyID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ExpenseBreakdown aggregates recorded expenses per category over the
// requested period.
func (h *ReportHandler) ExpenseBreakdown(c *gin.Context) {
	companyID, from, to, ok := h.periodParams(c)
	if !ok {
		return
	}

	rows, err := h.reportService.ExpenseBreakdown(c.Request.Context(), companyID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// periodParams extracts the company scope and the required from/to
// period bounds. It writes the error response itself on failure.
func (h *ReportHandler) periodParams(c *gin.Context) (uuid.UUID, time.Time, time.Time, bool) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, err)
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	from, err := parseDateQuery(c, "from")
	if err != nil {
		h.BadRequest(c, err)
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		h.BadRequest(c, err)
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		h.BadRequest(c, errors.New("to must not be before from"))
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	return companyID, from, to, true
}
