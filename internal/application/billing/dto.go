package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// LineItemRequest represents one line in a document submission.
// Monetary fields travel as plain JSON numbers rounded to 2 decimals.
type LineItemRequest struct {
	ProductID   *uuid.UUID `json:"product_id"`
	Description string     `json:"description" binding:"max=500"`
	Quantity    float64    `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64    `json:"unit_price" binding:"gte=0"`
	TaxRate     float64    `json:"tax_rate" binding:"gte=0,lte=100"`
}

// ToLineInput converts the request line to a domain line input
func (r LineItemRequest) ToLineInput() billing.LineInput {
	return billing.LineInput{
		ProductID:   r.ProductID,
		Description: r.Description,
		Quantity:    decimal.NewFromFloat(r.Quantity),
		UnitPrice:   decimal.NewFromFloat(r.UnitPrice),
		TaxRate:     decimal.NewFromFloat(r.TaxRate),
	}
}

// LineItemResponse represents one line in API responses
type LineItemResponse struct {
	ID              uuid.UUID  `json:"id"`
	ProductID       *uuid.UUID `json:"product_id"`
	Description     string     `json:"description"`
	Position        int        `json:"position"`
	Quantity        float64    `json:"quantity"`
	UnitPrice       float64    `json:"unit_price"`
	TaxRate         float64    `json:"tax_rate"`
	TaxAmount       float64    `json:"tax_amount"`
	TotalPrice      float64    `json:"total_price"`
	ActualUnitPrice float64    `json:"actual_unit_price"`
}

func toLineItemResponses(items []billing.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, LineItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			Description:     item.Description,
			Position:        item.Position,
			Quantity:        item.Quantity.InexactFloat64(),
			UnitPrice:       item.UnitPrice.InexactFloat64(),
			TaxRate:         item.TaxRate.InexactFloat64(),
			TaxAmount:       item.TaxAmount.InexactFloat64(),
			TotalPrice:      item.TotalPrice.InexactFloat64(),
			ActualUnitPrice: item.ActualUnitPrice.InexactFloat64(),
		})
	}
	return out
}

// CreateEstimateRequest represents an estimate submission
type CreateEstimateRequest struct {
	CustomerID      uuid.UUID         `json:"customer_id" binding:"required"`
	Date            string            `json:"date" binding:"required"`
	ExpiryDate      string            `json:"expiry_date"`
	DiscountType    string            `json:"discount_type" binding:"omitempty,oneof=FIXED PERCENTAGE"`
	DiscountValue   float64           `json:"discount_value" binding:"gte=0"`
	Notes           string            `json:"notes"`
	Terms           string            `json:"terms"`
	BillingAddress  string            `json:"billing_address" binding:"max=500"`
	ShippingAddress string            `json:"shipping_address" binding:"max=500"`
	ShipVia         string            `json:"ship_via" binding:"max=100"`
	ShippingDate    string            `json:"shipping_date"`
	TrackingNumber  string            `json:"tracking_number" binding:"max=100"`
	Items           []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// EstimateResponse represents an estimate in API responses
type EstimateResponse struct {
	ID              uuid.UUID          `json:"id"`
	CompanyID       uuid.UUID          `json:"company_id"`
	Number          string             `json:"number"`
	CustomerID      uuid.UUID          `json:"customer_id"`
	CustomerName    string             `json:"customer_name"`
	Date            string             `json:"date"`
	ExpiryDate      *string            `json:"expiry_date"`
	DiscountType    string             `json:"discount_type"`
	DiscountValue   float64            `json:"discount_value"`
	Subtotal        float64            `json:"subtotal"`
	TaxAmount       float64            `json:"tax_amount"`
	DiscountAmount  float64            `json:"discount_amount"`
	TotalAmount     float64            `json:"total_amount"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes"`
	Terms           string             `json:"terms"`
	BillingAddress  string             `json:"billing_address"`
	ShippingAddress string             `json:"shipping_address"`
	ShipVia         string             `json:"ship_via"`
	ShippingDate    *string            `json:"shipping_date"`
	TrackingNumber  string             `json:"tracking_number"`
	InvoiceID       *uuid.UUID         `json:"invoice_id"`
	Items           []LineItemResponse `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToEstimateResponse converts a domain Estimate to EstimateResponse
func ToEstimateResponse(e *billing.Estimate) EstimateResponse {
	return EstimateResponse{
		ID:              e.ID,
		CompanyID:       e.CompanyID,
		Number:          e.Number,
		CustomerID:      e.CustomerID,
		CustomerName:    e.CustomerName,
		Date:            e.Date.Format(dateLayout),
		ExpiryDate:      formatDatePtr(e.ExpiryDate),
		DiscountType:    e.DiscountType.String(),
		DiscountValue:   e.DiscountValue.InexactFloat64(),
		Subtotal:        e.Subtotal.InexactFloat64(),
		TaxAmount:       e.TaxAmount.InexactFloat64(),
		DiscountAmount:  e.DiscountAmount.InexactFloat64(),
		TotalAmount:     e.TotalAmount.InexactFloat64(),
		Status:          e.Status.String(),
		Notes:           e.Notes,
		Terms:           e.Terms,
		BillingAddress:  e.BillingAddress,
		ShippingAddress: e.ShippingAddress,
		ShipVia:         e.ShipVia,
		ShippingDate:    formatDatePtr(e.ShippingDate),
		TrackingNumber:  e.TrackingNumber,
		InvoiceID:       e.InvoiceID,
		Items:           toLineItemResponses(e.Items),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// CreateInvoiceRequest represents an invoice submission
type CreateInvoiceRequest struct {
	CustomerID      uuid.UUID         `json:"customer_id" binding:"required"`
	Date            string            `json:"date" binding:"required"`
	DueDate         string            `json:"due_date"`
	DiscountType    string            `json:"discount_type" binding:"omitempty,oneof=FIXED PERCENTAGE"`
	DiscountValue   float64           `json:"discount_value" binding:"gte=0"`
	Notes           string            `json:"notes"`
	Terms           string            `json:"terms"`
	BillingAddress  string            `json:"billing_address" binding:"max=500"`
	ShippingAddress string            `json:"shipping_address" binding:"max=500"`
	ShipVia         string            `json:"ship_via" binding:"max=100"`
	ShippingDate    string            `json:"shipping_date"`
	TrackingNumber  string            `json:"tracking_number" binding:"max=100"`
	Items           []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID          `json:"id"`
	CompanyID       uuid.UUID          `json:"company_id"`
	Number          string             `json:"number"`
	CustomerID      uuid.UUID          `json:"customer_id"`
	CustomerName    string             `json:"customer_name"`
	Date            string             `json:"date"`
	DueDate         *string            `json:"due_date"`
	DiscountType    string             `json:"discount_type"`
	DiscountValue   float64            `json:"discount_value"`
	Subtotal        float64            `json:"subtotal"`
	TaxAmount       float64            `json:"tax_amount"`
	DiscountAmount  float64            `json:"discount_amount"`
	TotalAmount     float64            `json:"total_amount"`
	AmountPaid      float64            `json:"amount_paid"`
	BalanceDue      float64            `json:"balance_due"`
	Status          string             `json:"status"`
	Overdue         bool               `json:"overdue"`
	Notes           string             `json:"notes"`
	Terms           string             `json:"terms"`
	BillingAddress  string             `json:"billing_address"`
	ShippingAddress string             `json:"shipping_address"`
	ShipVia         string             `json:"ship_via"`
	ShippingDate    *string            `json:"shipping_date"`
	TrackingNumber  string             `json:"tracking_number"`
	EstimateID      *uuid.UUID         `json:"estimate_id"`
	Items           []LineItemResponse `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse.
// Overdue is derived from the due date at response time.
func ToInvoiceResponse(i *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              i.ID,
		CompanyID:       i.CompanyID,
		Number:          i.Number,
		CustomerID:      i.CustomerID,
		CustomerName:    i.CustomerName,
		Date:            i.Date.Format(dateLayout),
		DueDate:         formatDatePtr(i.DueDate),
		DiscountType:    i.DiscountType.String(),
		DiscountValue:   i.DiscountValue.InexactFloat64(),
		Subtotal:        i.Subtotal.InexactFloat64(),
		TaxAmount:       i.TaxAmount.InexactFloat64(),
		DiscountAmount:  i.DiscountAmount.InexactFloat64(),
		TotalAmount:     i.TotalAmount.InexactFloat64(),
		AmountPaid:      i.AmountPaid.InexactFloat64(),
		BalanceDue:      i.BalanceDue().InexactFloat64(),
		Status:          i.Status.String(),
		Overdue:         i.IsOverdue(time.Now()),
		Notes:           i.Notes,
		Terms:           i.Terms,
		BillingAddress:  i.BillingAddress,
		ShippingAddress: i.ShippingAddress,
		ShipVia:         i.ShipVia,
		ShippingDate:    formatDatePtr(i.ShippingDate),
		TrackingNumber:  i.TrackingNumber,
		EstimateID:      i.EstimateID,
		Items:           toLineItemResponses(i.Items),
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

// CreateBillRequest represents a vendor bill submission.
// The payment method is referenced by name and created inline when missing.
type CreateBillRequest struct {
	VendorID          uuid.UUID         `json:"vendor_id" binding:"required"`
	Date              string            `json:"date" binding:"required"`
	DueDate           string            `json:"due_date"`
	PaymentMethodName string            `json:"payment_method" binding:"max=100"`
	DiscountType      string            `json:"discount_type" binding:"omitempty,oneof=FIXED PERCENTAGE"`
	DiscountValue     float64           `json:"discount_value" binding:"gte=0"`
	Notes             string            `json:"notes"`
	Items             []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID              uuid.UUID          `json:"id"`
	CompanyID       uuid.UUID          `json:"company_id"`
	Number          string             `json:"number"`
	VendorID        uuid.UUID          `json:"vendor_id"`
	VendorName      string             `json:"vendor_name"`
	Date            string             `json:"date"`
	DueDate         *string            `json:"due_date"`
	PaymentMethodID *uuid.UUID         `json:"payment_method_id"`
	DiscountType    string             `json:"discount_type"`
	DiscountValue   float64            `json:"discount_value"`
	Subtotal        float64            `json:"subtotal"`
	DiscountAmount  float64            `json:"discount_amount"`
	TotalAmount     float64            `json:"total_amount"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes"`
	Items           []LineItemResponse `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToBillResponse converts a domain Bill to BillResponse
func ToBillResponse(b *billing.Bill) BillResponse {
	return BillResponse{
		ID:              b.ID,
		CompanyID:       b.CompanyID,
		Number:          b.Number,
		VendorID:        b.VendorID,
		VendorName:      b.VendorName,
		Date:            b.Date.Format(dateLayout),
		DueDate:         formatDatePtr(b.DueDate),
		PaymentMethodID: b.PaymentMethodID,
		DiscountType:    b.DiscountType.String(),
		DiscountValue:   b.DiscountValue.InexactFloat64(),
		Subtotal:        b.Subtotal.InexactFloat64(),
		DiscountAmount:  b.DiscountAmount.InexactFloat64(),
		TotalAmount:     b.TotalAmount.InexactFloat64(),
		Status:          b.Status.String(),
		Notes:           b.Notes,
		Items:           toLineItemResponses(b.Items),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// CreateExpenseRequest represents an expense submission
type CreateExpenseRequest struct {
	VendorID          *uuid.UUID        `json:"vendor_id"`
	Category          string            `json:"category" binding:"required,max=100"`
	Date              string            `json:"date" binding:"required"`
	PaymentMethodName string            `json:"payment_method" binding:"max=100"`
	DiscountType      string            `json:"discount_type" binding:"omitempty,oneof=FIXED PERCENTAGE"`
	DiscountValue     float64           `json:"discount_value" binding:"gte=0"`
	Notes             string            `json:"notes"`
	Items             []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID              uuid.UUID          `json:"id"`
	CompanyID       uuid.UUID          `json:"company_id"`
	Number          string             `json:"number"`
	VendorID        *uuid.UUID         `json:"vendor_id"`
	VendorName      string             `json:"vendor_name"`
	Category        string             `json:"category"`
	Date            string             `json:"date"`
	PaymentMethodID *uuid.UUID         `json:"payment_method_id"`
	DiscountType    string             `json:"discount_type"`
	DiscountValue   float64            `json:"discount_value"`
	Subtotal        float64            `json:"subtotal"`
	DiscountAmount  float64            `json:"discount_amount"`
	TotalAmount     float64            `json:"total_amount"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes"`
	Items           []LineItemResponse `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToExpenseResponse converts a domain Expense to ExpenseResponse
func ToExpenseResponse(e *billing.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:              e.ID,
		CompanyID:       e.CompanyID,
		Number:          e.Number,
		VendorID:        e.VendorID,
		VendorName:      e.VendorName,
		Category:        e.Category,
		Date:            e.Date.Format(dateLayout),
		PaymentMethodID: e.PaymentMethodID,
		DiscountType:    e.DiscountType.String(),
		DiscountValue:   e.DiscountValue.InexactFloat64(),
		Subtotal:        e.Subtotal.InexactFloat64(),
		DiscountAmount:  e.DiscountAmount.InexactFloat64(),
		TotalAmount:     e.TotalAmount.InexactFloat64(),
		Status:          e.Status.String(),
		Notes:           e.Notes,
		Items:           toLineItemResponses(e.Items),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// CreatePurchaseOrderRequest represents a purchase order submission
type CreatePurchaseOrderRequest struct {
	VendorID        uuid.UUID         `json:"vendor_id" binding:"required"`
	Date            string            `json:"date" binding:"required"`
	ExpectedDate    string            `json:"expected_date"`
	ShippingAddress string            `json:"shipping_address" binding:"max=500"`
	DiscountType    string            `json:"discount_type" binding:"omitempty,oneof=FIXED PERCENTAGE"`
	DiscountValue   float64           `json:"discount_value" binding:"gte=0"`
	Notes           string            `json:"notes"`
	Items           []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID              uuid.UUID          `json:"id"`
	CompanyID       uuid.UUID          `json:"company_id"`
	Number          string             `json:"number"`
	VendorID        uuid.UUID          `json:"vendor_id"`
	VendorName      string             `json:"vendor_name"`
	Date            string             `json:"date"`
	ExpectedDate    *string            `json:"expected_date"`
	ShippingAddress string             `json:"shipping_address"`
	DiscountType    string             `json:"discount_type"`
	DiscountValue   float64            `json:"discount_value"`
	Subtotal        float64            `json:"subtotal"`
	DiscountAmount  float64            `json:"discount_amount"`
	TotalAmount     float64            `json:"total_amount"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes"`
	Items           []LineItemResponse `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(p *billing.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		Number:          p.Number,
		VendorID:        p.VendorID,
		VendorName:      p.VendorName,
		Date:            p.Date.Format(dateLayout),
		ExpectedDate:    formatDatePtr(p.ExpectedDate),
		ShippingAddress: p.ShippingAddress,
		DiscountType:    p.DiscountType.String(),
		DiscountValue:   p.DiscountValue.InexactFloat64(),
		Subtotal:        p.Subtotal.InexactFloat64(),
		DiscountAmount:  p.DiscountAmount.InexactFloat64(),
		TotalAmount:     p.TotalAmount.InexactFloat64(),
		Status:          p.Status.String(),
		Notes:           p.Notes,
		Items:           toLineItemResponses(p.Items),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// PaymentAllocationRequest selects one invoice for a payment. A nil amount
// means "pay the full balance due".
type PaymentAllocationRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
	Amount    *float64  `json:"amount" binding:"omitempty,gt=0"`
}

// RecordPaymentRequest represents a payment submission across invoices
type RecordPaymentRequest struct {
	PaymentDate       string                     `json:"payment_date" binding:"required"`
	PaymentMethodName string                     `json:"payment_method" binding:"required,max=100"`
	Notes             string                     `json:"notes"`
	Allocations       []PaymentAllocationRequest `json:"allocations" binding:"required,min=1,dive"`
}

// PaymentAllocationResponse represents one allocation in API responses
type PaymentAllocationResponse struct {
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Amount        float64   `json:"amount"`
	BalanceDue    float64   `json:"balance_due"`
	Status        string    `json:"status"`
}

// PaymentResponse represents a recorded payment in API responses
type PaymentResponse struct {
	ID              uuid.UUID                   `json:"id"`
	CompanyID       uuid.UUID                   `json:"company_id"`
	CustomerID      uuid.UUID                   `json:"customer_id"`
	PaymentDate     string                      `json:"payment_date"`
	PaymentMethodID uuid.UUID                   `json:"payment_method_id"`
	Amount          float64                     `json:"amount"`
	Notes           string                      `json:"notes"`
	Allocations     []PaymentAllocationResponse `json:"allocations"`
	CreatedAt       time.Time                   `json:"created_at"`
}

// ToPaymentResponse converts a payment and its touched invoices to a response
func ToPaymentResponse(p *billing.Payment, invoices []*billing.Invoice) PaymentResponse {
	byID := make(map[uuid.UUID]*billing.Invoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
	}

	allocations := make([]PaymentAllocationResponse, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		resp := PaymentAllocationResponse{
			InvoiceID: a.InvoiceID,
			Amount:    a.Amount.InexactFloat64(),
		}
		if inv, ok := byID[a.InvoiceID]; ok {
			resp.InvoiceNumber = inv.Number
			resp.BalanceDue = inv.BalanceDue().InexactFloat64()
			resp.Status = inv.Status.String()
		}
		allocations = append(allocations, resp)
	}

	return PaymentResponse{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		CustomerID:      p.CustomerID,
		PaymentDate:     p.PaymentDate.Format(dateLayout),
		PaymentMethodID: p.PaymentMethodID,
		Amount:          p.Amount.InexactFloat64(),
		Notes:           p.Notes,
		Allocations:     allocations,
		CreatedAt:       p.CreatedAt,
	}
}

// PaymentMethodResponse represents a payment method in API responses
type PaymentMethodResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// ToPaymentMethodResponse converts a domain PaymentMethod to a response
func ToPaymentMethodResponse(m *billing.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:     m.ID,
		Name:   m.Name,
		Active: m.Active,
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
