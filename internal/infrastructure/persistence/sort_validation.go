package persistence

import (
	"strings"
)

// validateSortOrder normalizes the sort direction to ASC or DESC.
// Anything other than a case-insensitive "desc" sorts ascending.
func validateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "desc") {
		return "DESC"
	}
	return "ASC"
}

// validateSortField validates a caller-supplied sort field against the
// entity's whitelist. The field reaches ORDER BY as raw SQL, so anything
// not whitelisted falls back to defaultField.
func validateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// customerSortFields contains allowed sort fields for customers
var customerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
	"phone":      true,
	"active":     true,
}

// vendorSortFields contains allowed sort fields for vendors
var vendorSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
	"active":     true,
}

// productSortFields contains allowed sort fields for products
var productSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"sku":        true,
	"unit_price": true,
	"active":     true,
}

// estimateSortFields contains allowed sort fields for estimates
var estimateSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"date":          true,
	"expiry_date":   true,
	"status":        true,
	"total_amount":  true,
	"customer_name": true,
}

// invoiceSortFields contains allowed sort fields for invoices
var invoiceSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"date":          true,
	"due_date":      true,
	"status":        true,
	"total_amount":  true,
	"amount_paid":   true,
	"customer_name": true,
}

// billSortFields contains allowed sort fields for bills
var billSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"number":       true,
	"date":         true,
	"due_date":     true,
	"status":       true,
	"total_amount": true,
	"vendor_name":  true,
}

// expenseSortFields contains allowed sort fields for expenses
var expenseSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"number":       true,
	"date":         true,
	"category":     true,
	"status":       true,
	"total_amount": true,
	"vendor_name":  true,
}

// purchaseOrderSortFields contains allowed sort fields for purchase orders
var purchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"date":          true,
	"expected_date": true,
	"status":        true,
	"total_amount":  true,
	"vendor_name":   true,
}

// paymentSortFields contains allowed sort fields for payments
var paymentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"payment_date": true,
	"amount":       true,
}
