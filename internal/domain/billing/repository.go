package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
)

// EstimateRepository defines the persistence contract for estimates.
// Save writes the header and the full replacement line set in one
// transaction; a failure rolls the whole submission back.
type EstimateRepository interface {
	Save(ctx context.Context, estimate *Estimate) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Estimate, error)
	FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*Estimate, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[Estimate], error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	NextNumber(ctx context.Context, companyID uuid.UUID) (string, error)
}

// InvoiceRepository defines the persistence contract for invoices.
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *Invoice) error
	// SaveConversion persists a freshly converted invoice together with the
	// source estimate's converted status in a single transaction.
	SaveConversion(ctx context.Context, estimate *Estimate, invoice *Invoice) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*Invoice, error)
	FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Invoice, error)
	// FindOutstandingByCustomer returns the customer's invoices with a
	// positive balance due, oldest first.
	FindOutstandingByCustomer(ctx context.Context, companyID, customerID uuid.UUID) ([]Invoice, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[Invoice], error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	NextNumber(ctx context.Context, companyID uuid.UUID) (string, error)
}

// BillRepository defines the persistence contract for vendor bills.
type BillRepository interface {
	Save(ctx context.Context, bill *Bill) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Bill, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[Bill], error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	NextNumber(ctx context.Context, companyID uuid.UUID) (string, error)
}

// ExpenseRepository defines the persistence contract for expenses.
type ExpenseRepository interface {
	Save(ctx context.Context, expense *Expense) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Expense, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[Expense], error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	NextNumber(ctx context.Context, companyID uuid.UUID) (string, error)
}

// PurchaseOrderRepository defines the persistence contract for purchase orders.
type PurchaseOrderRepository interface {
	Save(ctx context.Context, po *PurchaseOrder) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*PurchaseOrder, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[PurchaseOrder], error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	NextNumber(ctx context.Context, companyID uuid.UUID) (string, error)
}

// PaymentRepository defines the persistence contract for payments.
type PaymentRepository interface {
	// SaveAllocation persists the payment, its allocations and the mutated
	// paid amounts of every touched invoice in a single transaction.
	SaveAllocation(ctx context.Context, payment *Payment, invoices []*Invoice) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Payment, error)
	ListByCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[Payment], error)
}

// PaymentMethodRepository defines the persistence contract for payment methods.
type PaymentMethodRepository interface {
	Save(ctx context.Context, method *PaymentMethod) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*PaymentMethod, error)
	FindByName(ctx context.Context, companyID uuid.UUID, name string) (*PaymentMethod, error)
	List(ctx context.Context, companyID uuid.UUID) ([]PaymentMethod, error)
}
