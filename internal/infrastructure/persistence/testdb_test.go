package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/catalog"
	"github.com/openbooks/backend/internal/domain/party"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB opens an isolated in-memory database with the full schema
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&billing.Estimate{},
		&billing.Invoice{},
		&billing.Bill{},
		&billing.Expense{},
		&billing.PurchaseOrder{},
		&billing.LineItem{},
		&billing.Payment{},
		&billing.PaymentAllocation{},
		&billing.PaymentMethod{},
		&party.Customer{},
		&party.Vendor{},
		&catalog.Product{},
	)
	require.NoError(t, err)

	return db
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// productLine builds a single product-referencing line input
func productLine(t *testing.T, quantity, unitPrice, taxRate string) billing.LineInput {
	t.Helper()
	productID := uuid.New()
	return billing.LineInput{
		ProductID:   &productID,
		Description: "Widget",
		Quantity:    dec(t, quantity),
		UnitPrice:   dec(t, unitPrice),
		TaxRate:     dec(t, taxRate),
	}
}

// newTestInvoice builds a saved-ready invoice with one line
func newTestInvoice(t *testing.T, companyID uuid.UUID, number string, date time.Time) *billing.Invoice {
	t.Helper()
	invoice, err := billing.NewInvoice(companyID, number, uuid.New(), "Acme Corp", date)
	require.NoError(t, err)
	require.NoError(t, invoice.SetLines([]billing.LineInput{productLine(t, "2", "100", "10")}))
	return invoice
}
