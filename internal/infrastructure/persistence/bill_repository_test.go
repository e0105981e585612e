package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBillRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	date := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	newTestBill := func(t *testing.T, number string) *billing.Bill {
		t.Helper()
		bill, err := billing.NewBill(companyID, number, uuid.New(), "Office Supply Co", date)
		require.NoError(t, err)
		require.NoError(t, bill.SetLines([]billing.LineInput{
			productLine(t, "2", "100", "0"),
			productLine(t, "3", "25", "0"),
		}))
		return bill
	}

	t.Run("round trips a bill with its lines", func(t *testing.T) {
		db := openTestDB(t)
		repo := NewGormBillRepository(db)

		bill := newTestBill(t, "BILL-2026-00001")
		require.NoError(t, repo.Save(ctx, bill))

		found, err := repo.FindByID(ctx, companyID, bill.ID)
		require.NoError(t, err)
		assert.Equal(t, "BILL-2026-00001", found.Number)
		assert.Equal(t, billing.BillStatusOpen, found.Status)
		require.Len(t, found.Items, 2)

		// The stored total must equal the sum of the stored line totals
		lineSum := decimal.Zero
		for _, item := range found.Items {
			lineSum = lineSum.Add(item.TotalPrice)
		}
		assert.True(t, found.TotalAmount.Equal(lineSum), "total %s, line sum %s", found.TotalAmount, lineSum)
		assert.True(t, found.TotalAmount.Equal(dec(t, "275")))
	})

	t.Run("is scoped by company", func(t *testing.T) {
		db := openTestDB(t)
		repo := NewGormBillRepository(db)

		bill := newTestBill(t, "BILL-2026-00001")
		require.NoError(t, repo.Save(ctx, bill))

		_, err := repo.FindByID(ctx, uuid.New(), bill.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects a duplicate number", func(t *testing.T) {
		db := openTestDB(t)
		repo := NewGormBillRepository(db)

		require.NoError(t, repo.Save(ctx, newTestBill(t, "BILL-2026-00001")))
		err := repo.Save(ctx, newTestBill(t, "BILL-2026-00001"))
		assert.ErrorIs(t, err, shared.ErrDuplicateNumber)
	})
}
