package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver-level errors onto domain errors
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrDuplicateNumber
	}
	return err
}

// applyPagination applies page/page-size and ordering to a query. The
// sort field comes from the request, so it is checked against the
// entity's whitelist before it is spliced into ORDER BY.
func applyPagination(query *gorm.DB, filter shared.Filter, allowedSortFields map[string]bool) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := validateSortField(filter.OrderBy, allowedSortFields, "created_at")
	orderDir := validateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// nextDocumentNumber generates the next sequential document number for a
// company, in the form PREFIX-YYYY-00001. The sequence restarts each year
// and is derived from the highest number already stored. Callers rely on
// the unique (company_id, number) index to catch the rare concurrent
// collision, which surfaces as DUPLICATE_NUMBER.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, table, prefix string, companyID uuid.UUID, year int) (string, error) {
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)

	var last string
	err := db.WithContext(ctx).
		Table(table).
		Select("number").
		Where("company_id = ? AND number LIKE ?", companyID, pattern).
		Order("number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" {
		if idx := strings.LastIndex(last, "-"); idx >= 0 {
			if n, err := strconv.Atoi(last[idx+1:]); err == nil {
				seq = n + 1
			}
		}
	}
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq), nil
}

// replaceLines swaps a document's full line set. Lines are exclusively
// owned by their parent, so the old set is removed outright and the new
// one inserted. Must run inside the caller's transaction.
func replaceLines(tx *gorm.DB, documentID uuid.UUID, lines []billing.LineItem) error {
	if err := tx.Where("document_id = ?", documentID).Delete(&billing.LineItem{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return tx.Create(&lines).Error
}
