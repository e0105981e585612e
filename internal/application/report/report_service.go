package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/report"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cacheTTL keeps report results fresh enough for dashboards while sparing
// the database the repeated aggregate scans.
const cacheTTL = 5 * time.Minute

// ReportService serves read-only financial reports with a Redis
// cache-aside layer. A nil cache client disables caching.
type ReportService struct {
	repo   report.Repository
	cache  *redis.Client
	logger *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(repo report.Repository, cache *redis.Client, logger *zap.Logger) *ReportService {
	return &ReportService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ReceivablesAging returns the outstanding invoice balances per customer,
// bucketed by days past due as of today.
func (s *ReportService) ReceivablesAging(ctx context.Context, companyID uuid.UUID) ([]report.ReceivablesAgingRow, error) {
	asOf := time.Now()
	key := fmt.Sprintf("report:aging:%s:%s", companyID, asOf.Format("2006-01-02"))

	var rows []report.ReceivablesAgingRow
	if s.readCache(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.repo.ReceivablesAging(ctx, companyID, asOf)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, key, rows)
	return rows, nil
}

// SalesSummary aggregates invoicing activity over the given period
func (s *ReportService) SalesSummary(ctx context.Context, companyID uuid.UUID, from, to time.Time) (*report.SalesSummaryRow, error) {
	key := fmt.Sprintf("report:sales:%s:%s:%s", companyID, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var row report.SalesSummaryRow
	if s.readCache(ctx, key, &row) {
		return &row, nil
	}

	result, err := s.repo.SalesSummary(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, key, result)
	return result, nil
}

// ExpenseBreakdown aggregates spending by category over the given period
func (s *ReportService) ExpenseBreakdown(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]report.ExpenseBreakdownRow, error) {
	key := fmt.Sprintf("report:expenses:%s:%s:%s", companyID, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var rows []report.ExpenseBreakdownRow
	if s.readCache(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.repo.ExpenseBreakdown(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, key, rows)
	return rows, nil
}

// readCache loads a cached result into dest. Cache failures are logged
// and treated as misses; reports never fail because Redis is down.
func (s *ReportService) readCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("report cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *ReportService) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
