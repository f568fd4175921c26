package service

import (
	"context"

	"sales-management/internal/domain"
	"sales-management/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	DefaultBestSellersLimit = 5
	MaxBestSellersLimit     = 50
)

// AnalyticsService exposes read-only aggregates over recorded sales
type AnalyticsService interface {
	KPI(ctx context.Context) (*domain.KPI, error)
	MonthlySales(ctx context.Context) ([]domain.MonthlySales, error)
	BestSellers(ctx context.Context, limit int) ([]domain.ProductSales, error)
	CategoryStats(ctx context.Context) ([]domain.CategorySales, error)
}

type analyticsService struct {
	repo repository.AnalyticsRepository
}

// NewAnalyticsService creates a new instance of AnalyticsService
func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

// KPI returns headline totals; the average basket is zero when nothing was sold
func (s *analyticsService) KPI(ctx context.Context) (*domain.KPI, error) {
	kpi, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	kpi.AverageBasket = decimal.Zero
	if kpi.SalesCount > 0 {
		kpi.AverageBasket = kpi.TotalRevenue.
			Div(decimal.NewFromInt(int64(kpi.SalesCount))).
			Round(2)
	}
	return kpi, nil
}

func (s *analyticsService) MonthlySales(ctx context.Context) ([]domain.MonthlySales, error) {
	return s.repo.MonthlySales(ctx)
}

// BestSellers clamps limit to [1, MaxBestSellersLimit]; zero or less selects the default
func (s *analyticsService) BestSellers(ctx context.Context, limit int) ([]domain.ProductSales, error) {
	return s.repo.BestSellers(ctx, ClampLimit(limit))
}

func (s *analyticsService) CategoryStats(ctx context.Context) ([]domain.CategorySales, error) {
	return s.repo.CategorySales(ctx)
}

func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultBestSellersLimit
	}
	if limit > MaxBestSellersLimit {
		return MaxBestSellersLimit
	}
	return limit
}
