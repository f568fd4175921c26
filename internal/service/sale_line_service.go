package service

import (
	"context"

	"sales-management/internal/domain"
	"sales-management/internal/repository"
)

// SaleLineService reads individual sale lines
type SaleLineService interface {
	Get(ctx context.Context, id int64) (*domain.SaleLine, error)
	ListBySale(ctx context.Context, saleID int64) ([]domain.SaleLine, error)
}

type saleLineService struct {
	lineRepo repository.SaleLineRepository
	saleRepo repository.SaleRepository
}

// NewSaleLineService creates a new instance of SaleLineService
func NewSaleLineService(lineRepo repository.SaleLineRepository, saleRepo repository.SaleRepository) SaleLineService {
	return &saleLineService{lineRepo: lineRepo, saleRepo: saleRepo}
}

func (s *saleLineService) Get(ctx context.Context, id int64) (*domain.SaleLine, error) {
	return s.lineRepo.FindByID(ctx, id)
}

// ListBySale returns the lines of an existing sale in insertion order
func (s *saleLineService) ListBySale(ctx context.Context, saleID int64) ([]domain.SaleLine, error) {
	if _, err := s.saleRepo.FindByID(ctx, saleID); err != nil {
		return nil, err
	}
	return s.lineRepo.ListBySale(ctx, saleID)
}
