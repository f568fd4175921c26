package service

import (
	"context"
	"fmt"
	"time"

	"sales-management/internal/domain"
	"sales-management/internal/repository"
)

// SaleLineInput is one requested product and quantity
type SaleLineInput struct {
	ProductID int64
	Quantity  int
}

// CreateSaleInput describes a sale to record. A nil SaleDate means now.
type CreateSaleInput struct {
	UserID   int64
	SaleDate *time.Time
	Lines    []SaleLineInput
}

// SaleService records and reads sales
type SaleService interface {
	Create(ctx context.Context, in CreateSaleInput) (*domain.Sale, error)
	Get(ctx context.Context, id int64) (*domain.Sale, error)
	GetAll(ctx context.Context) ([]*domain.Sale, error)
	GetPaginated(ctx context.Context, page, size int) (domain.Page[*domain.Sale], error)
	Delete(ctx context.Context, id int64) error
}

// SaleOptions tunes sale recording
type SaleOptions struct {
	// AllowEmpty accepts sales without lines, recorded with a zero total
	AllowEmpty bool
}

type saleService struct {
	saleRepo    repository.SaleRepository
	lineRepo    repository.SaleLineRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	tx          repository.TxManager
	opts        SaleOptions
	now         func() time.Time
}

// NewSaleService creates a new instance of SaleService
func NewSaleService(
	saleRepo repository.SaleRepository,
	lineRepo repository.SaleLineRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	tx repository.TxManager,
	opts SaleOptions,
) SaleService {
	return &saleService{
		saleRepo:    saleRepo,
		lineRepo:    lineRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		tx:          tx,
		opts:        opts,
		now:         time.Now,
	}
}

// Create records a sale and its lines in one transaction.
//
// The seller must exist and hold a role allowed to sell. Each line snapshots the product's
// current price, and the header total is the sum of the line totals. Nothing is persisted
// when any step fails.
func (s *saleService) Create(ctx context.Context, in CreateSaleInput) (*domain.Sale, error) {
	if len(in.Lines) == 0 && !s.opts.AllowEmpty {
		return nil, domain.InvalidInput("a sale must contain at least one line")
	}

	var created *domain.Sale
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.FindByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !domain.CanCreateSale(user.Role) {
			return domain.ForbiddenOperation(fmt.Sprintf("user %d with role %q may not create sales", user.ID, user.Role))
		}

		lines := make([]domain.SaleLine, 0, len(in.Lines))
		for i, req := range in.Lines {
			product, err := s.productRepo.FindByID(ctx, req.ProductID)
			if err != nil {
				return err
			}
			if req.Quantity <= 0 {
				return domain.InvalidInput(fmt.Sprintf("line %d: quantity must be greater than zero", i+1))
			}
			if req.Quantity > domain.MaxLineQuantity {
				return domain.InvalidInput(fmt.Sprintf("line %d: quantity must not exceed %d", i+1, domain.MaxLineQuantity))
			}
			lines = append(lines, domain.NewSaleLine(product, req.Quantity))
		}

		total := domain.SumLines(lines)
		if total.GreaterThanOrEqual(domain.MaxAmount) {
			return domain.InvalidInput("sale total exceeds " + domain.MaxAmount.String())
		}

		sale := &domain.Sale{
			UserID:      user.ID,
			Username:    user.Username,
			SaleDate:    s.saleDate(in.SaleDate),
			TotalAmount: total,
			CreatedAt:   s.now().UTC(),
		}
		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		for i := range lines {
			lines[i].SaleID = sale.ID
			if err := s.lineRepo.Create(ctx, &lines[i]); err != nil {
				return err
			}
		}
		sale.Lines = lines

		created = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *saleService) saleDate(requested *time.Time) time.Time {
	if requested != nil && !requested.IsZero() {
		return requested.UTC()
	}
	return s.now().UTC().Truncate(time.Second)
}

func (s *saleService) Get(ctx context.Context, id int64) (*domain.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lines, err := s.lineRepo.ListBySale(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines
	return sale, nil
}

func (s *saleService) GetAll(ctx context.Context) ([]*domain.Sale, error) {
	sales, err := s.saleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.attachLines(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *saleService) GetPaginated(ctx context.Context, page, size int) (domain.Page[*domain.Sale], error) {
	page, size, offset := domain.NormalizePage(page, size)
	sales, total, err := s.saleRepo.ListPage(ctx, size, offset)
	if err != nil {
		return domain.Page[*domain.Sale]{}, err
	}
	if err := s.attachLines(ctx, sales); err != nil {
		return domain.Page[*domain.Sale]{}, err
	}
	return domain.NewPage(sales, page, size, total), nil
}

// attachLines loads the lines of all given sales with a single query
func (s *saleService) attachLines(ctx context.Context, sales []*domain.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	ids := make([]int64, len(sales))
	for i, sale := range sales {
		ids[i] = sale.ID
	}

	bySale, err := s.lineRepo.ListBySales(ctx, ids)
	if err != nil {
		return err
	}
	for _, sale := range sales {
		sale.Lines = bySale[sale.ID]
		if sale.Lines == nil {
			sale.Lines = []domain.SaleLine{}
		}
	}
	return nil
}

// Delete removes a sale together with its lines
func (s *saleService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.saleRepo.FindByID(ctx, id); err != nil {
			return err
		}
		if err := s.lineRepo.DeleteBySale(ctx, id); err != nil {
			return err
		}
		return s.saleRepo.Delete(ctx, id)
	})
}
