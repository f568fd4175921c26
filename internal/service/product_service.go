package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sales-management/internal/domain"
	"sales-management/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductInput carries the writable fields of a product
type ProductInput struct {
	ASIN        string
	Title       string
	Price       decimal.Decimal
	Rating      *float64
	ReviewCount *int
	Rank        *int
	CategoryID  int64
}

// ProductService defines the interface for catalog management
type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	GetAll(ctx context.Context) ([]*domain.Product, error)
	GetPaginated(ctx context.Context, page, size int) (domain.Page[*domain.Product], error)
	Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	lineRepo     repository.SaleLineRepository
	tx           repository.TxManager
	now          func() time.Time
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	lineRepo repository.SaleLineRepository,
	tx repository.TxManager,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		lineRepo:     lineRepo,
		tx:           tx,
		now:          time.Now,
	}
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return domain.InvalidInput("price must be greater than zero")
	}
	if !domain.HasMoneyScale(price) {
		return domain.InvalidInput("price must have at most two decimal places")
	}
	if price.GreaterThanOrEqual(domain.MaxPrice) {
		return domain.InvalidInput("price must be less than " + domain.MaxPrice.String())
	}
	return nil
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}

	var created *domain.Product
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		category, err := s.categoryRepo.FindByID(ctx, in.CategoryID)
		if err != nil {
			return err
		}

		title := strings.TrimSpace(in.Title)
		exists, err := s.productRepo.ExistsByTitle(ctx, title)
		if err != nil {
			return fmt.Errorf("failed to check existing product: %w", err)
		}
		if exists {
			return repository.ErrProductAlreadyExists
		}

		now := s.now().UTC()
		product := &domain.Product{
			ASIN:         strings.TrimSpace(in.ASIN),
			Title:        title,
			Price:        in.Price,
			Rating:       in.Rating,
			ReviewCount:  in.ReviewCount,
			Rank:         in.Rank,
			CategoryID:   category.ID,
			CategoryName: category.Name,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.productRepo.Create(ctx, product); err != nil {
			return err
		}
		created = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *productService) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *productService) GetPaginated(ctx context.Context, page, size int) (domain.Page[*domain.Product], error) {
	page, size, offset := domain.NormalizePage(page, size)
	products, total, err := s.productRepo.ListPage(ctx, size, offset)
	if err != nil {
		return domain.Page[*domain.Product]{}, err
	}
	return domain.NewPage(products, page, size, total), nil
}

// Update overwrites every writable field. Existing sale lines keep their price snapshot.
func (s *productService) Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error) {
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}

	var updated *domain.Product
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		category, err := s.categoryRepo.FindByID(ctx, in.CategoryID)
		if err != nil {
			return err
		}

		title := strings.TrimSpace(in.Title)
		if !strings.EqualFold(product.Title, title) {
			exists, err := s.productRepo.ExistsByTitle(ctx, title)
			if err != nil {
				return fmt.Errorf("failed to check existing product: %w", err)
			}
			if exists {
				return repository.ErrProductAlreadyExists
			}
		}

		product.ASIN = strings.TrimSpace(in.ASIN)
		product.Title = title
		product.Price = in.Price
		product.Rating = in.Rating
		product.ReviewCount = in.ReviewCount
		product.Rank = in.Rank
		product.CategoryID = category.ID
		product.CategoryName = category.Name
		product.UpdatedAt = s.now().UTC()

		if err := s.productRepo.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a product no sale line references
func (s *productService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.productRepo.FindByID(ctx, id); err != nil {
			return err
		}

		count, err := s.lineRepo.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.InvalidInput("product is referenced by sale lines and cannot be deleted")
		}

		return s.productRepo.Delete(ctx, id)
	})
}
