package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sales-management/internal/domain"
	"sales-management/internal/repository"
)

// CategoryInput carries the writable fields of a category
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryService defines the interface for category management
type CategoryService interface {
	Create(ctx context.Context, in CategoryInput) (*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	GetAll(ctx context.Context) ([]*domain.Category, error)
	GetPaginated(ctx context.Context, page, size int, sortBy string) (domain.Page[*domain.Category], error)
	Update(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	tx           repository.TxManager
	now          func() time.Time
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	tx repository.TxManager,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		tx:           tx,
		now:          time.Now,
	}
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	exists, err := s.categoryRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}
	if exists {
		return nil, repository.ErrCategoryAlreadyExists
	}

	category := &domain.Category{
		Name:        name,
		Description: in.Description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *categoryService) GetAll(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// GetPaginated pages categories ordered by sortBy; unknown keys fall back to id
func (s *categoryService) GetPaginated(ctx context.Context, page, size int, sortBy string) (domain.Page[*domain.Category], error) {
	page, size, offset := domain.NormalizePage(page, size)
	if _, ok := repository.CategorySortFields[sortBy]; !ok {
		sortBy = "id"
	}

	categories, total, err := s.categoryRepo.ListPage(ctx, size, offset, sortBy)
	if err != nil {
		return domain.Page[*domain.Category]{}, err
	}
	return domain.NewPage(categories, page, size, total), nil
}

func (s *categoryService) Update(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error) {
	var updated *domain.Category
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		category, err := s.categoryRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		name := strings.TrimSpace(in.Name)
		if !strings.EqualFold(category.Name, name) {
			exists, err := s.categoryRepo.ExistsByName(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to check existing category: %w", err)
			}
			if exists {
				return repository.ErrCategoryAlreadyExists
			}
		}

		category.Name = name
		category.Description = in.Description
		if err := s.categoryRepo.Update(ctx, category); err != nil {
			return err
		}
		updated = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a category no product belongs to
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
			return err
		}

		products, err := s.productRepo.ListByCategory(ctx, id)
		if err != nil {
			return err
		}
		if len(products) > 0 {
			return domain.InvalidInput("cannot delete category with products")
		}

		return s.categoryRepo.Delete(ctx, id)
	})
}
