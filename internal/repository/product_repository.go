package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sales-management/internal/domain"
)

var (
	ErrProductNotFound      = domain.NotFound("product not found")
	ErrProductAlreadyExists = domain.DuplicateResource("product with this title already exists")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListPage(ctx context.Context, limit, offset int) ([]*domain.Product, int, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error)
	Count(ctx context.Context) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productSelect = `
	SELECT p.id, p.asin, p.title, p.price, p.rating, p.review_count, p.rank,
	       p.category_id, c.name, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
`

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.ASIN,
		&product.Title,
		&product.Price,
		&product.Rating,
		&product.ReviewCount,
		&product.Rank,
		&product.CategoryID,
		&product.CategoryName,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Create inserts a new product and fills in its generated ID
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (asin, title, price, rating, review_count, rank, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := conn(ctx, r.db).QueryRowContext(
		ctx,
		query,
		product.ASIN,
		product.Title,
		product.Price,
		product.Rating,
		product.ReviewCount,
		product.Rank,
		product.CategoryID,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return ErrCategoryNotFound
		}
		if isOutOfRange(err) {
			return ErrValueOutOfRange
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET asin = $2, title = $3, price = $4, rating = $5, review_count = $6,
		    rank = $7, category_id = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := conn(ctx, r.db).ExecContext(
		ctx,
		query,
		product.ID,
		product.ASIN,
		product.Title,
		product.Price,
		product.Rating,
		product.ReviewCount,
		product.Rank,
		product.CategoryID,
		product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return ErrCategoryNotFound
		}
		if isOutOfRange(err) {
			return ErrValueOutOfRange
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.InvalidInput("cannot delete product used in sales")
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := scanProduct(conn(ctx, r.db).QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// ExistsByTitle reports whether any product holds the title, ignoring case
func (r *productRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE lower(title) = lower($1))`, title,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product title: %w", err)
	}
	return exists, nil
}

// List retrieves all products ordered by ID
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.query(ctx, productSelect+` ORDER BY p.id ASC`)
}

// ListByCategory retrieves the products of one category
func (r *productRepository) ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	return r.query(ctx, productSelect+` WHERE p.category_id = $1 ORDER BY p.id ASC`, categoryID)
}

// ListPage retrieves one page of products and the total product count
func (r *productRepository) ListPage(ctx context.Context, limit, offset int) ([]*domain.Product, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	products, err := r.query(ctx, productSelect+` ORDER BY p.id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Count returns the number of products
func (r *productRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

func (r *productRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
