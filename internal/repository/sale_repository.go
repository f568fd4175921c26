package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sales-management/internal/domain"
)

var (
	ErrSaleNotFound = domain.NotFound("sale not found")
)

// SaleRepository defines the interface for sale header data access.
// Lines are stored through SaleLineRepository.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Sale, error)
	List(ctx context.Context) ([]*domain.Sale, error)
	ListPage(ctx context.Context, limit, offset int) ([]*domain.Sale, int, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

const saleSelect = `
	SELECT s.id, s.user_id, u.username, s.sale_date, s.total_amount, s.created_at
	FROM sales s
	JOIN users u ON u.id = s.user_id
`

func scanSale(row rowScanner) (*domain.Sale, error) {
	sale := &domain.Sale{}
	err := row.Scan(
		&sale.ID,
		&sale.UserID,
		&sale.Username,
		&sale.SaleDate,
		&sale.TotalAmount,
		&sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// Create inserts the sale header and fills in its generated ID
func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (user_id, sale_date, total_amount, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := conn(ctx, r.db).QueryRowContext(
		ctx,
		query,
		sale.UserID,
		sale.SaleDate,
		sale.TotalAmount,
		sale.CreatedAt,
	).Scan(&sale.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		if isOutOfRange(err) {
			return ErrValueOutOfRange
		}
		return fmt.Errorf("failed to create sale: %w", err)
	}

	return nil
}

// Delete removes a sale header. Its lines must be removed first.
func (r *saleRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSaleNotFound
	}

	return nil
}

// FindByID retrieves a sale header by ID
func (r *saleRepository) FindByID(ctx context.Context, id int64) (*domain.Sale, error) {
	sale, err := scanSale(conn(ctx, r.db).QueryRowContext(ctx, saleSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to find sale by ID: %w", err)
	}
	return sale, nil
}

// List retrieves all sale headers, most recent first
func (r *saleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	return r.query(ctx, saleSelect+` ORDER BY s.sale_date DESC, s.id DESC`)
}

// ListPage retrieves one page of sale headers and the total sale count
func (r *saleRepository) ListPage(ctx context.Context, limit, offset int) ([]*domain.Sale, int, error) {
	var total int
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	sales, err := r.query(ctx, saleSelect+` ORDER BY s.sale_date DESC, s.id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// CountByUser returns how many sales a user owns
func (r *saleRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM sales WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sales by user: %w", err)
	}
	return count, nil
}

func (r *saleRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Sale, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := []*domain.Sale{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}
	return sales, nil
}
