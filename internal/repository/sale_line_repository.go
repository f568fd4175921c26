package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sales-management/internal/domain"
)

var (
	ErrSaleLineNotFound = domain.NotFound("sale line not found")
)

// SaleLineRepository defines the interface for sale line data access
type SaleLineRepository interface {
	Create(ctx context.Context, line *domain.SaleLine) error
	FindByID(ctx context.Context, id int64) (*domain.SaleLine, error)
	ListBySale(ctx context.Context, saleID int64) ([]domain.SaleLine, error)
	ListBySales(ctx context.Context, saleIDs []int64) (map[int64][]domain.SaleLine, error)
	CountByProduct(ctx context.Context, productID int64) (int, error)
	DeleteBySale(ctx context.Context, saleID int64) error
}

type saleLineRepository struct {
	db *sql.DB
}

// NewSaleLineRepository creates a new instance of SaleLineRepository
func NewSaleLineRepository(db *sql.DB) SaleLineRepository {
	return &saleLineRepository{db: db}
}

const saleLineSelect = `
	SELECT l.id, l.sale_id, l.product_id, p.title, l.quantity, l.unit_price, l.line_total
	FROM sale_lines l
	JOIN products p ON p.id = l.product_id
`

func scanSaleLine(row rowScanner) (*domain.SaleLine, error) {
	line := &domain.SaleLine{}
	err := row.Scan(
		&line.ID,
		&line.SaleID,
		&line.ProductID,
		&line.ProductTitle,
		&line.Quantity,
		&line.UnitPrice,
		&line.LineTotal,
	)
	if err != nil {
		return nil, err
	}
	return line, nil
}

// Create inserts a sale line and fills in its generated ID
func (r *saleLineRepository) Create(ctx context.Context, line *domain.SaleLine) error {
	query := `
		INSERT INTO sale_lines (sale_id, product_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := conn(ctx, r.db).QueryRowContext(
		ctx,
		query,
		line.SaleID,
		line.ProductID,
		line.Quantity,
		line.UnitPrice,
		line.LineTotal,
	).Scan(&line.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("sale or product not found")
		}
		if isOutOfRange(err) {
			return ErrValueOutOfRange
		}
		return fmt.Errorf("failed to create sale line: %w", err)
	}

	return nil
}

// FindByID retrieves a sale line by ID
func (r *saleLineRepository) FindByID(ctx context.Context, id int64) (*domain.SaleLine, error) {
	line, err := scanSaleLine(conn(ctx, r.db).QueryRowContext(ctx, saleLineSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaleLineNotFound
		}
		return nil, fmt.Errorf("failed to find sale line by ID: %w", err)
	}
	return line, nil
}

// ListBySale retrieves the lines of one sale in insertion order
func (r *saleLineRepository) ListBySale(ctx context.Context, saleID int64) ([]domain.SaleLine, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, saleLineSelect+` WHERE l.sale_id = $1 ORDER BY l.id ASC`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sale lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.SaleLine{}
	for rows.Next() {
		line, err := scanSaleLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale lines: %w", err)
	}
	return lines, nil
}

// ListBySales retrieves the lines of several sales keyed by sale ID
func (r *saleLineRepository) ListBySales(ctx context.Context, saleIDs []int64) (map[int64][]domain.SaleLine, error) {
	result := make(map[int64][]domain.SaleLine, len(saleIDs))
	if len(saleIDs) == 0 {
		return result, nil
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, saleLineSelect+` WHERE l.sale_id = ANY($1) ORDER BY l.id ASC`, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list sale lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		line, err := scanSaleLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		result[line.SaleID] = append(result[line.SaleID], *line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale lines: %w", err)
	}
	return result, nil
}

// CountByProduct returns how many sale lines reference a product
func (r *saleLineRepository) CountByProduct(ctx context.Context, productID int64) (int, error) {
	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM sale_lines WHERE product_id = $1`, productID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sale lines by product: %w", err)
	}
	return count, nil
}

// DeleteBySale removes every line of a sale
func (r *saleLineRepository) DeleteBySale(ctx context.Context, saleID int64) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("failed to delete sale lines: %w", err)
	}
	return nil
}
