package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sales-management/internal/domain"
)

// AnalyticsRepository runs read-only aggregates over recorded sales
type AnalyticsRepository interface {
	Totals(ctx context.Context) (*domain.KPI, error)
	MonthlySales(ctx context.Context) ([]domain.MonthlySales, error)
	BestSellers(ctx context.Context, limit int) ([]domain.ProductSales, error)
	CategorySales(ctx context.Context) ([]domain.CategorySales, error)
}

type analyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new instance of AnalyticsRepository
func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// Totals returns revenue and entity counts. AverageBasket is left for the caller.
func (r *analyticsRepository) Totals(ctx context.Context) (*domain.KPI, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(total_amount), 0) FROM sales),
			(SELECT COUNT(*) FROM sales),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM users)
	`

	kpi := &domain.KPI{}
	err := conn(ctx, r.db).QueryRowContext(ctx, query).Scan(
		&kpi.TotalRevenue,
		&kpi.SalesCount,
		&kpi.ProductsCount,
		&kpi.UsersCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}
	return kpi, nil
}

// MonthlySales groups revenue by UTC calendar month, oldest first
func (r *analyticsRepository) MonthlySales(ctx context.Context) ([]domain.MonthlySales, error) {
	query := `
		SELECT to_char(sale_date AT TIME ZONE 'UTC', 'YYYY-MM') AS month, SUM(total_amount), COUNT(*)
		FROM sales
		GROUP BY month
		ORDER BY month ASC
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly sales: %w", err)
	}
	defer rows.Close()

	result := []domain.MonthlySales{}
	for rows.Next() {
		var m domain.MonthlySales
		if err := rows.Scan(&m.Month, &m.Revenue, &m.SalesCount); err != nil {
			return nil, fmt.Errorf("failed to scan monthly sales: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly sales: %w", err)
	}
	return result, nil
}

// BestSellers returns the products with the most units sold
func (r *analyticsRepository) BestSellers(ctx context.Context, limit int) ([]domain.ProductSales, error) {
	query := `
		SELECT p.id, p.title, SUM(l.quantity) AS sold, SUM(l.line_total)
		FROM sale_lines l
		JOIN products p ON p.id = l.product_id
		GROUP BY p.id, p.title
		ORDER BY sold DESC, p.id ASC
		LIMIT $1
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to compute best sellers: %w", err)
	}
	defer rows.Close()

	result := []domain.ProductSales{}
	for rows.Next() {
		var p domain.ProductSales
		if err := rows.Scan(&p.ProductID, &p.Title, &p.QuantitySold, &p.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan best seller: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating best sellers: %w", err)
	}
	return result, nil
}

// CategorySales returns units and revenue per category, including categories without sales
func (r *analyticsRepository) CategorySales(ctx context.Context) ([]domain.CategorySales, error) {
	query := `
		SELECT c.id, c.name, COALESCE(SUM(l.quantity), 0), COALESCE(SUM(l.line_total), 0)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		LEFT JOIN sale_lines l ON l.product_id = p.id
		GROUP BY c.id, c.name
		ORDER BY 4 DESC, c.id ASC
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to compute category sales: %w", err)
	}
	defer rows.Close()

	result := []domain.CategorySales{}
	for rows.Next() {
		var c domain.CategorySales
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.QuantitySold, &c.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan category sales: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category sales: %w", err)
	}
	return result, nil
}
