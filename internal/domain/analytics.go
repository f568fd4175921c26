package domain

import "github.com/shopspring/decimal"

// KPI holds headline figures over all recorded sales
type KPI struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	SalesCount    int             `json:"sales_count"`
	AverageBasket decimal.Decimal `json:"average_basket"`
	ProductsCount int             `json:"products_count"`
	UsersCount    int             `json:"users_count"`
}

// MonthlySales aggregates sales of one calendar month (YYYY-MM)
type MonthlySales struct {
	Month      string          `json:"month"`
	Revenue    decimal.Decimal `json:"revenue"`
	SalesCount int             `json:"sales_count"`
}

// ProductSales aggregates the sale lines of one product
type ProductSales struct {
	ProductID    int64           `json:"product_id"`
	Title        string          `json:"title"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// CategorySales aggregates the sale lines of all products of one category
type CategorySales struct {
	CategoryID   int64           `json:"category_id"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}
