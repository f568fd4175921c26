package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Storage limits: prices are NUMERIC(12,2), line and sale totals NUMERIC(14,2).
const (
	MaxLineQuantity = 1_000_000
	MoneyScale      = 2
)

var (
	MaxPrice  = decimal.New(1, 10)
	MaxAmount = decimal.New(1, 12)
)

// HasMoneyScale reports whether d needs no more than two decimal places
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// Sale is a transaction header. TotalAmount is always the sum of the lines' totals.
type Sale struct {
	ID          int64           `json:"id" db:"id"`
	UserID      int64           `json:"user_id" db:"user_id"`
	Username    string          `json:"username" db:"-"`
	SaleDate    time.Time       `json:"sale_date" db:"sale_date"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	Lines       []SaleLine      `json:"lines" db:"-"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// SaleLine is one product/quantity entry of a sale with the unit price frozen at sale time.
type SaleLine struct {
	ID           int64           `json:"id" db:"id"`
	SaleID       int64           `json:"sale_id" db:"sale_id"`
	ProductID    int64           `json:"product_id" db:"product_id"`
	ProductTitle string          `json:"product_title" db:"-"`
	Quantity     int             `json:"quantity" db:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total" db:"line_total"`
}

// NewSaleLine snapshots the product's current price for the given quantity.
func NewSaleLine(product *Product, quantity int) SaleLine {
	return SaleLine{
		ProductID:    product.ID,
		ProductTitle: product.Title,
		Quantity:     quantity,
		UnitPrice:    product.Price,
		LineTotal:    product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// SumLines returns the total of all line totals.
func SumLines(lines []SaleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return total
}
