package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item
type Product struct {
	ID           int64           `json:"id" db:"id"`
	ASIN         string          `json:"asin" db:"asin"`
	Title        string          `json:"title" db:"title"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Rating       *float64        `json:"rating,omitempty" db:"rating"`
	ReviewCount  *int            `json:"review_count,omitempty" db:"review_count"`
	Rank         *int            `json:"rank,omitempty" db:"rank"`
	CategoryID   int64           `json:"category_id" db:"category_id"`
	CategoryName string          `json:"category_name" db:"-"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Category groups products
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
