package transport

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// money is rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// RegisterRequest represents the registration and user creation payload
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN VENDEUR CLIENT admin vendeur client"`
}

// UpdateUserRequest represents the user update payload; an empty password keeps the current one
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN VENDEUR CLIENT admin vendeur client"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresIn   int64        `json:"expiresIn"`
	User        UserResponse `json:"user"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryRequest represents the category create/update payload
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// CategoryResponse is the public view of a category
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProductRequest represents the product create/update payload
type ProductRequest struct {
	ASIN        string           `json:"asin" validate:"max=20"`
	Title       string           `json:"title" validate:"required,max=500"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Rating      *float64         `json:"rating" validate:"omitempty,gte=0,lte=5"`
	ReviewCount *int             `json:"reviewCount" validate:"omitempty,gte=0"`
	Rank        *int             `json:"rank" validate:"omitempty,gte=0"`
	CategoryID  int64            `json:"categoryId" validate:"required,gt=0"`
}

// ProductResponse is the public view of a product
type ProductResponse struct {
	ID           int64           `json:"id"`
	ASIN         string          `json:"asin"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	Rating       *float64        `json:"rating,omitempty"`
	ReviewCount  *int            `json:"reviewCount,omitempty"`
	Rank         *int            `json:"rank,omitempty"`
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
}

// SaleLineRequest is one requested product and quantity
type SaleLineRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"gt=0,lte=1000000"`
}

// CreateSaleRequest represents the sale creation payload. A missing userId records the sale
// for the caller.
type CreateSaleRequest struct {
	UserID   int64             `json:"userId" validate:"omitempty,gt=0"`
	SaleDate *time.Time        `json:"saleDate"`
	Lines    []SaleLineRequest `json:"lines" validate:"dive"`
}

// SaleLineResponse is the public view of a sale line
type SaleLineResponse struct {
	ID           int64           `json:"id"`
	SaleID       int64           `json:"saleId"`
	ProductID    int64           `json:"productId"`
	ProductTitle string          `json:"productTitle"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

// SaleResponse is the public view of a sale with its lines
type SaleResponse struct {
	ID          int64              `json:"id"`
	UserID      int64              `json:"userId"`
	Username    string             `json:"username"`
	SaleDate    time.Time          `json:"saleDate"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Lines       []SaleLineResponse `json:"lines"`
}

// PageResponse is one page of a listing
type PageResponse[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// KPIResponse holds headline figures
type KPIResponse struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	SalesCount    int             `json:"salesCount"`
	AverageBasket decimal.Decimal `json:"averageBasket"`
	ProductsCount int             `json:"productsCount"`
	UsersCount    int             `json:"usersCount"`
}

// MonthlySalesResponse is the revenue of one month
type MonthlySalesResponse struct {
	Month      string          `json:"month"`
	Revenue    decimal.Decimal `json:"revenue"`
	SalesCount int             `json:"salesCount"`
}

// ProductSalesResponse is the sales volume of one product
type ProductSalesResponse struct {
	ProductID    int64           `json:"productId"`
	Title        string          `json:"title"`
	QuantitySold int             `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// CategorySalesResponse is the sales volume of one category
type CategorySalesResponse struct {
	CategoryID   int64           `json:"categoryId"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
}
