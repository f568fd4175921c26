// Package seed loads catalog and account fixtures from YAML and applies them through the
// services, so every business rule that guards the HTTP API also guards seeding.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sales-management/internal/domain"
	"sales-management/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Fixtures is the document layout of a seed file
type Fixtures struct {
	Categories []CategoryFixture `yaml:"categories"`
	Products   []ProductFixture  `yaml:"products"`
	Users      []UserFixture     `yaml:"users"`
}

type CategoryFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ProductFixture references its category by name
type ProductFixture struct {
	ASIN        string   `yaml:"asin"`
	Title       string   `yaml:"title"`
	Price       string   `yaml:"price"`
	Rating      *float64 `yaml:"rating"`
	ReviewCount *int     `yaml:"review_count"`
	Rank        *int     `yaml:"rank"`
	Category    string   `yaml:"category"`
}

type UserFixture struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// Result counts what Apply did per entity
type Result struct {
	CategoriesCreated int
	ProductsCreated   int
	UsersCreated      int
	Skipped           int
}

// Load decodes fixtures, rejecting unknown keys
func Load(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	return &f, nil
}

// LoadFile reads fixtures from path
func LoadFile(path string) (*Fixtures, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer file.Close()

	return Load(file)
}

// Seeder applies fixtures through the services
type Seeder struct {
	categories service.CategoryService
	products   service.ProductService
	users      service.UserService
	logger     *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(
	categories service.CategoryService,
	products service.ProductService,
	users service.UserService,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		categories: categories,
		products:   products,
		users:      users,
		logger:     logger,
	}
}

// Apply creates categories, then products, then users. Entries whose natural key already
// exists are skipped, so seeding the same file twice is harmless.
func (s *Seeder) Apply(ctx context.Context, f *Fixtures) (Result, error) {
	var res Result

	for _, c := range f.Categories {
		_, err := s.categories.Create(ctx, service.CategoryInput{Name: c.Name, Description: c.Description})
		if s.skip(err, &res, "category", c.Name) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("category %q: %w", c.Name, err)
		}
		res.CategoriesCreated++
	}

	categoryIDs, err := s.categoryIndex(ctx)
	if err != nil {
		return res, err
	}

	for _, p := range f.Products {
		categoryID, ok := categoryIDs[strings.ToLower(p.Category)]
		if !ok {
			return res, fmt.Errorf("product %q: %w", p.Title, domain.NotFound("category "+p.Category+" not found"))
		}

		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return res, fmt.Errorf("product %q: %w", p.Title, domain.InvalidInput("invalid price "+p.Price))
		}

		_, err = s.products.Create(ctx, service.ProductInput{
			ASIN:        p.ASIN,
			Title:       p.Title,
			Price:       price,
			Rating:      p.Rating,
			ReviewCount: p.ReviewCount,
			Rank:        p.Rank,
			CategoryID:  categoryID,
		})
		if s.skip(err, &res, "product", p.Title) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("product %q: %w", p.Title, err)
		}
		res.ProductsCreated++
	}

	for _, u := range f.Users {
		_, err := s.users.Create(ctx, service.UserInput{
			Username: u.Username,
			Email:    u.Email,
			Password: u.Password,
			Role:     domain.ParseRole(u.Role),
		})
		if s.skip(err, &res, "user", u.Email) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("user %q: %w", u.Email, err)
		}
		res.UsersCreated++
	}

	return res, nil
}

func (s *Seeder) skip(err error, res *Result, entity, key string) bool {
	if !errors.Is(err, domain.ErrDuplicateResource) {
		return false
	}
	s.logger.Debug("Fixture already present", zap.String("entity", entity), zap.String("key", key))
	res.Skipped++
	return true
}

func (s *Seeder) categoryIndex(ctx context.Context) (map[string]int64, error) {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	index := make(map[string]int64, len(categories))
	for _, c := range categories {
		index[strings.ToLower(c.Name)] = c.ID
	}
	return index, nil
}
