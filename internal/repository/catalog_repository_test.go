package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"sales-management/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func createCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name, Description: name + " items", CreatedAt: time.Now().UTC()}
	if err := NewCategoryRepository(testDB).Create(context.Background(), c); err != nil {
		t.Fatalf("failed to create category %q: %v", name, err)
	}
	return c
}

func createProduct(t *testing.T, title, price string, categoryID int64) *domain.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &domain.Product{
		ASIN:       "ASIN-" + title,
		Title:      title,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := NewProductRepository(testDB).Create(context.Background(), p); err != nil {
		t.Fatalf("failed to create product %q: %v", title, err)
	}
	return p
}

func TestProductRepository_PreservesAttributes(t *testing.T) {
	resetTables(t)
	category := createCategory(t, "Electronics")
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	rating := 4.5
	reviews := 120
	rank := 7
	now := time.Now().UTC()
	product := &domain.Product{
		ASIN:        "B000TEST",
		Title:       "Headphones",
		Price:       decimal.RequireFromString("59.90"),
		Rating:      &rating,
		ReviewCount: &reviews,
		Rank:        &rank,
		CategoryID:  category.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if !got.Price.Equal(product.Price) {
		t.Errorf("price = %s, want %s", got.Price, product.Price)
	}
	if got.CategoryName != "Electronics" {
		t.Errorf("category name = %q", got.CategoryName)
	}
	if got.Rating == nil || *got.Rating != rating || got.Rank == nil || *got.Rank != rank {
		t.Errorf("optional attributes lost: %+v", got)
	}
}

func TestProductRepository_UnknownCategory(t *testing.T) {
	resetTables(t)
	now := time.Now().UTC()
	err := NewProductRepository(testDB).Create(context.Background(), &domain.Product{
		Title:      "Orphan",
		Price:      decimal.NewFromInt(1),
		CategoryID: 999,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestProductRepository_ListByCategoryAndPage(t *testing.T) {
	resetTables(t)
	books := createCategory(t, "Books")
	games := createCategory(t, "Games")
	createProduct(t, "Novel", "12.00", books.ID)
	createProduct(t, "Atlas", "30.00", books.ID)
	createProduct(t, "Chess", "25.00", games.ID)

	repo := NewProductRepository(testDB)
	ctx := context.Background()

	inBooks, err := repo.ListByCategory(ctx, books.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(inBooks) != 2 {
		t.Errorf("expected 2 books, got %d", len(inBooks))
	}

	page, total, err := repo.ListPage(ctx, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(page) != 2 {
		t.Errorf("page = %d items of %d", len(page), total)
	}

	count, err := repo.Count(ctx)
	if err != nil || count != 3 {
		t.Errorf("Count = %d, %v", count, err)
	}
}

func TestCategoryRepository_ListPageSorting(t *testing.T) {
	resetTables(t)
	createCategory(t, "Toys")
	createCategory(t, "Audio")
	createCategory(t, "Garden")

	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	byName, total, err := repo.ListPage(ctx, 10, 0, "name")
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || byName[0].Name != "Audio" || byName[2].Name != "Toys" {
		t.Errorf("unexpected name order: %v", names(byName))
	}

	// unknown keys fall back to id order
	byID, _, err := repo.ListPage(ctx, 10, 0, "name; DROP TABLE categories")
	if err != nil {
		t.Fatal(err)
	}
	if byID[0].Name != "Toys" {
		t.Errorf("unexpected id order: %v", names(byID))
	}
}

func TestCategoryRepository_DeleteWithProducts(t *testing.T) {
	resetTables(t)
	c := createCategory(t, "Kitchen")
	createProduct(t, "Pan", "20.00", c.ID)

	err := NewCategoryRepository(testDB).Delete(context.Background(), c.ID)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected invalid input for a referenced category, got %v", err)
	}
}

// Product titles are unique regardless of letter case.
func TestProperty_ProductTitleUniquenessIgnoresCase(t *testing.T) {
	resetTables(t)
	category := createCategory(t, "Misc")
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("a case variant of a stored title is rejected", prop.ForAll(
		func(title string) bool {
			_, _ = testDB.Exec("DELETE FROM products WHERE lower(title) = lower($1)", title)

			now := time.Now().UTC()
			first := &domain.Product{Title: title, Price: decimal.NewFromInt(5), CategoryID: category.ID, CreatedAt: now, UpdatedAt: now}
			if err := repo.Create(ctx, first); err != nil {
				t.Logf("first create failed: %v", err)
				return false
			}

			exists, err := repo.ExistsByTitle(ctx, strings.ToUpper(title))
			if err != nil || !exists {
				return false
			}

			second := &domain.Product{Title: strings.ToUpper(title), Price: decimal.NewFromInt(6), CategoryID: category.ID, CreatedAt: now, UpdatedAt: now}
			return errors.Is(repo.Create(ctx, second), ErrProductAlreadyExists)
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

func names(categories []*domain.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}
