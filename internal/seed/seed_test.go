package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sales-management/internal/domain"
	"sales-management/internal/service"

	"go.uber.org/zap"
)

// fakeCatalog keeps just enough state to exercise the seeder
type fakeCatalog struct {
	categories []*domain.Category
	products   []*domain.Product
	users      []*domain.User
	nextID     int64
}

func (f *fakeCatalog) id() int64 {
	f.nextID++
	return f.nextID
}

type fakeCategories struct{ *fakeCatalog }

func (f fakeCategories) Create(_ context.Context, in service.CategoryInput) (*domain.Category, error) {
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, in.Name) {
			return nil, domain.DuplicateResource("category exists")
		}
	}
	c := &domain.Category{ID: f.id(), Name: in.Name, Description: in.Description}
	f.categories = append(f.categories, c)
	return c, nil
}
func (f fakeCategories) Get(context.Context, int64) (*domain.Category, error) { return nil, nil }
func (f fakeCategories) GetAll(context.Context) ([]*domain.Category, error) {
	return f.categories, nil
}
func (f fakeCategories) GetPaginated(context.Context, int, int, string) (domain.Page[*domain.Category], error) {
	return domain.Page[*domain.Category]{}, nil
}
func (f fakeCategories) Update(context.Context, int64, service.CategoryInput) (*domain.Category, error) {
	return nil, nil
}
func (f fakeCategories) Delete(context.Context, int64) error { return nil }

type fakeProducts struct{ *fakeCatalog }

func (f fakeProducts) Create(_ context.Context, in service.ProductInput) (*domain.Product, error) {
	for _, p := range f.products {
		if strings.EqualFold(p.Title, in.Title) {
			return nil, domain.DuplicateResource("product exists")
		}
	}
	p := &domain.Product{ID: f.id(), Title: in.Title, Price: in.Price, CategoryID: in.CategoryID}
	f.products = append(f.products, p)
	return p, nil
}
func (f fakeProducts) Get(context.Context, int64) (*domain.Product, error)   { return nil, nil }
func (f fakeProducts) GetAll(context.Context) ([]*domain.Product, error)     { return f.products, nil }
func (f fakeProducts) GetPaginated(context.Context, int, int) (domain.Page[*domain.Product], error) {
	return domain.Page[*domain.Product]{}, nil
}
func (f fakeProducts) Update(context.Context, int64, service.ProductInput) (*domain.Product, error) {
	return nil, nil
}
func (f fakeProducts) Delete(context.Context, int64) error { return nil }

type fakeUsers struct{ *fakeCatalog }

func (f fakeUsers) Create(_ context.Context, in service.UserInput) (*domain.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, in.Email) {
			return nil, domain.DuplicateResource("email taken")
		}
	}
	u := &domain.User{ID: f.id(), Username: in.Username, Email: in.Email, Role: in.Role}
	f.users = append(f.users, u)
	return u, nil
}
func (f fakeUsers) Get(context.Context, int64) (*domain.User, error) { return nil, nil }
func (f fakeUsers) GetAll(context.Context) ([]*domain.User, error)   { return f.users, nil }
func (f fakeUsers) GetPaginated(context.Context, int, int) (domain.Page[*domain.User], error) {
	return domain.Page[*domain.User]{}, nil
}
func (f fakeUsers) Update(context.Context, int64, service.UserInput) (*domain.User, error) {
	return nil, nil
}
func (f fakeUsers) Delete(context.Context, int64) error { return nil }

func newTestSeeder() (*Seeder, *fakeCatalog) {
	store := &fakeCatalog{}
	return NewSeeder(fakeCategories{store}, fakeProducts{store}, fakeUsers{store}, zap.NewNop()), store
}

const fixtureDoc = `
categories:
  - name: Electronics
    description: gadgets
products:
  - asin: B001
    title: Keyboard
    price: "9.99"
    rank: 3
    category: electronics
users:
  - username: admin
    email: admin@example.com
    password: secret123
    role: ADMIN
`

func TestLoad(t *testing.T) {
	f, err := Load(strings.NewReader(fixtureDoc))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(f.Categories) != 1 || len(f.Products) != 1 || len(f.Users) != 1 {
		t.Fatalf("unexpected fixture counts: %+v", f)
	}
	if f.Products[0].Rank == nil || *f.Products[0].Rank != 3 {
		t.Errorf("expected rank 3, got %v", f.Products[0].Rank)
	}
	if f.Products[0].Rating != nil {
		t.Errorf("expected absent rating to stay nil")
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("categories:\n  - name: A\n    colour: red\n"))
	if err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestLoad_EmptyDocument(t *testing.T) {
	f, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(f.Categories)+len(f.Products)+len(f.Users) != 0 {
		t.Errorf("expected empty fixtures, got %+v", f)
	}
}

func TestApply(t *testing.T) {
	s, store := newTestSeeder()
	f, err := Load(strings.NewReader(fixtureDoc))
	if err != nil {
		t.Fatal(err)
	}

	res, err := s.Apply(context.Background(), f)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if res.CategoriesCreated != 1 || res.ProductsCreated != 1 || res.UsersCreated != 1 || res.Skipped != 0 {
		t.Errorf("unexpected result: %+v", res)
	}

	if store.products[0].CategoryID != store.categories[0].ID {
		t.Errorf("product linked to category %d, want %d", store.products[0].CategoryID, store.categories[0].ID)
	}
	if store.products[0].Price.String() != "9.99" {
		t.Errorf("price = %s", store.products[0].Price)
	}
	if store.users[0].Role != domain.RoleAdmin {
		t.Errorf("role = %s", store.users[0].Role)
	}
}

func TestApply_IsIdempotent(t *testing.T) {
	s, store := newTestSeeder()
	f, _ := Load(strings.NewReader(fixtureDoc))

	if _, err := s.Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	res, err := s.Apply(context.Background(), f)
	if err != nil {
		t.Fatalf("second Apply returned error: %v", err)
	}
	if res.Skipped != 3 || res.CategoriesCreated+res.ProductsCreated+res.UsersCreated != 0 {
		t.Errorf("expected everything skipped, got %+v", res)
	}
	if len(store.categories) != 1 || len(store.products) != 1 || len(store.users) != 1 {
		t.Errorf("duplicates were stored")
	}
}

func TestApply_Failures(t *testing.T) {
	tests := []struct {
		name    string
		product ProductFixture
		wantErr error
	}{
		{
			name:    "unknown category",
			product: ProductFixture{Title: "Mouse", Price: "5", Category: "Garden"},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "bad price",
			product: ProductFixture{Title: "Mouse", Price: "five", Category: "Electronics"},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSeeder()
			f := &Fixtures{
				Categories: []CategoryFixture{{Name: "Electronics"}},
				Products:   []ProductFixture{tt.product},
			}
			_, err := s.Apply(context.Background(), f)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
