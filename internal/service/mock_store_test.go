package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"

	"sales-management/internal/domain"
	"sales-management/internal/repository"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the database shared by all mock repositories
type memStore struct {
	users      map[int64]domain.User
	categories map[int64]domain.Category
	products   map[int64]domain.Product
	sales      map[int64]domain.Sale
	lines      map[int64]domain.SaleLine
	nextID     int64
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[int64]domain.User),
		categories: make(map[int64]domain.Category),
		products:   make(map[int64]domain.Product),
		sales:      make(map[int64]domain.Sale),
		lines:      make(map[int64]domain.SaleLine),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) clone() *memStore {
	return &memStore{
		users:      maps.Clone(s.users),
		categories: maps.Clone(s.categories),
		products:   maps.Clone(s.products),
		sales:      maps.Clone(s.sales),
		lines:      maps.Clone(s.lines),
		nextID:     s.nextID,
	}
}

func (s *memStore) restore(snap *memStore) {
	*s = *snap
}

// memTx restores the store snapshot when fn fails, like a rollback
type memTx struct {
	store *memStore
	depth int
	calls int
}

func (m *memTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.depth > 0 {
		return fn(ctx)
	}

	snap := m.store.clone()
	m.depth++
	err := fn(ctx)
	m.depth--
	if err != nil {
		m.store.restore(snap)
	}
	return err
}

func sortedIDs[V any](m map[int64]V) []int64 {
	return slices.Sorted(maps.Keys(m))
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// users

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) emailTaken(email string, except int64) bool {
	for id, u := range r.s.users {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	if r.emailTaken(user.Email, 0) {
		return repository.ErrUserAlreadyExists
	}
	user.ID = r.s.id()
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return repository.ErrUserAlreadyExists
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.emailTaken(email, 0), nil
}

func (r *memUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, id := range sortedIDs(r.s.users) {
		u := r.s.users[id]
		out = append(out, &u)
	}
	return out, nil
}

func (r *memUserRepo) ListPage(ctx context.Context, limit, offset int) ([]*domain.User, int, error) {
	all, _ := r.List(ctx)
	return window(all, limit, offset), len(all), nil
}

// categories

type memCategoryRepo struct{ s *memStore }

func (r *memCategoryRepo) nameTaken(name string, except int64) bool {
	for id, c := range r.s.categories {
		if id != except && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r *memCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if r.nameTaken(c.Name, 0) {
		return repository.ErrCategoryAlreadyExists
	}
	c.ID = r.s.id()
	r.s.categories[c.ID] = *c
	return nil
}

func (r *memCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	if _, ok := r.s.categories[c.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return repository.ErrCategoryAlreadyExists
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *memCategoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(r.s.categories, id)
	return nil
}

func (r *memCategoryRepo) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *memCategoryRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.nameTaken(name, 0), nil
}

func (r *memCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	out := []*domain.Category{}
	for _, id := range sortedIDs(r.s.categories) {
		c := r.s.categories[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r *memCategoryRepo) ListPage(ctx context.Context, limit, offset int, sortBy string) ([]*domain.Category, int, error) {
	all, _ := r.List(ctx)
	if sortBy == "name" {
		slices.SortStableFunc(all, func(a, b *domain.Category) int {
			return strings.Compare(a.Name, b.Name)
		})
	}
	return window(all, limit, offset), len(all), nil
}

// products

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) titleTaken(title string, except int64) bool {
	for id, p := range r.s.products {
		if id != except && strings.EqualFold(p.Title, title) {
			return true
		}
	}
	return false
}

func (r *memProductRepo) hydrate(p domain.Product) *domain.Product {
	p.CategoryName = r.s.categories[p.CategoryID].Name
	return &p
}

func (r *memProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if r.titleTaken(p.Title, 0) {
		return repository.ErrProductAlreadyExists
	}
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	p.ID = r.s.id()
	r.s.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	if r.titleTaken(p.Title, p.ID) {
		return repository.ErrProductAlreadyExists
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *memProductRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return r.hydrate(p), nil
}

func (r *memProductRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return r.titleTaken(title, 0), nil
}

func (r *memProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	out := []*domain.Product{}
	for _, id := range sortedIDs(r.s.products) {
		out = append(out, r.hydrate(r.s.products[id]))
	}
	return out, nil
}

func (r *memProductRepo) ListPage(ctx context.Context, limit, offset int) ([]*domain.Product, int, error) {
	all, _ := r.List(ctx)
	return window(all, limit, offset), len(all), nil
}

func (r *memProductRepo) ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	all, _ := r.List(ctx)
	out := []*domain.Product{}
	for _, p := range all {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Count(ctx context.Context) (int, error) {
	return len(r.s.products), nil
}

// sales

type memSaleRepo struct{ s *memStore }

func (r *memSaleRepo) hydrate(sale domain.Sale) *domain.Sale {
	sale.Username = r.s.users[sale.UserID].Username
	sale.Lines = nil
	return &sale
}

func (r *memSaleRepo) Create(ctx context.Context, sale *domain.Sale) error {
	if _, ok := r.s.users[sale.UserID]; !ok {
		return repository.ErrUserNotFound
	}
	sale.ID = r.s.id()
	header := *sale
	header.Lines = nil
	r.s.sales[sale.ID] = header
	return nil
}

func (r *memSaleRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.sales[id]; !ok {
		return repository.ErrSaleNotFound
	}
	delete(r.s.sales, id)
	return nil
}

func (r *memSaleRepo) FindByID(ctx context.Context, id int64) (*domain.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, repository.ErrSaleNotFound
	}
	return r.hydrate(sale), nil
}

func (r *memSaleRepo) List(ctx context.Context) ([]*domain.Sale, error) {
	out := []*domain.Sale{}
	for _, id := range sortedIDs(r.s.sales) {
		out = append(out, r.hydrate(r.s.sales[id]))
	}
	return out, nil
}

func (r *memSaleRepo) ListPage(ctx context.Context, limit, offset int) ([]*domain.Sale, int, error) {
	all, _ := r.List(ctx)
	return window(all, limit, offset), len(all), nil
}

func (r *memSaleRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	n := 0
	for _, sale := range r.s.sales {
		if sale.UserID == userID {
			n++
		}
	}
	return n, nil
}

// sale lines

var errInjected = errors.New("injected failure")

type memLineRepo struct {
	s *memStore
	// failAt makes the n-th Create call fail when set (1-based)
	failAt  int
	created int
}

func (r *memLineRepo) hydrate(l domain.SaleLine) domain.SaleLine {
	l.ProductTitle = r.s.products[l.ProductID].Title
	return l
}

func (r *memLineRepo) Create(ctx context.Context, line *domain.SaleLine) error {
	r.created++
	if r.failAt > 0 && r.created == r.failAt {
		return errInjected
	}
	if _, ok := r.s.sales[line.SaleID]; !ok {
		return domain.NotFound("sale or product not found")
	}
	line.ID = r.s.id()
	r.s.lines[line.ID] = *line
	return nil
}

func (r *memLineRepo) FindByID(ctx context.Context, id int64) (*domain.SaleLine, error) {
	l, ok := r.s.lines[id]
	if !ok {
		return nil, repository.ErrSaleLineNotFound
	}
	l = r.hydrate(l)
	return &l, nil
}

func (r *memLineRepo) ListBySale(ctx context.Context, saleID int64) ([]domain.SaleLine, error) {
	out := []domain.SaleLine{}
	for _, id := range sortedIDs(r.s.lines) {
		if l := r.s.lines[id]; l.SaleID == saleID {
			out = append(out, r.hydrate(l))
		}
	}
	return out, nil
}

func (r *memLineRepo) ListBySales(ctx context.Context, saleIDs []int64) (map[int64][]domain.SaleLine, error) {
	out := make(map[int64][]domain.SaleLine)
	for _, id := range sortedIDs(r.s.lines) {
		l := r.s.lines[id]
		if slices.Contains(saleIDs, l.SaleID) {
			out[l.SaleID] = append(out[l.SaleID], r.hydrate(l))
		}
	}
	return out, nil
}

func (r *memLineRepo) CountByProduct(ctx context.Context, productID int64) (int, error) {
	n := 0
	for _, l := range r.s.lines {
		if l.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *memLineRepo) DeleteBySale(ctx context.Context, saleID int64) error {
	for id, l := range r.s.lines {
		if l.SaleID == saleID {
			delete(r.s.lines, id)
		}
	}
	return nil
}

// fixture wires every service over one store
type fixture struct {
	store      *memStore
	tx         *memTx
	userRepo   *memUserRepo
	lineRepo   *memLineRepo
	users      UserService
	categories CategoryService
	products   ProductService
	sales      SaleService
	saleLines  SaleLineService
}

func newFixture(opts SaleOptions) *fixture {
	store := newMemStore()
	tx := &memTx{store: store}
	userRepo := &memUserRepo{s: store}
	categoryRepo := &memCategoryRepo{s: store}
	productRepo := &memProductRepo{s: store}
	saleRepo := &memSaleRepo{s: store}
	lineRepo := &memLineRepo{s: store}

	return &fixture{
		store:      store,
		tx:         tx,
		userRepo:   userRepo,
		lineRepo:   lineRepo,
		users:      NewUserService(userRepo, saleRepo, tx),
		categories: NewCategoryService(categoryRepo, productRepo, tx),
		products:   NewProductService(productRepo, categoryRepo, lineRepo, tx),
		sales:      NewSaleService(saleRepo, lineRepo, userRepo, productRepo, tx, opts),
		saleLines:  NewSaleLineService(lineRepo, saleRepo),
	}
}

// seedUser stores a user directly, bypassing password hashing
func (f *fixture) seedUser(username string, role domain.Role) *domain.User {
	u := &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		Active:   true,
	}
	_ = f.userRepo.Create(context.Background(), u)
	return u
}

func (f *fixture) seedProduct(title, price string) *domain.Product {
	ctx := context.Background()
	var categoryID int64
	for id, c := range f.store.categories {
		if c.Name == "General" {
			categoryID = id
		}
	}
	if categoryID == 0 {
		category, _ := f.categories.Create(ctx, CategoryInput{Name: "General"})
		categoryID = category.ID
	}

	p := &domain.Product{
		Title:      title,
		Price:      mustDecimal(price),
		CategoryID: categoryID,
	}
	_ = (&memProductRepo{s: f.store}).Create(ctx, p)
	return p
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
