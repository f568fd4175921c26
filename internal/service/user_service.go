package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sales-management/internal/domain"
	"sales-management/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for password hashing
const BcryptCost = 10

// UserInput carries the writable fields of a user. An empty Password on update keeps the
// current hash.
type UserInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// UserService defines the interface for user management
type UserService interface {
	Create(ctx context.Context, in UserInput) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	GetPaginated(ctx context.Context, page, size int) (domain.Page[*domain.User], error)
	Update(ctx context.Context, id int64, in UserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	userRepo repository.UserRepository
	saleRepo repository.SaleRepository
	tx       repository.TxManager
	now      func() time.Time
}

// NewUserService creates a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	saleRepo repository.SaleRepository,
	tx repository.TxManager,
) UserService {
	return &userService{
		userRepo: userRepo,
		saleRepo: saleRepo,
		tx:       tx,
		now:      time.Now,
	}
}

// Create registers a new active user with a bcrypt-hashed password
func (s *userService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, repository.ErrUserAlreadyExists
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.ParseRole(string(in.Role)),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *userService) GetAll(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) GetPaginated(ctx context.Context, page, size int) (domain.Page[*domain.User], error) {
	page, size, offset := domain.NormalizePage(page, size)
	users, total, err := s.userRepo.ListPage(ctx, size, offset)
	if err != nil {
		return domain.Page[*domain.User]{}, err
	}
	return domain.NewPage(users, page, size, total), nil
}

// Update overwrites username, email and role; the password is re-hashed only when supplied
func (s *userService) Update(ctx context.Context, id int64, in UserInput) (*domain.User, error) {
	var updated *domain.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		email := strings.TrimSpace(in.Email)
		if !strings.EqualFold(user.Email, email) {
			exists, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("failed to check existing user: %w", err)
			}
			if exists {
				return repository.ErrUserAlreadyExists
			}
		}

		if in.Password != "" {
			hash, err := hashPassword(in.Password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user.PasswordHash = hash
		}

		user.Username = strings.TrimSpace(in.Username)
		user.Email = email
		user.Role = domain.ParseRole(string(in.Role))
		user.UpdatedAt = s.now().UTC()

		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a user that owns no sales
func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.FindByID(ctx, id); err != nil {
			return err
		}

		count, err := s.saleRepo.CountByUser(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.InvalidInput("user has sales and cannot be deleted")
		}

		return s.userRepo.Delete(ctx, id)
	})
}

func hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
