package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"sales-management/internal/database"
	"sales-management/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	testDB  *sql.DB
	testDSN string
)

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := dbContainer.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		return dbContainer.Terminate, err
	}

	testDSN = connStr
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	if err := database.RunMigrations(testDB, zap.NewNop()); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec(`TRUNCATE sale_lines, sales, products, categories, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func newUser(username, email string, role domain.Role) *domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	resetTables(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := newUser("alice", "Alice@Example.com", domain.RoleVendeur)
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected generated id")
	}

	byEmail, err := repo.FindByEmail(ctx, "alice@example.COM")
	if err != nil {
		t.Fatalf("FindByEmail returned error: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.Role != domain.RoleVendeur || !byEmail.Active {
		t.Errorf("unexpected user: %+v", byEmail)
	}

	_, err = repo.FindByID(ctx, user.ID+100)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	resetTables(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := newUser("bob", "bob@example.com", domain.RoleClient)
	if err := repo.Create(ctx, user); err != nil {
		t.Fatal(err)
	}

	user.Role = domain.RoleAdmin
	user.Username = "robert"
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Username != "robert" || got.Role != domain.RoleAdmin {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := repo.Delete(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestUserRepository_ListPage(t *testing.T) {
	resetTables(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	for _, name := range []string{"u1", "u2", "u3"} {
		if err := repo.Create(ctx, newUser(name, name+"@example.com", domain.RoleClient)); err != nil {
			t.Fatal(err)
		}
	}

	users, total, err := repo.ListPage(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListPage returned error: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(users) != 1 || users[0].Username != "u3" {
		t.Errorf("unexpected second page: %+v", users)
	}
}

// Emails are unique regardless of letter case.
func TestProperty_EmailUniquenessIgnoresCase(t *testing.T) {
	resetTables(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("a case variant of a stored email is rejected", prop.ForAll(
		func(local string) bool {
			email := local + "@example.com"
			_, _ = testDB.Exec("DELETE FROM users WHERE lower(email) = lower($1)", email)

			if err := repo.Create(ctx, newUser("prop", email, domain.RoleClient)); err != nil {
				t.Logf("first create failed: %v", err)
				return false
			}

			exists, err := repo.ExistsByEmail(ctx, strings.ToUpper(email))
			if err != nil || !exists {
				return false
			}

			err = repo.Create(ctx, newUser("prop2", strings.ToUpper(email), domain.RoleClient))
			return errors.Is(err, ErrUserAlreadyExists) && errors.Is(err, domain.ErrDuplicateResource)
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
