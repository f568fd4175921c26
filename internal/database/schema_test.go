package database

import (
	"io/fs"
	"strings"
	"testing"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	content, err := fs.ReadFile(embedMigrations, migrationsDir+"/"+name)
	if err != nil {
		t.Fatalf("Failed to read migration %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_categories_table.sql",
		"00003_create_products_table.sql",
		"00004_create_sales_table.sql",
		"00005_create_sale_lines_table.sql",
	}

	for _, migration := range expectedMigrations {
		if _, err := fs.Stat(embedMigrations, migrationsDir+"/"+migration); err != nil {
			t.Errorf("Migration file %s is not embedded: %v", migration, err)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := fs.ReadDir(embedMigrations, migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	if len(files) == 0 {
		t.Fatal("No SQL migration files found")
	}

	for _, file := range files {
		contentStr := readMigration(t, file.Name())

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}
}

func TestNaturalKeysAreUniqueIgnoringCase(t *testing.T) {
	tests := map[string]string{
		"00001_create_users_table.sql":      "ON users (lower(email))",
		"00002_create_categories_table.sql": "ON categories (lower(name))",
		"00003_create_products_table.sql":   "ON products (lower(title))",
	}

	for file, index := range tests {
		contentStr := readMigration(t, file)
		if !strings.Contains(contentStr, "CREATE UNIQUE INDEX") || !strings.Contains(contentStr, index) {
			t.Errorf("Migration file %s missing case-insensitive unique index %s", file, index)
		}
	}
}

func TestSaleLinesReferenceSalesAndProducts(t *testing.T) {
	contentStr := readMigration(t, "00005_create_sale_lines_table.sql")

	for _, fragment := range []string{
		"sale_id BIGINT NOT NULL REFERENCES sales (id)",
		"product_id BIGINT NOT NULL REFERENCES products (id)",
		"CHECK (quantity > 0)",
		"unit_price NUMERIC",
		"line_total NUMERIC",
	} {
		if !strings.Contains(contentStr, fragment) {
			t.Errorf("sale_lines migration missing %q", fragment)
		}
	}

	// dependent rows block deletes; the services report it as invalid input
	if strings.Contains(contentStr, "ON DELETE CASCADE") {
		t.Error("sale_lines must not cascade deletes")
	}
}
