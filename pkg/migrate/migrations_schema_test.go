package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/freshhfarm/storefront-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestInitMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE users",
		"CREATE TABLE products",
		"CREATE TABLE carts",
		"CREATE TABLE cart_items",
		"CREATE TABLE coupons",
		"CREATE TABLE orders",
		"CREATE TABLE order_items",
		"CREATE UNIQUE INDEX uq_users_clerk_id",
		"CREATE UNIQUE INDEX uq_carts_user_id",
		"CREATE UNIQUE INDEX uq_cart_items_line ON cart_items (cart_id, product_id, variant_key)",
		"CREATE UNIQUE INDEX uq_coupons_code",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
