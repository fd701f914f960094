package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestSalesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_sales")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS sales",
		"updated_at TIMESTAMPTZ NOT NULL DEFAULT now()",
		"CHECK (status IN ('processing', 'completed', 'cancelled'))",
		"FOREIGN KEY (sale_id) REFERENCES sales(sale_id) ON DELETE CASCADE",
		"PRIMARY KEY (sale_id, discount_id)",
		"addons TEXT,",
		"DROP TABLE IF EXISTS sales",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestDiscountMigrationEnforcesUniqueName(t *testing.T) {
	content := readMigration(t, "create_discounts")

	for _, sub := range []string{
		"CONSTRAINT discounts_name_key UNIQUE (name)",
		"CHECK (type IN ('percentage', 'fixed_amount'))",
		"DROP TABLE IF EXISTS discounts",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestInventoryFailureMigrationHasPendingIndex(t *testing.T) {
	content := readMigration(t, "create_inventory_sync_failures")

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS inventory_sync_failures",
		"WHERE resolved_at IS NULL",
		"DROP TABLE IF EXISTS inventory_sync_failures",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
