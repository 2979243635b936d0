package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one migration matching %s, got %d", pattern, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestCommissionsMigrationGuardsDoubleCommit(t *testing.T) {
	content := readMigration(t, "*_create_commissions_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS commissions",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_commissions_payment_id ON commissions (payment_id)",
		"agent_amount + operator_amount + company_amount = total_amount",
		"status commission_status NOT NULL DEFAULT 'pending'",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestShopsMigrationBoundsRankingInputs(t *testing.T) {
	content := readMigration(t, "*_create_shops_table.sql")

	checks := []string{
		"manual_rank integer CHECK (manual_rank IS NULL OR manual_rank >= 0)",
		"homepage_priority integer NOT NULL DEFAULT 0 CHECK (homepage_priority BETWEEN 0 AND 100)",
		"rating double precision NOT NULL DEFAULT 0 CHECK (rating BETWEEN 0 AND 5)",
		"rank_score double precision NOT NULL DEFAULT 0 CHECK (rank_score BETWEEN 0 AND 100)",
		"location geography(Point,4326)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Shop Tags!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_shop_tags.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}

func TestValidateDirRejectsBadInput(t *testing.T) {
	empty := t.TempDir()
	if err := migrate.ValidateDir(empty); err == nil {
		t.Fatal("expected error for empty migrations dir")
	}

	bad := t.TempDir()
	if err := os.WriteFile(filepath.Join(bad, "20260101000000_no_down.sql"), []byte("-- +goose Up\nSELECT 1;\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(bad); err == nil {
		t.Fatal("expected error for migration without down marker")
	}
}
