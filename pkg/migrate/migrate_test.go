package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evolutionflow/admin-bff/pkg/config"
	"github.com/evolutionflow/admin-bff/pkg/db"
	"github.com/evolutionflow/admin-bff/pkg/logger"
)

func openSQLite(t *testing.T) *db.Client {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{Driver: db.DriverSQLite, DSN: "file::memory:"}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestEmbeddedMigrationsApplyOnSQLite(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}

	if err := Run(context.Background(), sqlDB, db.DriverSQLite, "", "up"); err != nil {
		t.Fatalf("goose up: %v", err)
	}

	for _, table := range []string{"studios", "audit_entries"} {
		if !client.DB().Migrator().HasTable(table) {
			t.Errorf("expected table %s after migration", table)
		}
	}

	if err := Run(context.Background(), sqlDB, db.DriverSQLite, "", "down"); err != nil {
		t.Fatalf("goose down: %v", err)
	}
	if client.DB().Migrator().HasTable("audit_entries") {
		t.Errorf("expected audit_entries dropped after down")
	}
}

func TestMigrationsContainConstraints(t *testing.T) {
	cases := map[string][]string{
		"*_create_studios.sql": {
			"CREATE TABLE IF NOT EXISTS studios",
			"CHECK (status IN ('active', 'inactive', 'maintenance'))",
			"CREATE UNIQUE INDEX IF NOT EXISTS studios_name_key",
			"DROP TABLE IF EXISTS studios",
		},
		"*_create_audit_entries.sql": {
			"CREATE TABLE IF NOT EXISTS audit_entries",
			"CHECK (outcome IN ('success', 'failure'))",
			"audit_entries_created_at_idx",
			"DROP TABLE IF EXISTS audit_entries",
		},
	}

	for pattern, checks := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		if err != nil || len(matches) == 0 {
			t.Fatalf("no migration matching %s (err=%v)", pattern, err)
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read %s: %v", matches[0], err)
		}
		for _, sub := range checks {
			if !strings.Contains(string(data), sub) {
				t.Errorf("%s: missing %q", pattern, sub)
			}
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Studio Notes!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_studio_notes.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}

func TestMaybeRunDevSkipsOutsideDev(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: config.AppEnvProd}}
	if err := MaybeRunDev(context.Background(), cfg, logger.Nop(), nil); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestDialect(t *testing.T) {
	if Dialect("sqlite") != "sqlite3" || Dialect("postgres") != "postgres" {
		t.Fatalf("unexpected dialect mapping")
	}
}
