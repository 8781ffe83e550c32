package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	migrations, err := GetEmbeddedMigrations()
	if err != nil {
		t.Fatalf("GetEmbeddedMigrations() error = %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected embedded migrations")
	}
	for i, m := range migrations {
		if m.Version != i+1 {
			t.Errorf("migration %d has version %d", i, m.Version)
		}
		if m.Name == "" || m.SQL == "" {
			t.Errorf("migration %d is missing name or SQL", m.Version)
		}
	}
}

func TestInitializeDatabase(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	applied, err := InitializeDatabase(ctx, db)
	if err != nil {
		t.Fatalf("InitializeDatabase() error = %v", err)
	}
	embedded, err := GetEmbeddedMigrations()
	if err != nil {
		t.Fatal(err)
	}
	if applied != len(embedded) {
		t.Errorf("applied %d migrations, want %d", applied, len(embedded))
	}
	version, err := SchemaVersion()
	if err != nil || version != embedded[len(embedded)-1].Version {
		t.Errorf("SchemaVersion() = %d, %v", version, err)
	}

	for _, table := range []string{"tenants", "users", "community_groups", "group_members", "categories", "listings", "events"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	n, err := NewMigrationManager(db).ApplyPendingMigrations(ctx)
	if err != nil {
		t.Fatalf("second ApplyPendingMigrations() error = %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no pending migrations on second run, applied %d", n)
	}
}

func TestMigrationStatus(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	m := NewMigrationManager(db)

	status, err := m.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(status.Applied) != 0 || len(status.Pending) != len(status.Available) {
		t.Fatalf("fresh database: applied=%d pending=%d available=%d",
			len(status.Applied), len(status.Pending), len(status.Available))
	}

	if _, err := m.ApplyPendingMigrations(ctx); err != nil {
		t.Fatalf("ApplyPendingMigrations() error = %v", err)
	}

	status, err = m.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(status.Pending) != 0 || len(status.Applied) != len(status.Available) {
		t.Fatalf("migrated database: applied=%d pending=%d", len(status.Applied), len(status.Pending))
	}
	for _, a := range status.Applied {
		if a.AppliedAt == nil {
			t.Errorf("migration %d has no applied time", a.Version)
		}
	}
}

func TestMigrationsFromPath(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"001_first.sql":  "CREATE TABLE first (id INTEGER);",
		"002_second.sql": "CREATE TABLE second (id INTEGER);",
		"notes.txt":      "ignored",
		"bad_name.sql":   "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m := NewMigrationManagerFromPath(openTestDB(t), dir)
	available, err := m.GetAvailableMigrations()
	if err != nil {
		t.Fatalf("GetAvailableMigrations() error = %v", err)
	}
	if len(available) != 2 || available[0].Name != "first" || available[1].Name != "second" {
		t.Fatalf("unexpected migrations: %+v", available)
	}

	n, err := m.ApplyPendingMigrations(context.Background())
	if err != nil {
		t.Fatalf("ApplyPendingMigrations() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("applied %d migrations, want 2", n)
	}
}

func TestFailedMigrationRollsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "001_broken.sql"), []byte("CREATE TABLE ok (id INTEGER); NOT SQL;"), 0o644); err != nil {
		t.Fatal(err)
	}

	db := openTestDB(t)
	m := NewMigrationManagerFromPath(db, dir)
	if _, err := m.ApplyPendingMigrations(context.Background()); err == nil {
		t.Fatal("expected error from broken migration")
	}

	pending, err := m.GetPendingMigrations(context.Background())
	if err != nil {
		t.Fatalf("GetPendingMigrations() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected broken migration to stay pending, got %d", len(pending))
	}
}
