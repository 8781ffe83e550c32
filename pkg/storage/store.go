// Package storage implements the tenant data gateway on top of database/sql.
// sqlite (ncruces/go-sqlite3) is the default driver; postgres is reached
// through pgx's database/sql adapter.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/rubiojr/pagebuilder/pkg/db"
	"github.com/rubiojr/pagebuilder/pkg/gateway"
	"github.com/rubiojr/pagebuilder/pkg/log"
)

// Supported drivers. They match the config values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is a read-only gateway over the community database. It is safe for
// concurrent use; the connection pool belongs to the underlying *sql.DB.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
	logger *log.Logger
}

var _ gateway.Gateway = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for event windows and the member
// activity filter.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open connects to the database. dsn is a file path for sqlite and a
// connection string for postgres.
func Open(driver, dsn string, opts ...Option) (*Store, error) {
	var sqlDriver string
	switch driver {
	case DriverSQLite, "":
		driver, sqlDriver = DriverSQLite, "sqlite3"
	case DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if driver == DriverSQLite {
		pragmas := []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
			"PRAGMA busy_timeout = 30000",
			"PRAGMA foreign_keys = ON",
			"PRAGMA temp_store = memory",
		}
		for _, pragma := range pragmas {
			if _, err := conn.Exec(pragma); err != nil {
				_ = conn.Close()
				return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
			}
		}
	}

	return New(conn, driver, opts...), nil
}

// New wraps an existing connection pool.
func New(conn *sql.DB, driver string, opts ...Option) *Store {
	s := &Store{
		db:     conn,
		driver: driver,
		now:    time.Now,
		logger: log.ForService("storage"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns "sqlite" or "postgres".
func (s *Store) Driver() string {
	return s.driver
}

// Migrate applies the embedded schema. Postgres deployments are expected to
// run against the platform's existing schema, so only sqlite is migrated.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	if err := s.checkMigratable(); err != nil {
		return 0, err
	}
	return db.InitializeDatabase(ctx, s.db)
}

// Migrations returns a migration manager for the store. An empty dir means
// the embedded migrations; otherwise the .sql files in dir are used.
func (s *Store) Migrations(dir string) (*db.MigrationManager, error) {
	if err := s.checkMigratable(); err != nil {
		return nil, err
	}
	if dir == "" {
		return db.NewMigrationManager(s.db), nil
	}
	return db.NewMigrationManagerFromPath(s.db, dir), nil
}

func (s *Store) checkMigratable() error {
	if s.driver != DriverSQLite {
		return fmt.Errorf("migrations are only managed for sqlite, not %s", s.driver)
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rebind rewrites "?" placeholders to "$N" for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// dbTime normalizes times passed as query arguments. sqlite stores them as
// text, so every value must share one zone and precision to compare.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func (s *Store) query(ctx context.Context, family, query string, args ...any) (*sql.Rows, error) {
	query = s.rebind(query)
	s.logger.Debugf("%s query: %s %v", family, strings.Join(strings.Fields(query), " "), args)
	return s.db.QueryContext(ctx, query, args...)
}

func (s *Store) closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		s.logger.Warnf("failed to close rows: %v", err)
	}
}
