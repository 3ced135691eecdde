// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	gosqlite "github.com/mattn/go-sqlite3"

	"github.com/codr1/Courtside/internal/config"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
)

// overlapMessage is raised by the reservations_no_overlap_* triggers.
const overlapMessage = "reservation overlaps an active booking"

// Connection options for go-sqlite3. Foreign keys back the court and
// reservation references; the busy timeout covers the migrate CLI running
// beside the server.
var connectionOptions = map[string]string{
	"_fk":           "1",
	"_busy_timeout": "5000",
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

type DB struct {
	*sql.DB
	Queries *dbgen.Queries
}

// New opens the SQLite database at dataSourceName, brings the schema and seed
// catalog up to date, and binds the generated queries.
func New(dataSourceName string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", withConnectionOptions(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite has one writer. A single connection serialises booking
	// transactions instead of failing them with SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := migrateUp(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &DB{DB: sqlDB, Queries: dbgen.New(sqlDB)}, nil
}

// NewFromConfig opens the configured SQLite file, creating its directory if
// needed.
func NewFromConfig(cfg *config.Config) (*DB, error) {
	if cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Filename), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	return New(cfg.Database.Filename)
}

// withConnectionOptions adds any connection option the DSN does not already
// set.
func withConnectionOptions(dsn string) string {
	base, rawQuery, _ := strings.Cut(dsn, "?")
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		params = url.Values{}
	}
	for key, value := range connectionOptions {
		if !params.Has(key) {
			params.Set(key, value)
		}
	}
	return base + "?" + params.Encode()
}

func migrateUp(sqlDB *sql.DB) error {
	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// IsOverlapViolation reports whether err came from the trigger that rejects a
// second active reservation on an occupied court window.
func IsOverlapViolation(err error) bool {
	var sqliteErr gosqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == gosqlite.ErrConstraint && strings.Contains(sqliteErr.Error(), overlapMessage)
}

// IsConstraintViolation reports whether err is any SQLite constraint failure.
func IsConstraintViolation(err error) bool {
	var sqliteErr gosqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == gosqlite.ErrConstraint
}

// RunInTx calls fn with a DB whose queries run inside one transaction. The
// transaction commits when fn returns nil and rolls back otherwise, including
// when fn panics.
func (db *DB) RunInTx(ctx context.Context, fn func(*DB) error) (err error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = fmt.Errorf("roll back: %v (original error: %w)", rbErr, err)
		}
	}()

	if err = fn(&DB{DB: db.DB, Queries: dbgen.New(tx)}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
