package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Driver selects the relational engine behind the store.
type Driver string

const (
	SQLite   Driver = "sqlite"
	Postgres Driver = "postgres"
)

// DB owns the process-wide connection pool. gorm runs on the same *sql.DB.
type DB struct {
	sql    *sql.DB
	gorm   *gorm.DB
	driver Driver
}

// Open runs pending migrations and returns a ready pool for the given driver.
// For sqlite the dsn is a file path; for postgres a connection URL.
func Open(ctx context.Context, driver Driver, dsn string) (*DB, error) {
	if driver == SQLite {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
	}

	if err := RunMigrations(driver, dsn); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	sqlDB, err := sql.Open(driver.sqlDriverName(), driver.connString(dsn))
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	var dialector gorm.Dialector
	switch driver {
	case SQLite:
		// sqlite has a single writer
		sqlDB.SetMaxOpenConns(1)
		dialector = gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", Conn: sqlDB})
	case Postgres:
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	default:
		sqlDB.Close()
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:  newGormLogger(),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.InfoContext(ctx, "Database ready", "component", "storage", "driver", string(driver))

	return &DB{sql: sqlDB, gorm: gdb, driver: driver}, nil
}

// Gorm returns the ORM handle bound to the pool.
func (db *DB) Gorm() *gorm.DB {
	return db.gorm
}

func (db *DB) Driver() Driver {
	return db.driver
}

// Ping checks that the database answers; used by readiness probes.
func (db *DB) Ping(ctx context.Context) error {
	return db.sql.PingContext(ctx)
}

func (db *DB) Close() error {
	if db.sql != nil {
		return db.sql.Close()
	}
	return nil
}

func (d Driver) sqlDriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// connString adds the sqlite pragmas the schema relies on.
func (d Driver) connString(dsn string) string {
	if d != SQLite {
		return dsn
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// gormWriter routes gorm's own log lines into slog.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...any) {
	slog.Warn(fmt.Sprintf(format, args...), "component", "storage")
}

func newGormLogger() gormlogger.Interface {
	return gormlogger.New(gormWriter{}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
