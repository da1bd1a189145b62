package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/gong/internal/logger"
)

// Options tunes how the store is opened.
type Options struct {
	// Logger receives store lifecycle messages. Defaults to slog.Default().
	Logger *slog.Logger
	// LogLevel is the gorm SQL log level: silent, error, warn or info.
	LogLevel string
}

// Database is the process-wide handle on the embedded store. It is created
// once at startup, passed to the components that need it and closed at exit.
type Database struct {
	DB  *gorm.DB
	log *slog.Logger
}

// NewDatabase opens the store at dbPath with default options and ensures
// the schema is current.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(context.Background(), dbPath, Options{})
}

// Open opens the store at dbPath and applies pending migrations. A schema
// failure closes the handle and returns an error wrapping ErrSchema.
func Open(ctx context.Context, dbPath string, opts Options) (*Database, error) {
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	l = l.With(slog.String("component", "database"))

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: logger.Gorm(l, opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	// One connection: transactions are serialised at the handle.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	database := &Database{DB: db, log: l}

	if err := database.EnsureSchema(ctx); err != nil {
		_ = sqlDB.Close()
		l.Error("schema initialization failed", slog.String("path", dbPath), slog.Any("err", err))
		return nil, err
	}

	l.Info("database initialized", slog.String("path", dbPath))
	return database, nil
}

// dsn appends the pragmas the store relies on: enforced foreign keys for
// the entry cascade, WAL journaling and a busy timeout.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the store is reachable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Transaction runs fn inside a single transaction: it commits when fn
// returns nil and rolls back on error or panic.
func (d *Database) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}
