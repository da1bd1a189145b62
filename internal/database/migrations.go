package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/gong/internal/entities"
)

// SchemaMigration records one applied migration step.
type SchemaMigration struct {
	Version   int    `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"not null"`
	AppliedAt string `gorm:"not null"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

type migration struct {
	version int
	name    string
	up      func(tx *gorm.DB) error
}

// migrations is append-only; versions must stay in ascending order.
var migrations = []migration{
	{version: 1, name: "create_core_tables", up: createCoreTables},
	{version: 2, name: "add_book_review", up: addBookReview},
}

// LatestSchemaVersion is the version a fully migrated store reports.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// language=SQL
const createMigrationsTableSQL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TEXT NOT NULL
)`

// language=SQL
var coreTablesDDL = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL CHECK (length(title) > 0),
		author          TEXT NOT NULL CHECK (length(author) > 0),
		rating          REAL NOT NULL CHECK (rating >= 0.0 AND rating <= 5.0),
		registered_date TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS entries (
		id         TEXT PRIMARY KEY,
		book_id    TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		page_start INTEGER NOT NULL CHECK (page_start >= 1),
		page_end   INTEGER NOT NULL CHECK (page_end >= page_start),
		text       TEXT NOT NULL CHECK (length(text) > 0),
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_book
		ON entries(book_id, page_start, page_end, created_at)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

func createCoreTables(tx *gorm.DB) error {
	for _, stmt := range coreTablesDDL {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// addBookReview adds books.review. Stores created before migrations were
// recorded may already carry the column, so presence is checked first.
func addBookReview(tx *gorm.DB) error {
	has, err := hasColumn(tx, "books", "review")
	if err != nil || has {
		return err
	}
	return tx.Exec(`ALTER TABLE books ADD COLUMN review TEXT`).Error
}

func hasColumn(tx *gorm.DB, table, column string) (bool, error) {
	rows, err := tx.Raw(`SELECT name FROM pragma_table_info(?)`, table).Rows()
	if err != nil {
		return false, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		names = append(names, name)
	}
	return slices.Contains(names, column), rows.Err()
}

// EnsureSchema applies every pending migration in order and seeds default
// settings. It is idempotent. Any failure wraps ErrSchema.
func (d *Database) EnsureSchema(ctx context.Context) error {
	db := d.DB.WithContext(ctx)

	if err := db.Exec(createMigrationsTableSQL).Error; err != nil {
		return fmt.Errorf("%w: create schema_migrations: %v", ErrSchema, err)
	}

	var applied []int
	if err := db.Model(&SchemaMigration{}).Pluck("version", &applied).Error; err != nil {
		return fmt.Errorf("%w: read applied migrations: %v", ErrSchema, err)
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, m := range migrations {
		if done[m.version] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{
				Version:   m.version,
				Name:      m.name,
				AppliedAt: time.Now().UTC().Format(time.RFC3339),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("%w: migration %d (%s): %v", ErrSchema, m.version, m.name, err)
		}
		d.logger().Info("migration applied", slog.Int("version", m.version), slog.String("name", m.name))
	}

	if err := db.Transaction(SeedDefaultSettings); err != nil {
		return fmt.Errorf("%w: seed settings: %v", ErrSchema, err)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (d *Database) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := d.DB.WithContext(ctx).Model(&SchemaMigration{}).
		Select("COALESCE(MAX(version), 0)").Scan(&version).Error
	return version, err
}

// SeedDefaultSettings inserts the default value of every recognised setting
// that has no row yet. Existing values are never overwritten.
func SeedDefaultSettings(tx *gorm.DB) error {
	defaults := entities.DefaultSettings()
	for _, key := range entities.SettingKeys() {
		row := entities.Setting{Key: string(key), Value: defaults[key].Encode()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("seed %s: %w", key, err)
		}
	}
	return nil
}

func (d *Database) logger() *slog.Logger {
	if d.log == nil {
		return slog.Default()
	}
	return d.log
}
