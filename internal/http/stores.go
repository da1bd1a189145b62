package http

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=mocks/mock_stores.go -package=mocks github.com/mrlokans/gong/internal/http BookStore,EntryStore,SettingsStore,BackupService,HealthChecker

import (
	"context"
	"io"
	"time"

	"github.com/mrlokans/gong/internal/backup"
	"github.com/mrlokans/gong/internal/entities"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each controller depends only on the operations it calls.

// BookStore provides book operations (books.Repository).
type BookStore interface {
	GetAll(ctx context.Context) ([]entities.Book, error)
	GetByID(ctx context.Context, id string) (*entities.Book, error)
	Create(ctx context.Context, book entities.NewBook) (string, error)
	Update(ctx context.Context, id string, patch entities.BookPatch) error
	Delete(ctx context.Context, id string) error
	MonthlySummary(ctx context.Context, year, month int) (*entities.MonthlySummary, error)
}

// EntryStore provides entry operations (entries.Repository).
type EntryStore interface {
	GetByBookID(ctx context.Context, bookID string) ([]entities.Entry, error)
	CreateFromInput(ctx context.Context, bookID, pageInput, text string) (string, error)
	Update(ctx context.Context, id string, patch entities.EntryPatch) error
	Delete(ctx context.Context, id string) error
}

// SettingsStore provides settings operations (settings.Repository).
type SettingsStore interface {
	GetAll(ctx context.Context) (entities.Settings, error)
	Update(ctx context.Context, key entities.SettingKey, value entities.SettingValue) error
}

// BackupService exports and restores snapshots (backup.Service).
type BackupService interface {
	Export(ctx context.Context, w io.Writer) (*backup.Snapshot, error)
	Import(ctx context.Context, r io.Reader) (*backup.RestoreResult, error)
}

// HealthChecker reports store reachability (database.Database).
type HealthChecker interface {
	Ping(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
}

// SchedulerStatus reports the state of scheduled backups.
type SchedulerStatus interface {
	IsRunning() bool
	NextRun() *time.Time
}
