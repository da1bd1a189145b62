package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/gong/internal/backup"
	"github.com/mrlokans/gong/internal/database"
	"github.com/mrlokans/gong/internal/database/books"
	"github.com/mrlokans/gong/internal/database/entries"
	"github.com/mrlokans/gong/internal/database/settings"
	"github.com/mrlokans/gong/internal/exporters"
	"github.com/mrlokans/gong/internal/http"
	"github.com/mrlokans/gong/internal/scheduler"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ http.BookStore = (*books.Repository)(nil)

// EntryStore implementations
var _ http.EntryStore = (*entries.Repository)(nil)

// SettingsStore implementations
var _ http.SettingsStore = (*settings.Repository)(nil)

// HealthChecker implementations
var _ http.HealthChecker = (*database.Database)(nil)

// =============================================================================
// Backup
// =============================================================================

// BackupService implementations
var _ http.BackupService = (*backup.Service)(nil)

// BackupWriter implementations
var _ scheduler.BackupWriter = (*backup.Service)(nil)

// SchedulerStatus implementations
var _ http.SchedulerStatus = (*scheduler.BackupScheduler)(nil)

// =============================================================================
// Export
// =============================================================================

// NotesExporter implementations
var _ exporters.NotesExporter = (*exporters.MarkdownExporter)(nil)
