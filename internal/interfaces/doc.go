// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Book CRUD and monthly summaries (internal/http/stores.go)
//   - EntryStore: Entries of one book in reading order (internal/http/stores.go)
//   - SettingsStore: Typed preference values (internal/http/stores.go)
//   - HealthChecker: Store connectivity and schema version (internal/http/stores.go)
//
// ## Backup Interfaces
//
//   - BackupService: Snapshot export and atomic restore (internal/http/stores.go)
//   - BackupWriter: Dated snapshot files for the scheduler (internal/scheduler/backup.go)
//   - SchedulerStatus: Scheduled backup state (internal/http/stores.go)
//
// ## Export Interfaces
//
//   - NotesExporter: Per-book markdown notes (internal/exporters/generic.go)
//
// # Adding a New Setting
//
//  1. Add the key, its default and its allowed values in internal/entities/setting.go
//
//  2. Add a migration in internal/database/migrations.go only if existing
//     stores need a backfill; SeedDefaultSettings inserts missing keys on open
//
//  3. Extend the snapshot checks in internal/backup/snapshot.go if the value
//     has a new shape
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement interface methods
//
//  4. Add compile-time check:
//
//     var _ http.SomeStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
