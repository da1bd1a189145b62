package http

import "golang.org/x/time/rate"

// RouterConfig contains all dependencies needed to create the HTTP router.
// Optional dependencies left nil disable their routes.
type RouterConfig struct {
	// Core dependencies
	Books    BookStore
	Entries  EntryStore
	Settings SettingsStore

	// Backup export and restore
	Backups BackupService

	// Health reporting
	Health    HealthChecker
	Scheduler SchedulerStatus

	// ReadOnly rejects every write under /api
	ReadOnly bool

	// AllowedOrigins enables CORS for browser clients; empty disables it
	AllowedOrigins []string

	// RestoreLimit caps snapshot restores; nil leaves them unlimited
	RestoreLimit *rate.Limiter

	// Application info
	Version string
}
