package config

// Default paths and schedules
const (
	// DefaultDatabasePath is the default path for the reading notes database
	DefaultDatabasePath = "./gong.db"

	// DefaultBackupDir is where scheduled and CLI backups are written
	DefaultBackupDir = "./backups"

	// DefaultBackupSchedule runs the automatic backup daily at 03:00
	DefaultBackupSchedule = "0 3 * * *"

	// DefaultBackupKeep is how many backup files the scheduler retains
	DefaultBackupKeep = 7

	// DefaultRestoresPerMinute caps snapshot restores over HTTP
	DefaultRestoresPerMinute = 2
)
