package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Backup
		Logging
	}

	HTTP struct {
		Port              int32
		Host              string
		ReadOnly          bool
		AllowedOrigins    []string
		RestoresPerMinute float64 // 0 disables the restore rate limit
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path     string
		LogLevel string // gorm logger level: silent, error, warn, info
	}
	Backup struct {
		Dir             string
		ScheduleEnabled bool
		Schedule        string // Cron format: "0 3 * * *" = daily at 03:00
		Keep            int    // Number of backup files to retain
	}
	Logging struct {
		Level  string // debug, info, warn, error
		Format string // text or json
		File   string // optional rotated log file
	}
)

// NewConfig reads configuration from the environment. A .env file in the
// working directory is loaded first; variables already set take precedence.
// GONG_CONFIG may point to a YAML/TOML/JSON file that viper merges in.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("read_only", false)
	v.SetDefault("allowed_origins", "")
	v.SetDefault("restores_per_minute", DefaultRestoresPerMinute)
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("db_log_level", "warn")

	// Backup defaults
	v.SetDefault("backup_dir", DefaultBackupDir)
	v.SetDefault("backup_schedule_enabled", false)
	v.SetDefault("backup_schedule", DefaultBackupSchedule)
	v.SetDefault("backup_keep", DefaultBackupKeep)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_file", "")

	if path := v.GetString("GONG_CONFIG"); path != "" {
		v.SetConfigFile(path)
		// A missing or broken config file leaves env and defaults in effect.
		_ = v.ReadInConfig()
	}

	return &Config{
		HTTP: HTTP{
			Port:              v.GetInt32("PORT"),
			Host:              v.GetString("HOST"),
			ReadOnly:          v.GetBool("READ_ONLY"),
			AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGINS")),
			RestoresPerMinute: v.GetFloat64("RESTORES_PER_MINUTE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("DB_LOG_LEVEL"),
		},
		Backup: Backup{
			Dir:             v.GetString("BACKUP_DIR"),
			ScheduleEnabled: v.GetBool("BACKUP_SCHEDULE_ENABLED"),
			Schedule:        v.GetString("BACKUP_SCHEDULE"),
			Keep:            v.GetInt("BACKUP_KEEP"),
		},
		Logging: Logging{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			File:   v.GetString("LOG_FILE"),
		},
	}
}

// splitList parses a comma-separated value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
