package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8189), cfg.HTTP.Port)
	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultBackupDir, cfg.Backup.Dir)
	assert.Equal(t, DefaultBackupSchedule, cfg.Backup.Schedule)
	assert.Equal(t, DefaultBackupKeep, cfg.Backup.Keep)
	assert.False(t, cfg.Backup.ScheduleEnabled)
	assert.False(t, cfg.HTTP.ReadOnly)
	assert.Empty(t, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, float64(DefaultRestoresPerMinute), cfg.HTTP.RestoresPerMinute)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_PATH", "/tmp/notes.db")
	t.Setenv("BACKUP_SCHEDULE_ENABLED", "true")
	t.Setenv("BACKUP_KEEP", "3")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("READ_ONLY", "true")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://notes.example ,")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "/tmp/notes.db", cfg.Database.Path)
	assert.True(t, cfg.Backup.ScheduleEnabled)
	assert.Equal(t, 3, cfg.Backup.Keep)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.HTTP.ReadOnly)
	assert.Equal(t, []string{"http://localhost:5173", "https://notes.example"}, cfg.HTTP.AllowedOrigins)
}

func TestNewConfig_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gong.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backup_dir: /srv/gong/backups\nlog_level: debug\n"), 0o600))
	t.Setenv("GONG_CONFIG", path)

	cfg := NewConfig()

	assert.Equal(t, "/srv/gong/backups", cfg.Backup.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
