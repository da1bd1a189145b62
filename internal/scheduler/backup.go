package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/gong/internal/backup"
	"github.com/mrlokans/gong/internal/config"
)

// BackupWriter writes one snapshot file into dir and returns its path.
type BackupWriter interface {
	ExportToFile(ctx context.Context, dir string, now time.Time) (string, error)
}

// BackupStatus describes the outcome of the most recent run.
type BackupStatus struct {
	LastRun  *time.Time `json:"lastRun,omitempty"`
	LastPath string     `json:"lastPath,omitempty"`
	LastErr  string     `json:"lastError,omitempty"`
	Pruned   int        `json:"pruned"`
}

// BackupScheduler writes periodic snapshot files and prunes old ones.
type BackupScheduler struct {
	writer BackupWriter
	cfg    config.Backup
	logger *slog.Logger
	now    func() time.Time

	cron       *cron.Cron
	entryID    cron.EntryID
	schedule   cron.Schedule
	mu         sync.RWMutex
	runMu      sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
	status     BackupStatus
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// NewBackupScheduler creates a new scheduler instance
func NewBackupScheduler(writer BackupWriter, cfg config.Backup, logger *slog.Logger) *BackupScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupScheduler{
		writer: writer,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "backup_scheduler")),
		now:    time.Now,
		cron:   cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler if scheduled backups are enabled. The
// scheduler stops on its own when ctx is cancelled.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.ScheduleEnabled {
		s.logger.Info("scheduled backups disabled")
		return nil
	}

	if s.cfg.Dir == "" {
		s.logger.Warn("backup directory not configured, skipping")
		return nil
	}

	schedule, err := cronParser.Parse(s.cfg.Schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.schedule = schedule
	s.entryID = s.cron.Schedule(schedule, cron.FuncJob(func() {
		_, _ = s.RunNow(cancelCtx)
	}))

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("scheduled backups started",
		slog.String("schedule", s.cfg.Schedule),
		slog.String("dir", s.cfg.Dir),
		slog.Int("keep", s.cfg.Keep),
		slog.Time("next_run", schedule.Next(s.now())))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	done := s.cron.Stop()
	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.mu.Unlock()

	// A running job records its status under mu, so wait unlocked.
	<-done.Done()
	s.logger.Info("scheduled backups stopped")
}

// RunNow writes a snapshot immediately and prunes the directory. Runs never
// overlap.
func (s *BackupScheduler) RunNow(ctx context.Context) (string, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	started := s.now()
	path, err := s.writer.ExportToFile(ctx, s.cfg.Dir, started)

	var removed []string
	if err == nil {
		var pruneErr error
		removed, pruneErr = backup.Prune(s.cfg.Dir, s.cfg.Keep)
		if pruneErr != nil {
			s.logger.Warn("failed to prune old backups", slog.Any("err", pruneErr))
		}
	}

	s.mu.Lock()
	s.status = BackupStatus{LastRun: &started, LastPath: path, Pruned: len(removed)}
	if err != nil {
		s.status.LastErr = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("scheduled backup failed", slog.Any("err", err))
		return "", err
	}
	s.logger.Info("scheduled backup complete",
		slog.String("path", path),
		slog.Int("pruned", len(removed)),
		slog.Duration("duration", s.now().Sub(started)))
	return path, nil
}

// IsRunning returns whether the scheduler is active
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next backup will occur, nil when stopped.
func (s *BackupScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	next := s.schedule.Next(s.now())
	return &next
}

// Status returns the outcome of the most recent run.
func (s *BackupScheduler) Status() BackupStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
