// Package backup exports the whole store to a versioned JSON snapshot and
// restores it atomically.
//
// A restore replaces every book, entry and setting in one transaction. The
// snapshot is fully decoded and checked first, so malformed input fails
// with database.ErrFormat before any row is touched, and a failure during
// the write phase rolls back and leaves the prior data intact.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/gong/internal/database"
	"github.com/mrlokans/gong/internal/database/books"
	"github.com/mrlokans/gong/internal/database/entries"
	"github.com/mrlokans/gong/internal/database/settings"
	"github.com/mrlokans/gong/internal/entities"
)

// Service creates and restores snapshots of the store.
type Service struct {
	db     *database.Database
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a Service. A nil logger falls back to slog.Default().
func NewService(db *database.Database, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:     db,
		logger: logger.With(slog.String("component", "backup")),
		now:    time.Now,
	}
}

// RestoreResult describes a completed restore.
type RestoreResult struct {
	Version  string        `json:"version"`
	Restored Counts        `json:"restored"`
	Duration time.Duration `json:"duration"`
}

// Snapshot reads all three tables inside one transaction.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Version:   FormatVersion,
		Timestamp: s.now().UnixMilli(),
	}

	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if snap.Books, err = books.NewRepository(tx).List(ctx); err != nil {
			return err
		}
		if snap.Entries, err = entries.NewRepository(tx).List(ctx); err != nil {
			return err
		}
		snap.Settings, err = settings.NewRepository(tx).List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	// Empty tables serialise as [] rather than null.
	if snap.Books == nil {
		snap.Books = []entities.Book{}
	}
	if snap.Entries == nil {
		snap.Entries = []entities.Entry{}
	}
	if snap.Settings == nil {
		snap.Settings = []entities.Setting{}
	}
	return snap, nil
}

// Export writes an indented JSON snapshot of the store to w.
func (s *Service) Export(ctx context.Context, w io.Writer) (*Snapshot, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}

	s.logger.Info("snapshot exported", slog.String("counts", snap.Counts().String()))
	return snap, nil
}

// Validate decodes and checks a snapshot from r without restoring it.
func (s *Service) Validate(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}

// Import replaces the content of the store with the snapshot read from r.
func (s *Service) Import(ctx context.Context, r io.Reader) (*RestoreResult, error) {
	start := s.now()

	snap, err := s.Validate(r)
	if err != nil {
		s.logger.Warn("snapshot rejected", slog.Any("err", err))
		return nil, err
	}

	s.logger.Info("starting restore",
		slog.String("version", snap.Version),
		slog.String("counts", snap.Counts().String()))

	err = s.db.Transaction(ctx, func(tx *gorm.DB) error {
		bookRepo := books.NewRepository(tx)
		entryRepo := entries.NewRepository(tx)
		settingsRepo := settings.NewRepository(tx)

		if err := entryRepo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := bookRepo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := settingsRepo.DeleteAll(ctx); err != nil {
			return err
		}

		if err := bookRepo.InsertAll(ctx, snap.Books); err != nil {
			return err
		}
		if err := entryRepo.InsertAll(ctx, snap.Entries); err != nil {
			return err
		}
		if err := settingsRepo.UpsertAll(ctx, snap.Settings); err != nil {
			return err
		}
		// Older snapshots may lack some keys.
		return database.SeedDefaultSettings(tx)
	})
	if err != nil {
		s.logger.Error("restore failed, prior data kept", slog.Any("err", err))
		return nil, fmt.Errorf("restore failed: %w", err)
	}

	result := &RestoreResult{
		Version:  snap.Version,
		Restored: snap.Counts(),
		Duration: s.now().Sub(start),
	}
	s.logger.Info("restore complete",
		slog.String("counts", result.Restored.String()),
		slog.Duration("duration", result.Duration))
	return result, nil
}
