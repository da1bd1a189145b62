package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/gong/internal/backup"
	"github.com/mrlokans/gong/internal/config"
)

// BackupImportCommand replaces the content of the store with a snapshot.
type BackupImportCommand struct {
	DatabasePath string
	InputPath    string
	DryRun       bool
	Out          io.Writer
}

func NewBackupImportCommand() *BackupImportCommand {
	return &BackupImportCommand{}
}

func (cmd *BackupImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("backup-import", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.InputPath, "file", "", "Snapshot file to restore (required)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Only check the snapshot, do not touch the database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s backup-import [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Restore a JSON snapshot. All existing books, entries and settings are replaced.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s backup-import -file ./backups/gong_backup_2024-03-01.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s backup-import -file ./gong.json -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.InputPath == "" {
		fs.Usage()
		return fmt.Errorf("file is required")
	}

	return nil
}

func (cmd *BackupImportCommand) Run() error {
	ctx := context.Background()
	out := output(cmd.Out)

	f, err := os.Open(cmd.InputPath)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	if cmd.DryRun {
		data, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		snap, err := backup.Decode(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Snapshot %s is valid: version %s, %s\n", cmd.InputPath, snap.Version, snap.Counts())
		return nil
	}

	db, err := openDatabase(ctx, cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	service := backup.NewService(db, nil)

	result, err := service.Import(ctx, f)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Restored %s from %s (version %s)\n", result.Restored, cmd.InputPath, result.Version)
	return nil
}
