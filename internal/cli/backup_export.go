package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/gong/internal/backup"
	"github.com/mrlokans/gong/internal/config"
)

// BackupExportCommand writes a snapshot of the store to a file.
type BackupExportCommand struct {
	DatabasePath string
	OutputPath   string
	Dir          string
	Keep         int
	Out          io.Writer
}

func NewBackupExportCommand() *BackupExportCommand {
	return &BackupExportCommand{}
}

func (cmd *BackupExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("backup-export", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.OutputPath, "out", "", "File to write the snapshot to")
	fs.StringVar(&cmd.Dir, "dir", "", "Directory to write a dated snapshot into (used when -out is not set)")
	fs.IntVar(&cmd.Keep, "keep", 0, "With -dir, keep only the newest N snapshots (0 keeps all)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s backup-export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export every book, entry and setting to a JSON snapshot.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s backup-export -out ./gong.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s backup-export -dir ./backups -keep 7\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.OutputPath == "" && cmd.Dir == "" {
		fs.Usage()
		return fmt.Errorf("either -out or -dir is required")
	}

	return nil
}

func (cmd *BackupExportCommand) Run() error {
	ctx := context.Background()
	out := output(cmd.Out)

	db, err := openDatabase(ctx, cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	service := backup.NewService(db, nil)

	if cmd.OutputPath == "" {
		path, err := service.ExportToFile(ctx, cmd.Dir, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Snapshot written to %s\n", path)

		if cmd.Keep > 0 {
			removed, err := backup.Prune(cmd.Dir, cmd.Keep)
			if err != nil {
				return err
			}
			for _, p := range removed {
				fmt.Fprintf(out, "Removed old snapshot %s\n", p)
			}
		}
		return nil
	}

	f, err := os.Create(cmd.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	snap, err := service.Export(ctx, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close output file: %w", closeErr)
	}
	if err != nil {
		_ = os.Remove(cmd.OutputPath)
		return err
	}

	fmt.Fprintf(out, "Snapshot written to %s (%s)\n", cmd.OutputPath, snap.Counts())
	return nil
}
