package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/gong/internal/config"
)

// MigrateCommand creates the store if needed and applies pending migrations.
type MigrateCommand struct {
	DatabasePath string
	Out          io.Writer
}

func NewMigrateCommand() *MigrateCommand {
	return &MigrateCommand{}
}

func (cmd *MigrateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s migrate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the database if missing and bring its schema up to date.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *MigrateCommand) Run() error {
	ctx := context.Background()
	out := output(cmd.Out)

	db, err := openDatabase(ctx, cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	fmt.Fprintf(out, "Database %s is at schema version %d\n", cmd.DatabasePath, version)
	return nil
}
