package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/gong/internal/config"
	"github.com/mrlokans/gong/internal/database/books"
	"github.com/mrlokans/gong/internal/exporters"
)

// SummaryCommand prints the reading log for one calendar month.
type SummaryCommand struct {
	DatabasePath string
	Month        string // YYYY-MM
	JSON         bool
	Out          io.Writer

	year, month int
}

func NewSummaryCommand() *SummaryCommand {
	return &SummaryCommand{}
}

func (cmd *SummaryCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Month, "month", time.Now().Format("2006-01"), "Month to summarise, as YYYY-MM")
	fs.BoolVar(&cmd.JSON, "json", false, "Print JSON instead of markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s summary [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the books registered in a month with their entry counts.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s summary -month 2024-03\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	month, err := time.Parse("2006-01", cmd.Month)
	if err != nil {
		fs.Usage()
		return fmt.Errorf("invalid month %q, expected YYYY-MM", cmd.Month)
	}
	cmd.year, cmd.month = month.Year(), int(month.Month())

	return nil
}

func (cmd *SummaryCommand) Run() error {
	ctx := context.Background()
	out := output(cmd.Out)

	db, err := openDatabase(ctx, cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	summary, err := books.NewRepository(db.DB).MonthlySummary(ctx, cmd.year, cmd.month)
	if err != nil {
		return fmt.Errorf("failed to build summary: %w", err)
	}

	if cmd.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	_, err = io.WriteString(out, exporters.MonthlySummaryMarkdown(*summary))
	return err
}
