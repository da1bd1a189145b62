package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/gong/internal/config"
	"github.com/mrlokans/gong/internal/database/books"
	"github.com/mrlokans/gong/internal/database/entries"
	"github.com/mrlokans/gong/internal/exporters"
)

// NotesExportCommand writes one markdown file per book.
type NotesExportCommand struct {
	DatabasePath string
	Directory    string
	Out          io.Writer
}

func NewNotesExportCommand() *NotesExportCommand {
	return &NotesExportCommand{}
}

func (cmd *NotesExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("notes-export", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Directory, "out", "", "Directory to write markdown notes into (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s notes-export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Write every book with its review and entries as a markdown file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s notes-export -out ./vault/Books\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Directory == "" {
		fs.Usage()
		return fmt.Errorf("output directory is required")
	}

	return nil
}

func (cmd *NotesExportCommand) Run() error {
	ctx := context.Background()
	out := output(cmd.Out)

	db, err := openDatabase(ctx, cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	bookRepo := books.NewRepository(db.DB)
	entryRepo := entries.NewRepository(db.DB)

	all, err := bookRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}

	notes := make([]exporters.BookNotes, 0, len(all))
	for _, book := range all {
		bookEntries, err := entryRepo.GetByBookID(ctx, book.ID)
		if err != nil {
			return fmt.Errorf("failed to load entries for %q: %w", book.Title, err)
		}
		notes = append(notes, exporters.BookNotes{Book: book, Entries: bookEntries})
	}

	var exporter exporters.NotesExporter = exporters.NewMarkdownExporter(cmd.Directory)
	result, err := exporter.Export(notes)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Exported %d books with %d entries to %s\n",
		result.BooksProcessed, result.EntriesProcessed, cmd.Directory)
	if result.BooksFailed > 0 {
		fmt.Fprintf(out, "%d books could not be written\n", result.BooksFailed)
	}
	return nil
}
