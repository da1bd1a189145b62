// Command generate_demo creates a demo database with a few books and entries.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"gorm.io/gorm"

	"github.com/mrlokans/gong/internal/database"
	"github.com/mrlokans/gong/internal/database/books"
	"github.com/mrlokans/gong/internal/database/entries"
	"github.com/mrlokans/gong/internal/entities"
	"github.com/mrlokans/gong/internal/logger"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log := logger.Init(logger.Options{Level: "info"})
	log.Info("generating demo database", slog.String("path", *dbPath))

	// Start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Error("failed to remove existing demo database", slog.Any("err", err))
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, *dbPath, database.Options{Logger: log, LogLevel: "silent"})
	if err != nil {
		log.Error("failed to create database", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	demoBooks, demoEntries := demoData()
	err = db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := books.NewRepository(tx).InsertAll(ctx, demoBooks); err != nil {
			return err
		}
		return entries.NewRepository(tx).InsertAll(ctx, demoEntries)
	})
	if err != nil {
		log.Error("failed to seed demo data", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("demo database generated",
		slog.Int("books", len(demoBooks)),
		slog.Int("entries", len(demoEntries)))
}

func strPtr(s string) *string { return &s }

// demoData returns fixed ids and timestamps so the output is reproducible.
// Two entries share page 16 to show ordering by creation time.
func demoData() ([]entities.Book, []entities.Entry) {
	demoBooks := []entities.Book{
		{
			ID:             "demo-1",
			Title:          "Demian",
			Author:         "Hermann Hesse",
			Rating:         4.5,
			RegisteredDate: "2024-01-01",
			Review:         strPtr("A classic about growing up and finding oneself."),
		},
		{
			ID:             "demo-2",
			Title:          "The Little Prince",
			Author:         "Antoine de Saint-Exupéry",
			Rating:         4.8,
			RegisteredDate: "2024-01-15",
			Review:         strPtr("On the things grown-ups forget."),
		},
		{
			ID:             "demo-3",
			Title:          "1984",
			Author:         "George Orwell",
			Rating:         4.3,
			RegisteredDate: "2024-02-01",
			Review:         strPtr("A vivid picture of a surveillance society."),
		},
	}

	demoEntries := []entities.Entry{
		{ID: "entry-1", BookID: "demo-1", PageStart: 16, PageEnd: 16, Text: "The bird fights its way out of the egg. The egg is the world.", CreatedAt: 1704067200000},
		{ID: "entry-2", BookID: "demo-1", PageStart: 19, PageEnd: 20, Text: "If you love someone, leave no trace on them.", CreatedAt: 1704067300000},
		{ID: "entry-3", BookID: "demo-1", PageStart: 16, PageEnd: 16, Text: "Second note: more thoughts on the same page.", CreatedAt: 1704067400000},
		{ID: "entry-4", BookID: "demo-2", PageStart: 1, PageEnd: 1, Text: "Grown-ups are very strange.", CreatedAt: 1705267200000},
		{ID: "entry-5", BookID: "demo-2", PageStart: 27, PageEnd: 27, Text: "What is essential is invisible to the eye.", CreatedAt: 1705267300000},
	}

	return demoBooks, demoEntries
}
