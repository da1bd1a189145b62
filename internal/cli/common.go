package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mrlokans/gong/internal/database"
)

// openDatabase opens the store at path, creating and migrating it as needed.
func openDatabase(ctx context.Context, path string) (*database.Database, error) {
	db, err := database.Open(ctx, path, database.Options{LogLevel: "silent"})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func closeDatabase(db *database.Database) {
	if err := db.Close(); err != nil {
		slog.Error("error closing database", slog.Any("err", err))
	}
}

func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
