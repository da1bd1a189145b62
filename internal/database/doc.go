// Package database owns the embedded SQLite store of the reading notes.
//
// # Architecture
//
//	database/
//	├── database.go      # Store handle: open, close, transactions, ping
//	├── migrations.go    # Ordered, recorded schema migrations and settings seeding
//	├── errors.go        # Error taxonomy and SQLite error translation
//	├── books/           # Book CRUD, cascade delete, monthly summary
//	├── entries/         # Entry CRUD with page-range invariants
//	└── settings/        # Typed display preferences
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./gong.db")
//	booksRepo := books.NewRepository(db.DB)
//	entriesRepo := entries.NewRepository(db.DB)
//
//	id, err := booksRepo.Create(ctx, entities.NewBook{Title: "Demian", Author: "Hermann Hesse", Rating: 4.5})
//
// Every repository operation runs inside one transaction. Repositories built
// on a transaction handle (inside Database.Transaction) join that transaction,
// which is how the backup engine restores all tables atomically.
//
// # Errors
//
// Callers test failures with errors.Is against ErrNotFound, ErrConstraint,
// ErrForeignKey, ErrUnknownSetting, ErrFormat and ErrSchema.
//
// # Adding a Migration
//
// Append a step to the migrations slice with the next version number. Steps
// run once, in order, each in its own transaction, and are recorded in the
// schema_migrations table.
package database
