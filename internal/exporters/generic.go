package exporters

import "github.com/mrlokans/gong/internal/entities"

// BookNotes pairs a book with its entries in reading order.
type BookNotes struct {
	Book    entities.Book
	Entries []entities.Entry
}

type NotesExporter interface {
	Export(notes []BookNotes) (ExportResult, error)
}

type ExportResult struct {
	BooksProcessed   int      `json:"books_processed"`
	EntriesProcessed int      `json:"entries_processed"`
	BooksFailed      int      `json:"books_failed"`
	Files            []string `json:"files"`
}
