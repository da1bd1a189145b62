package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mrlokans/gong/internal/entities"
	"github.com/mrlokans/gong/internal/pagerange"
	"github.com/mrlokans/gong/internal/utils"
)

// MarkdownExporter writes one notes file per book into Dir.
type MarkdownExporter struct {
	Dir    string
	Result ExportResult
}

func NewMarkdownExporter(dir string) *MarkdownExporter {
	return &MarkdownExporter{Dir: dir}
}

func quote(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

// BookNotesMarkdown renders a book and its entries. Entries are expected in
// reading order; consecutive entries on the same page range share a heading.
func BookNotesMarkdown(book entities.Book, entries []entities.Entry) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_type: reading_notes\n")
	fmt.Fprintf(&builder, "title: %s\n", quote(book.Title))
	fmt.Fprintf(&builder, "author: %s\n", quote(book.Author))
	fmt.Fprintf(&builder, "rating: %s\n", formatRating(book.Rating))
	fmt.Fprintf(&builder, "registered: %s\n", book.RegisteredDate)
	fmt.Fprintf(&builder, "---\n\n")
	fmt.Fprintf(&builder, "# %s\n\n", book.Title)

	if book.Review != nil && *book.Review != "" {
		fmt.Fprintf(&builder, "## Review\n\n%s\n\n", *book.Review)
	}

	fmt.Fprintf(&builder, "## Notes\n\n")
	if len(entries) == 0 {
		fmt.Fprintf(&builder, "_No notes yet._\n")
		return builder.String()
	}

	var current pagerange.Range
	for _, entry := range entries {
		pages := pagerange.Range{Start: entry.PageStart, End: entry.PageEnd}
		if pages != current {
			fmt.Fprintf(&builder, "### p. %s\n\n", pages)
			current = pages
		}
		fmt.Fprintf(&builder, "> %s\n\n", strings.ReplaceAll(entry.Text, "\n", "\n> "))
	}

	return builder.String()
}

// MonthlySummaryMarkdown renders the shareable text of a monthly summary.
func MonthlySummaryMarkdown(summary entities.MonthlySummary) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "# gong · Monthly reading log · %04d.%02d\n", summary.Year, summary.Month)
	fmt.Fprintf(&builder, "- %d books · %d entries · avg ★%s\n\n",
		summary.BookCount, summary.EntryCount, strconv.FormatFloat(summary.AvgRating, 'f', -1, 64))

	for _, book := range summary.Books {
		fmt.Fprintf(&builder, "%s · ★%s  |  %d\n", book.Title, formatRating(book.Rating), book.EntryCount)
		if book.Review != nil && *book.Review != "" {
			fmt.Fprintf(&builder, "%s\n", *book.Review)
		}
		fmt.Fprintf(&builder, "\n")
	}

	return builder.String()
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// fileName derives a file-system safe name from a book title.
func fileName(book entities.Book) string {
	return utils.SanitizeFilename(book.Title, book.ID) + ".md"
}

func (exporter *MarkdownExporter) Export(notes []BookNotes) (ExportResult, error) {
	// Reset result state for each export
	exporter.Result = ExportResult{}

	if err := os.MkdirAll(exporter.Dir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	for _, n := range notes {
		path := filepath.Join(exporter.Dir, fileName(n.Book))
		content := BookNotesMarkdown(n.Book, n.Entries)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			exporter.Result.BooksFailed++
			continue
		}
		exporter.Result.BooksProcessed++
		exporter.Result.EntriesProcessed += len(n.Entries)
		exporter.Result.Files = append(exporter.Result.Files, path)
	}

	return exporter.Result, nil
}
