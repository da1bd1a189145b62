package exporters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/gong/internal/entities"
)

func ptr[T any](v T) *T { return &v }

// --- BookNotesMarkdown Tests ---

func TestBookNotesMarkdown(t *testing.T) {
	book := entities.Book{
		ID:             "b1",
		Title:          `The "Glass" Bead Game`,
		Author:         "Hermann Hesse",
		Rating:         4,
		RegisteredDate: "2024-03-02",
		Review:         ptr("Slow but rewarding"),
	}

	t.Run("renders frontmatter and review", func(t *testing.T) {
		markdown := BookNotesMarkdown(book, nil)

		assert.True(t, strings.HasPrefix(markdown, "---\n"))
		assert.Contains(t, markdown, `title: "The \"Glass\" Bead Game"`)
		assert.Contains(t, markdown, `author: "Hermann Hesse"`)
		assert.Contains(t, markdown, "rating: 4.0")
		assert.Contains(t, markdown, "registered: 2024-03-02")
		assert.Contains(t, markdown, "## Review\n\nSlow but rewarding")
		assert.Contains(t, markdown, "_No notes yet._")
	})

	t.Run("groups entries by page range in given order", func(t *testing.T) {
		entries := []entities.Entry{
			{ID: "e1", PageStart: 16, PageEnd: 16, Text: "first"},
			{ID: "e2", PageStart: 16, PageEnd: 16, Text: "second\nline"},
			{ID: "e3", PageStart: 19, PageEnd: 20, Text: "range"},
		}

		markdown := BookNotesMarkdown(book, entries)

		assert.Equal(t, 1, strings.Count(markdown, "### p. 16\n"))
		assert.Contains(t, markdown, "### p. 19-20\n")
		assert.Contains(t, markdown, "> second\n> line")
		assert.Less(t, strings.Index(markdown, "first"), strings.Index(markdown, "second"))
		assert.Less(t, strings.Index(markdown, "second"), strings.Index(markdown, "range"))
		assert.NotContains(t, markdown, "_No notes yet._")
	})

	t.Run("omits empty review", func(t *testing.T) {
		noReview := book
		noReview.Review = nil
		assert.NotContains(t, BookNotesMarkdown(noReview, nil), "## Review")
	})
}

// --- MonthlySummaryMarkdown Tests ---

func TestMonthlySummaryMarkdown(t *testing.T) {
	summary := entities.MonthlySummary{
		Year:       2024,
		Month:      3,
		BookCount:  2,
		EntryCount: 3,
		AvgRating:  3.8,
		Books: []entities.MonthlyBook{
			{ID: "a", Title: "A-first", Rating: 3.5, EntryCount: 1, Review: ptr("Short")},
			{ID: "b", Title: "b-second", Rating: 4, EntryCount: 2},
		},
	}

	markdown := MonthlySummaryMarkdown(summary)

	expected := "# gong · Monthly reading log · 2024.03\n" +
		"- 2 books · 3 entries · avg ★3.8\n\n" +
		"A-first · ★3.5  |  1\n" +
		"Short\n\n" +
		"b-second · ★4.0  |  2\n\n"
	assert.Equal(t, expected, markdown)
}

func TestMonthlySummaryMarkdown_Empty(t *testing.T) {
	markdown := MonthlySummaryMarkdown(entities.MonthlySummary{Year: 2020, Month: 12})

	assert.Equal(t, "# gong · Monthly reading log · 2020.12\n- 0 books · 0 entries · avg ★0\n\n", markdown)
}

// --- MarkdownExporter Tests ---

func TestMarkdownExporter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "notes")
	exporter := NewMarkdownExporter(dir)

	result, err := exporter.Export([]BookNotes{
		{
			Book:    entities.Book{ID: "b1", Title: "Demian", Author: "Hesse", Rating: 4.5},
			Entries: []entities.Entry{{ID: "e1", PageStart: 1, PageEnd: 1, Text: "hello"}},
		},
		{
			Book: entities.Book{ID: "b2", Title: "Either/Or", Author: "Kierkegaard", Rating: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.BooksProcessed)
	assert.Equal(t, 1, result.EntriesProcessed)
	assert.Zero(t, result.BooksFailed)
	require.Len(t, result.Files, 2)

	content, err := os.ReadFile(filepath.Join(dir, "Demian.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "> hello")
	assert.FileExists(t, filepath.Join(dir, "Either_Or.md"))
}

func TestMarkdownExporter_ResetsResultBetweenRuns(t *testing.T) {
	exporter := NewMarkdownExporter(t.TempDir())
	notes := []BookNotes{{Book: entities.Book{ID: "b1", Title: "Demian"}}}

	_, err := exporter.Export(notes)
	require.NoError(t, err)
	result, err := exporter.Export(notes)
	require.NoError(t, err)

	assert.Equal(t, 1, result.BooksProcessed)
}
