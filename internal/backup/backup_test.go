package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/gong/internal/database"
	"github.com/mrlokans/gong/internal/database/books"
	"github.com/mrlokans/gong/internal/database/entries"
	"github.com/mrlokans/gong/internal/database/settings"
	"github.com/mrlokans/gong/internal/entities"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "backup.db"), database.Options{LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// seed fills the store with two books, three entries and one changed setting.
func seed(t *testing.T, db *database.Database) {
	t.Helper()
	ctx := context.Background()
	bookRepo := books.NewRepository(db.DB)
	entryRepo := entries.NewRepository(db.DB)

	review := "Unforgettable"
	demian, err := bookRepo.Create(ctx, entities.NewBook{Title: "Demian", Author: "Hesse", Rating: 4.5, RegisteredDate: "2024-03-02", Review: &review})
	require.NoError(t, err)
	_, err = bookRepo.Create(ctx, entities.NewBook{Title: "Siddhartha", Author: "Hesse", Rating: 4, RegisteredDate: "2024-03-10"})
	require.NoError(t, err)

	for _, page := range []string{"16", "p.16", "19-20"} {
		_, err := entryRepo.CreateFromInput(ctx, demian, page, "note at "+page)
		require.NoError(t, err)
	}
	require.NoError(t, settings.NewRepository(db.DB).Update(ctx, entities.SettingFontSize, entities.EnumValue("large")))
}

func exportString(t *testing.T, svc *Service) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := svc.Export(context.Background(), &buf)
	require.NoError(t, err)
	return buf.String()
}

func TestService_ExportImport_RoundTrip(t *testing.T) {
	source := setupTestDB(t)
	seed(t, source)
	srcSvc := NewService(source, nil)

	var buf bytes.Buffer
	snap, err := srcSvc.Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, snap.Version)
	assert.Equal(t, Counts{Books: 2, Entries: 3, Settings: len(entities.SettingKeys())}, snap.Counts())

	target := setupTestDB(t)
	tgtSvc := NewService(target, nil)
	result, err := tgtSvc.Import(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Restored.Books)
	assert.Equal(t, 3, result.Restored.Entries)

	again, err := tgtSvc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap.Books, again.Books)
	assert.Equal(t, snap.Entries, again.Entries)
	assert.Equal(t, snap.Settings, again.Settings)
}

func TestService_Export_EmptyStoreUsesArrays(t *testing.T) {
	db := setupTestDB(t)
	out := exportString(t, NewService(db, nil))

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	assert.Equal(t, []any{}, raw["books"])
	assert.Equal(t, []any{}, raw["entries"])

	// An empty snapshot restores cleanly
	_, err := NewService(db, nil).Import(context.Background(), strings.NewReader(out))
	assert.NoError(t, err)
}

func TestService_Import_ReplacesExistingData(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	svc := NewService(db, nil)

	snapshot := `{
		"version": "1.0.0",
		"timestamp": 1700000000000,
		"books": [{"id": "b1", "title": "Only", "author": "Me", "rating": 3, "registeredDate": "2023-01-01", "review": null}],
		"entries": [{"id": "e1", "book_id": "b1", "page_start": 2, "page_end": 4, "text": "kept", "created_at": 5}],
		"settings": [{"key": "viewMode", "value": "continuous"}]
	}`
	_, err := svc.Import(context.Background(), strings.NewReader(snapshot))
	require.NoError(t, err)

	all, err := books.NewRepository(db.DB).GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b1", all[0].ID)
	assert.Nil(t, all[0].Review)

	got, err := settings.NewRepository(db.DB).GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "continuous", got.Tag(entities.SettingViewMode))
	// Missing keys are re-seeded with defaults, changed ones are not carried over
	assert.Equal(t, "medium", got.Tag(entities.SettingFontSize))
	assert.Len(t, got, len(entities.SettingKeys()))
}

func TestService_Import_RejectsMalformedWithoutMutation(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
	}{
		{"not json", `{{{`},
		{"missing version", `{"books": [], "entries": []}`},
		{"missing books", `{"version": "1.0.0", "entries": []}`},
		{"books not an array", `{"version": "1.0.0", "books": {}, "entries": []}`},
		{"unsupported major version", `{"version": "2.0.0", "books": [], "entries": []}`},
		{"entry for missing book", `{"version": "1.0.0", "books": [], "entries": [
			{"id": "e1", "book_id": "ghost", "page_start": 1, "page_end": 1, "text": "x", "created_at": 1}]}`},
		{"duplicate book id", `{"version": "1.0.0", "entries": [], "books": [
			{"id": "b", "title": "T", "author": "A", "rating": 1, "registeredDate": "2024-01-01"},
			{"id": "b", "title": "U", "author": "A", "rating": 1, "registeredDate": "2024-01-01"}]}`},
		{"rating out of range", `{"version": "1.0.0", "entries": [], "books": [
			{"id": "b", "title": "T", "author": "A", "rating": 9, "registeredDate": "2024-01-01"}]}`},
		{"inverted page range", `{"version": "1.0.0",
			"books": [{"id": "b", "title": "T", "author": "A", "rating": 1, "registeredDate": "2024-01-01"}],
			"entries": [{"id": "e", "book_id": "b", "page_start": 5, "page_end": 4, "text": "x", "created_at": 1}]}`},
		{"unknown setting", `{"version": "1.0.0", "books": [], "entries": [], "settings": [{"key": "theme", "value": "dark"}]}`},
		{"setting outside domain", `{"version": "1.0.0", "books": [], "entries": [], "settings": [{"key": "fontSize", "value": "huge"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			seed(t, db)
			svc := NewService(db, nil)
			before, err := svc.Snapshot(context.Background())
			require.NoError(t, err)

			_, err = svc.Import(context.Background(), strings.NewReader(tt.snapshot))
			require.Error(t, err)
			assert.True(t, errors.Is(err, database.ErrFormat), "got %v", err)

			after, err := svc.Snapshot(context.Background())
			require.NoError(t, err)
			assert.Equal(t, before.Books, after.Books)
			assert.Equal(t, before.Entries, after.Entries)
			assert.Equal(t, before.Settings, after.Settings)
		})
	}
}

func TestService_Import_WriteFailureRollsBack(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	svc := NewService(db, nil)
	before, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	require.NoError(t, db.DB.Exec(`CREATE TRIGGER reject_boom BEFORE INSERT ON entries
		WHEN NEW.text = 'boom' BEGIN SELECT RAISE(ABORT, 'boom'); END`).Error)

	snapshot := `{"version": "1.0.0",
		"books": [{"id": "b", "title": "T", "author": "A", "rating": 1, "registeredDate": "2024-01-01"}],
		"entries": [{"id": "e", "book_id": "b", "page_start": 1, "page_end": 1, "text": "boom", "created_at": 1}]}`
	_, err = svc.Import(context.Background(), strings.NewReader(snapshot))
	require.Error(t, err)
	assert.False(t, errors.Is(err, database.ErrFormat))

	after, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before.Books, after.Books)
	assert.Equal(t, before.Entries, after.Entries)
	assert.Equal(t, before.Settings, after.Settings)
}

func TestService_ExportToFile(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	svc := NewService(db, nil)
	dir := filepath.Join(t.TempDir(), "backups")
	day := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)

	first, err := svc.ExportToFile(context.Background(), dir, day)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gong_backup_2024-03-02.json"), first)

	second, err := svc.ExportToFile(context.Background(), dir, day)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gong_backup_2024-03-02-2.json"), second)

	f, err := os.Open(second)
	require.NoError(t, err)
	defer f.Close()
	snap, err := svc.Validate(f)
	require.NoError(t, err)
	assert.Len(t, snap.Books, 2)
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		path := filepath.Join(dir, FileName(base.AddDate(0, 0, i), 1))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
		mtime := base.AddDate(0, 0, i)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644))

	removed, err := Prune(dir, 2)
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	files, err := ListFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "gong_backup_2024-01-04.json", files[0].Name)
	assert.Equal(t, "gong_backup_2024-01-03.json", files[1].Name)
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))

	removed, err = Prune(dir, 0)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestListFiles_MissingDir(t *testing.T) {
	files, err := ListFiles(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
