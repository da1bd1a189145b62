// Package entries provides database operations for page-anchored reading
// notes.
//
// Entries of a book are always returned in reading order: by page_start,
// then page_end, then creation time, with the id as a final tiebreak.
package entries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/gong/internal/database"
	"github.com/mrlokans/gong/internal/entities"
	"github.com/mrlokans/gong/internal/pagerange"
	"github.com/mrlokans/gong/internal/validation"
)

// Repository handles all entry database operations.
type Repository struct {
	db       *gorm.DB
	validate *validation.Validator
	now      func() time.Time
}

// NewRepository creates a new entries repository. db may be a transaction
// handle, in which case every call joins that transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:       db,
		validate: validation.New(),
		now:      time.Now,
	}
}

func readingOrder(db *gorm.DB) *gorm.DB {
	return db.Order("page_start ASC").Order("page_end ASC").Order("created_at ASC").Order("id ASC")
}

// GetByBookID returns the entries of a book in reading order. A book with
// no entries, or no book at all, yields an empty slice.
func (r *Repository) GetByBookID(ctx context.Context, bookID string) ([]entities.Entry, error) {
	var entries []entities.Entry
	err := r.db.WithContext(ctx).Where("book_id = ?", bookID).Scopes(readingOrder).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for book %s: %w", bookID, err)
	}
	return entries, nil
}

// GetByID retrieves an entry by its ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Entry, error) {
	var entry entities.Entry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &entry, nil
}

// Create validates and inserts a new entry, returning its generated ID.
func (r *Repository) Create(ctx context.Context, ne entities.NewEntry) (string, error) {
	entry := entities.Entry{
		ID:        uuid.NewString(),
		BookID:    ne.BookID,
		PageStart: ne.PageStart,
		PageEnd:   ne.PageEnd,
		Text:      ne.Text,
	}
	if err := r.validate.Struct(entry); err != nil {
		return "", database.ConstraintError(err)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var books int64
		if err := tx.Model(&entities.Book{}).Where("id = ?", entry.BookID).Count(&books).Error; err != nil {
			return err
		}
		if books == 0 {
			return fmt.Errorf("book %s: %w", entry.BookID, database.ErrForeignKey)
		}

		createdAt, err := r.nextCreatedAt(tx)
		if err != nil {
			return err
		}
		entry.CreatedAt = createdAt
		return tx.Create(&entry).Error
	})
	if err != nil {
		return "", database.TranslateError(err)
	}
	return entry.ID, nil
}

// CreateFromInput parses a textual page reference such as "p.16" or
// "19-20" and creates the entry. Unparsable input is a constraint error.
func (r *Repository) CreateFromInput(ctx context.Context, bookID, pageInput, text string) (string, error) {
	pages, ok := pagerange.Parse(pageInput)
	if !ok {
		return "", database.ConstraintError(fmt.Errorf("invalid page reference %q", pageInput))
	}
	return r.Create(ctx, entities.NewEntry{
		BookID:    bookID,
		PageStart: pages.Start,
		PageEnd:   pages.End,
		Text:      text,
	})
}

// nextCreatedAt returns the current time in milliseconds, bumped past the
// newest stored entry so creation timestamps strictly increase.
func (r *Repository) nextCreatedAt(tx *gorm.DB) (int64, error) {
	var latest int64
	err := tx.Model(&entities.Entry{}).Select("COALESCE(MAX(created_at), 0)").Scan(&latest).Error
	if err != nil {
		return 0, err
	}
	return max(r.now().UnixMilli(), latest+1), nil
}

// Update applies the non-nil fields of patch. The merged page range is
// validated before anything is written.
func (r *Repository) Update(ctx context.Context, id string, patch entities.EntryPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry entities.Entry
		if err := tx.Where("id = ?", id).First(&entry).Error; err != nil {
			return database.TranslateError(err)
		}

		updates := make(map[string]any)
		if patch.PageStart != nil {
			entry.PageStart = *patch.PageStart
			updates["page_start"] = entry.PageStart
		}
		if patch.PageEnd != nil {
			entry.PageEnd = *patch.PageEnd
			updates["page_end"] = entry.PageEnd
		}
		if patch.Text != nil {
			entry.Text = *patch.Text
			updates["text"] = entry.Text
		}

		if err := r.validate.Struct(entry); err != nil {
			return database.ConstraintError(err)
		}

		err := tx.Model(&entities.Entry{}).Where("id = ?", id).Updates(updates).Error
		return database.TranslateError(err)
	})
}

// Delete removes a single entry.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&entities.Entry{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete entry %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("entry %s: %w", id, database.ErrNotFound)
		}
		return nil
	})
}

// List returns every entry in id order.
func (r *Repository) List(ctx context.Context) ([]entities.Entry, error) {
	var entries []entities.Entry
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// InsertAll inserts entries verbatim, keeping their IDs and timestamps.
func (r *Repository) InsertAll(ctx context.Context, entries []entities.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(entries, 100).Error; err != nil {
		return fmt.Errorf("failed to insert entries: %w", database.TranslateError(err))
	}
	return nil
}

// DeleteAll removes every entry row.
func (r *Repository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&entities.Entry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	return nil
}
