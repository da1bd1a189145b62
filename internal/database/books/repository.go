// Package books provides database operations for tracked books and the
// monthly reading summary.
//
// # Usage
//
//	repo := books.NewRepository(db.DB)
//	id, err := repo.Create(ctx, entities.NewBook{Title: "Demian", Author: "Hesse", Rating: 4.5})
//	book, err := repo.GetByID(ctx, id)
//
// Absence is reported as database.ErrNotFound and invariant violations as
// database.ErrConstraint; callers match them with errors.Is.
package books

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/gong/internal/database"
	"github.com/mrlokans/gong/internal/entities"
	"github.com/mrlokans/gong/internal/validation"
)

// registeredDateLayout matches the ISO-8601 timestamps the store has always
// held in registered_date.
const registeredDateLayout = "2006-01-02T15:04:05.000Z"

// Repository handles all book database operations.
type Repository struct {
	db       *gorm.DB
	validate *validation.Validator
	now      func() time.Time
}

// NewRepository creates a new books repository. db may be a transaction
// handle, in which case every call joins that transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:       db,
		validate: validation.New(),
		now:      time.Now,
	}
}

// GetAll returns every book ordered by title, case-insensitively.
func (r *Repository) GetAll(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Order("title COLLATE NOCASE ASC").Order("id ASC").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// GetByID retrieves a book by its ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &book, nil
}

// Create validates and inserts a new book, returning its generated ID.
// An empty registered date defaults to the current time.
func (r *Repository) Create(ctx context.Context, nb entities.NewBook) (string, error) {
	book := entities.Book{
		ID:             uuid.NewString(),
		Title:          nb.Title,
		Author:         nb.Author,
		Rating:         nb.Rating,
		RegisteredDate: nb.RegisteredDate,
		Review:         normalizeReview(nb.Review),
	}
	if book.RegisteredDate == "" {
		book.RegisteredDate = r.now().UTC().Format(registeredDateLayout)
	}
	if err := r.validate.Struct(book); err != nil {
		return "", database.ConstraintError(err)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&book).Error
	})
	if err != nil {
		return "", database.TranslateError(err)
	}
	return book.ID, nil
}

// Update applies the non-nil fields of patch to the book. The merged row is
// validated as a whole before anything is written.
func (r *Repository) Update(ctx context.Context, id string, patch entities.BookPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.Where("id = ?", id).First(&book).Error; err != nil {
			return database.TranslateError(err)
		}

		updates := make(map[string]any)
		if patch.Title != nil {
			book.Title = *patch.Title
			updates["title"] = book.Title
		}
		if patch.Author != nil {
			book.Author = *patch.Author
			updates["author"] = book.Author
		}
		if patch.Rating != nil {
			book.Rating = *patch.Rating
			updates["rating"] = book.Rating
		}
		if patch.RegisteredDate != nil {
			book.RegisteredDate = *patch.RegisteredDate
			updates["registered_date"] = book.RegisteredDate
		}
		if patch.Review != nil {
			book.Review = normalizeReview(patch.Review)
			updates["review"] = book.Review
		}

		if err := r.validate.Struct(book); err != nil {
			return database.ConstraintError(err)
		}

		err := tx.Model(&entities.Book{}).Where("id = ?", id).Updates(updates).Error
		return database.TranslateError(err)
	})
}

// Delete removes a book together with all of its entries.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.Entry{}).Error; err != nil {
			return fmt.Errorf("failed to delete entries of book %s: %w", id, err)
		}
		result := tx.Where("id = ?", id).Delete(&entities.Book{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete book %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("book %s: %w", id, database.ErrNotFound)
		}
		return nil
	})
}

// monthlyRow is the scan target of the monthly summary query.
type monthlyRow struct {
	ID         string
	Title      string
	Rating     float64
	Review     *string
	EntryCount int
}

// MonthlySummary aggregates the books registered in the given month with
// their entry counts. An empty month yields zero totals and no books.
func (r *Repository) MonthlySummary(ctx context.Context, year, month int) (*entities.MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, database.ConstraintError(fmt.Errorf("month %d out of range", month))
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var rows []monthlyRow
	err := r.db.WithContext(ctx).
		Table("books AS b").
		Select("b.id, b.title, b.rating, b.review, COUNT(e.id) AS entry_count").
		Joins("LEFT JOIN entries AS e ON e.book_id = b.id").
		Where("b.registered_date >= ? AND b.registered_date < ?", start.Format(time.DateOnly), end.Format(time.DateOnly)).
		Group("b.id").
		Order("b.title COLLATE NOCASE ASC").Order("b.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build monthly summary: %w", err)
	}

	summary := &entities.MonthlySummary{
		Year:  year,
		Month: month,
		Books: make([]entities.MonthlyBook, 0, len(rows)),
	}
	var ratingSum float64
	for _, row := range rows {
		summary.Books = append(summary.Books, entities.MonthlyBook{
			ID:         row.ID,
			Title:      row.Title,
			Rating:     row.Rating,
			Review:     row.Review,
			EntryCount: row.EntryCount,
		})
		summary.EntryCount += row.EntryCount
		ratingSum += row.Rating
	}
	summary.BookCount = len(rows)
	if summary.BookCount > 0 {
		summary.AvgRating = math.Round(ratingSum/float64(summary.BookCount)*10) / 10
	}
	return summary, nil
}

// List returns every book in id order. It runs on the repository handle
// without opening a transaction of its own.
func (r *Repository) List(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// InsertAll inserts books verbatim, keeping their IDs.
func (r *Repository) InsertAll(ctx context.Context, books []entities.Book) error {
	if len(books) == 0 {
		return nil
	}
	for i := range books {
		books[i].Review = normalizeReview(books[i].Review)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(books, 100).Error; err != nil {
		return fmt.Errorf("failed to insert books: %w", database.TranslateError(err))
	}
	return nil
}

// DeleteAll removes every book row.
func (r *Repository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&entities.Book{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete books: %w", err)
	}
	return nil
}

// normalizeReview stores an empty review as NULL.
func normalizeReview(review *string) *string {
	if review == nil || *review == "" {
		return nil
	}
	return review
}
