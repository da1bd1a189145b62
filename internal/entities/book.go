package entities

// Book is a tracked reading item.
type Book struct {
	ID             string  `gorm:"primaryKey;type:text" json:"id" validate:"required"`
	Title          string  `gorm:"not null" json:"title" validate:"required"`
	Author         string  `gorm:"not null" json:"author" validate:"required"`
	Rating         float64 `gorm:"not null" json:"rating" validate:"gte=0,lte=5"`
	RegisteredDate string  `gorm:"column:registered_date;not null" json:"registeredDate"`
	Review         *string `json:"review,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

// NewBook carries the fields supplied when registering a book.
type NewBook struct {
	Title          string  `json:"title" validate:"required"`
	Author         string  `json:"author" validate:"required"`
	Rating         float64 `json:"rating" validate:"gte=0,lte=5"`
	RegisteredDate string  `json:"registeredDate"`
	Review         *string `json:"review,omitempty"`
}

// BookPatch is a partial update: nil fields are left unchanged.
// A non-nil empty Review clears the review.
type BookPatch struct {
	Title          *string  `json:"title,omitempty"`
	Author         *string  `json:"author,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	RegisteredDate *string  `json:"registeredDate,omitempty"`
	Review         *string  `json:"review,omitempty"`
}

// IsEmpty reports whether the patch touches no field.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Rating == nil &&
		p.RegisteredDate == nil && p.Review == nil
}

// MonthlyBook is one row of a monthly reading summary.
type MonthlyBook struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Rating     float64 `json:"rating"`
	Review     *string `json:"review,omitempty"`
	EntryCount int     `json:"entryCount"`
}

// MonthlySummary aggregates the books registered in one calendar month.
type MonthlySummary struct {
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	BookCount  int           `json:"bookCount"`
	EntryCount int           `json:"entryCount"`
	AvgRating  float64       `json:"avgRating"`
	Books      []MonthlyBook `json:"books"`
}
