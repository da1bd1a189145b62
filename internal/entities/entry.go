package entities

// Entry is a page-anchored excerpt attached to a Book.
type Entry struct {
	ID        string `gorm:"primaryKey;type:text" json:"id" validate:"required"`
	BookID    string `gorm:"column:book_id;not null" json:"book_id" validate:"required"`
	PageStart int    `gorm:"column:page_start;not null" json:"page_start" validate:"min=1"`
	PageEnd   int    `gorm:"column:page_end;not null" json:"page_end" validate:"gtefield=PageStart"`
	Text      string `gorm:"not null" json:"text" validate:"required"`
	CreatedAt int64  `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"` // epoch millis
}

func (Entry) TableName() string {
	return "entries"
}

// NewEntry carries the fields supplied when adding an entry.
type NewEntry struct {
	BookID    string `json:"book_id" validate:"required"`
	PageStart int    `json:"page_start" validate:"min=1"`
	PageEnd   int    `json:"page_end" validate:"gtefield=PageStart"`
	Text      string `json:"text" validate:"required"`
}

// EntryPatch is a partial update: nil fields are left unchanged.
type EntryPatch struct {
	PageStart *int    `json:"page_start,omitempty"`
	PageEnd   *int    `json:"page_end,omitempty"`
	Text      *string `json:"text,omitempty"`
}

// IsEmpty reports whether the patch touches no field.
func (p EntryPatch) IsEmpty() bool {
	return p.PageStart == nil && p.PageEnd == nil && p.Text == nil
}
