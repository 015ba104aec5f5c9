package model

// SavedBook is a snapshot of catalog metadata taken when the book was
// saved. It is owned by its parent User; book_id is unique per user so
// the collection behaves as a set even though it is stored as rows.
type SavedBook struct {
	ID          uint     `json:"-" gorm:"primaryKey"`
	UserID      string   `json:"-" gorm:"size:36;not null;uniqueIndex:idx_user_book"`
	BookID      string   `json:"bookId" gorm:"size:255;not null;uniqueIndex:idx_user_book"`
	Authors     []string `json:"authors" gorm:"serializer:json"`
	Description string   `json:"description" gorm:"type:text"`
	Title       string   `json:"title" gorm:"size:512;not null"`
	Image       string   `json:"image,omitempty" gorm:"size:1024"`
	Link        string   `json:"link,omitempty" gorm:"size:1024"`
}
