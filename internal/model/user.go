package model

import "time"

// User represents an authenticated user and their saved-book collection.
type User struct {
	ID           string      `json:"_id" gorm:"primaryKey;size:36"`
	Username     string      `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email        string      `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string      `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	SavedBooks   []SavedBook `json:"savedBooks" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	BookCount    int         `json:"bookCount" gorm:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
