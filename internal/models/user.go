package models

import "time"

// User represents the user model in the database. Usernames are matched
// case-sensitively and are immutable after creation.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Entries []Entry `gorm:"foreignKey:UserID" json:"entries,omitempty"`
}
