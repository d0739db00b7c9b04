package models

import "time"

// EntryType represents the type of a budget entry
type EntryType string

const (
	EntryTypeIncome  EntryType = "Income"
	EntryTypeExpense EntryType = "Expense"
)

// Valid reports whether the type is one of the two permitted tags.
func (t EntryType) Valid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// Entry represents a single dated income or expense record owned by one user.
// Entries are created and deleted, never updated.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      Date      `gorm:"not null" json:"date"`
	Type      EntryType `gorm:"not null" json:"type"`
	Category  string    `gorm:"not null" json:"category"`
	Amount    float64   `gorm:"not null" json:"amount"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
