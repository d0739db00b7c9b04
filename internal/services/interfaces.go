package services

import "budgetbook/internal/models"

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
}

// EntryServicer defines the contract for budget-entry business logic.
type EntryServicer interface {
	CreateEntry(userID uint, date models.Date, entryType models.EntryType, category string, amount float64) (*models.Entry, error)
	GetUserEntries(userID uint) ([]models.Entry, error)
	DeleteEntry(userID, entryID uint) error
}
