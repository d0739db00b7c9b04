package services

import (
	"gorm.io/gorm"

	apperrors "budgetbook/internal/errors"
	"budgetbook/internal/models"
)

// entryService handles budget-entry business logic. Every operation is scoped
// to the owning user; ownership is part of each query, never checked after
// the fact.
type entryService struct {
	db *gorm.DB
}

// NewEntryService creates a new EntryServicer.
func NewEntryService(db *gorm.DB) EntryServicer {
	return &entryService{db: db}
}

// CreateEntry persists a new entry owned by userID and returns the stored
// record including its assigned ID. The category is free text and the date is
// not range-checked.
func (s *entryService) CreateEntry(userID uint, date models.Date, entryType models.EntryType, category string, amount float64) (*models.Entry, error) {
	if !entryType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be Income or Expense")
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	entry := &models.Entry{
		Date:     date,
		Type:     entryType,
		Category: category,
		Amount:   amount,
		UserID:   userID,
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return entry, nil
}

// GetUserEntries returns every entry owned by userID, newest first.
func (s *entryService) GetUserEntries(userID uint) ([]models.Entry, error) {
	var entries []models.Entry
	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// DeleteEntry permanently removes an entry owned by userID. A missing entry
// and an entry owned by someone else both return ErrNotFound; the caller
// cannot tell them apart.
func (s *entryService) DeleteEntry(userID, entryID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", entryID, userID).Delete(&models.Entry{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
