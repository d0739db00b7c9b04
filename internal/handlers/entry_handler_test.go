package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "budgetbook/internal/errors"
	"budgetbook/internal/models"
)

// --- mock service ---

type mockEntryService struct {
	createEntryFn    func(userID uint, date models.Date, entryType models.EntryType, category string, amount float64) (*models.Entry, error)
	getUserEntriesFn func(userID uint) ([]models.Entry, error)
	deleteEntryFn    func(userID, entryID uint) error
}

func (m *mockEntryService) CreateEntry(userID uint, date models.Date, entryType models.EntryType, category string, amount float64) (*models.Entry, error) {
	if m.createEntryFn != nil {
		return m.createEntryFn(userID, date, entryType, category, amount)
	}
	return &models.Entry{}, nil
}

func (m *mockEntryService) GetUserEntries(userID uint) ([]models.Entry, error) {
	if m.getUserEntriesFn != nil {
		return m.getUserEntriesFn(userID)
	}
	return nil, nil
}

func (m *mockEntryService) DeleteEntry(userID, entryID uint) error {
	if m.deleteEntryFn != nil {
		return m.deleteEntryFn(userID, entryID)
	}
	return nil
}

func setupEntryRouter(handler *EntryHandler) *gin.Engine {
	r := gin.New()
	entries := r.Group("/entries", injectUserID(1))
	entries.POST("", handler.Create)
	entries.GET("", handler.List)
	entries.GET("/export", handler.Export)
	entries.DELETE("/:id", handler.Delete)
	return r
}

// --- tests ---

func TestEntryHandler_Create(t *testing.T) {
	t.Run("returns 201 with the stored entry", func(t *testing.T) {
		entrySvc := &mockEntryService{
			createEntryFn: func(userID uint, date models.Date, entryType models.EntryType, category string, amount float64) (*models.Entry, error) {
				return &models.Entry{
					ID:       1,
					Date:     date,
					Type:     entryType,
					Category: category,
					Amount:   amount,
					UserID:   userID,
				}, nil
			},
		}
		r := setupEntryRouter(NewEntryHandler(entrySvc))

		rec := doRequest(r, "POST", "/entries",
			`{"date":"2024-01-01","type":"Expense","category":"Groceries","amount":45.50}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["id"] != float64(1) {
			t.Errorf("expected id 1, got %v", result["id"])
		}
		if result["date"] != "2024-01-01" {
			t.Errorf("expected date 2024-01-01, got %v", result["date"])
		}
		if result["type"] != "Expense" {
			t.Errorf("expected type Expense, got %v", result["type"])
		}
		if result["amount"] != 45.50 {
			t.Errorf("expected amount 45.50, got %v", result["amount"])
		}
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		r := setupEntryRouter(NewEntryHandler(&mockEntryService{}))

		rec := doRequest(r, "POST", "/entries",
			`{"date":"2024-01-01","type":"Transfer","category":"Groceries","amount":10}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on negative amount", func(t *testing.T) {
		r := setupEntryRouter(NewEntryHandler(&mockEntryService{}))

		rec := doRequest(r, "POST", "/entries",
			`{"date":"2024-01-01","type":"Expense","category":"Groceries","amount":-5}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("accepts a zero amount", func(t *testing.T) {
		r := setupEntryRouter(NewEntryHandler(&mockEntryService{}))

		rec := doRequest(r, "POST", "/entries",
			`{"date":"2024-01-01","type":"Income","category":"Nothing","amount":0}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		r := setupEntryRouter(NewEntryHandler(&mockEntryService{}))

		rec := doRequest(r, "POST", "/entries",
			`{"date":"01/02/2024","type":"Expense","category":"Groceries","amount":10}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestEntryHandler_List(t *testing.T) {
	t.Run("returns the caller's entries", func(t *testing.T) {
		entrySvc := &mockEntryService{
			getUserEntriesFn: func(userID uint) ([]models.Entry, error) {
				return []models.Entry{
					{ID: 2, Date: models.NewDate(2024, time.February, 1), Type: models.EntryTypeIncome, Category: "Salary", Amount: 1000, UserID: userID},
					{ID: 1, Date: models.NewDate(2024, time.January, 1), Type: models.EntryTypeExpense, Category: "Groceries", Amount: 45.50, UserID: userID},
				}, nil
			},
		}
		r := setupEntryRouter(NewEntryHandler(entrySvc))

		rec := doRequest(r, "GET", "/entries", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		entries := result["entries"].([]interface{})
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		first := entries[0].(map[string]interface{})
		if first["category"] != "Salary" {
			t.Errorf("expected first entry Salary, got %v", first["category"])
		}
	})

	t.Run("returns an empty list, not null", func(t *testing.T) {
		r := setupEntryRouter(NewEntryHandler(&mockEntryService{}))

		rec := doRequest(r, "GET", "/entries", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"entries":[]`) {
			t.Errorf("expected empty entries array, got %s", rec.Body.String())
		}
	})
}

func TestEntryHandler_Delete(t *testing.T) {
	t.Run("returns confirmation on success", func(t *testing.T) {
		deleted := uint(0)
		entrySvc := &mockEntryService{
			deleteEntryFn: func(userID, entryID uint) error {
				deleted = entryID
				return nil
			},
		}
		r := setupEntryRouter(NewEntryHandler(entrySvc))

		rec := doRequest(r, "DELETE", "/entries/42", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deleted != 42 {
			t.Errorf("expected entry 42 to be deleted, got %d", deleted)
		}
	})

	t.Run("returns 404 when the service reports not found", func(t *testing.T) {
		entrySvc := &mockEntryService{
			deleteEntryFn: func(userID, entryID uint) error {
				return apperrors.ErrNotFound
			},
		}
		r := setupEntryRouter(NewEntryHandler(entrySvc))

		rec := doRequest(r, "DELETE", "/entries/42", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOT_FOUND")
	})

	t.Run("returns 400 on a non-numeric id", func(t *testing.T) {
		r := setupEntryRouter(NewEntryHandler(&mockEntryService{}))

		rec := doRequest(r, "DELETE", "/entries/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestEntryHandler_Export(t *testing.T) {
	entrySvc := &mockEntryService{
		getUserEntriesFn: func(userID uint) ([]models.Entry, error) {
			return []models.Entry{
				{ID: 1, Date: models.NewDate(2024, time.January, 1), Type: models.EntryTypeExpense, Category: "Groceries", Amount: 45.5, UserID: userID},
			}, nil
		},
	}
	r := setupEntryRouter(NewEntryHandler(entrySvc))

	rec := doRequest(r, "GET", "/entries/export", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv content type, got %s", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "id,date,type,category,amount") {
		t.Errorf("expected CSV header, got %s", body)
	}
	if !strings.Contains(body, "1,2024-01-01,Expense,Groceries,45.50") {
		t.Errorf("expected CSV row, got %s", body)
	}
}
