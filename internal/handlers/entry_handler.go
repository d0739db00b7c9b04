package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "budgetbook/internal/errors"
	"budgetbook/internal/metrics"
	"budgetbook/internal/models"
	"budgetbook/internal/services"
)

// EntryHandler handles budget-entry requests.
type EntryHandler struct {
	entries services.EntryServicer
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entries services.EntryServicer) *EntryHandler {
	return &EntryHandler{entries: entries}
}

// CreateEntryRequest represents the create-entry request payload. Amount is
// bound through a pointer so a literal 0 still satisfies "required".
type CreateEntryRequest struct {
	Date     string   `json:"date" binding:"required,datetime=2006-01-02"`
	Type     string   `json:"type" binding:"required,entry_type"`
	Category string   `json:"category" binding:"required,max=255"`
	Amount   *float64 `json:"amount" binding:"required,gte=0"`
}

// EntryResponse is the wire-facing shape of an entry. It deliberately omits
// storage bookkeeping columns; mapping from the model is explicit.
type EntryResponse struct {
	ID       uint    `json:"id"`
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

func toEntryResponse(entry *models.Entry) EntryResponse {
	return EntryResponse{
		ID:       entry.ID,
		Date:     entry.Date.String(),
		Type:     string(entry.Type),
		Category: entry.Category,
		Amount:   entry.Amount,
	}
}

func toEntryResponses(entries []models.Entry) []EntryResponse {
	responses := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, toEntryResponse(&entries[i]))
	}
	return responses
}

// Create handles entry creation for the authenticated user.
// @Summary     Create a budget entry
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateEntryRequest true "Entry data"
// @Success     201 {object} EntryResponse "Stored entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD"))
		return
	}

	entry, err := h.entries.CreateEntry(userID, date, models.EntryType(req.Type), req.Category, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	metrics.EntriesCreatedTotal.WithLabelValues(string(entry.Type)).Inc()
	c.JSON(http.StatusCreated, toEntryResponse(entry))
}

// List returns every entry owned by the authenticated user.
// @Summary     List budget entries
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} EntryResponse "Caller's entries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /entries [get]
func (h *EntryHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.entries.GetUserEntries(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": toEntryResponses(entries)})
}

// Delete removes one of the authenticated user's entries. The id of an entry
// owned by someone else answers 404 exactly like a missing id.
// @Summary     Delete a budget entry
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Entry ID"
// @Success     200 {object} map[string]string "Confirmation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /entries/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.entries.DeleteEntry(userID, entryID); err != nil {
		respondWithError(c, err)
		return
	}

	metrics.EntriesDeletedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "entry deleted"})
}

// Export streams the authenticated user's entries as a CSV statement.
// @Summary     Export budget entries as CSV
// @Tags        entries
// @Produce     text/csv
// @Security    BearerAuth
// @Success     200 {string} string "CSV statement"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /entries/export [get]
func (h *EntryHandler) Export(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.entries.GetUserEntries(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="entries.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"id", "date", "type", "category", "amount"})
	for i := range entries {
		e := &entries[i]
		_ = w.Write([]string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.Date.String(),
			string(e.Type),
			e.Category,
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
		})
	}
	w.Flush()
}
