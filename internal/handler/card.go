// internal/handler/card.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"crimson-finance/internal/domain"

	"github.com/gin-gonic/gin"
)

// defaultTopCards is the dashboard ranking size.
const defaultTopCards = 3

type CardHandler struct {
	store CombinedStorage
}

func NewCardHandler(store CombinedStorage) *CardHandler {
	return &CardHandler{store: store}
}

// Create godoc
// @Summary Assign a card to the authenticated profile
// @Tags cards
// @Accept json
// @Produce json
// @Param request body CreateCardRequest true "Card data"
// @Success 201 {object} map[string]int64
// @Router /api/v1/cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(c, err)
		return
	}

	limit, err := domain.ParseMoney(req.CreditLimit)
	if err != nil {
		writeError(c, err)
		return
	}

	card := domain.Card{
		ProfileID:   profileID,
		CreditLimit: limit,
		FlagID:      req.FlagID,
		Description: req.Description,
	}

	id, err := h.store.CreateCard(c.Request.Context(), card)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("card assigned", "card_id", id, "profile_id", profileID)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CardHandler) List(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	cards, err := h.store.ListCardsByProfile(c.Request.Context(), profileID)
	if err != nil {
		writeError(c, err)
		return
	}
	if cards == nil {
		cards = []domain.CardListView{}
	}
	c.JSON(http.StatusOK, cards)
}

// TotalExpenses godoc
// @Summary Sum of current expenses across the profile's cards
// @Tags cards
// @Success 200 {object} map[string]string
// @Router /api/v1/cards/total [get]
func (h *CardHandler) TotalExpenses(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	total, err := h.store.TotalExpenses(c.Request.Context(), profileID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_expenses": total})
}

// TopCards returns the profile's cards ranked by current expenses, highest
// first. Defaults to the top 3.
func (h *CardHandler) TopCards(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	limit := defaultTopCards
	if limitStr := c.Query("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	cards, err := h.store.TopCardsByExpenses(c.Request.Context(), profileID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if cards == nil {
		cards = []domain.CardDashboardView{}
	}
	c.JSON(http.StatusOK, cards)
}

func (h *CardHandler) Update(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	card, ok := h.ownedCard(c, profileID)
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(c, err)
		return
	}

	if req.CreditLimit != "" {
		limit, err := domain.ParseMoney(req.CreditLimit)
		if err != nil {
			writeError(c, err)
			return
		}
		card.CreditLimit = limit
	}
	if req.CurrentExpenses != "" {
		expenses, err := domain.ParseMoney(req.CurrentExpenses)
		if err != nil {
			writeError(c, err)
			return
		}
		card.CurrentExpenses = expenses
	}
	if req.Description != "" {
		card.Description = req.Description
	}

	if err := h.store.UpdateCard(c.Request.Context(), *card); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Delete removes the card together with its transactions and invoices.
func (h *CardHandler) Delete(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	card, ok := h.ownedCard(c, profileID)
	if !ok {
		return
	}
	if err := h.store.DeleteCard(c.Request.Context(), card.ID); err != nil {
		writeError(c, err)
		return
	}
	slog.Info("card deleted", "card_id", card.ID, "profile_id", profileID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AssignInvoice godoc
// @Summary Attach a billing-cycle invoice to a card
// @Tags cards
// @Router /api/v1/cards/{id}/invoices [post]
func (h *CardHandler) AssignInvoice(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	card, ok := h.ownedCard(c, profileID)
	if !ok {
		return
	}

	var req AssignInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(c, err)
		return
	}

	amount, err := domain.ParseMoney(req.AmountDue)
	if err != nil {
		writeError(c, err)
		return
	}
	dateDue, err := time.Parse("2006-01-02", req.DateDue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_due must be in YYYY-MM-DD format"})
		return
	}
	closingDate, err := time.Parse("2006-01-02", req.ClosingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "closing_date must be in YYYY-MM-DD format"})
		return
	}

	invoice := domain.Invoice{
		CardID:      card.ID,
		AmountDue:   amount,
		DateDue:     dateDue,
		ClosingDate: closingDate,
		Paid:        req.Paid,
	}
	if err := invoice.Validate(); err != nil {
		writeError(c, err)
		return
	}

	id, err := h.store.CreateInvoice(c.Request.Context(), invoice)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("invoice assigned", "invoice_id", id, "card_id", card.ID)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// InvoicesInMonth returns the card's invoices due in the given calendar
// month, both boundary dates included.
func (h *CardHandler) InvoicesInMonth(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	card, ok := h.ownedCard(c, profileID)
	if !ok {
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month query param required, 1-12"})
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year query param required"})
		return
	}

	invoices, err := h.store.InvoicesInMonth(c.Request.Context(), card.ID, month, year)
	if err != nil {
		writeError(c, err)
		return
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *CardHandler) ownedCard(c *gin.Context, profileID int64) (*domain.Card, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return nil, false
	}
	card, err := h.store.FindCardByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if card == nil || card.ProfileID != profileID {
		writeError(c, domain.ErrCardNotFound)
		return nil, false
	}
	return card, true
}

// === DTO ===

type CreateCardRequest struct {
	CreditLimit string `json:"credit_limit" validate:"required,money"`
	FlagID      int64  `json:"flag_id" validate:"required,gt=0"`
	Description string `json:"description" validate:"required,notblank,max=40"`
}

type UpdateCardRequest struct {
	CreditLimit     string `json:"credit_limit" validate:"omitempty,money"`
	CurrentExpenses string `json:"current_expenses" validate:"omitempty,money"`
	Description     string `json:"description" validate:"omitempty,notblank,max=40"`
}

type AssignInvoiceRequest struct {
	AmountDue   string `json:"amount_due" validate:"required,money"`
	DateDue     string `json:"date_due" validate:"required"`
	ClosingDate string `json:"closing_date" validate:"required"`
	Paid        bool   `json:"paid"`
}
