// internal/handler/transaction.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"crimson-finance/internal/domain"

	"github.com/gin-gonic/gin"
)

// defaultTopTransactions is the ranking size when no limit is given.
const defaultTopTransactions = 5

type TransactionHandler struct {
	store CombinedStorage
}

func NewTransactionHandler(store CombinedStorage) *TransactionHandler {
	return &TransactionHandler{store: store}
}

// InsertForAccount godoc
// @Summary Record a transaction against an account
// @Description The account's current balance is adjusted in the same unit of work.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body InsertTransactionRequest true "Transaction data"
// @Success 201 {object} map[string]int64
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/accounts/{id}/transactions [post]
func (h *TransactionHandler) InsertForAccount(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c)
	if !ok {
		return
	}

	req, txn, ok := h.bindTransaction(c)
	if !ok {
		return
	}
	txnType, err := domain.ParseTransactionType(req.Type)
	if err != nil {
		writeError(c, err)
		return
	}
	if !txnType.AccountInsertable() {
		writeError(c, domain.NewValidationError("type", "not insertable on an account"))
		return
	}
	txn.Type = txnType
	txn.AccountID = accountID

	account, err := h.store.FindAccountByID(c.Request.Context(), accountID)
	if err != nil {
		writeError(c, err)
		return
	}
	if account == nil || account.ProfileID != profileID {
		writeError(c, domain.ErrAccountNotFound)
		return
	}
	if ok := h.checkCategory(c, txn.CategoryID); !ok {
		return
	}
	if err := txn.Validate(); err != nil {
		writeError(c, err)
		return
	}

	id, err := h.store.InsertAccountTransaction(c.Request.Context(), txn)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("account transaction recorded", "transaction_id", id, "account_id", accountID, "type", txn.Type)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// InsertForCard records a card transaction. The type is always CARD_EXPENSE,
// whatever the request says.
func (h *TransactionHandler) InsertForCard(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c)
	if !ok {
		return
	}

	_, txn, ok := h.bindTransaction(c)
	if !ok {
		return
	}
	txn.Type = domain.TypeCardExpense
	txn.CardID = cardID

	card, err := h.store.FindCardByID(c.Request.Context(), cardID)
	if err != nil {
		writeError(c, err)
		return
	}
	if card == nil || card.ProfileID != profileID {
		writeError(c, domain.ErrCardNotFound)
		return
	}
	if ok := h.checkCategory(c, txn.CategoryID); !ok {
		return
	}
	if err := txn.Validate(); err != nil {
		writeError(c, err)
		return
	}

	id, err := h.store.InsertCardTransaction(c.Request.Context(), txn)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("card transaction recorded", "transaction_id", id, "card_id", cardID)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *TransactionHandler) ListForAccount(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c)
	if !ok {
		return
	}
	account, err := h.store.FindAccountByID(c.Request.Context(), accountID)
	if err != nil {
		writeError(c, err)
		return
	}
	if account == nil || account.ProfileID != profileID {
		writeError(c, domain.ErrAccountNotFound)
		return
	}

	views, err := h.store.ListAccountTransactions(c.Request.Context(), accountID)
	if err != nil {
		writeError(c, err)
		return
	}
	if views == nil {
		views = []domain.TransactionView{}
	}
	c.JSON(http.StatusOK, views)
}

func (h *TransactionHandler) ListForCard(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c)
	if !ok {
		return
	}
	card, err := h.store.FindCardByID(c.Request.Context(), cardID)
	if err != nil {
		writeError(c, err)
		return
	}
	if card == nil || card.ProfileID != profileID {
		writeError(c, domain.ErrCardNotFound)
		return
	}

	views, err := h.store.ListCardTransactions(c.Request.Context(), cardID)
	if err != nil {
		writeError(c, err)
		return
	}
	if views == nil {
		views = []domain.TransactionView{}
	}
	c.JSON(http.StatusOK, views)
}

// DeleteForAccount removes an account transaction and reverses its balance
// effect. Deleting an id that does not exist, or one owned by another
// profile, is a 404, never a silent ok.
func (h *TransactionHandler) DeleteForAccount(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteAccountTransaction(c.Request.Context(), profileID, id); err != nil {
		writeError(c, err)
		return
	}
	slog.Info("account transaction deleted", "transaction_id", id)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TransactionHandler) DeleteForCard(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteCardTransaction(c.Request.Context(), profileID, id); err != nil {
		writeError(c, err)
		return
	}
	slog.Info("card transaction deleted", "transaction_id", id)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SumByType godoc
// @Summary Total transaction amount for a type across the profile
// @Description EXPENSE and REVENUE sum account transactions, CARD_EXPENSE sums card
// @Description transactions. TRANSFER has no aggregation and is rejected.
// @Tags transactions
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /api/v1/transactions/{type}/total [get]
func (h *TransactionHandler) SumByType(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	txnType, err := domain.ParseTransactionType(c.Param("type"))
	if err != nil {
		writeError(c, err)
		return
	}

	var total domain.Money
	switch txnType {
	case domain.TypeExpense, domain.TypeRevenue:
		total, err = h.store.SumAccountTransactionsByType(c.Request.Context(), profileID, txnType)
	case domain.TypeCardExpense:
		total, err = h.store.SumCardExpenses(c.Request.Context(), profileID)
	default:
		err = domain.ErrUnsupportedAggregation
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": txnType, "total": total})
}

// TopByAmount returns the profile's largest transactions of the given type,
// amount descending. Defaults to the top 5.
func (h *TransactionHandler) TopByAmount(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	txnType, err := domain.ParseTransactionType(c.Param("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	limit := defaultTopTransactions
	if limitStr := c.Query("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	var views []domain.TransactionTopView
	switch txnType {
	case domain.TypeExpense, domain.TypeRevenue:
		views, err = h.store.TopAccountTransactionsByType(c.Request.Context(), profileID, txnType, limit)
	case domain.TypeCardExpense:
		views, err = h.store.TopCardExpenses(c.Request.Context(), profileID, limit)
	default:
		err = domain.ErrUnsupportedAggregation
	}
	if err != nil {
		writeError(c, err)
		return
	}
	if views == nil {
		views = []domain.TransactionTopView{}
	}
	c.JSON(http.StatusOK, views)
}

func (h *TransactionHandler) ListCategories(c *gin.Context) {
	categories, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

// bindTransaction parses the shared request body. The type field is handled
// by the callers since accounts and cards treat it differently.
func (h *TransactionHandler) bindTransaction(c *gin.Context) (InsertTransactionRequest, domain.Transaction, bool) {
	var req InsertTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return req, domain.Transaction{}, false
	}
	if err := validateStruct(req); err != nil {
		writeError(c, err)
		return req, domain.Transaction{}, false
	}

	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		writeError(c, err)
		return req, domain.Transaction{}, false
	}
	txnDate, err := time.Parse("2006-01-02", req.TransactionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_date must be in YYYY-MM-DD format"})
		return req, domain.Transaction{}, false
	}

	return req, domain.Transaction{
		Amount:          amount,
		Description:     req.Description,
		TransactionDate: txnDate,
		CategoryID:      req.CategoryID,
	}, true
}

func (h *TransactionHandler) checkCategory(c *gin.Context, categoryID int64) bool {
	category, err := h.store.FindCategoryByID(c.Request.Context(), categoryID)
	if err != nil {
		writeError(c, err)
		return false
	}
	if category == nil {
		writeError(c, domain.NewValidationError("category", "unknown category"))
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// === DTO ===

type InsertTransactionRequest struct {
	Amount          string `json:"amount" validate:"required,money"`
	Type            string `json:"type" validate:"omitempty,txtype"`
	Description     string `json:"description" validate:"required,notblank,max=40"`
	TransactionDate string `json:"transaction_date" validate:"required"`
	CategoryID      int64  `json:"category_id" validate:"required,gt=0"`
}
