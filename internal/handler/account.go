// internal/handler/account.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"crimson-finance/internal/domain"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	store CombinedStorage
}

func NewAccountHandler(store CombinedStorage) *AccountHandler {
	return &AccountHandler{store: store}
}

// Create godoc
// @Summary Create an account for the authenticated profile
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account data"
// @Success 201 {object} map[string]int64
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(c, err)
		return
	}

	initial, err := domain.ParseMoney(req.InitialBalance)
	if err != nil {
		writeError(c, err)
		return
	}

	// The current balance starts equal to the initial one and diverges only
	// through transactions.
	account := domain.Account{
		ProfileID:      profileID,
		InitialBalance: initial,
		CurrentBalance: initial,
		CompanyID:      req.CompanyID,
		TypeID:         req.TypeID,
		HomeScreen:     req.HomeScreen,
		CreatedAt:      time.Now(),
	}

	id, err := h.store.CreateAccount(c.Request.Context(), account)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("account created", "account_id", id, "profile_id", profileID)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *AccountHandler) List(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	accounts, err := h.store.ListAccountsByProfile(c.Request.Context(), profileID)
	if err != nil {
		writeError(c, err)
		return
	}
	if accounts == nil {
		accounts = []domain.AccountListView{}
	}
	c.JSON(http.StatusOK, accounts)
}

// TotalBalance godoc
// @Summary Sum of current balances across the profile's accounts
// @Tags accounts
// @Success 200 {object} map[string]string
// @Router /api/v1/accounts/total [get]
func (h *AccountHandler) TotalBalance(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	total, err := h.store.TotalBalance(c.Request.Context(), profileID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_balance": total})
}

func (h *AccountHandler) Update(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	account, ok := h.ownedAccount(c, profileID)
	if !ok {
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(c, err)
		return
	}

	if req.CurrentBalance != "" {
		balance, err := domain.ParseMoney(req.CurrentBalance)
		if err != nil {
			writeError(c, err)
			return
		}
		account.CurrentBalance = balance
	}
	if req.CompanyID != 0 {
		account.CompanyID = req.CompanyID
	}
	if req.HomeScreen != nil {
		account.HomeScreen = *req.HomeScreen
	}

	if err := h.store.UpdateAccount(c.Request.Context(), *account); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// Delete removes the account together with its transactions.
func (h *AccountHandler) Delete(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	account, ok := h.ownedAccount(c, profileID)
	if !ok {
		return
	}
	if err := h.store.DeleteAccount(c.Request.Context(), account.ID); err != nil {
		writeError(c, err)
		return
	}
	slog.Info("account deleted", "account_id", account.ID, "profile_id", profileID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ownedAccount resolves the :id path param to an account belonging to the
// authenticated profile. Accounts of other profiles are reported as not
// found rather than forbidden.
func (h *AccountHandler) ownedAccount(c *gin.Context, profileID int64) (*domain.Account, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return nil, false
	}
	account, err := h.store.FindAccountByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if account == nil || account.ProfileID != profileID {
		writeError(c, domain.ErrAccountNotFound)
		return nil, false
	}
	return account, true
}

// === DTO ===

type CreateAccountRequest struct {
	InitialBalance string `json:"initial_balance" validate:"required,money"`
	CompanyID      int64  `json:"company_id" validate:"required,gt=0"`
	TypeID         int64  `json:"type_id" validate:"required,gt=0"`
	HomeScreen     bool   `json:"home_screen"`
}

type UpdateAccountRequest struct {
	CurrentBalance string `json:"current_balance" validate:"omitempty,money"`
	CompanyID      int64  `json:"company_id" validate:"omitempty,gt=0"`
	HomeScreen     *bool  `json:"home_screen"`
}
