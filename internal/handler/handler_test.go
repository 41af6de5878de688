// internal/handler/handler_test.go
package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crimson-finance/internal/auth"
	"crimson-finance/internal/config"
	"crimson-finance/internal/middleware"
	"crimson-finance/internal/storage/memory"

	"github.com/gin-gonic/gin"
)

type testEnv struct {
	router     *gin.Engine
	store      *memory.Storage
	companyID  int64
	typeID     int64
	flagID     int64
	categoryID int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		JWTSecret:    "test-secret",
		JWTIssuer:    "crimson-finance",
		JWTExpiresIn: time.Hour,
		BcryptCost:   4,
	}
	store := memory.NewStorage()
	tokens := auth.NewTokenService(cfg)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	profileHandler := NewProfileHandler(store, tokens, hasher)
	accountHandler := NewAccountHandler(store)
	cardHandler := NewCardHandler(store)
	txnHandler := NewTransactionHandler(store)

	router := gin.New()
	router.POST("/api/v1/profiles/register", profileHandler.Register)
	router.POST("/api/v1/profiles/login", profileHandler.Login)

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		v1.GET("/profiles", profileHandler.List)
		v1.GET("/profiles/me", profileHandler.Me)
		v1.PUT("/profiles/me", profileHandler.Update)
		v1.PATCH("/profiles/me/password", profileHandler.ChangePassword)
		v1.DELETE("/profiles/me", profileHandler.Delete)

		v1.POST("/accounts", accountHandler.Create)
		v1.GET("/accounts", accountHandler.List)
		v1.GET("/accounts/total", accountHandler.TotalBalance)
		v1.PUT("/accounts/:id", accountHandler.Update)
		v1.DELETE("/accounts/:id", accountHandler.Delete)
		v1.POST("/accounts/:id/transactions", txnHandler.InsertForAccount)
		v1.GET("/accounts/:id/transactions", txnHandler.ListForAccount)

		v1.POST("/cards", cardHandler.Create)
		v1.GET("/cards", cardHandler.List)
		v1.GET("/cards/total", cardHandler.TotalExpenses)
		v1.GET("/cards/top", cardHandler.TopCards)
		v1.PUT("/cards/:id", cardHandler.Update)
		v1.DELETE("/cards/:id", cardHandler.Delete)
		v1.POST("/cards/:id/transactions", txnHandler.InsertForCard)
		v1.GET("/cards/:id/transactions", txnHandler.ListForCard)
		v1.POST("/cards/:id/invoices", cardHandler.AssignInvoice)
		v1.GET("/cards/:id/invoices", cardHandler.InvoicesInMonth)

		v1.DELETE("/transactions/account/:id", txnHandler.DeleteForAccount)
		v1.DELETE("/transactions/card/:id", txnHandler.DeleteForCard)
		v1.GET("/transactions/:type/total", txnHandler.SumByType)
		v1.GET("/transactions/:type/top", txnHandler.TopByAmount)

		v1.GET("/categories", txnHandler.ListCategories)
	}

	return &testEnv{
		router:     router,
		store:      store,
		companyID:  store.SeedCompany("Nubank"),
		typeID:     store.SeedAccountType("CHECKING"),
		flagID:     store.SeedCardFlag("VISA"),
		categoryID: store.SeedCategory("Groceries", 1),
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/profiles/register", "", gin.H{
		"email":                 email,
		"password":              "password123",
		"full_name":             "Ana Souza",
		"identification_number": "123.456.789-00",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register = %d: %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/v1/profiles/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Token
}

func (e *testEnv) createAccount(t *testing.T, token, initialBalance string) int64 {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/accounts", token, gin.H{
		"initial_balance": initialBalance,
		"company_id":      e.companyID,
		"type_id":         e.typeID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create account = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.ID
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "ana@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/profiles/register", "", gin.H{
		"email":                 "ana@example.com",
		"password":              "password123",
		"full_name":             "Someone Else",
		"identification_number": "000.000.000-00",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register = %d, want 409", w.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "ana@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/profiles/login", "", gin.H{
		"email":    "ana@example.com",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password login = %d, want 401", w.Code)
	}
}

func TestRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(t, http.MethodGet, "/api/v1/accounts", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/accounts", "bogus", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bogus token = %d, want 401", w.Code)
	}
}

func TestAccountLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@example.com")
	accountID := env.createAccount(t, token, "1000.00")

	// Current balance starts equal to the initial one.
	w := env.do(t, http.MethodGet, "/api/v1/accounts", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var accounts []struct {
		ID             int64           `json:"id"`
		InitialBalance json.RawMessage `json:"initial_balance"`
		CurrentBalance json.RawMessage `json:"current_balance"`
		CompanyName    string          `json:"company_name"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &accounts); err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 1 || accounts[0].ID != accountID {
		t.Fatalf("unexpected listing: %s", w.Body.String())
	}
	if string(accounts[0].CurrentBalance) != "1000.00" {
		t.Errorf("current balance = %s, want 1000.00", accounts[0].CurrentBalance)
	}
	if accounts[0].CompanyName != "Nubank" {
		t.Errorf("company name = %q", accounts[0].CompanyName)
	}

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/accounts/%d", accountID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/v1/accounts", token, nil)
	if body := w.Body.String(); body != "[]" {
		t.Errorf("after delete list = %s, want []", body)
	}
}

func TestTotalBalanceSumsAccounts(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@example.com")

	// No accounts yet: total is zero, not an error.
	w := env.do(t, http.MethodGet, "/api/v1/accounts/total", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("empty total = %d", w.Code)
	}
	var resp struct {
		Total json.RawMessage `json:"total_balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if string(resp.Total) != "0.00" {
		t.Errorf("empty total = %s, want 0.00", resp.Total)
	}

	env.createAccount(t, token, "1000.00")
	env.createAccount(t, token, "250.50")

	w = env.do(t, http.MethodGet, "/api/v1/accounts/total", token, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if string(resp.Total) != "1250.50" {
		t.Errorf("total = %s, want 1250.50", resp.Total)
	}
}

func TestInsertTransactionAdjustsBalance(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@example.com")
	accountID := env.createAccount(t, token, "1000.00")

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/accounts/%d/transactions", accountID), token, gin.H{
		"amount":           "150.25",
		"type":             "EXPENSE",
		"description":      "groceries",
		"transaction_date": "2025-03-15",
		"category_id":      env.categoryID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("insert = %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/v1/accounts/total", token, nil)
	var resp struct {
		Total json.RawMessage `json:"total_balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if string(resp.Total) != "849.75" {
		t.Errorf("balance after expense = %s, want 849.75", resp.Total)
	}
}

func TestInsertTransactionRejectsCardExpenseOnAccount(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@example.com")
	accountID := env.createAccount(t, token, "1000.00")

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/accounts/%d/transactions", accountID), token, gin.H{
		"amount":           "10.00",
		"type":             "CARD_EXPENSE",
		"description":      "nope",
		"transaction_date": "2025-03-15",
		"category_id":      env.categoryID,
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("CARD_EXPENSE on account = %d, want 422", w.Code)
	}
}

func TestInsertTransactionRejectsBadAmount(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@example.com")
	accountID := env.createAccount(t, token, "1000.00")

	// Whether the amount is caught by the DTO tag or the parser, the status
	// is the same.
	for _, amount := range []string{"1.999", "-5.00", "1000000000000.00", "1.٣"} {
		w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/accounts/%d/transactions", accountID), token, gin.H{
			"amount":           amount,
			"type":             "EXPENSE",
			"description":      "bad amount",
			"transaction_date": "2025-03-15",
			"category_id":      env.categoryID,
		})
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("amount %q = %d, want 422", amount, w.Code)
		}
	}
}

func TestCardTransactionTypeForced(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/cards", token, gin.H{
		"credit_limit": "5000.00",
		"flag_id":      env.flagID,
		"description":  "main card",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create card = %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	// Whatever type the client sends, the record is a CARD_EXPENSE.
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cards/%d/transactions", created.ID), token, gin.H{
		"amount":           "99.90",
		"type":             "REVENUE",
		"description":      "dinner",
		"transaction_date": "2025-03-20",
		"category_id":      env.categoryID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("card transaction = %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/v1/transactions/CARD_EXPENSE/total", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("card expense total = %d", w.Code)
	}
	var resp struct {
		Total json.RawMessage `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if string(resp.Total) != "99.90" {
		t.Errorf("card expense total = %s, want 99.90", resp.Total)
	}
}

func TestTransferAggregationRejected(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@example.com")

	if w := env.do(t, http.MethodGet, "/api/v1/transactions/TRANSFER/total", token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("TRANSFER total = %d, want 400", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/transactions/TRANSFER/top", token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("TRANSFER top = %d, want 400", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/transactions/REFUND/total", token, nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown type total = %d, want 422", w.Code)
	}
}

func TestTopTransactionsDefaultFive(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@example.com")
	accountID := env.createAccount(t, token, "10000.00")

	for i := 1; i <= 7; i++ {
		w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/accounts/%d/transactions", accountID), token, gin.H{
			"amount":           fmt.Sprintf("%d.00", i*10),
			"type":             "EXPENSE",
			"description":      "spend",
			"transaction_date": "2025-03-15",
			"category_id":      env.categoryID,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("insert %d = %d", i, w.Code)
		}
	}

	w := env.do(t, http.MethodGet, "/api/v1/transactions/EXPENSE/top", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("top = %d", w.Code)
	}
	var views []struct {
		Amount       json.RawMessage `json:"amount"`
		CategoryName string          `json:"category_name"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatal(err)
	}
	if len(views) != 5 {
		t.Fatalf("default top returned %d rows, want 5", len(views))
	}
	if string(views[0].Amount) != "70.00" {
		t.Errorf("top amount = %s, want 70.00", views[0].Amount)
	}
	if views[0].CategoryName != "Groceries" {
		t.Errorf("category name = %q", views[0].CategoryName)
	}
}

func TestOtherProfilesAccountHidden(t *testing.T) {
	env := newTestEnv(t)
	anaToken := env.registerAndLogin(t, "ana@example.com")
	accountID := env.createAccount(t, anaToken, "1000.00")

	bobToken := env.registerAndLogin(t, "bob@example.com")
	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/accounts/%d", accountID), bobToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-profile delete = %d, want 404", w.Code)
	}
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d/transactions", accountID), bobToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-profile list = %d, want 404", w.Code)
	}
}

func TestOtherProfilesTransactionHidden(t *testing.T) {
	env := newTestEnv(t)
	anaToken := env.registerAndLogin(t, "ana@example.com")
	accountID := env.createAccount(t, anaToken, "1000.00")

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/accounts/%d/transactions", accountID), anaToken, gin.H{
		"amount":           "100.00",
		"type":             "EXPENSE",
		"description":      "groceries",
		"transaction_date": "2025-03-15",
		"category_id":      env.categoryID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("insert = %d", w.Code)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	bobToken := env.registerAndLogin(t, "bob@example.com")
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/transactions/account/%d", created.ID), bobToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-profile transaction delete = %d, want 404", w.Code)
	}

	// The owner's balance is untouched by the refused delete.
	w = env.do(t, http.MethodGet, "/api/v1/accounts/total", anaToken, nil)
	var resp struct {
		Total json.RawMessage `json:"total_balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if string(resp.Total) != "900.00" {
		t.Errorf("owner balance = %s, want 900.00", resp.Total)
	}

	// The owner can still delete it.
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/transactions/account/%d", created.ID), anaToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("owner delete = %d, want 200", w.Code)
	}
}

func TestUpdateCardCurrentExpenses(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/cards", token, gin.H{
		"credit_limit": "5000.00",
		"flag_id":      env.flagID,
		"description":  "main card",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create card = %d", w.Code)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/cards/%d", created.ID), token, gin.H{
		"current_expenses": "321.09",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update card = %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/v1/cards/total", token, nil)
	var resp struct {
		Total json.RawMessage `json:"total_expenses"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if string(resp.Total) != "321.09" {
		t.Errorf("total expenses after update = %s, want 321.09", resp.Total)
	}

	if w := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/cards/%d", created.ID), token, gin.H{
		"current_expenses": "1.999",
	}); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad current_expenses = %d, want 422", w.Code)
	}
}

func TestInvoiceWindowThroughAPI(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/cards", token, gin.H{
		"credit_limit": "5000.00",
		"flag_id":      env.flagID,
		"description":  "main card",
	})
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	for _, due := range []string{"2025-02-28", "2025-03-01", "2025-03-31", "2025-04-01"} {
		w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cards/%d/invoices", created.ID), token, gin.H{
			"amount_due":   "450.00",
			"date_due":     due,
			"closing_date": "2025-02-20",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("assign invoice %s = %d: %s", due, w.Code, w.Body.String())
		}
	}

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/cards/%d/invoices?month=3&year=2025", created.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("window = %d", w.Code)
	}
	var invoices []json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &invoices); err != nil {
		t.Fatal(err)
	}
	if len(invoices) != 2 {
		t.Errorf("march window returned %d invoices, want 2", len(invoices))
	}

	if w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/cards/%d/invoices?month=13&year=2025", created.ID), token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("month 13 = %d, want 400", w.Code)
	}
}

func TestChangePasswordFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@example.com")

	w := env.do(t, http.MethodPatch, "/api/v1/profiles/me/password", token, gin.H{
		"old_password": "wrong",
		"new_password": "newpassword1",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong old password = %d, want 401", w.Code)
	}

	w = env.do(t, http.MethodPatch, "/api/v1/profiles/me/password", token, gin.H{
		"old_password": "password123",
		"new_password": "newpassword1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("change password = %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/v1/profiles/login", "", gin.H{
		"email":    "ana@example.com",
		"password": "newpassword1",
	})
	if w.Code != http.StatusOK {
		t.Errorf("login with new password = %d", w.Code)
	}
	w = env.do(t, http.MethodPost, "/api/v1/profiles/login", "", gin.H{
		"email":    "ana@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("login with old password = %d, want 401", w.Code)
	}
}

func TestDeleteProfileCascadesThroughAPI(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@example.com")
	env.createAccount(t, token, "1000.00")

	w := env.do(t, http.MethodDelete, "/api/v1/profiles/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete profile = %d", w.Code)
	}

	// Token is still valid cryptographically but the profile is gone.
	w = env.do(t, http.MethodGet, "/api/v1/profiles/me", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("me after delete = %d, want 404", w.Code)
	}
}
