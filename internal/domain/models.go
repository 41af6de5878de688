// internal/domain/models.go
package domain

import (
	"strings"
	"time"
)

type RoleType string

const (
	RoleUser  RoleType = "USER"
	RoleMod   RoleType = "MOD"
	RoleAdmin RoleType = "ADMIN"
)

// Profile is a registered owner of accounts and cards.
type Profile struct {
	ID                   int64     `json:"id"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	Role                 RoleType  `json:"role"`
	FullName             string    `json:"full_name"`
	PreferredName        string    `json:"preferred_name,omitempty"`
	Birthday             time.Time `json:"birthday,omitempty"`
	Phone                string    `json:"phone,omitempty"`
	Nationality          string    `json:"nationality,omitempty"`
	IdentificationNumber string    `json:"identification_number"`
	CEP                  string    `json:"cep,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

type ProfileSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Account is a bank/wallet-style store of funds. CurrentBalance starts equal
// to InitialBalance and afterwards changes only through transaction
// inserts/deletes or an explicit UpdateAccount.
type Account struct {
	ID             int64     `json:"id"`
	ProfileID      int64     `json:"-"`
	InitialBalance Money     `json:"initial_balance"`
	CurrentBalance Money     `json:"current_balance"`
	CompanyID      int64     `json:"company_id"`
	TypeID         int64     `json:"type_id"`
	HomeScreen     bool      `json:"home_screen"`
	CreatedAt      time.Time `json:"created_at"`
}

// AccountListView is the join-shaped projection returned by account listing:
// reference ids resolved to their display names.
type AccountListView struct {
	ID             int64  `json:"id"`
	InitialBalance Money  `json:"initial_balance"`
	CurrentBalance Money  `json:"current_balance"`
	CompanyName    string `json:"company_name"`
	AccountType    string `json:"account_type"`
}

type Card struct {
	ID              int64  `json:"id"`
	ProfileID       int64  `json:"-"`
	CreditLimit     Money  `json:"credit_limit"`
	CurrentExpenses Money  `json:"current_expenses"`
	FlagID          int64  `json:"flag_id"`
	Description     string `json:"description"`
}

type CardListView struct {
	ID              int64  `json:"id"`
	CreditLimit     Money  `json:"credit_limit"`
	CurrentExpenses Money  `json:"current_expenses"`
	FlagName        string `json:"flag_name"`
	Description     string `json:"description"`
}

// CardDashboardView is the reduced projection used by the top-cards ranking.
type CardDashboardView struct {
	ID          int64  `json:"id"`
	FlagName    string `json:"flag_name"`
	Description string `json:"description"`
}

// Invoice is one billing-cycle statement for a card, looked up in practice by
// (card, month, year) of DateDue.
type Invoice struct {
	ID          int64     `json:"id"`
	CardID      int64     `json:"-"`
	AmountDue   Money     `json:"amount_due"`
	DateDue     time.Time `json:"date_due"`
	ClosingDate time.Time `json:"closing_date"`
	Paid        bool      `json:"paid"`
}

// Transaction is a single monetary movement against an account or a card.
// ProfileID is denormalized from the parent so aggregations do not need a
// join through it. Immutable once created, except for deletion.
type Transaction struct {
	ID              int64           `json:"id"`
	ProfileID       int64           `json:"-"`
	AccountID       int64           `json:"account_id,omitempty"`
	CardID          int64           `json:"card_id,omitempty"`
	Amount          Money           `json:"amount"`
	Type            TransactionType `json:"type"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transaction_date"`
	CategoryID      int64           `json:"category_id"`
}

type TransactionView struct {
	ID              int64     `json:"id"`
	Amount          Money     `json:"amount"`
	CategoryName    string    `json:"category_name"`
	Description     string    `json:"description"`
	TransactionDate time.Time `json:"transaction_date"`
	TypeName        string    `json:"type_name"`
}

// TransactionTopView is the (id, amount, category name) triple returned by
// the top-by-amount ranking.
type TransactionTopView struct {
	ID           int64  `json:"id"`
	Amount       Money  `json:"amount"`
	CategoryName string `json:"category_name"`
}

type Category struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	ColorID int64  `json:"color_id"`
}

const maxDescriptionLen = 40

func (t Transaction) Validate() error {
	if t.Amount.Cents < 0 {
		return NewValidationError("amount", "must not be negative")
	}
	if !t.Type.Valid() {
		return NewValidationError("type", "unknown transaction type")
	}
	if strings.TrimSpace(t.Description) == "" {
		return NewValidationError("description", "must not be blank")
	}
	if len(t.Description) > maxDescriptionLen {
		return NewValidationError("description", "too long (max 40 characters)")
	}
	if t.TransactionDate.IsZero() {
		return NewValidationError("transaction_date", "required")
	}
	if t.CategoryID <= 0 {
		return NewValidationError("category", "required")
	}
	return nil
}

func (i Invoice) Validate() error {
	if i.AmountDue.Cents < 0 {
		return NewValidationError("amount_due", "must not be negative")
	}
	if i.DateDue.IsZero() {
		return NewValidationError("date_due", "required")
	}
	if i.ClosingDate.IsZero() {
		return NewValidationError("closing_date", "required")
	}
	return nil
}
