// internal/storage/storage.go
package storage

import (
	"context"

	"crimson-finance/internal/domain"
)

type ProfileStorage interface {
	CreateProfile(ctx context.Context, p domain.Profile) (int64, error)
	FindProfileByID(ctx context.Context, id int64) (*domain.Profile, error)
	FindProfileByEmail(ctx context.Context, email string) (*domain.Profile, error)
	ListProfiles(ctx context.Context) ([]domain.ProfileSummary, error)
	UpdateProfile(ctx context.Context, p domain.Profile) error
	// DeleteProfile cascades to the profile's accounts, cards and all of
	// their transactions and invoices, in one unit of work.
	DeleteProfile(ctx context.Context, id int64) error
}

type AccountStorage interface {
	CreateAccount(ctx context.Context, a domain.Account) (int64, error)
	FindAccountByID(ctx context.Context, id int64) (*domain.Account, error)
	UpdateAccount(ctx context.Context, a domain.Account) error
	ListAccountsByProfile(ctx context.Context, profileID int64) ([]domain.AccountListView, error)
	// TotalBalance sums current balances across the profile's accounts;
	// zero (not an error) when the profile has none.
	TotalBalance(ctx context.Context, profileID int64) (domain.Money, error)
	// DeleteAccount removes the account and its transactions atomically.
	DeleteAccount(ctx context.Context, id int64) error
}

type CardStorage interface {
	CreateCard(ctx context.Context, c domain.Card) (int64, error)
	FindCardByID(ctx context.Context, id int64) (*domain.Card, error)
	UpdateCard(ctx context.Context, c domain.Card) error
	ListCardsByProfile(ctx context.Context, profileID int64) ([]domain.CardListView, error)
	TotalExpenses(ctx context.Context, profileID int64) (domain.Money, error)
	TopCardsByExpenses(ctx context.Context, profileID int64, limit int) ([]domain.CardDashboardView, error)
	// DeleteCard removes the card, its transactions and its invoices
	// atomically.
	DeleteCard(ctx context.Context, id int64) error
}

type InvoiceStorage interface {
	CreateInvoice(ctx context.Context, inv domain.Invoice) (int64, error)
	// InvoicesInMonth returns the card's invoices whose due date falls in
	// the given calendar month, boundary dates included, ordered by due
	// date ascending.
	InvoicesInMonth(ctx context.Context, cardID int64, month, year int) ([]domain.Invoice, error)
}

// TransactionStorage owns transaction rows and keeps the denormalized
// balance fields on their parents consistent: every insert adjusts the
// parent's current balance (or current expenses) in the same unit of work,
// and every delete reverses that adjustment.
type TransactionStorage interface {
	InsertAccountTransaction(ctx context.Context, t domain.Transaction) (int64, error)
	InsertCardTransaction(ctx context.Context, t domain.Transaction) (int64, error)
	// Deletes are scoped to the owning profile; a transaction belonging to
	// another profile is reported as not found.
	DeleteAccountTransaction(ctx context.Context, profileID, id int64) error
	DeleteCardTransaction(ctx context.Context, profileID, id int64) error
	ListAccountTransactions(ctx context.Context, accountID int64) ([]domain.TransactionView, error)
	ListCardTransactions(ctx context.Context, cardID int64) ([]domain.TransactionView, error)

	SumAccountTransactionsByType(ctx context.Context, profileID int64, t domain.TransactionType) (domain.Money, error)
	SumCardExpenses(ctx context.Context, profileID int64) (domain.Money, error)
	TopAccountTransactionsByType(ctx context.Context, profileID int64, t domain.TransactionType, limit int) ([]domain.TransactionTopView, error)
	TopCardExpenses(ctx context.Context, profileID int64, limit int) ([]domain.TransactionTopView, error)
}

type CategoryStorage interface {
	FindCategoryByID(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
