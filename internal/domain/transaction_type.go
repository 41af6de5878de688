// internal/domain/transaction_type.go
package domain

// TransactionType is the closed classification of a monetary movement. The
// set is fixed: aggregation code switches over it exhaustively and anything
// outside it is rejected at the boundary.
type TransactionType string

const (
	TypeExpense     TransactionType = "EXPENSE"
	TypeRevenue     TransactionType = "REVENUE"
	TypeTransfer    TransactionType = "TRANSFER"
	TypeCardExpense TransactionType = "CARD_EXPENSE"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypeExpense, TypeRevenue, TypeTransfer, TypeCardExpense:
		return TransactionType(s), nil
	default:
		return "", NewValidationError("type", "unknown transaction type")
	}
}

func (t TransactionType) Valid() bool {
	switch t {
	case TypeExpense, TypeRevenue, TypeTransfer, TypeCardExpense:
		return true
	default:
		return false
	}
}

// AccountInsertable reports whether the type may be attached to an account
// transaction. Card transactions are always CARD_EXPENSE, forced server-side.
func (t TransactionType) AccountInsertable() bool {
	switch t {
	case TypeExpense, TypeRevenue, TypeTransfer:
		return true
	default:
		return false
	}
}

// BalanceDelta returns the signed effect of an amount of this type on the
// owning account's current balance: revenue adds, expense and transfer
// subtract. CARD_EXPENSE never touches an account balance.
func (t TransactionType) BalanceDelta(amount Money) int64 {
	switch t {
	case TypeRevenue:
		return amount.Cents
	case TypeExpense, TypeTransfer:
		return -amount.Cents
	default:
		return 0
	}
}
