// internal/domain/models_test.go
package domain

import (
	"strings"
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		Amount:          Money{Cents: 1500},
		Type:            TypeExpense,
		Description:     "groceries",
		TransactionDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CategoryID:      1,
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "negative amount", mutate: func(tr *Transaction) { tr.Amount.Cents = -1 }, wantErr: true},
		{name: "zero amount ok", mutate: func(tr *Transaction) { tr.Amount.Cents = 0 }},
		{name: "unknown type", mutate: func(tr *Transaction) { tr.Type = "REFUND" }, wantErr: true},
		{name: "blank description", mutate: func(tr *Transaction) { tr.Description = "   " }, wantErr: true},
		{name: "long description", mutate: func(tr *Transaction) { tr.Description = strings.Repeat("x", 41) }, wantErr: true},
		{name: "max length description", mutate: func(tr *Transaction) { tr.Description = strings.Repeat("x", 40) }},
		{name: "zero date", mutate: func(tr *Transaction) { tr.TransactionDate = time.Time{} }, wantErr: true},
		{name: "missing category", mutate: func(tr *Transaction) { tr.CategoryID = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := validTransaction()
			tt.mutate(&txn)
			err := txn.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr && !IsValidation(err) {
				t.Fatalf("error %v is not a ValidationError", err)
			}
		})
	}
}

func TestInvoiceValidate(t *testing.T) {
	valid := Invoice{
		AmountDue:   Money{Cents: 45000},
		DateDue:     time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		ClosingDate: time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid invoice rejected: %v", err)
	}

	negative := valid
	negative.AmountDue.Cents = -100
	if err := negative.Validate(); err == nil {
		t.Error("negative amount_due accepted")
	}

	noDue := valid
	noDue.DateDue = time.Time{}
	if err := noDue.Validate(); err == nil {
		t.Error("zero date_due accepted")
	}
}

func TestParseTransactionType(t *testing.T) {
	for _, s := range []string{"EXPENSE", "REVENUE", "TRANSFER", "CARD_EXPENSE"} {
		if _, err := ParseTransactionType(s); err != nil {
			t.Errorf("ParseTransactionType(%q): %v", s, err)
		}
	}
	for _, s := range []string{"", "expense", "REFUND", "CARDEXPENSE"} {
		if _, err := ParseTransactionType(s); err == nil {
			t.Errorf("ParseTransactionType(%q) accepted", s)
		}
	}
}

func TestBalanceDelta(t *testing.T) {
	amount := Money{Cents: 1000}
	tests := []struct {
		typ  TransactionType
		want int64
	}{
		{TypeRevenue, 1000},
		{TypeExpense, -1000},
		{TypeTransfer, -1000},
		{TypeCardExpense, 0},
	}
	for _, tt := range tests {
		if got := tt.typ.BalanceDelta(amount); got != tt.want {
			t.Errorf("%s.BalanceDelta(10.00) = %d, want %d", tt.typ, got, tt.want)
		}
	}
}

func TestAccountInsertable(t *testing.T) {
	if TypeCardExpense.AccountInsertable() {
		t.Error("CARD_EXPENSE must not be insertable on accounts")
	}
	for _, typ := range []TransactionType{TypeExpense, TypeRevenue, TypeTransfer} {
		if !typ.AccountInsertable() {
			t.Errorf("%s should be insertable on accounts", typ)
		}
	}
}
