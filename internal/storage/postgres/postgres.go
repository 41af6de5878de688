// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"crimson-finance/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// === ProfileStorage ===

func (s *Storage) CreateProfile(ctx context.Context, p domain.Profile) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO profile (email, password_hash, role, full_name, preferred_name,
			birthday, phone, nationality, identification_number, cep, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, p.Email, p.PasswordHash, p.Role, p.FullName, p.PreferredName,
		p.Birthday, p.Phone, p.Nationality, p.IdentificationNumber, p.CEP, p.CreatedAt).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrProfileExists
		}
		return 0, fmt.Errorf("create profile: %w", err)
	}
	return id, nil
}

func (s *Storage) FindProfileByID(ctx context.Context, id int64) (*domain.Profile, error) {
	return s.scanProfile(s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, full_name, preferred_name,
			birthday, phone, nationality, identification_number, cep, created_at
		FROM profile WHERE id = $1
	`, id))
}

func (s *Storage) FindProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return s.scanProfile(s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, full_name, preferred_name,
			birthday, phone, nationality, identification_number, cep, created_at
		FROM profile WHERE email = $1
	`, email))
}

func (s *Storage) scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Role, &p.FullName, &p.PreferredName,
		&p.Birthday, &p.Phone, &p.Nationality, &p.IdentificationNumber, &p.CEP, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]domain.ProfileSummary, error) {
	rows, err := s.db.Query(ctx, "SELECT id, email FROM profile ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.ProfileSummary
	for rows.Next() {
		var p domain.ProfileSummary
		if err := rows.Scan(&p.ID, &p.Email); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *Storage) UpdateProfile(ctx context.Context, p domain.Profile) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE profile SET email = $2, password_hash = $3, full_name = $4,
			preferred_name = $5, birthday = $6, phone = $7, nationality = $8,
			identification_number = $9, cep = $10
		WHERE id = $1
	`, p.ID, p.Email, p.PasswordHash, p.FullName,
		p.PreferredName, p.Birthday, p.Phone, p.Nationality,
		p.IdentificationNumber, p.CEP)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (s *Storage) DeleteProfile(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM account_transaction
		WHERE account_id IN (SELECT id FROM account WHERE profile_id = $1)
	`, id)
	if err != nil {
		return fmt.Errorf("delete account transactions: %w", err)
	}
	if _, err = tx.Exec(ctx, "DELETE FROM account WHERE profile_id = $1", id); err != nil {
		return fmt.Errorf("delete accounts: %w", err)
	}
	_, err = tx.Exec(ctx, `
		DELETE FROM card_transaction
		WHERE card_id IN (SELECT id FROM card WHERE profile_id = $1)
	`, id)
	if err != nil {
		return fmt.Errorf("delete card transactions: %w", err)
	}
	_, err = tx.Exec(ctx, `
		DELETE FROM invoice
		WHERE card_id IN (SELECT id FROM card WHERE profile_id = $1)
	`, id)
	if err != nil {
		return fmt.Errorf("delete invoices: %w", err)
	}
	if _, err = tx.Exec(ctx, "DELETE FROM card WHERE profile_id = $1", id); err != nil {
		return fmt.Errorf("delete cards: %w", err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM profile WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	slog.Debug("profile deleted with cascade", "profile_id", id)
	return nil
}

// === AccountStorage ===

func (s *Storage) CreateAccount(ctx context.Context, a domain.Account) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO account (profile_id, initial_balance_cents, current_balance_cents,
			company_id, type_id, home_screen, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, a.ProfileID, a.InitialBalance.Cents, a.CurrentBalance.Cents,
		a.CompanyID, a.TypeID, a.HomeScreen, a.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create account: %w", err)
	}
	return id, nil
}

func (s *Storage) FindAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	var a domain.Account
	err := s.db.QueryRow(ctx, `
		SELECT id, profile_id, initial_balance_cents, current_balance_cents,
			company_id, type_id, home_screen, created_at
		FROM account WHERE id = $1
	`, id).Scan(&a.ID, &a.ProfileID, &a.InitialBalance.Cents, &a.CurrentBalance.Cents,
		&a.CompanyID, &a.TypeID, &a.HomeScreen, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &a, nil
}

func (s *Storage) UpdateAccount(ctx context.Context, a domain.Account) error {
	// initial_balance and type are immutable after creation.
	tag, err := s.db.Exec(ctx, `
		UPDATE account SET current_balance_cents = $2, company_id = $3, home_screen = $4
		WHERE id = $1
	`, a.ID, a.CurrentBalance.Cents, a.CompanyID, a.HomeScreen)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (s *Storage) ListAccountsByProfile(ctx context.Context, profileID int64) ([]domain.AccountListView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT a.id, a.initial_balance_cents, a.current_balance_cents, ac.name, act.name
		FROM account a
		JOIN account_company ac ON ac.id = a.company_id
		JOIN account_type act ON act.id = a.type_id
		WHERE a.profile_id = $1
		ORDER BY a.id
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.AccountListView
	for rows.Next() {
		var v domain.AccountListView
		if err := rows.Scan(&v.ID, &v.InitialBalance.Cents, &v.CurrentBalance.Cents, &v.CompanyName, &v.AccountType); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, v)
	}
	return accounts, rows.Err()
}

func (s *Storage) TotalBalance(ctx context.Context, profileID int64) (domain.Money, error) {
	var cents int64
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(current_balance_cents), 0) FROM account WHERE profile_id = $1
	`, profileID).Scan(&cents)
	if err != nil {
		return domain.Money{}, fmt.Errorf("total balance: %w", err)
	}
	return domain.Money{Cents: cents}, nil
}

func (s *Storage) DeleteAccount(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, "DELETE FROM account_transaction WHERE account_id = $1", id); err != nil {
		return fmt.Errorf("delete account transactions: %w", err)
	}
	tag, err := tx.Exec(ctx, "DELETE FROM account WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return tx.Commit(ctx)
}

// === CardStorage ===

func (s *Storage) CreateCard(ctx context.Context, c domain.Card) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO card (profile_id, credit_limit_cents, current_expenses_cents, card_flag_id, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, c.ProfileID, c.CreditLimit.Cents, c.CurrentExpenses.Cents, c.FlagID, c.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create card: %w", err)
	}
	return id, nil
}

func (s *Storage) FindCardByID(ctx context.Context, id int64) (*domain.Card, error) {
	var c domain.Card
	err := s.db.QueryRow(ctx, `
		SELECT id, profile_id, credit_limit_cents, current_expenses_cents, card_flag_id, description
		FROM card WHERE id = $1
	`, id).Scan(&c.ID, &c.ProfileID, &c.CreditLimit.Cents, &c.CurrentExpenses.Cents, &c.FlagID, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find card: %w", err)
	}
	return &c, nil
}

func (s *Storage) UpdateCard(ctx context.Context, c domain.Card) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE card SET credit_limit_cents = $2, current_expenses_cents = $3, description = $4
		WHERE id = $1
	`, c.ID, c.CreditLimit.Cents, c.CurrentExpenses.Cents, c.Description)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

func (s *Storage) ListCardsByProfile(ctx context.Context, profileID int64) ([]domain.CardListView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.credit_limit_cents, c.current_expenses_cents, cf.name, c.description
		FROM card c
		JOIN card_flag cf ON cf.id = c.card_flag_id
		WHERE c.profile_id = $1
		ORDER BY c.id
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.CardListView
	for rows.Next() {
		var v domain.CardListView
		if err := rows.Scan(&v.ID, &v.CreditLimit.Cents, &v.CurrentExpenses.Cents, &v.FlagName, &v.Description); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, v)
	}
	return cards, rows.Err()
}

func (s *Storage) TotalExpenses(ctx context.Context, profileID int64) (domain.Money, error) {
	var cents int64
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(current_expenses_cents), 0) FROM card WHERE profile_id = $1
	`, profileID).Scan(&cents)
	if err != nil {
		return domain.Money{}, fmt.Errorf("total card expenses: %w", err)
	}
	return domain.Money{Cents: cents}, nil
}

func (s *Storage) TopCardsByExpenses(ctx context.Context, profileID int64, limit int) ([]domain.CardDashboardView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, cf.name, c.description
		FROM card c
		JOIN card_flag cf ON cf.id = c.card_flag_id
		WHERE c.profile_id = $1
		ORDER BY c.current_expenses_cents DESC, c.id
		LIMIT $2
	`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("top cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.CardDashboardView
	for rows.Next() {
		var v domain.CardDashboardView
		if err := rows.Scan(&v.ID, &v.FlagName, &v.Description); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, v)
	}
	return cards, rows.Err()
}

func (s *Storage) DeleteCard(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, "DELETE FROM card_transaction WHERE card_id = $1", id); err != nil {
		return fmt.Errorf("delete card transactions: %w", err)
	}
	if _, err = tx.Exec(ctx, "DELETE FROM invoice WHERE card_id = $1", id); err != nil {
		return fmt.Errorf("delete invoices: %w", err)
	}
	tag, err := tx.Exec(ctx, "DELETE FROM card WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}
	return tx.Commit(ctx)
}

// === InvoiceStorage ===

func (s *Storage) CreateInvoice(ctx context.Context, inv domain.Invoice) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO invoice (card_id, amount_due_cents, date_due, closing_date, paid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, inv.CardID, inv.AmountDue.Cents, inv.DateDue, inv.ClosingDate, inv.Paid).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create invoice: %w", err)
	}
	return id, nil
}

func (s *Storage) InvoicesInMonth(ctx context.Context, cardID int64, month, year int) ([]domain.Invoice, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, card_id, amount_due_cents, date_due, closing_date, paid
		FROM invoice
		WHERE card_id = $1
		AND EXTRACT(MONTH FROM date_due) = $2
		AND EXTRACT(YEAR FROM date_due) = $3
		ORDER BY date_due, id
	`, cardID, month, year)
	if err != nil {
		return nil, fmt.Errorf("invoices in month: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(&inv.ID, &inv.CardID, &inv.AmountDue.Cents, &inv.DateDue, &inv.ClosingDate, &inv.Paid); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// === TransactionStorage ===

// InsertAccountTransaction writes the row and applies the signed balance
// delta to the parent account in the same transaction. The balance update
// doubles as the existence check: zero rows affected means no account and
// nothing is written.
func (s *Storage) InsertAccountTransaction(ctx context.Context, t domain.Transaction) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var profileID int64
	err = tx.QueryRow(ctx, `
		UPDATE account SET current_balance_cents = current_balance_cents + $2
		WHERE id = $1
		RETURNING profile_id
	`, t.AccountID, t.Type.BalanceDelta(t.Amount)).Scan(&profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrAccountNotFound
		}
		return 0, fmt.Errorf("adjust account balance: %w", err)
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO account_transaction (profile_id, account_id, amount_cents, type,
			description, transaction_date, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, profileID, t.AccountID, t.Amount.Cents, t.Type,
		t.Description, t.TransactionDate, t.CategoryID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert account transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return id, nil
}

func (s *Storage) InsertCardTransaction(ctx context.Context, t domain.Transaction) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var profileID int64
	err = tx.QueryRow(ctx, `
		UPDATE card SET current_expenses_cents = current_expenses_cents + $2
		WHERE id = $1
		RETURNING profile_id
	`, t.CardID, t.Amount.Cents).Scan(&profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrCardNotFound
		}
		return 0, fmt.Errorf("adjust card expenses: %w", err)
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO card_transaction (profile_id, card_id, amount_cents, type,
			description, transaction_date, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, profileID, t.CardID, t.Amount.Cents, t.Type,
		t.Description, t.TransactionDate, t.CategoryID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert card transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return id, nil
}

// DeleteAccountTransaction removes the row and reverses its effect on the
// parent balance, so balances never drift after deletions.
func (s *Storage) DeleteAccountTransaction(ctx context.Context, profileID, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var accountID, amountCents int64
	var typ domain.TransactionType
	err = tx.QueryRow(ctx, `
		SELECT account_id, amount_cents, type FROM account_transaction
		WHERE id = $1 AND profile_id = $2
	`, id, profileID).Scan(&accountID, &amountCents, &typ)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTransactionNotFound
		}
		return fmt.Errorf("find account transaction: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE account SET current_balance_cents = current_balance_cents - $2 WHERE id = $1
	`, accountID, typ.BalanceDelta(domain.Money{Cents: amountCents}))
	if err != nil {
		return fmt.Errorf("reverse account balance: %w", err)
	}
	if _, err = tx.Exec(ctx, "DELETE FROM account_transaction WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete account transaction: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *Storage) DeleteCardTransaction(ctx context.Context, profileID, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var cardID, amountCents int64
	err = tx.QueryRow(ctx, `
		SELECT card_id, amount_cents FROM card_transaction
		WHERE id = $1 AND profile_id = $2
	`, id, profileID).Scan(&cardID, &amountCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTransactionNotFound
		}
		return fmt.Errorf("find card transaction: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE card SET current_expenses_cents = current_expenses_cents - $2 WHERE id = $1
	`, cardID, amountCents)
	if err != nil {
		return fmt.Errorf("reverse card expenses: %w", err)
	}
	if _, err = tx.Exec(ctx, "DELETE FROM card_transaction WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete card transaction: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *Storage) ListAccountTransactions(ctx context.Context, accountID int64) ([]domain.TransactionView, error) {
	return s.listTransactions(ctx, `
		SELECT at.id, at.amount_cents, c.name, at.description, at.transaction_date, at.type
		FROM account_transaction at
		JOIN category c ON c.id = at.category_id
		WHERE at.account_id = $1
		ORDER BY at.id
	`, accountID)
}

func (s *Storage) ListCardTransactions(ctx context.Context, cardID int64) ([]domain.TransactionView, error) {
	return s.listTransactions(ctx, `
		SELECT ct.id, ct.amount_cents, c.name, ct.description, ct.transaction_date, ct.type
		FROM card_transaction ct
		JOIN category c ON c.id = ct.category_id
		WHERE ct.card_id = $1
		ORDER BY ct.id
	`, cardID)
}

func (s *Storage) listTransactions(ctx context.Context, query string, parentID int64) ([]domain.TransactionView, error) {
	rows, err := s.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var views []domain.TransactionView
	for rows.Next() {
		var v domain.TransactionView
		if err := rows.Scan(&v.ID, &v.Amount.Cents, &v.CategoryName, &v.Description, &v.TransactionDate, &v.TypeName); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (s *Storage) SumAccountTransactionsByType(ctx context.Context, profileID int64, t domain.TransactionType) (domain.Money, error) {
	var cents int64
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM account_transaction
		WHERE profile_id = $1 AND type = $2
	`, profileID, t).Scan(&cents)
	if err != nil {
		return domain.Money{}, fmt.Errorf("sum account transactions: %w", err)
	}
	return domain.Money{Cents: cents}, nil
}

func (s *Storage) SumCardExpenses(ctx context.Context, profileID int64) (domain.Money, error) {
	var cents int64
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM card_transaction
		WHERE profile_id = $1 AND type = $2
	`, profileID, domain.TypeCardExpense).Scan(&cents)
	if err != nil {
		return domain.Money{}, fmt.Errorf("sum card expenses: %w", err)
	}
	return domain.Money{Cents: cents}, nil
}

func (s *Storage) TopAccountTransactionsByType(ctx context.Context, profileID int64, t domain.TransactionType, limit int) ([]domain.TransactionTopView, error) {
	return s.topTransactions(ctx, `
		SELECT at.id, at.amount_cents, c.name
		FROM account_transaction at
		JOIN category c ON c.id = at.category_id
		WHERE at.profile_id = $1 AND at.type = $2
		ORDER BY at.amount_cents DESC, at.id
		LIMIT $3
	`, profileID, t, limit)
}

func (s *Storage) TopCardExpenses(ctx context.Context, profileID int64, limit int) ([]domain.TransactionTopView, error) {
	return s.topTransactions(ctx, `
		SELECT ct.id, ct.amount_cents, c.name
		FROM card_transaction ct
		JOIN category c ON c.id = ct.category_id
		WHERE ct.profile_id = $1 AND ct.type = $2
		ORDER BY ct.amount_cents DESC, ct.id
		LIMIT $3
	`, profileID, domain.TypeCardExpense, limit)
}

func (s *Storage) topTransactions(ctx context.Context, query string, profileID int64, t domain.TransactionType, limit int) ([]domain.TransactionTopView, error) {
	rows, err := s.db.Query(ctx, query, profileID, t, limit)
	if err != nil {
		return nil, fmt.Errorf("top transactions: %w", err)
	}
	defer rows.Close()

	var views []domain.TransactionTopView
	for rows.Next() {
		var v domain.TransactionTopView
		if err := rows.Scan(&v.ID, &v.Amount.Cents, &v.CategoryName); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// === CategoryStorage ===

func (s *Storage) FindCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := s.db.QueryRow(ctx, "SELECT id, name, color_id FROM category WHERE id = $1", id).
		Scan(&c.ID, &c.Name, &c.ColorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name, color_id FROM category ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ColorID); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
