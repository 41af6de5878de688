// internal/storage/memory/memory.go

// Package memory holds an in-process implementation of the storage
// interfaces backed by maps. It mirrors the Postgres implementation's
// semantics, including the balance adjustments on transaction insert and
// delete, so service tests can run without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"crimson-finance/internal/domain"
)

type Storage struct {
	mu sync.RWMutex

	profiles         map[int64]domain.Profile
	accounts         map[int64]domain.Account
	cards            map[int64]domain.Card
	invoices         map[int64]domain.Invoice
	accountTxns      map[int64]domain.Transaction
	cardTxns         map[int64]domain.Transaction
	categories       map[int64]domain.Category
	accountCompanies map[int64]string
	accountTypes     map[int64]string
	cardFlags        map[int64]string

	nextID int64
}

func NewStorage() *Storage {
	return &Storage{
		profiles:         make(map[int64]domain.Profile),
		accounts:         make(map[int64]domain.Account),
		cards:            make(map[int64]domain.Card),
		invoices:         make(map[int64]domain.Invoice),
		accountTxns:      make(map[int64]domain.Transaction),
		cardTxns:         make(map[int64]domain.Transaction),
		categories:       make(map[int64]domain.Category),
		accountCompanies: make(map[int64]string),
		accountTypes:     make(map[int64]string),
		cardFlags:        make(map[int64]string),
	}
}

func (s *Storage) allocID() int64 {
	s.nextID++
	return s.nextID
}

// Seed helpers for reference data; not part of the storage interfaces.

func (s *Storage) SeedCategory(name string, colorID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	s.categories[id] = domain.Category{ID: id, Name: name, ColorID: colorID}
	return id
}

func (s *Storage) SeedCompany(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	s.accountCompanies[id] = name
	return id
}

func (s *Storage) SeedAccountType(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	s.accountTypes[id] = name
	return id
}

func (s *Storage) SeedCardFlag(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	s.cardFlags[id] = name
	return id
}

// === ProfileStorage ===

func (s *Storage) CreateProfile(_ context.Context, p domain.Profile) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.profiles {
		if existing.Email == p.Email {
			return 0, domain.ErrProfileExists
		}
	}
	p.ID = s.allocID()
	s.profiles[p.ID] = p
	return p.ID, nil
}

func (s *Storage) FindProfileByID(_ context.Context, id int64) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Storage) FindProfileByEmail(_ context.Context, email string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Storage) ListProfiles(_ context.Context) ([]domain.ProfileSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ProfileSummary
	for _, p := range s.profiles {
		out = append(out, domain.ProfileSummary{ID: p.ID, Email: p.Email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Storage) UpdateProfile(_ context.Context, p domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	s.profiles[p.ID] = p
	return nil
}

func (s *Storage) DeleteProfile(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return domain.ErrProfileNotFound
	}
	for aid, a := range s.accounts {
		if a.ProfileID != id {
			continue
		}
		for tid, t := range s.accountTxns {
			if t.AccountID == aid {
				delete(s.accountTxns, tid)
			}
		}
		delete(s.accounts, aid)
	}
	for cid, c := range s.cards {
		if c.ProfileID != id {
			continue
		}
		for tid, t := range s.cardTxns {
			if t.CardID == cid {
				delete(s.cardTxns, tid)
			}
		}
		for iid, inv := range s.invoices {
			if inv.CardID == cid {
				delete(s.invoices, iid)
			}
		}
		delete(s.cards, cid)
	}
	delete(s.profiles, id)
	return nil
}

// === AccountStorage ===

func (s *Storage) CreateAccount(_ context.Context, a domain.Account) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.allocID()
	s.accounts[a.ID] = a
	return a.ID, nil
}

func (s *Storage) FindAccountByID(_ context.Context, id int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *Storage) UpdateAccount(_ context.Context, a domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.accounts[a.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	existing.CurrentBalance = a.CurrentBalance
	existing.CompanyID = a.CompanyID
	existing.HomeScreen = a.HomeScreen
	s.accounts[a.ID] = existing
	return nil
}

func (s *Storage) ListAccountsByProfile(_ context.Context, profileID int64) ([]domain.AccountListView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.AccountListView
	for _, a := range s.accounts {
		if a.ProfileID != profileID {
			continue
		}
		out = append(out, domain.AccountListView{
			ID:             a.ID,
			InitialBalance: a.InitialBalance,
			CurrentBalance: a.CurrentBalance,
			CompanyName:    s.accountCompanies[a.CompanyID],
			AccountType:    s.accountTypes[a.TypeID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Storage) TotalBalance(_ context.Context, profileID int64) (domain.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total domain.Money
	for _, a := range s.accounts {
		if a.ProfileID == profileID {
			total = total.Add(a.CurrentBalance)
		}
	}
	return total, nil
}

func (s *Storage) DeleteAccount(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	for tid, t := range s.accountTxns {
		if t.AccountID == id {
			delete(s.accountTxns, tid)
		}
	}
	delete(s.accounts, id)
	return nil
}

// === CardStorage ===

func (s *Storage) CreateCard(_ context.Context, c domain.Card) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.allocID()
	s.cards[c.ID] = c
	return c.ID, nil
}

func (s *Storage) FindCardByID(_ context.Context, id int64) (*domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Storage) UpdateCard(_ context.Context, c domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.cards[c.ID]
	if !ok {
		return domain.ErrCardNotFound
	}
	existing.CreditLimit = c.CreditLimit
	existing.CurrentExpenses = c.CurrentExpenses
	existing.Description = c.Description
	s.cards[c.ID] = existing
	return nil
}

func (s *Storage) ListCardsByProfile(_ context.Context, profileID int64) ([]domain.CardListView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CardListView
	for _, c := range s.cards {
		if c.ProfileID != profileID {
			continue
		}
		out = append(out, domain.CardListView{
			ID:              c.ID,
			CreditLimit:     c.CreditLimit,
			CurrentExpenses: c.CurrentExpenses,
			FlagName:        s.cardFlags[c.FlagID],
			Description:     c.Description,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Storage) TotalExpenses(_ context.Context, profileID int64) (domain.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total domain.Money
	for _, c := range s.cards {
		if c.ProfileID == profileID {
			total = total.Add(c.CurrentExpenses)
		}
	}
	return total, nil
}

func (s *Storage) TopCardsByExpenses(_ context.Context, profileID int64, limit int) ([]domain.CardDashboardView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var owned []domain.Card
	for _, c := range s.cards {
		if c.ProfileID == profileID {
			owned = append(owned, c)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CurrentExpenses.Cents != owned[j].CurrentExpenses.Cents {
			return owned[i].CurrentExpenses.Cents > owned[j].CurrentExpenses.Cents
		}
		return owned[i].ID < owned[j].ID
	})
	if len(owned) > limit {
		owned = owned[:limit]
	}
	out := make([]domain.CardDashboardView, 0, len(owned))
	for _, c := range owned {
		out = append(out, domain.CardDashboardView{
			ID:          c.ID,
			FlagName:    s.cardFlags[c.FlagID],
			Description: c.Description,
		})
	}
	return out, nil
}

func (s *Storage) DeleteCard(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[id]; !ok {
		return domain.ErrCardNotFound
	}
	for tid, t := range s.cardTxns {
		if t.CardID == id {
			delete(s.cardTxns, tid)
		}
	}
	for iid, inv := range s.invoices {
		if inv.CardID == id {
			delete(s.invoices, iid)
		}
	}
	delete(s.cards, id)
	return nil
}

// === InvoiceStorage ===

func (s *Storage) CreateInvoice(_ context.Context, inv domain.Invoice) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.ID = s.allocID()
	s.invoices[inv.ID] = inv
	return inv.ID, nil
}

func (s *Storage) InvoicesInMonth(_ context.Context, cardID int64, month, year int) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Invoice
	for _, inv := range s.invoices {
		if inv.CardID != cardID {
			continue
		}
		if int(inv.DateDue.Month()) != month || inv.DateDue.Year() != year {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateDue.Equal(out[j].DateDue) {
			return out[i].DateDue.Before(out[j].DateDue)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// === TransactionStorage ===

func (s *Storage) InsertAccountTransaction(_ context.Context, t domain.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[t.AccountID]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	a.CurrentBalance.Cents += t.Type.BalanceDelta(t.Amount)
	s.accounts[a.ID] = a

	t.ID = s.allocID()
	t.ProfileID = a.ProfileID
	s.accountTxns[t.ID] = t
	return t.ID, nil
}

func (s *Storage) InsertCardTransaction(_ context.Context, t domain.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[t.CardID]
	if !ok {
		return 0, domain.ErrCardNotFound
	}
	c.CurrentExpenses = c.CurrentExpenses.Add(t.Amount)
	s.cards[c.ID] = c

	t.ID = s.allocID()
	t.ProfileID = c.ProfileID
	s.cardTxns[t.ID] = t
	return t.ID, nil
}

func (s *Storage) DeleteAccountTransaction(_ context.Context, profileID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.accountTxns[id]
	if !ok || t.ProfileID != profileID {
		return domain.ErrTransactionNotFound
	}
	if a, ok := s.accounts[t.AccountID]; ok {
		a.CurrentBalance.Cents -= t.Type.BalanceDelta(t.Amount)
		s.accounts[a.ID] = a
	}
	delete(s.accountTxns, id)
	return nil
}

func (s *Storage) DeleteCardTransaction(_ context.Context, profileID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.cardTxns[id]
	if !ok || t.ProfileID != profileID {
		return domain.ErrTransactionNotFound
	}
	if c, ok := s.cards[t.CardID]; ok {
		c.CurrentExpenses = c.CurrentExpenses.Sub(t.Amount)
		s.cards[c.ID] = c
	}
	delete(s.cardTxns, id)
	return nil
}

func (s *Storage) ListAccountTransactions(_ context.Context, accountID int64) ([]domain.TransactionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.TransactionView
	for _, t := range s.accountTxns {
		if t.AccountID == accountID {
			out = append(out, s.toView(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Storage) ListCardTransactions(_ context.Context, cardID int64) ([]domain.TransactionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.TransactionView
	for _, t := range s.cardTxns {
		if t.CardID == cardID {
			out = append(out, s.toView(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Storage) toView(t domain.Transaction) domain.TransactionView {
	return domain.TransactionView{
		ID:              t.ID,
		Amount:          t.Amount,
		CategoryName:    s.categories[t.CategoryID].Name,
		Description:     t.Description,
		TransactionDate: t.TransactionDate,
		TypeName:        string(t.Type),
	}
}

func (s *Storage) SumAccountTransactionsByType(_ context.Context, profileID int64, typ domain.TransactionType) (domain.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total domain.Money
	for _, t := range s.accountTxns {
		if t.ProfileID == profileID && t.Type == typ {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (s *Storage) SumCardExpenses(_ context.Context, profileID int64) (domain.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total domain.Money
	for _, t := range s.cardTxns {
		if t.ProfileID == profileID && t.Type == domain.TypeCardExpense {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (s *Storage) TopAccountTransactionsByType(_ context.Context, profileID int64, typ domain.TransactionType, limit int) ([]domain.TransactionTopView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []domain.Transaction
	for _, t := range s.accountTxns {
		if t.ProfileID == profileID && t.Type == typ {
			matched = append(matched, t)
		}
	}
	return s.topOf(matched, limit), nil
}

func (s *Storage) TopCardExpenses(_ context.Context, profileID int64, limit int) ([]domain.TransactionTopView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []domain.Transaction
	for _, t := range s.cardTxns {
		if t.ProfileID == profileID && t.Type == domain.TypeCardExpense {
			matched = append(matched, t)
		}
	}
	return s.topOf(matched, limit), nil
}

func (s *Storage) topOf(txns []domain.Transaction, limit int) []domain.TransactionTopView {
	sort.Slice(txns, func(i, j int) bool {
		if txns[i].Amount.Cents != txns[j].Amount.Cents {
			return txns[i].Amount.Cents > txns[j].Amount.Cents
		}
		return txns[i].ID < txns[j].ID
	})
	if len(txns) > limit {
		txns = txns[:limit]
	}
	out := make([]domain.TransactionTopView, 0, len(txns))
	for _, t := range txns {
		out = append(out, domain.TransactionTopView{
			ID:           t.ID,
			Amount:       t.Amount,
			CategoryName: s.categories[t.CategoryID].Name,
		})
	}
	return out
}

// === CategoryStorage ===

func (s *Storage) FindCategoryByID(_ context.Context, id int64) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Storage) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Category
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
