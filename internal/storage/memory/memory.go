// Package memory provides an in-memory implementation of the storage
// interfaces. It backs the test suites and the STORE=memory dev mode; data
// does not survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lnvinh/moneykeeper/internal/models"
	"github.com/lnvinh/moneykeeper/internal/storage"
)

// Ensure Store implements storage.Store.
var _ storage.Store = (*Store)(nil)

// Store holds every repository over plain maps guarded by per-repository
// mutexes.
type Store struct {
	wallets      *WalletStore
	transactions *TransactionStore
	billSplits   *BillSplitStore
	loans        *LoanStore
	accounts     *AccountStore
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		wallets:      &WalletStore{items: make(map[string]models.Wallet)},
		transactions: &TransactionStore{items: make(map[string]models.Transaction)},
		billSplits:   &BillSplitStore{items: make(map[string]models.BillSplit)},
		loans:        &LoanStore{items: make(map[string]models.Loan)},
		accounts:     &AccountStore{items: make(map[string]models.Account)},
	}
}

func (s *Store) Wallets() storage.WalletRepository           { return s.wallets }
func (s *Store) Transactions() storage.TransactionRepository { return s.transactions }
func (s *Store) BillSplits() storage.BillSplitRepository     { return s.billSplits }
func (s *Store) Loans() storage.LoanRepository               { return s.loans }
func (s *Store) Accounts() storage.AccountRepository         { return s.accounts }

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// WalletStore implements storage.WalletRepository over a map.
type WalletStore struct {
	mu    sync.RWMutex
	items map[string]models.Wallet
}

func (s *WalletStore) FindByID(_ context.Context, id string) (models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.items[id]
	if !ok {
		return models.Wallet{}, models.NewNotFoundError("wallet %s not found", id)
	}
	return w, nil
}

func (s *WalletStore) FindByAccountID(_ context.Context, accountID string) ([]models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Wallet
	for _, w := range s.items {
		if w.AccountID == accountID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *WalletStore) Save(_ context.Context, wallet models.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[wallet.ID] = wallet
	return nil
}

func (s *WalletStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return models.NewNotFoundError("wallet %s not found", id)
	}
	delete(s.items, id)
	return nil
}

func (s *WalletStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok, nil
}

func (s *WalletStore) TotalBalance(_ context.Context, accountID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, w := range s.items {
		if w.AccountID == accountID {
			total = total.Add(w.Balance)
		}
	}
	return total, nil
}

// TransactionStore implements storage.TransactionRepository over a map.
type TransactionStore struct {
	mu    sync.RWMutex
	items map[string]models.Transaction
}

func (s *TransactionStore) FindByID(_ context.Context, id string) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.items[id]
	if !ok {
		return models.Transaction{}, models.NewNotFoundError("transaction %s not found", id)
	}
	return tx, nil
}

func (s *TransactionStore) findAll(match func(models.Transaction) bool) []models.Transaction {
	var out []models.Transaction
	for _, tx := range s.items {
		if match(tx) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (s *TransactionStore) FindByAccountID(_ context.Context, accountID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findAll(func(tx models.Transaction) bool { return tx.AccountID == accountID }), nil
}

func (s *TransactionStore) FindByWalletID(_ context.Context, walletID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findAll(func(tx models.Transaction) bool { return tx.WalletID == walletID }), nil
}

func (s *TransactionStore) FindByDateRange(_ context.Context, accountID string, from, to time.Time) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findAll(func(tx models.Transaction) bool {
		return tx.AccountID == accountID && !tx.Date.Before(from) && !tx.Date.After(to)
	}), nil
}

func (s *TransactionStore) Save(_ context.Context, tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[tx.ID] = tx
	return nil
}

func (s *TransactionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return models.NewNotFoundError("transaction %s not found", id)
	}
	delete(s.items, id)
	return nil
}

func (s *TransactionStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok, nil
}

// BillSplitStore implements storage.BillSplitRepository over a map.
// Participants are copied on the way in and out so callers can never alias
// stored state.
type BillSplitStore struct {
	mu    sync.RWMutex
	items map[string]models.BillSplit
}

func copyBill(b models.BillSplit) models.BillSplit {
	participants := make([]models.Participant, len(b.Participants))
	copy(participants, b.Participants)
	b.Participants = participants
	return b
}

func (s *BillSplitStore) FindByID(_ context.Context, id string) (models.BillSplit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.items[id]
	if !ok {
		return models.BillSplit{}, models.NewNotFoundError("bill split %s not found", id)
	}
	return copyBill(b), nil
}

func (s *BillSplitStore) findAll(match func(models.BillSplit) bool) []models.BillSplit {
	var out []models.BillSplit
	for _, b := range s.items {
		if match(b) {
			out = append(out, copyBill(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (s *BillSplitStore) FindByAccountID(_ context.Context, accountID string) ([]models.BillSplit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findAll(func(b models.BillSplit) bool { return b.AccountID == accountID }), nil
}

func (s *BillSplitStore) FindUnsettled(_ context.Context, accountID string) ([]models.BillSplit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findAll(func(b models.BillSplit) bool { return b.AccountID == accountID && !b.Settled }), nil
}

func (s *BillSplitStore) Save(_ context.Context, bill models.BillSplit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[bill.ID] = copyBill(bill)
	return nil
}

func (s *BillSplitStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return models.NewNotFoundError("bill split %s not found", id)
	}
	delete(s.items, id)
	return nil
}

func (s *BillSplitStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok, nil
}

// LoanStore implements storage.LoanRepository over a map.
type LoanStore struct {
	mu    sync.RWMutex
	items map[string]models.Loan
}

func (s *LoanStore) FindByID(_ context.Context, id string) (models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.items[id]
	if !ok {
		return models.Loan{}, models.NewNotFoundError("loan %s not found", id)
	}
	return l, nil
}

func (s *LoanStore) findAll(match func(models.Loan) bool) []models.Loan {
	var out []models.Loan
	for _, l := range s.items {
		if match(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out
}

func (s *LoanStore) FindByAccountID(_ context.Context, accountID string) ([]models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findAll(func(l models.Loan) bool { return l.AccountID == accountID }), nil
}

func (s *LoanStore) FindByType(_ context.Context, accountID string, typ models.LoanType) ([]models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findAll(func(l models.Loan) bool { return l.AccountID == accountID && l.Type == typ }), nil
}

func (s *LoanStore) FindOverdue(_ context.Context, accountID string, asOf time.Time) ([]models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findAll(func(l models.Loan) bool { return l.AccountID == accountID && l.IsOverdue(asOf) }), nil
}

func (s *LoanStore) Save(_ context.Context, loan models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[loan.ID] = loan
	return nil
}

func (s *LoanStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return models.NewNotFoundError("loan %s not found", id)
	}
	delete(s.items, id)
	return nil
}

func (s *LoanStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok, nil
}

// AccountStore implements storage.AccountRepository over a map.
type AccountStore struct {
	mu    sync.RWMutex
	items map[string]models.Account
}

func (s *AccountStore) CreateAccount(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.items {
		if a.Email == account.Email {
			return models.NewValidationError("email %s is already registered", account.Email)
		}
	}
	s.items[account.ID] = *account
	return nil
}

func (s *AccountStore) GetAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.items {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, models.NewNotFoundError("account with email %s not found", email)
}

func (s *AccountStore) GetAccountByID(_ context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.items[id]
	if !ok {
		return nil, models.NewNotFoundError("account %s not found", id)
	}
	out := a
	return &out, nil
}
