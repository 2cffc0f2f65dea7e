// Package memory keeps every repository in process memory. It backs STORE=memory
// and the service tests. Values are copied on the way in and out so callers never
// share a pointer with the store.
package memory

import (
	"errors"
	"sync"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/repository"
)

var ErrDuplicate = errors.New("duplicate record")

var (
	_ repository.Database              = (*Store)(nil)
	_ repository.AccountRepository     = (*AccountRepository)(nil)
	_ repository.BeneficiaryRepository = (*BeneficiaryRepository)(nil)
	_ repository.TransactionRepository = (*TransactionRepository)(nil)
	_ repository.LedgerRepository      = (*LedgerRepository)(nil)
	_ repository.CredentialRepository  = (*CredentialRepository)(nil)
	_ repository.ActivityRepository    = (*ActivityRepository)(nil)
)

// state is shared by every repository of one Store so a ledger commit can touch
// the account and the record table under a single lock.
type state struct {
	mu sync.RWMutex

	accounts      map[string]*models.Account
	beneficiaries map[string]*models.Beneficiary
	records       map[string]*models.TransactionRecord
	references    map[string]string
	credentials   map[string]*models.Credential
	activity      []models.ActivityLog
}

type Store struct {
	accounts      *AccountRepository
	beneficiaries *BeneficiaryRepository
	transactions  *TransactionRepository
	ledger        *LedgerRepository
	credentials   *CredentialRepository
	activity      *ActivityRepository
}

func New() *Store {
	s := &state{
		accounts:      make(map[string]*models.Account),
		beneficiaries: make(map[string]*models.Beneficiary),
		records:       make(map[string]*models.TransactionRecord),
		references:    make(map[string]string),
		credentials:   make(map[string]*models.Credential),
	}

	return &Store{
		accounts:      &AccountRepository{s: s},
		beneficiaries: &BeneficiaryRepository{s: s},
		transactions:  &TransactionRepository{s: s},
		ledger:        &LedgerRepository{s: s},
		credentials:   &CredentialRepository{s: s},
		activity:      &ActivityRepository{s: s},
	}
}

func (st *Store) Account() repository.AccountRepository         { return st.accounts }
func (st *Store) Beneficiary() repository.BeneficiaryRepository { return st.beneficiaries }
func (st *Store) Transaction() repository.TransactionRepository { return st.transactions }
func (st *Store) Ledger() repository.LedgerRepository           { return st.ledger }
func (st *Store) Credential() repository.CredentialRepository   { return st.credentials }
func (st *Store) Activity() repository.ActivityRepository       { return st.activity }

func (st *Store) Close() error { return nil }
