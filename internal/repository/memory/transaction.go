package memory

import (
	"context"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/repository"
)

type TransactionRepository struct {
	s *state
}

func (r *TransactionRepository) GetOne(ctx context.Context, id string) (*models.TransactionRecord, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	record, exists := r.s.records[id]
	if !exists {
		return nil, false, nil
	}

	out := *record
	return &out, true, nil
}

func (r *TransactionRepository) FindByReference(ctx context.Context, userID, referenceNumber string) (*models.TransactionRecord, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, exists := r.s.references[referenceNumber]
	if !exists {
		return nil, false, nil
	}

	record := r.s.records[id]
	if record.UserID != userID {
		return nil, false, nil
	}

	out := *record
	return &out, true, nil
}

type LedgerRepository struct {
	s *state
}

func (r *LedgerRepository) Commit(ctx context.Context, record *models.TransactionRecord, check func(account *models.Account) error) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	account, exists := r.s.accounts[record.SourceAccountID]
	if !exists {
		return false, repository.ErrAccountNotFound
	}

	if _, applied := r.s.records[record.ID]; applied {
		return false, nil
	}

	snapshot := *account
	snapshot.RollUsage(record.CreatedAt)
	if err := check(&snapshot); err != nil {
		return false, err
	}

	snapshot.DailyUsed += record.Amount
	snapshot.MonthlyUsed += record.Amount
	*account = snapshot

	stored := *record
	r.s.records[stored.ID] = &stored
	r.s.references[stored.ReferenceNumber] = stored.ID

	return true, nil
}
