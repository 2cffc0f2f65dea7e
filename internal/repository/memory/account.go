package memory

import (
	"context"
	"time"

	"github.com/cradoe/remitflow/internal/models"
	"golang.org/x/exp/slices"
)

type AccountRepository struct {
	s *state
}

// Insert ignores an id that already exists, matching the ON CONFLICT DO NOTHING of the SQL store.
func (r *AccountRepository) Insert(ctx context.Context, account *models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.accounts[account.ID]; exists {
		return nil
	}

	stored := *account
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.s.accounts[account.ID] = &stored

	return nil
}

func (r *AccountRepository) GetOne(ctx context.Context, id string) (*models.Account, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	account, exists := r.s.accounts[id]
	if !exists {
		return nil, false, nil
	}

	out := *account
	return &out, true, nil
}

func (r *AccountRepository) GetAllByUserId(ctx context.Context, userID string) ([]models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []models.Account
	for _, account := range r.s.accounts {
		if account.UserID == userID {
			result = append(result, *account)
		}
	}

	slices.SortFunc(result, func(a, b models.Account) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareStrings(a.ID, b.ID)
	})

	return result, nil
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
