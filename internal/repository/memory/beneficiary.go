package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/cradoe/remitflow/internal/models"
	"golang.org/x/exp/slices"
)

type BeneficiaryRepository struct {
	s *state
}

func (r *BeneficiaryRepository) Insert(ctx context.Context, beneficiary *models.Beneficiary) (*models.Beneficiary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.beneficiaries[beneficiary.ID]; exists {
		return nil, fmt.Errorf("%w: beneficiary %s", ErrDuplicate, beneficiary.ID)
	}

	stored := *beneficiary
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.s.beneficiaries[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *BeneficiaryRepository) GetOne(ctx context.Context, id string) (*models.Beneficiary, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	beneficiary, exists := r.s.beneficiaries[id]
	if !exists {
		return nil, false, nil
	}

	out := *beneficiary
	return &out, true, nil
}

func (r *BeneficiaryRepository) FindByAccount(ctx context.Context, userID, routingCode, accountNumber string) (*models.Beneficiary, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, b := range r.s.beneficiaries {
		if b.UserID == userID && b.RoutingCode == routingCode && b.AccountNumber == accountNumber {
			out := *b
			return &out, true, nil
		}
	}

	return nil, false, nil
}

func (r *BeneficiaryRepository) GetAllByUserId(ctx context.Context, userID string) ([]models.Beneficiary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []models.Beneficiary
	for _, b := range r.s.beneficiaries {
		if b.UserID == userID {
			result = append(result, *b)
		}
	}

	slices.SortFunc(result, func(a, b models.Beneficiary) int {
		return compareStrings(a.Name, b.Name)
	})

	return result, nil
}

func (r *BeneficiaryRepository) UpdateNickname(ctx context.Context, id, userID, nickname string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, exists := r.s.beneficiaries[id]
	if !exists || b.UserID != userID {
		return false, nil
	}

	b.Nickname = nickname
	return true, nil
}
