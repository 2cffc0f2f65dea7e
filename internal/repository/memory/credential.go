package memory

import (
	"context"
	"time"

	"github.com/cradoe/remitflow/internal/models"
)

type CredentialRepository struct {
	s *state
}

func (r *CredentialRepository) GetOne(ctx context.Context, userID string) (*models.Credential, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	credential, exists := r.s.credentials[userID]
	if !exists {
		return nil, false, nil
	}

	out := *credential
	return &out, true, nil
}

func (r *CredentialRepository) Upsert(ctx context.Context, credential *models.Credential) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *credential
	if existing, ok := r.s.credentials[credential.UserID]; ok && stored.Contact == "" {
		stored.Contact = existing.Contact
	}
	stored.UpdatedAt = time.Now().UTC()
	r.s.credentials[credential.UserID] = &stored

	return nil
}
