package security

import (
	"context"
	"sync"

	"github.com/cradoe/gopass"
	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/repository"
)

// CredentialChecker verifies the transaction password and knows where to send codes.
type CredentialChecker interface {
	CheckTransactionPassword(ctx context.Context, userID, password string) (bool, error)
	Contact(ctx context.Context, userID string) (string, error)
}

type Credentials struct {
	repo repository.CredentialRepository

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentials(repo repository.CredentialRepository) *Credentials {
	return &Credentials{repo: repo}
}

func (c *Credentials) CheckTransactionPassword(ctx context.Context, userID, password string) (bool, error) {
	credential, found, err := c.repo.GetOne(ctx, userID)
	if err != nil {
		return false, err
	}

	if !found {
		// compare anyway so a missing credential costs the same as a wrong one
		c.dummyOnce.Do(func() {
			c.dummyHash, _ = gopass.Hash("remitflow-placeholder-credential")
		})
		if c.dummyHash != "" {
			gopass.ComparePasswordAndHash(password, c.dummyHash)
		}
		return false, nil
	}

	return gopass.ComparePasswordAndHash(password, credential.TransactionPasswordHash)
}

func (c *Credentials) Contact(ctx context.Context, userID string) (string, error) {
	credential, found, err := c.repo.GetOne(ctx, userID)
	if err != nil || !found {
		return "", err
	}
	return credential.Contact, nil
}

// SetTransactionPassword hashes password and stores it. An empty contact keeps the stored one.
func (c *Credentials) SetTransactionPassword(ctx context.Context, userID, password, contact string) error {
	hash, err := gopass.Hash(password)
	if err != nil {
		return err
	}

	return c.repo.Upsert(ctx, &models.Credential{
		UserID:                  userID,
		TransactionPasswordHash: hash,
		Contact:                 contact,
	})
}
