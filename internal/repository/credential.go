package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/jmoiron/sqlx"
)

type CredentialRepository interface {
	GetOne(ctx context.Context, userID string) (*models.Credential, bool, error)
	Upsert(ctx context.Context, credential *models.Credential) error
}

type CredentialRepositoryImpl struct {
	db *sqlx.DB
}

func NewCredentialRepository(db *sqlx.DB) CredentialRepository {
	return &CredentialRepositoryImpl{db: db}
}

func (repo *CredentialRepositoryImpl) GetOne(ctx context.Context, userID string) (*models.Credential, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var credential models.Credential

	query := `
		SELECT user_id, transaction_password_hash, contact, updated_at
		FROM user_credentials WHERE user_id=$1`

	err := repo.db.GetContext(ctx, &credential, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &credential, true, nil
}

func (repo *CredentialRepositoryImpl) Upsert(ctx context.Context, credential *models.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO user_credentials (user_id, transaction_password_hash, contact)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET transaction_password_hash=EXCLUDED.transaction_password_hash,
			contact=COALESCE(NULLIF(EXCLUDED.contact, ''), user_credentials.contact),
			updated_at=NOW()`

	_, err := repo.db.ExecContext(ctx, query, credential.UserID, credential.TransactionPasswordHash, credential.Contact)
	return err
}
