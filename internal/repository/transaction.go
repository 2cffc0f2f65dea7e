package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/jmoiron/sqlx"
)

// TransactionRepository is read-only; records are written by the ledger commit.
type TransactionRepository interface {
	GetOne(ctx context.Context, id string) (*models.TransactionRecord, bool, error)
	FindByReference(ctx context.Context, userID, referenceNumber string) (*models.TransactionRecord, bool, error)
}

type TransactionRepositoryImpl struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

const transactionColumns = `id, reference_number, user_id, source_account_id, source_descriptor, transfer_type,
	destination_kind, destination_ref, destination_name, amount, fee, total, rail, eta, purpose,
	remarks, scheduled_for, status, created_at`

func (repo *TransactionRepositoryImpl) GetOne(ctx context.Context, id string) (*models.TransactionRecord, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var record models.TransactionRecord

	query := `SELECT ` + transactionColumns + ` FROM transaction_records WHERE id=$1`

	err := repo.db.GetContext(ctx, &record, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &record, true, nil
}

func (repo *TransactionRepositoryImpl) FindByReference(ctx context.Context, userID, referenceNumber string) (*models.TransactionRecord, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var record models.TransactionRecord

	query := `SELECT ` + transactionColumns + ` FROM transaction_records WHERE reference_number=$1 AND user_id=$2`

	err := repo.db.GetContext(ctx, &record, query, referenceNumber, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &record, true, nil
}

func insertTransactionRecord(ctx context.Context, tx *sqlx.Tx, record *models.TransactionRecord) error {
	query := `
		INSERT INTO transaction_records (id, reference_number, user_id, source_account_id, source_descriptor,
			transfer_type, destination_kind, destination_ref, destination_name, amount, fee, total, rail, eta,
			purpose, remarks, scheduled_for, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err := tx.ExecContext(ctx, query,
		record.ID,
		record.ReferenceNumber,
		record.UserID,
		record.SourceAccountID,
		record.SourceDescriptor,
		record.TransferType,
		record.DestinationKind,
		record.DestinationRef,
		record.DestinationName,
		record.Amount,
		record.Fee,
		record.Total,
		record.Rail,
		record.ETA,
		record.Purpose,
		record.Remarks,
		record.ScheduledFor,
		record.Status,
		record.CreatedAt,
	)
	return err
}
