package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/jmoiron/sqlx"
)

var ErrAccountNotFound = errors.New("account not found")

// LedgerRepository applies limit usage and writes the transaction record as one unit per account.
type LedgerRepository interface {
	// Commit locks the source account, rolls its usage to the IST day of record.CreatedAt,
	// runs check against the locked row and, when it passes, increments daily and monthly
	// usage by record.Amount and stores record.
	// A record id that was already applied returns (false, nil) without running check.
	Commit(ctx context.Context, record *models.TransactionRecord, check func(account *models.Account) error) (bool, error)
}

type LedgerRepositoryImpl struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) LedgerRepository {
	return &LedgerRepositoryImpl{db: db}
}

func (repo *LedgerRepositoryImpl) Commit(ctx context.Context, record *models.TransactionRecord, check func(account *models.Account) error) (bool, error) {
	// pessimistic lock on the account row serialises concurrent commits
	// for the same account across every instance of the service
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer tx.Rollback()

	var account models.Account

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1 AND deleted_at IS NULL FOR UPDATE`

	err = tx.GetContext(ctx, &account, query, record.SourceAccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrAccountNotFound
		}
		return false, err
	}

	var applied bool
	err = tx.GetContext(ctx, &applied, `SELECT EXISTS(SELECT 1 FROM transaction_records WHERE id=$1)`, record.ID)
	if err != nil {
		return false, err
	}
	if applied {
		return false, nil
	}

	account.RollUsage(record.CreatedAt)

	if err := check(&account); err != nil {
		return false, err
	}

	query = `
		UPDATE accounts SET daily_used=$1, monthly_used=$2, usage_date=$3, updated_at=NOW()
		WHERE id=$4`

	_, err = tx.ExecContext(ctx, query,
		account.DailyUsed+record.Amount,
		account.MonthlyUsed+record.Amount,
		account.UsageDate,
		record.SourceAccountID,
	)
	if err != nil {
		return false, err
	}

	if err := insertTransactionRecord(ctx, tx, record); err != nil {
		return false, fmt.Errorf("insert transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return true, nil
}
