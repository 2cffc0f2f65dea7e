package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/jmoiron/sqlx"
)

type AccountRepository interface {
	Insert(ctx context.Context, account *models.Account) error
	GetOne(ctx context.Context, id string) (*models.Account, bool, error)
	GetAllByUserId(ctx context.Context, userID string) ([]models.Account, error)
}

type AccountRepositoryImpl struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

const accountColumns = `id, user_id, label, account_number, class, balance, available_balance,
	daily_limit, monthly_limit, daily_used, monthly_used, usage_date, created_at`

func (repo *AccountRepositoryImpl) Insert(ctx context.Context, account *models.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	usageDate := account.UsageDate
	if usageDate.IsZero() {
		usageDate = models.UsagePeriod(time.Now())
	}

	query := `
		INSERT INTO accounts (id, user_id, label, account_number, class, balance, available_balance,
			daily_limit, monthly_limit, daily_used, monthly_used, usage_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING`

	_, err := repo.db.ExecContext(ctx, query,
		account.ID,
		account.UserID,
		account.Label,
		account.Number,
		account.Class,
		account.Balance,
		account.AvailableBalance,
		account.DailyLimit,
		account.MonthlyLimit,
		account.DailyUsed,
		account.MonthlyUsed,
		usageDate,
	)
	return err
}

func (repo *AccountRepositoryImpl) GetOne(ctx context.Context, id string) (*models.Account, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var account models.Account

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1 AND deleted_at IS NULL`

	err := repo.db.GetContext(ctx, &account, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &account, true, nil
}

func (repo *AccountRepositoryImpl) GetAllByUserId(ctx context.Context, userID string) ([]models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var accounts []models.Account

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id=$1 AND deleted_at IS NULL ORDER BY created_at`

	err := repo.db.SelectContext(ctx, &accounts, query, userID)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}
