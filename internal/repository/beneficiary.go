package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/jmoiron/sqlx"
)

type BeneficiaryRepository interface {
	Insert(ctx context.Context, beneficiary *models.Beneficiary) (*models.Beneficiary, error)
	GetOne(ctx context.Context, id string) (*models.Beneficiary, bool, error)
	FindByAccount(ctx context.Context, userID, routingCode, accountNumber string) (*models.Beneficiary, bool, error)
	GetAllByUserId(ctx context.Context, userID string) ([]models.Beneficiary, error)
	UpdateNickname(ctx context.Context, id, userID, nickname string) (bool, error)
}

type BeneficiaryRepositoryImpl struct {
	db *sqlx.DB
}

func NewBeneficiaryRepository(db *sqlx.DB) BeneficiaryRepository {
	return &BeneficiaryRepositoryImpl{db: db}
}

const beneficiaryColumns = `id, user_id, name, nickname, account_number, routing_code, bank_name, status, created_at, verified_at`

func (repo *BeneficiaryRepositoryImpl) Insert(ctx context.Context, beneficiary *models.Beneficiary) (*models.Beneficiary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var created models.Beneficiary

	query := `
		INSERT INTO beneficiaries (id, user_id, name, nickname, account_number, routing_code, bank_name, status, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + beneficiaryColumns

	err := repo.db.GetContext(ctx, &created, query,
		beneficiary.ID,
		beneficiary.UserID,
		beneficiary.Name,
		beneficiary.Nickname,
		beneficiary.AccountNumber,
		beneficiary.RoutingCode,
		beneficiary.BankName,
		beneficiary.Status,
		beneficiary.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (repo *BeneficiaryRepositoryImpl) GetOne(ctx context.Context, id string) (*models.Beneficiary, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var beneficiary models.Beneficiary

	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE id=$1 AND deleted_at IS NULL`

	err := repo.db.GetContext(ctx, &beneficiary, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &beneficiary, true, nil
}

func (repo *BeneficiaryRepositoryImpl) FindByAccount(ctx context.Context, userID, routingCode, accountNumber string) (*models.Beneficiary, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var beneficiary models.Beneficiary

	query := `
		SELECT ` + beneficiaryColumns + ` FROM beneficiaries
		WHERE user_id=$1 AND routing_code=$2 AND account_number=$3 AND deleted_at IS NULL`

	err := repo.db.GetContext(ctx, &beneficiary, query, userID, routingCode, accountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &beneficiary, true, nil
}

func (repo *BeneficiaryRepositoryImpl) GetAllByUserId(ctx context.Context, userID string) ([]models.Beneficiary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var beneficiaries []models.Beneficiary

	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE user_id=$1 AND deleted_at IS NULL ORDER BY name`

	err := repo.db.SelectContext(ctx, &beneficiaries, query, userID)
	if err != nil {
		return nil, err
	}

	return beneficiaries, nil
}

// UpdateNickname is the only mutation allowed on a saved beneficiary.
func (repo *BeneficiaryRepositoryImpl) UpdateNickname(ctx context.Context, id, userID, nickname string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `UPDATE beneficiaries SET nickname=$1, updated_at=NOW() WHERE id=$2 AND user_id=$3 AND deleted_at IS NULL`

	res, err := repo.db.ExecContext(ctx, query, nickname, id, userID)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
