// Every step of a transfer session that changes state is written here.
// entity and entity_id are polymorphic so the same table serves sessions,
// beneficiaries and credentials.
package repository

import (
	"context"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/jmoiron/sqlx"
)

type ActivityRepository interface {
	Insert(ctx context.Context, log *models.ActivityLog) error
	GetAllByEntity(ctx context.Context, entity, entityID string) ([]models.ActivityLog, error)
}

type ActivityRepositoryImpl struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &ActivityRepositoryImpl{db: db}
}

func (repo *ActivityRepositoryImpl) Insert(ctx context.Context, log *models.ActivityLog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO activity_logs (user_id, entity, entity_id, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return repo.db.QueryRowxContext(ctx, query,
		log.UserID,
		log.Entity,
		log.EntityId,
		log.Description,
	).Scan(&log.ID, &log.CreatedAt)
}

// GetAllByEntity returns the trail for one subject, oldest first.
func (repo *ActivityRepositoryImpl) GetAllByEntity(ctx context.Context, entity, entityID string) ([]models.ActivityLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var logs []models.ActivityLog

	query := `
		SELECT id, user_id, entity, entity_id, description, created_at
		FROM activity_logs
		WHERE entity = $1 AND entity_id = $2
		ORDER BY created_at ASC`

	err := repo.db.SelectContext(ctx, &logs, query, entity, entityID)
	if err != nil {
		return nil, err
	}

	return logs, nil
}
