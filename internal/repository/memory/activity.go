package memory

import (
	"context"
	"time"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/google/uuid"
)

type ActivityRepository struct {
	s *state
}

func (r *ActivityRepository) Insert(ctx context.Context, log *models.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	log.ID = uuid.NewString()
	log.CreatedAt = time.Now().UTC()
	r.s.activity = append(r.s.activity, *log)

	return nil
}

func (r *ActivityRepository) GetAllByEntity(ctx context.Context, entity, entityID string) ([]models.ActivityLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []models.ActivityLog
	for _, entry := range r.s.activity {
		if entry.Entity == entity && entry.EntityId == entityID {
			result = append(result, entry)
		}
	}

	return result, nil
}
