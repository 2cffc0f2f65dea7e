package security

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cradoe/remitflow/internal/cache"
	"github.com/cradoe/remitflow/internal/models"
)

const (
	challengeKeyPrefix     = "challenge:"
	snapshotKeyPrefix      = "challenge:snapshot:"
	authorizationKeyPrefix = "authorization:"
)

// RedisStore shares challenges between API instances.
type RedisStore struct {
	cache *cache.Cache
}

func NewRedisStore(c *cache.Cache) *RedisStore {
	return &RedisStore{cache: c}
}

func (s *RedisStore) Save(ctx context.Context, c *models.VerificationChallenge, ttl time.Duration) error {
	old, found, err := s.cache.GetDel(ctx, snapshotKeyPrefix+c.SnapshotHash)
	if err != nil {
		return err
	}
	if found {
		if err := s.cache.Delete(ctx, challengeKeyPrefix+old); err != nil {
			return err
		}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	if err := s.cache.Set(ctx, challengeKeyPrefix+c.ID, string(data), ttl); err != nil {
		return err
	}

	return s.cache.Set(ctx, snapshotKeyPrefix+c.SnapshotHash, c.ID, ttl)
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.VerificationChallenge, bool, error) {
	raw, found, err := s.cache.Get(ctx, challengeKeyPrefix+id)
	if err != nil || !found {
		return nil, false, err
	}

	var c models.VerificationChallenge
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, false, err
	}

	return &c, true, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(c *models.VerificationChallenge)) (*models.VerificationChallenge, error) {
	var updated models.VerificationChallenge

	err := s.cache.Update(ctx, challengeKeyPrefix+id, func(current string) (string, error) {
		updated = models.VerificationChallenge{}
		if err := json.Unmarshal([]byte(current), &updated); err != nil {
			return "", err
		}

		fn(&updated)

		next, err := json.Marshal(&updated)
		return string(next), err
	})
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrChallengeMissing
	}
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	c, found, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	keys := []string{challengeKeyPrefix + id}
	current, ok, err := s.cache.Get(ctx, snapshotKeyPrefix+c.SnapshotHash)
	if err != nil {
		return err
	}
	if ok && current == id {
		keys = append(keys, snapshotKeyPrefix+c.SnapshotHash)
	}

	return s.cache.Delete(ctx, keys...)
}

func (s *RedisStore) DeleteBySnapshot(ctx context.Context, snapshotHash string) error {
	id, found, err := s.cache.GetDel(ctx, snapshotKeyPrefix+snapshotHash)
	if err != nil || !found {
		return err
	}
	return s.cache.Delete(ctx, challengeKeyPrefix+id)
}

func (s *RedisStore) SaveAuthorization(ctx context.Context, a *models.Authorization, ttl time.Duration) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, authorizationKeyPrefix+a.Token, string(data), ttl)
}

func (s *RedisStore) TakeAuthorization(ctx context.Context, token string) (*models.Authorization, bool, error) {
	raw, found, err := s.cache.GetDel(ctx, authorizationKeyPrefix+token)
	if err != nil || !found {
		return nil, false, err
	}

	var a models.Authorization
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, false, err
	}

	return &a, true, nil
}
