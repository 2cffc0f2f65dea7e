package security

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cradoe/remitflow/internal/models"
)

var ErrChallengeMissing = errors.New("challenge not found")

// ChallengeStore keeps live challenges and unconsumed authorizations.
// At most one challenge exists per snapshot hash.
type ChallengeStore interface {
	// Save stores c and drops any other challenge issued for the same snapshot hash.
	Save(ctx context.Context, c *models.VerificationChallenge, ttl time.Duration) error
	Get(ctx context.Context, id string) (*models.VerificationChallenge, bool, error)
	// Update applies fn atomically and returns the stored result. fn may run more than once.
	Update(ctx context.Context, id string, fn func(c *models.VerificationChallenge)) (*models.VerificationChallenge, error)
	Delete(ctx context.Context, id string) error
	DeleteBySnapshot(ctx context.Context, snapshotHash string) error

	SaveAuthorization(ctx context.Context, a *models.Authorization, ttl time.Duration) error
	// TakeAuthorization returns the authorization and removes it in one step.
	TakeAuthorization(ctx context.Context, token string) (*models.Authorization, bool, error)
}

type memoryEntry struct {
	challenge models.VerificationChallenge
	expires   time.Time
}

type memoryAuth struct {
	auth    models.Authorization
	expires time.Time
}

type MemoryStore struct {
	mu         sync.Mutex
	challenges map[string]*memoryEntry
	bySnapshot map[string]string
	auths      map[string]memoryAuth
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		challenges: make(map[string]*memoryEntry),
		bySnapshot: make(map[string]string),
		auths:      make(map[string]memoryAuth),
		now:        time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, c *models.VerificationChallenge, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.bySnapshot[c.SnapshotHash]; ok {
		delete(s.challenges, old)
	}

	s.challenges[c.ID] = &memoryEntry{challenge: *c, expires: s.now().Add(ttl)}
	s.bySnapshot[c.SnapshotHash] = c.ID

	return nil
}

// lookup must be called with s.mu held.
func (s *MemoryStore) lookup(id string) (*memoryEntry, bool) {
	entry, ok := s.challenges[id]
	if !ok {
		return nil, false
	}
	if s.now().After(entry.expires) {
		s.remove(id)
		return nil, false
	}
	return entry, true
}

func (s *MemoryStore) remove(id string) {
	entry, ok := s.challenges[id]
	if !ok {
		return
	}
	delete(s.challenges, id)
	if s.bySnapshot[entry.challenge.SnapshotHash] == id {
		delete(s.bySnapshot, entry.challenge.SnapshotHash)
	}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.VerificationChallenge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(id)
	if !ok {
		return nil, false, nil
	}

	out := entry.challenge
	return &out, true, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn func(c *models.VerificationChallenge)) (*models.VerificationChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(id)
	if !ok {
		return nil, ErrChallengeMissing
	}

	fn(&entry.challenge)

	out := entry.challenge
	return &out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(id)
	return nil
}

func (s *MemoryStore) DeleteBySnapshot(ctx context.Context, snapshotHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.bySnapshot[snapshotHash]; ok {
		s.remove(id)
	}
	return nil
}

func (s *MemoryStore) SaveAuthorization(ctx context.Context, a *models.Authorization, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auths[a.Token] = memoryAuth{auth: *a, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) TakeAuthorization(ctx context.Context, token string) (*models.Authorization, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.auths[token]
	if !ok {
		return nil, false, nil
	}
	delete(s.auths, token)

	if s.now().After(entry.expires) {
		return nil, false, nil
	}

	out := entry.auth
	return &out, true, nil
}
