// Package transfer runs a funds transfer from draft to committed record.
//
// A Session moves Drafting -> Reviewing -> AwaitingVerification -> Committed.
// Cancelled is reachable from every state but Committed. Failed keeps the draft
// after a credential or delivery problem so the user can retry.
package transfer

import (
	"context"
	"log/slog"
	"time"

	"github.com/cradoe/remitflow/internal/apperr"
	"github.com/cradoe/remitflow/internal/ledger"
	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/repository"
	"github.com/google/uuid"
)

type DestinationResolver interface {
	Resolve(ctx context.Context, userID, sourceAccountID string, t models.TransferType, dest models.Destination) (models.ResolvedDestination, error)
}

type Quoter interface {
	Quote(ctx context.Context, account *models.Account, t models.TransferType, amount models.Amount) (models.FeeQuote, error)
}

type Verifier interface {
	Issue(ctx context.Context, userID, snapshotHash, password string) (*models.VerificationChallenge, error)
	Verify(ctx context.Context, challengeID, code string) (*models.Authorization, error)
	Consume(ctx context.Context, auth *models.Authorization, snapshotHash string) error
	Invalidate(ctx context.Context, snapshotHash string) error
}

type Committer interface {
	Commit(ctx context.Context, record *models.TransactionRecord, recheck ledger.Recheck) (bool, error)
}

// Publisher announces committed transfers to downstream consumers.
type Publisher interface {
	PublishCommitted(ctx context.Context, record *models.TransactionRecord) error
}

type Observer interface {
	ObserveTransition(from, to State)
	ObserveCommitRace()
}

type Deps struct {
	Accounts  repository.AccountRepository
	Activity  repository.ActivityRepository
	Resolver  DestinationResolver
	Engine    Quoter
	Gate      Verifier
	Ledger    Committer
	Publisher Publisher
	Observer  Observer
	Logger    *slog.Logger
	Now       func() time.Time
}

type Service struct {
	deps       Deps
	references *ReferenceGenerator
	registry   *Registry
}

func NewService(deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Service{
		deps:       deps,
		references: NewReferenceGenerator(deps.Now),
		registry:   NewRegistry(),
	}
}

func (svc *Service) Registry() *Registry {
	return svc.registry
}

// Open starts a Drafting session for userID, applying initial to the empty draft.
func (svc *Service) Open(ctx context.Context, userID string, initial DraftUpdate) (*Session, error) {
	now := svc.deps.Now().UTC()
	s := &Session{
		id:        uuid.NewString(),
		userID:    userID,
		state:     StateDrafting,
		createdAt: now,
		updatedAt: now,
		svc:       svc,
	}

	if _, err := s.UpdateDraft(ctx, initial); err != nil {
		return nil, err
	}

	svc.registry.put(s)
	svc.audit(ctx, s, "transfer.opened")

	return s, nil
}

// Get returns the session with id if it belongs to userID.
func (svc *Service) Get(id, userID string) (*Session, error) {
	s, ok := svc.registry.get(id)
	if !ok || s.userID != userID {
		return nil, apperr.ErrSessionNotFound
	}
	return s, nil
}

func (svc *Service) audit(ctx context.Context, s *Session, description string) {
	if svc.deps.Activity == nil {
		return
	}

	err := svc.deps.Activity.Insert(ctx, &models.ActivityLog{
		UserID:      s.userID,
		Entity:      models.ActivityEntityTransfer,
		EntityId:    s.id,
		Description: description,
	})
	if err != nil {
		svc.deps.Logger.Error("failed to write activity log", "session_id", s.id, "description", description, "error", err.Error())
	}
}
