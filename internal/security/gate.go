// Package security issues and checks the one-time codes that authorise a transfer.
//
// A challenge is bound to the hash of the exact request that was reviewed. Passing
// it yields a single-use Authorization for that same hash.
package security

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cradoe/remitflow/internal/apperr"
	"github.com/cradoe/remitflow/internal/models"
	"github.com/google/uuid"
)

const (
	DefaultTTL             = 10 * time.Minute
	DefaultMaxAttempts     = 3
	DefaultDeliveryTimeout = 10 * time.Second
	authorizationTTL       = 5 * time.Minute
)

// Observer is told about every failed verification step.
type Observer interface {
	ObserveOTPFailure(reason string)
}

type Config struct {
	Secret          []byte
	TTL             time.Duration
	MaxAttempts     int
	DeliveryTimeout time.Duration
	Now             func() time.Time
}

type Gate struct {
	store       ChallengeStore
	credentials CredentialChecker
	sender      Sender
	logger      *slog.Logger
	observer    Observer

	secret          []byte
	ttl             time.Duration
	maxAttempts     int
	deliveryTimeout time.Duration
	now             func() time.Time
}

func NewGate(cfg Config, store ChallengeStore, credentials CredentialChecker, sender Sender, logger *slog.Logger, observer Observer) *Gate {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = DefaultDeliveryTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Gate{
		store:           store,
		credentials:     credentials,
		sender:          sender,
		logger:          logger,
		observer:        observer,
		secret:          cfg.Secret,
		ttl:             cfg.TTL,
		maxAttempts:     cfg.MaxAttempts,
		deliveryTimeout: cfg.DeliveryTimeout,
		now:             cfg.Now,
	}
}

// Issue checks the transaction password and sends a fresh code for snapshotHash.
// Any earlier challenge for the same hash stops being valid, even if delivery fails.
func (g *Gate) Issue(ctx context.Context, userID, snapshotHash, password string) (*models.VerificationChallenge, error) {
	ok, err := g.credentials.CheckTransactionPassword(ctx, userID, password)
	if err != nil {
		return nil, infraError(err)
	}
	if !ok {
		g.observe(apperr.CodeInvalidCredential)
		return nil, apperr.ErrInvalidCredential
	}

	contact, err := g.credentials.Contact(ctx, userID)
	if err != nil {
		return nil, infraError(err)
	}

	if err := g.store.DeleteBySnapshot(ctx, snapshotHash); err != nil {
		return nil, infraError(err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, infraError(err)
	}

	issuedAt := g.now().UTC()
	challenge := &models.VerificationChallenge{
		ID:           uuid.NewString(),
		UserID:       userID,
		SnapshotHash: snapshotHash,
		IssuedAt:     issuedAt,
		ExpiresAt:    issuedAt.Add(g.ttl),
		Status:       models.ChallengePending,
	}
	challenge.CodeDigest = digestCode(g.secret, challenge.ID, code)

	deliverCtx, cancel := context.WithTimeout(ctx, g.deliveryTimeout)
	defer cancel()

	if err := g.sender.Send(deliverCtx, contact, code); err != nil {
		g.logger.Warn("otp delivery failed", "user_id", userID, "error", err.Error())
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Wrap(apperr.CodeTimeout, apperr.ErrTimeout.Message, err)
		}
		return nil, apperr.Wrap(apperr.CodeDeliveryFailed, apperr.ErrDeliveryFailed.Message, err)
	}

	// keep the record a little past expiry so late attempts report Expired, not NotFound
	if err := g.store.Save(ctx, challenge, g.ttl+time.Minute); err != nil {
		return nil, infraError(err)
	}

	g.logger.Info("verification challenge issued", "challenge_id", challenge.ID, "user_id", userID)

	return challenge, nil
}

// Verify checks code against the challenge. Each wrong code counts as an attempt;
// the attempt that reaches the ceiling reports AttemptsExceeded.
func (g *Gate) Verify(ctx context.Context, challengeID, code string) (*models.Authorization, error) {
	now := g.now()
	var outcome error

	updated, err := g.store.Update(ctx, challengeID, func(c *models.VerificationChallenge) {
		outcome = nil

		switch {
		case c.Status == models.ChallengeExpired || c.ExpiredAt(now):
			c.Status = models.ChallengeExpired
			outcome = apperr.ErrExpired
		case c.Status == models.ChallengeFailed || c.AttemptCount >= g.maxAttempts:
			c.Status = models.ChallengeFailed
			outcome = apperr.ErrAttemptsExceeded
		case c.Status == models.ChallengeVerified:
			outcome = apperr.ErrChallengeNotFound
		case !codeMatches(g.secret, c.ID, code, c.CodeDigest):
			c.AttemptCount++
			if c.AttemptCount >= g.maxAttempts {
				c.Status = models.ChallengeFailed
				outcome = apperr.ErrAttemptsExceeded
			} else {
				outcome = apperr.ErrCodeMismatch
			}
		default:
			c.Status = models.ChallengeVerified
		}
	})
	if err != nil {
		if errors.Is(err, ErrChallengeMissing) {
			return nil, apperr.ErrChallengeNotFound
		}
		return nil, infraError(err)
	}

	if outcome != nil {
		g.observe(apperr.CodeOf(outcome))
		g.logger.Info("otp verification rejected",
			"challenge_id", challengeID,
			"reason", apperr.CodeOf(outcome),
			"attempts", updated.AttemptCount,
		)
		return nil, outcome
	}

	token, err := newToken()
	if err != nil {
		return nil, infraError(err)
	}

	auth := &models.Authorization{
		Token:        token,
		ChallengeID:  updated.ID,
		SnapshotHash: updated.SnapshotHash,
		UserID:       updated.UserID,
		IssuedAt:     now.UTC(),
	}

	if err := g.store.SaveAuthorization(ctx, auth, authorizationTTL); err != nil {
		return nil, infraError(err)
	}

	if err := g.store.Delete(ctx, updated.ID); err != nil {
		g.logger.Warn("failed to drop verified challenge", "challenge_id", updated.ID, "error", err.Error())
	}

	return auth, nil
}

// Consume spends auth. It succeeds once, and only for the hash it was issued against.
func (g *Gate) Consume(ctx context.Context, auth *models.Authorization, snapshotHash string) error {
	if auth == nil || auth.Token == "" {
		return apperr.ErrAuthorizationInvalid
	}

	stored, found, err := g.store.TakeAuthorization(ctx, auth.Token)
	if err != nil {
		return infraError(err)
	}
	if !found || stored.SnapshotHash != snapshotHash || stored.UserID != auth.UserID {
		g.observe(apperr.CodeAuthorizationInvalid)
		return apperr.ErrAuthorizationInvalid
	}

	return nil
}

// Invalidate drops any live challenge for snapshotHash.
func (g *Gate) Invalidate(ctx context.Context, snapshotHash string) error {
	if err := g.store.DeleteBySnapshot(ctx, snapshotHash); err != nil {
		return infraError(err)
	}
	return nil
}

func (g *Gate) observe(code apperr.Code) {
	if g.observer != nil {
		g.observer.ObserveOTPFailure(string(code))
	}
}

func infraError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.CodeTimeout, apperr.ErrTimeout.Message, err)
	}
	return apperr.Wrap(apperr.CodeStoreUnavailable, apperr.ErrStoreUnavailable.Message, err)
}
