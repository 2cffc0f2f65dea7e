// Package resolver turns a transfer destination into a verified, display-ready
// target. Only the new-beneficiary path writes anything.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/cradoe/remitflow/internal/apperr"
	"github.com/cradoe/remitflow/internal/directory"
	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/repository"
	"github.com/google/uuid"
)

var (
	// four bank letters, a literal zero, six branch characters
	routingCodeRX = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	directIDRX    = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)
)

const DefaultLookupTimeout = 10 * time.Second

type Directory interface {
	VerifyAccount(ctx context.Context, routingCode, accountNumber string) (directory.AccountMatch, error)
	VerifyDirectID(ctx context.Context, id string) (directory.Payee, error)
}

type Resolver struct {
	accounts      repository.AccountRepository
	beneficiaries repository.BeneficiaryRepository
	directory     Directory
	timeout       time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

func New(accounts repository.AccountRepository, beneficiaries repository.BeneficiaryRepository, dir Directory, timeout time.Duration, logger *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}

	return &Resolver{
		accounts:      accounts,
		beneficiaries: beneficiaries,
		directory:     dir,
		timeout:       timeout,
		logger:        logger,
		now:           time.Now,
	}
}

// Resolve validates dest for a transfer of type t out of sourceAccountID on behalf of userID.
func (r *Resolver) Resolve(ctx context.Context, userID, sourceAccountID string, t models.TransferType, dest models.Destination) (models.ResolvedDestination, error) {
	if !t.Valid() {
		return models.ResolvedDestination{}, apperr.ErrInvalidTransferType
	}
	if dest == nil || dest.Kind() != t {
		return models.ResolvedDestination{}, apperr.ErrInvalidDestination
	}

	switch d := dest.(type) {
	case models.AccountRef:
		return r.resolveOwnAccount(ctx, userID, sourceAccountID, d)
	case models.BeneficiaryRef:
		return r.resolveSaved(ctx, userID, d)
	case models.NewBeneficiaryInput:
		return r.resolveNew(ctx, userID, d)
	case models.DirectIDRef:
		return r.resolveDirectID(ctx, d)
	}

	return models.ResolvedDestination{}, apperr.ErrInvalidDestination
}

func (r *Resolver) resolveOwnAccount(ctx context.Context, userID, sourceAccountID string, d models.AccountRef) (models.ResolvedDestination, error) {
	if d.AccountID == "" || d.AccountID == sourceAccountID {
		return models.ResolvedDestination{}, apperr.ErrInvalidDestination
	}

	account, found, err := r.accounts.GetOne(ctx, d.AccountID)
	if err != nil {
		return models.ResolvedDestination{}, storeError(err)
	}
	if !found || account.UserID != userID {
		return models.ResolvedDestination{}, apperr.ErrInvalidDestination
	}

	return models.ResolvedDestination{
		Kind:          models.TransferOwnAccount,
		ReferenceID:   account.ID,
		DisplayName:   account.Label,
		AccountMasked: account.MaskedNumber(),
	}, nil
}

func (r *Resolver) resolveSaved(ctx context.Context, userID string, d models.BeneficiaryRef) (models.ResolvedDestination, error) {
	beneficiary, found, err := r.beneficiaries.GetOne(ctx, d.BeneficiaryID)
	if err != nil {
		return models.ResolvedDestination{}, storeError(err)
	}
	if !found || beneficiary.UserID != userID {
		return models.ResolvedDestination{}, apperr.ErrNotFound
	}
	if !beneficiary.IsVerified() {
		return models.ResolvedDestination{}, apperr.ErrUnverified
	}

	return fromBeneficiary(models.TransferSavedBeneficiary, beneficiary), nil
}

func (r *Resolver) resolveNew(ctx context.Context, userID string, d models.NewBeneficiaryInput) (models.ResolvedDestination, error) {
	name := strings.TrimSpace(d.Name)
	number := strings.TrimSpace(d.AccountNumber)
	if name == "" || number == "" {
		return models.ResolvedDestination{}, apperr.ErrInvalidBeneficiary
	}

	routing := strings.ToUpper(strings.TrimSpace(d.RoutingCode))
	if !routingCodeRX.MatchString(routing) {
		return models.ResolvedDestination{}, apperr.ErrMalformedRoutingCode
	}

	existing, found, err := r.beneficiaries.FindByAccount(ctx, userID, routing, number)
	if err != nil {
		return models.ResolvedDestination{}, storeError(err)
	}
	if found {
		if !existing.IsVerified() {
			return models.ResolvedDestination{}, apperr.ErrUnverified
		}
		return fromBeneficiary(models.TransferNewBeneficiary, existing), nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	match, err := r.directory.VerifyAccount(lookupCtx, routing, number)
	if err != nil {
		if errors.Is(err, directory.ErrNotRegistered) {
			return models.ResolvedDestination{}, apperr.ErrVerificationFailed
		}
		r.logger.Warn("account verification lookup failed", "routing_code", routing, "error", err.Error())
		return models.ResolvedDestination{}, lookupError(err)
	}

	verifiedAt := r.now().UTC()
	beneficiary, err := r.beneficiaries.Insert(ctx, &models.Beneficiary{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          name,
		AccountNumber: number,
		RoutingCode:   routing,
		BankName:      match.BankName,
		Status:        models.BeneficiaryVerified,
		VerifiedAt:    &verifiedAt,
	})
	if err != nil {
		// a concurrent add of the same account wins; reuse its row
		if again, ok, findErr := r.beneficiaries.FindByAccount(ctx, userID, routing, number); findErr == nil && ok {
			return fromBeneficiary(models.TransferNewBeneficiary, again), nil
		}
		return models.ResolvedDestination{}, storeError(err)
	}

	r.logger.Info("beneficiary verified", "beneficiary_id", beneficiary.ID, "user_id", userID, "bank", beneficiary.BankName)

	return fromBeneficiary(models.TransferNewBeneficiary, beneficiary), nil
}

func (r *Resolver) resolveDirectID(ctx context.Context, d models.DirectIDRef) (models.ResolvedDestination, error) {
	id := strings.TrimSpace(d.ID)
	if !directIDRX.MatchString(id) {
		return models.ResolvedDestination{}, apperr.ErrInvalidIdentifier
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	payee, err := r.directory.VerifyDirectID(lookupCtx, id)
	if err != nil {
		if errors.Is(err, directory.ErrNotRegistered) {
			return models.ResolvedDestination{}, apperr.ErrNotFound
		}
		r.logger.Warn("payee lookup failed", "error", err.Error())
		return models.ResolvedDestination{}, lookupError(err)
	}

	return models.ResolvedDestination{
		Kind:        models.TransferDirectID,
		ReferenceID: id,
		DisplayName: payee.DisplayName,
	}, nil
}

func fromBeneficiary(kind models.TransferType, b *models.Beneficiary) models.ResolvedDestination {
	return models.ResolvedDestination{
		Kind:          kind,
		ReferenceID:   b.ID,
		DisplayName:   b.Name,
		AccountMasked: models.MaskAccountNumber(b.AccountNumber),
		BankName:      b.BankName,
	}
}

func lookupError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.CodeTimeout, apperr.ErrTimeout.Message, err)
	}
	return apperr.Wrap(apperr.CodeLookupUnavailable, apperr.ErrLookupUnavailable.Message, err)
}

func storeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.CodeTimeout, apperr.ErrTimeout.Message, err)
	}
	return apperr.Wrap(apperr.CodeStoreUnavailable, apperr.ErrStoreUnavailable.Message, err)
}
