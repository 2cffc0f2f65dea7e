// Package ledger owns the daily and monthly usage counters of source accounts.
// Counters only move through Commit, once per transaction record id.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cradoe/remitflow/internal/apperr"
	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/repository"
)

// Headroom is what an account can still send before a limit is hit.
type Headroom struct {
	DailyRemaining   models.Amount `json:"daily_remaining"`
	MonthlyRemaining models.Amount `json:"monthly_remaining"`
}

// AsOf returns a copy of account with its usage rolled forward to now.
func AsOf(account *models.Account, now time.Time) *models.Account {
	current := *account
	current.RollUsage(now)
	return &current
}

// HeadroomOf never reports a negative remainder. Counters are read as they are,
// so pass an account from AsOf to see the current period.
func HeadroomOf(account *models.Account) Headroom {
	h := Headroom{
		DailyRemaining:   account.DailyRemaining(),
		MonthlyRemaining: account.MonthlyRemaining(),
	}
	if h.DailyRemaining < 0 {
		h.DailyRemaining = 0
	}
	if h.MonthlyRemaining < 0 {
		h.MonthlyRemaining = 0
	}
	return h
}

// Recheck validates a record against the freshly locked account.
type Recheck func(account *models.Account) error

type Ledger struct {
	repo   repository.LedgerRepository
	logger *slog.Logger
}

func New(repo repository.LedgerRepository, logger *slog.Logger) *Ledger {
	return &Ledger{repo: repo, logger: logger}
}

// Commit re-runs recheck inside the per-account critical section and, if it passes,
// rolls usage to the period of record.CreatedAt, increments usage by record.Amount and stores record. A limit failure from recheck
// is reported as LimitExceededAtCommit. Replaying an applied record id is a no-op
// that returns applied=false.
func (l *Ledger) Commit(ctx context.Context, record *models.TransactionRecord, recheck Recheck) (bool, error) {
	applied, err := l.repo.Commit(ctx, record, func(account *models.Account) error {
		return recheck(account)
	})
	if err != nil {
		if apperr.CategoryOf(err) == apperr.CategoryLimit {
			var cause *apperr.Error
			errors.As(err, &cause)
			l.logger.Warn("commit rejected by re-check",
				"record_id", record.ID,
				"account_id", record.SourceAccountID,
				"reason", cause.Code,
			)
			return false, &apperr.Error{
				Code:    apperr.CodeLimitExceededAtCommit,
				Message: apperr.ErrLimitExceededAtCommit.Message,
				Detail:  cause.Detail,
				Err:     err,
			}
		}

		if errors.Is(err, repository.ErrAccountNotFound) {
			return false, apperr.Wrap(apperr.CodeNotFound, "source account not found", err)
		}

		var typed *apperr.Error
		if errors.As(err, &typed) {
			return false, err
		}

		if errors.Is(err, context.DeadlineExceeded) {
			return false, apperr.Wrap(apperr.CodeTimeout, "ledger commit timed out", err)
		}
		return false, apperr.Wrap(apperr.CodeStoreUnavailable, "ledger commit failed", err)
	}

	if !applied {
		l.logger.Info("duplicate commit ignored", "record_id", record.ID)
		return false, nil
	}

	l.logger.Info("usage committed",
		"record_id", record.ID,
		"reference", record.ReferenceNumber,
		"account_id", record.SourceAccountID,
		"amount", record.Amount.String(),
	)

	return true, nil
}
