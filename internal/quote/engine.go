// Package quote prices a transfer and checks it against balance and limits.
// Nothing in this package mutates an account.
package quote

import (
	"context"
	"math"
	"time"

	"github.com/cradoe/remitflow/internal/apperr"
	"github.com/cradoe/remitflow/internal/ledger"
	"github.com/cradoe/remitflow/internal/models"
)

// RejectionObserver is told about every quote that fails validation.
type RejectionObserver interface {
	ObserveQuoteRejected(reason string)
}

type Engine struct {
	observer RejectionObserver
	now      func() time.Time
}

func NewEngine(observer RejectionObserver) *Engine {
	return &Engine{observer: observer, now: time.Now}
}

// WithClock sets the clock used to roll account usage into the current period.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Quote validates amount for a transfer of type t out of account and prices it.
// Checks run in a fixed order and the first failure is returned.
func (e *Engine) Quote(ctx context.Context, account *models.Account, t models.TransferType, amount models.Amount) (models.FeeQuote, error) {
	q, err := quote(ledger.AsOf(account, e.now()), t, amount)
	if err != nil {
		if e.observer != nil {
			e.observer.ObserveQuoteRejected(string(apperr.CodeOf(err)))
		}
		return models.FeeQuote{}, err
	}
	return q, nil
}

func quote(account *models.Account, t models.TransferType, amount models.Amount) (models.FeeQuote, error) {
	if !t.Valid() {
		return models.FeeQuote{}, apperr.ErrInvalidTransferType
	}

	if !amount.IsPositive() {
		return models.FeeQuote{}, apperr.ErrInvalidAmount
	}

	fee := Fee(t, amount)
	if amount > math.MaxInt64-fee {
		return models.FeeQuote{}, apperr.WithDetail(apperr.CodeInsufficientFunds,
			apperr.ErrInsufficientFunds.Message, amount-account.AvailableBalance)
	}
	total := amount + fee

	if total > account.AvailableBalance {
		return models.FeeQuote{}, apperr.WithDetail(apperr.CodeInsufficientFunds,
			apperr.ErrInsufficientFunds.Message, total-account.AvailableBalance)
	}

	headroom := ledger.HeadroomOf(account)

	if amount > headroom.DailyRemaining {
		return models.FeeQuote{}, apperr.WithDetail(apperr.CodeDailyLimitExceeded,
			apperr.ErrDailyLimitExceeded.Message, headroom.DailyRemaining)
	}

	if amount > headroom.MonthlyRemaining {
		return models.FeeQuote{}, apperr.WithDetail(apperr.CodeMonthlyLimitExceeded,
			apperr.ErrMonthlyLimitExceeded.Message, headroom.MonthlyRemaining)
	}

	if limit, ok := PerTransactionCap(t); ok && amount > limit {
		return models.FeeQuote{}, apperr.WithDetail(apperr.CodePerTransactionCap,
			apperr.ErrPerTransactionCap.Message, limit)
	}

	rail, eta := Route(t, amount)

	return models.FeeQuote{
		Amount:     amount,
		Fee:        fee,
		TotalDebit: total,
		Rail:       rail,
		ETA:        eta,
	}, nil
}

// MaxSendable is the largest amount Quote would accept before fees are considered.
// account must already be rolled to the current period.
func MaxSendable(account *models.Account, t models.TransferType) models.Amount {
	headroom := ledger.HeadroomOf(account)
	ceiling := models.Min(account.AvailableBalance, headroom.DailyRemaining, headroom.MonthlyRemaining)
	if limit, ok := PerTransactionCap(t); ok {
		ceiling = models.Min(ceiling, limit)
	}
	if ceiling < 0 {
		return 0
	}
	return ceiling
}
