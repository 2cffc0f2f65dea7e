package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cradoe/remitflow/internal/apperr"
	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*Ledger, *memory.Store) {
	t.Helper()

	store := memory.New()
	require.NoError(t, store.Account().Insert(context.Background(), &models.Account{
		ID:               "acc-001",
		UserID:           "user-1",
		AvailableBalance: models.Rupees(125000),
		DailyLimit:       models.Rupees(500000),
		DailyUsed:        models.Rupees(125000),
		MonthlyLimit:     models.Rupees(1000000),
		MonthlyUsed:      models.Rupees(450000),
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store.Ledger(), logger), store
}

func TestHeadroomOf(t *testing.T) {
	h := HeadroomOf(&models.Account{
		DailyLimit:   models.Rupees(100),
		DailyUsed:    models.Rupees(40),
		MonthlyLimit: models.Rupees(100),
		MonthlyUsed:  models.Rupees(150),
	})

	require.Equal(t, models.Rupees(60), h.DailyRemaining)
	require.Equal(t, models.Amount(0), h.MonthlyRemaining)
}

func TestAsOf_RollsCopy(t *testing.T) {
	account := &models.Account{
		DailyLimit:   models.Rupees(100),
		DailyUsed:    models.Rupees(100),
		MonthlyLimit: models.Rupees(1000),
		MonthlyUsed:  models.Rupees(400),
		UsageDate:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	rolled := AsOf(account, time.Date(2025, 3, 1, 18, 45, 0, 0, time.UTC))
	h := HeadroomOf(rolled)
	require.Equal(t, models.Rupees(100), h.DailyRemaining)
	require.Equal(t, models.Rupees(600), h.MonthlyRemaining)

	require.Equal(t, models.Rupees(100), account.DailyUsed)
	require.Equal(t, models.Amount(0), HeadroomOf(account).DailyRemaining)
}

func TestCommit_IncrementsOnce(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()

	record := &models.TransactionRecord{ID: "rec-1", ReferenceNumber: "TRF1", SourceAccountID: "acc-001", Amount: models.Rupees(15000)}
	pass := func(*models.Account) error { return nil }

	applied, err := l.Commit(ctx, record, pass)
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = l.Commit(ctx, record, pass)
	require.NoError(t, err)
	require.False(t, applied)

	account, _, err := store.Account().GetOne(ctx, "acc-001")
	require.NoError(t, err)
	require.Equal(t, models.Rupees(140000), account.DailyUsed)
	require.Equal(t, models.Rupees(465000), account.MonthlyUsed)
}

func TestCommit_LimitFailureBecomesCommitRace(t *testing.T) {
	l, _ := newTestLedger(t)

	record := &models.TransactionRecord{ID: "rec-1", SourceAccountID: "acc-001", Amount: models.Rupees(15000)}
	_, err := l.Commit(context.Background(), record, func(*models.Account) error {
		return apperr.WithDetail(apperr.CodeDailyLimitExceeded, "daily limit exceeded", models.Rupees(10))
	})

	require.ErrorIs(t, err, apperr.ErrLimitExceededAtCommit)
	require.ErrorIs(t, err, apperr.ErrDailyLimitExceeded)
	require.Equal(t, apperr.CategoryCommitRace, apperr.CategoryOf(err))
}

func TestCommit_UnknownAccount(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.Commit(context.Background(), &models.TransactionRecord{ID: "rec-1", SourceAccountID: "acc-999"},
		func(*models.Account) error { return nil })

	require.ErrorIs(t, err, apperr.ErrNotFound)
}
