package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cradoe/remitflow/internal/apperr"
	"github.com/cradoe/remitflow/internal/directory"
	"github.com/cradoe/remitflow/internal/mocks"
	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Resolver, *mocks.MockDirectory, *memory.Store) {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.Account().Insert(ctx, &models.Account{ID: "acc-001", UserID: "user-1", Label: "Primary Savings", Number: "50100012345678"}))
	require.NoError(t, store.Account().Insert(ctx, &models.Account{ID: "acc-002", UserID: "user-1", Label: "Current", Number: "50100087654321"}))
	require.NoError(t, store.Account().Insert(ctx, &models.Account{ID: "acc-900", UserID: "user-2", Label: "Other"}))

	_, err := store.Beneficiary().Insert(ctx, &models.Beneficiary{
		ID: "ben-001", UserID: "user-1", Name: "Priya Sharma", AccountNumber: "123456789012",
		RoutingCode: "HDFC0001234", BankName: "HDFC Bank", Status: models.BeneficiaryVerified,
	})
	require.NoError(t, err)
	_, err = store.Beneficiary().Insert(ctx, &models.Beneficiary{
		ID: "ben-009", UserID: "user-1", Name: "Pending Person", AccountNumber: "999", RoutingCode: "SBIN0000001",
		Status: models.BeneficiaryUnverified,
	})
	require.NoError(t, err)

	dir := &mocks.MockDirectory{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(store.Account(), store.Beneficiary(), dir, time.Second, logger), dir, store
}

func TestResolve_OwnAccount(t *testing.T) {
	r, _, _ := setup(t)
	ctx := context.Background()

	got, err := r.Resolve(ctx, "user-1", "acc-001", models.TransferOwnAccount, models.AccountRef{AccountID: "acc-002"})
	require.NoError(t, err)
	assert.Equal(t, "Current", got.DisplayName)
	assert.Equal(t, "****4321", got.AccountMasked)

	_, err = r.Resolve(ctx, "user-1", "acc-001", models.TransferOwnAccount, models.AccountRef{AccountID: "acc-900"})
	require.ErrorIs(t, err, apperr.ErrInvalidDestination)

	_, err = r.Resolve(ctx, "user-1", "acc-001", models.TransferOwnAccount, models.AccountRef{AccountID: "acc-001"})
	require.ErrorIs(t, err, apperr.ErrInvalidDestination)

	_, err = r.Resolve(ctx, "user-1", "acc-001", models.TransferOwnAccount, models.AccountRef{AccountID: "missing"})
	require.ErrorIs(t, err, apperr.ErrInvalidDestination)
}

func TestResolve_SavedBeneficiary(t *testing.T) {
	r, _, _ := setup(t)
	ctx := context.Background()

	got, err := r.Resolve(ctx, "user-1", "acc-001", models.TransferSavedBeneficiary, models.BeneficiaryRef{BeneficiaryID: "ben-001"})
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", got.DisplayName)
	assert.Equal(t, "HDFC Bank", got.BankName)

	_, err = r.Resolve(ctx, "user-2", "acc-900", models.TransferSavedBeneficiary, models.BeneficiaryRef{BeneficiaryID: "ben-001"})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = r.Resolve(ctx, "user-1", "acc-001", models.TransferSavedBeneficiary, models.BeneficiaryRef{BeneficiaryID: "ben-009"})
	require.ErrorIs(t, err, apperr.ErrUnverified)
}

func TestResolve_KindMismatch(t *testing.T) {
	r, _, _ := setup(t)

	_, err := r.Resolve(context.Background(), "user-1", "acc-001", models.TransferSavedBeneficiary, models.AccountRef{AccountID: "acc-002"})
	require.ErrorIs(t, err, apperr.ErrInvalidDestination)
}

func TestResolve_NewBeneficiary(t *testing.T) {
	r, dir, store := setup(t)
	ctx := context.Background()

	dir.On("VerifyAccount", mock.Anything, "SBIN0004567", "30012345678").
		Return(directory.AccountMatch{BankName: "State Bank of India"}, nil).Once()

	input := models.NewBeneficiaryInput{Name: "Rahul Verma", AccountNumber: "30012345678", RoutingCode: "sbin0004567"}

	got, err := r.Resolve(ctx, "user-1", "acc-001", models.TransferNewBeneficiary, input)
	require.NoError(t, err)
	assert.Equal(t, models.TransferNewBeneficiary, got.Kind)
	assert.Equal(t, "State Bank of India", got.BankName)

	saved, found, err := store.Beneficiary().GetOne(ctx, got.ReferenceID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, saved.IsVerified())
	assert.Equal(t, "SBIN0004567", saved.RoutingCode)

	// the second add reuses the stored row without another lookup
	again, err := r.Resolve(ctx, "user-1", "acc-001", models.TransferNewBeneficiary, input)
	require.NoError(t, err)
	assert.Equal(t, got.ReferenceID, again.ReferenceID)
	dir.AssertExpectations(t)
}

func TestResolve_NewBeneficiaryInputErrors(t *testing.T) {
	r, dir, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   models.NewBeneficiaryInput
		wantErr error
	}{
		{"missing name", models.NewBeneficiaryInput{AccountNumber: "1", RoutingCode: "SBIN0004567"}, apperr.ErrInvalidBeneficiary},
		{"missing account", models.NewBeneficiaryInput{Name: "A", RoutingCode: "SBIN0004567"}, apperr.ErrInvalidBeneficiary},
		{"short code", models.NewBeneficiaryInput{Name: "A", AccountNumber: "1", RoutingCode: "SBIN000456"}, apperr.ErrMalformedRoutingCode},
		{"fifth char not zero", models.NewBeneficiaryInput{Name: "A", AccountNumber: "1", RoutingCode: "SBIN1004567"}, apperr.ErrMalformedRoutingCode},
		{"digits in bank part", models.NewBeneficiaryInput{Name: "A", AccountNumber: "1", RoutingCode: "SB1N0004567"}, apperr.ErrMalformedRoutingCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(ctx, "user-1", "acc-001", models.TransferNewBeneficiary, tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, apperr.CategoryInput, apperr.CategoryOf(err))
		})
	}

	dir.AssertNotCalled(t, "VerifyAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_NewBeneficiaryLookupFailures(t *testing.T) {
	tests := []struct {
		name      string
		lookupErr error
		wantErr   error
	}{
		{"rejected", directory.ErrNotRegistered, apperr.ErrVerificationFailed},
		{"timeout", context.DeadlineExceeded, apperr.ErrTimeout},
		{"unavailable", directory.ErrUnavailable, apperr.ErrLookupUnavailable},
		{"transport", errors.New("connection reset"), apperr.ErrLookupUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, dir, store := setup(t)
			dir.On("VerifyAccount", mock.Anything, "ICIC0002345", "400012345").
				Return(directory.AccountMatch{}, tt.lookupErr)

			_, err := r.Resolve(context.Background(), "user-1", "acc-001", models.TransferNewBeneficiary,
				models.NewBeneficiaryInput{Name: "A", AccountNumber: "400012345", RoutingCode: "ICIC0002345"})
			require.ErrorIs(t, err, tt.wantErr)

			list, _ := store.Beneficiary().GetAllByUserId(context.Background(), "user-1")
			require.Len(t, list, 2)
		})
	}
}

func TestResolve_LookupHonoursTimeout(t *testing.T) {
	r, dir, _ := setup(t)
	r.timeout = 10 * time.Millisecond

	dir.On("VerifyDirectID", mock.Anything, "slow@okaxis").
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(directory.Payee{}, context.DeadlineExceeded)

	_, err := r.Resolve(context.Background(), "user-1", "acc-001", models.TransferDirectID, models.DirectIDRef{ID: "slow@okaxis"})
	require.ErrorIs(t, err, apperr.ErrTimeout)
}

func TestResolve_DirectID(t *testing.T) {
	r, dir, _ := setup(t)
	ctx := context.Background()

	dir.On("VerifyDirectID", mock.Anything, "priya@paytm").Return(directory.Payee{DisplayName: "Priya Sharma"}, nil)
	dir.On("VerifyDirectID", mock.Anything, "ghost@paytm").Return(directory.Payee{}, directory.ErrNotRegistered)

	got, err := r.Resolve(ctx, "user-1", "acc-001", models.TransferDirectID, models.DirectIDRef{ID: "priya@paytm"})
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", got.DisplayName)

	_, err = r.Resolve(ctx, "user-1", "acc-001", models.TransferDirectID, models.DirectIDRef{ID: "ghost@paytm"})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	for _, bad := range []string{"no-at-sign", "a@paytm", "priya@pay1m", "priya@p"} {
		_, err = r.Resolve(ctx, "user-1", "acc-001", models.TransferDirectID, models.DirectIDRef{ID: bad})
		require.ErrorIs(t, err, apperr.ErrInvalidIdentifier, bad)
	}
}
