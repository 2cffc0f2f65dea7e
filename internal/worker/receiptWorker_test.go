package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cradoe/remitflow/internal/helper"
	"github.com/cradoe/remitflow/internal/mocks"
	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/repository/memory"
	"github.com/cradoe/remitflow/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type outcomes struct {
	mu   sync.Mutex
	seen []string
}

func (o *outcomes) ObserveReceipt(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, outcome)
}

func newTestWorker(t *testing.T, mailer *mocks.MockMailer) (*Worker, *outcomes) {
	t.Helper()

	store := memory.New()
	require.NoError(t, store.Credential().Upsert(context.Background(), &models.Credential{
		UserID: "user-1", TransactionPasswordHash: "x", Contact: "user1@example.com",
	}))

	observed := &outcomes{}
	wk := New(&Worker{
		Credentials: store.Credential(),
		Mailer:      mailer,
		Helper:      helper.New("http://localhost", &sync.WaitGroup{}, nil),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Observer:    observed,
		Ctx:         context.Background(),
	})
	return wk, observed
}

func committedPayload(t *testing.T, userID string) []byte {
	t.Helper()

	payload, err := json.Marshal(stream.TransferCommitted{
		ReferenceNumber: "TRF20250301093015000001",
		UserID:          userID,
		DestinationName: "Priya Sharma",
		Amount:          models.Rupees(15000),
		Fee:             models.Rupees(5),
		Total:           models.Rupees(15005),
		Rail:            models.RailIMPS,
		ETA:             "30 minutes",
		Purpose:         models.PurposeFamilyMaintenance,
		CommittedAt:     time.Now(),
	})
	require.NoError(t, err)
	return payload
}

func TestSendReceipt(t *testing.T) {
	mailer := &mocks.MockMailer{}
	mailer.On("Send", "user1@example.com", mock.Anything, []string{"receipt.tmpl"}).Return(nil)
	wk, observed := newTestWorker(t, mailer)

	require.NoError(t, wk.sendReceipt(committedPayload(t, "user-1")))

	mailer.AssertExpectations(t)
	data := mailer.LastData()
	assert.Equal(t, "Family Maintenance", data["Purpose"])
	assert.Equal(t, models.Rupees(15005), data["Total"])
	assert.Equal(t, "imps", data["Rail"])
	assert.Equal(t, []string{"sent"}, observed.seen)
}

func TestSendReceipt_UnknownUserIsSkipped(t *testing.T) {
	mailer := &mocks.MockMailer{}
	wk, observed := newTestWorker(t, mailer)

	require.NoError(t, wk.sendReceipt(committedPayload(t, "user-9")))

	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []string{"skipped"}, observed.seen)
}

func TestSendReceipt_Failures(t *testing.T) {
	mailer := &mocks.MockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	wk, observed := newTestWorker(t, mailer)

	require.Error(t, wk.sendReceipt([]byte("not json")))
	require.Error(t, wk.sendReceipt(committedPayload(t, "user-1")))

	assert.Equal(t, []string{"skipped", "failed"}, observed.seen)
}
