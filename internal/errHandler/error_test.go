package errHandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cradoe/remitflow/internal/apperr"
	"github.com/cradoe/remitflow/internal/mocks"
	"github.com/cradoe/remitflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestHandler(mailer *mocks.MockMailer, notify string) *ErrorRepository {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(notify, "http://localhost", mailer, logger)
}

func TestWorkflowFailure_Status(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"input", apperr.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{"limit", apperr.WithDetail(apperr.CodeDailyLimitExceeded, "daily limit exceeded", models.Rupees(10)), http.StatusUnprocessableEntity},
		{"authorization", apperr.ErrCodeMismatch, http.StatusUnprocessableEntity},
		{"transition", apperr.ErrInvalidTransition, http.StatusConflict},
		{"commit race", apperr.ErrLimitExceededAtCommit, http.StatusConflict},
		{"session", apperr.ErrSessionNotFound, http.StatusNotFound},
		{"infrastructure", apperr.ErrLookupUnavailable, http.StatusServiceUnavailable},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(nil, "")
			rr := httptest.NewRecorder()

			h.WorkflowFailure(rr, httptest.NewRequest(http.MethodPost, "/v1/transfers/x/otp", nil), tt.err, "reviewing")

			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestWorkflowFailure_Body(t *testing.T) {
	h := newTestHandler(nil, "")
	rr := httptest.NewRecorder()

	err := apperr.WithDetail(apperr.CodeInsufficientFunds, "insufficient balance", models.Rupees(500))
	h.WorkflowFailure(rr, httptest.NewRequest(http.MethodPost, "/", nil), err, "drafting")

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   struct {
			Code     string `json:"code"`
			Category string `json:"category"`
			Detail   string `json:"detail"`
			State    string `json:"state"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

	assert.False(t, body.Success)
	assert.Equal(t, "Insufficient balance", body.Message)
	assert.Equal(t, "insufficient_funds", body.Error.Code)
	assert.Equal(t, "limit", body.Error.Category)
	assert.Equal(t, "500.00", body.Error.Detail)
	assert.Equal(t, "drafting", body.Error.State)
}

func TestReportServerError_Notifies(t *testing.T) {
	mailer := &mocks.MockMailer{}
	mailer.On("Send", "ops@example.com", mock.Anything, []string{"error-notification.tmpl"}).Return(nil)

	h := newTestHandler(mailer, "ops@example.com")
	h.ReportServerError(nil, errors.New("worker crashed"))

	mailer.AssertExpectations(t)
}
