package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cradoe/remitflow/internal/transfer"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector()

	c.ObserveQuoteRejected("daily_limit_exceeded")
	c.ObserveQuoteRejected("daily_limit_exceeded")
	c.ObserveOTPFailure("code_mismatch")
	c.ObserveTransition(transfer.StateAwaitingVerification, transfer.StateCommitted)
	c.ObserveCommitRace()
	c.ObserveLookup("verify_account", "ok", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.quotesRejected.WithLabelValues("daily_limit_exceeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.otpFailures.WithLabelValues("code_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sessionsCommitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commitRaces))
	assert.Equal(t, 1, testutil.CollectAndCount(c.lookupDuration))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.ObserveCommitRace()

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "transfer_commit_races_total 1")
}
