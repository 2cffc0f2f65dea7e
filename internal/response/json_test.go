package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOkResponse_ConvertsMapKeys(t *testing.T) {
	rr := httptest.NewRecorder()

	err := JSONOkResponse(rr, map[string]any{
		"ActiveSessions": 2,
		"Nested":         map[string]any{"DailyUsed": "10.00"},
	}, "", nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Request successful", body.Message)
	assert.Contains(t, body.Data, "active_sessions")
	assert.Equal(t, map[string]any{"daily_used": "10.00"}, body.Data["nested"])
}

func TestConvertKeysToSnakeCase_DescendsIntoSlices(t *testing.T) {
	got := ConvertKeysToSnakeCase(map[string]any{
		"RecentTransfers": []any{
			map[string]any{"ReferenceNumber": "TRF1"},
			"plain",
		},
	})

	assert.Equal(t, map[string]any{
		"recent_transfers": []any{
			map[string]any{"reference_number": "TRF1"},
			"plain",
		},
	}, got)
}

func TestJSONCreatedResponse_SetsHeaders(t *testing.T) {
	rr := httptest.NewRecorder()

	headers := make(http.Header)
	headers.Set("Location", "/v1/transfers/abc")

	require.NoError(t, JSONCreatedResponse(rr, nil, "Transfer started", headers))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/v1/transfers/abc", rr.Header().Get("Location"))
}

func TestJSONErrorResponse_Defaults(t *testing.T) {
	rr := httptest.NewRecorder()

	require.NoError(t, JSONErrorResponse(rr, []string{"bad"}, "", 0, nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Request failed")
}

func TestMetricsResponseWriter_RecordsFirstStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	mw := NewMetricsResponseWriter(rr)

	mw.WriteHeader(http.StatusTeapot)
	mw.WriteHeader(http.StatusOK)
	n, err := mw.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, mw.StatusCode)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, mw.BytesCount)
}
