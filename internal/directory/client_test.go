package directory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_VerifyAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		switch r.URL.Path {
		case "/v1/accounts/HDFC0001234/123456789012":
			w.Write([]byte(`{"ok":true,"bank_name":"HDFC Bank","account_name":"PRIYA SHARMA"}`))
		case "/v1/accounts/HDFC0001234/000000000000":
			w.Write([]byte(`{"ok":false}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret"}, discardLogger(), nil)

	match, err := client.VerifyAccount(context.Background(), "HDFC0001234", "123456789012")
	require.NoError(t, err)
	assert.Equal(t, "HDFC Bank", match.BankName)
	assert.Equal(t, "PRIYA SHARMA", match.AccountName)

	_, err = client.VerifyAccount(context.Background(), "HDFC0001234", "000000000000")
	require.ErrorIs(t, err, ErrNotRegistered)

	_, err = client.VerifyAccount(context.Background(), "ICIC0002345", "1")
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestClient_VerifyDirectID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/payees/priya@okaxis" {
			w.Write([]byte(`{"ok":true,"display_name":"Priya Sharma"}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, discardLogger(), nil)

	payee, err := client.VerifyDirectID(context.Background(), "priya@okaxis")
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", payee.DisplayName)

	_, err = client.VerifyDirectID(context.Background(), "nobody@okaxis")
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestClient_TimeoutSurfacesDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, discardLogger(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.VerifyAccount(ctx, "HDFC0001234", "123456789012")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_BreakerOpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, ConsecutiveFailures: 2, OpenFor: time.Minute}, discardLogger(), nil)

	for i := 0; i < 2; i++ {
		_, err := client.VerifyAccount(context.Background(), "HDFC0001234", "123456789012")
		require.ErrorIs(t, err, ErrUnavailable)
	}

	_, err := client.VerifyAccount(context.Background(), "HDFC0001234", "123456789012")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_NotRegisteredDoesNotTripBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, ConsecutiveFailures: 1}, discardLogger(), nil)

	for i := 0; i < 3; i++ {
		_, err := client.VerifyDirectID(context.Background(), "a@b")
		require.True(t, errors.Is(err, ErrNotRegistered))
	}
}

func TestStatic(t *testing.T) {
	dir := NewStatic()
	ctx := context.Background()

	match, err := dir.VerifyAccount(ctx, "SBIN0001234", "123456789")
	require.NoError(t, err)
	assert.Equal(t, "State Bank of India", match.BankName)

	_, err = dir.VerifyAccount(ctx, "ZZZZ0001234", "123456789")
	require.ErrorIs(t, err, ErrNotRegistered)

	_, err = dir.VerifyAccount(ctx, "SBIN0001234", "12ab")
	require.ErrorIs(t, err, ErrNotRegistered)

	payee, err := dir.VerifyDirectID(ctx, "priya.sharma@paytm")
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", payee.DisplayName)

	_, err = dir.VerifyDirectID(ctx, "priya@unknownbank")
	require.ErrorIs(t, err, ErrNotRegistered)
}
