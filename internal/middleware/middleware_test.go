package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/cradoe/remitflow/internal/config"
	"github.com/cradoe/remitflow/internal/context"
	"github.com/cradoe/remitflow/internal/errHandler"
	"github.com/pascaldekloe/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

func newTestMiddleware() *Middleware {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{BaseURL: "http://localhost"}
	cfg.Jwt.SecretKey = testSecret

	return New(errHandler.New("", cfg.BaseURL, nil, logger), logger, cfg)
}

func signToken(t *testing.T, subject, issuer string, expires time.Time) string {
	t.Helper()

	var claims jwt.Claims
	claims.Subject = subject
	claims.Issued = jwt.NewNumericTime(time.Now())
	claims.NotBefore = jwt.NewNumericTime(time.Now())
	claims.Expires = jwt.NewNumericTime(expires)
	claims.Issuer = issuer
	claims.Audiences = []string{issuer}

	token, err := claims.HMACSign(jwt.HS256, []byte(testSecret))
	require.NoError(t, err)
	return string(token)
}

func whoAmI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := context.ContextGetAuthenticatedUser(r)
		if user == nil {
			w.Write([]byte("anonymous"))
			return
		}
		w.Write([]byte(user.ID))
	})
}

func TestAuthenticate(t *testing.T) {
	mid := newTestMiddleware()
	handler := mid.Authenticate(whoAmI())

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no token", "", http.StatusOK, "anonymous"},
		{"valid", "Bearer " + signToken(t, "user-1", "http://localhost", time.Now().Add(time.Hour)), http.StatusOK, "user-1"},
		{"expired", "Bearer " + signToken(t, "user-1", "http://localhost", time.Now().Add(-time.Hour)), http.StatusUnauthorized, ""},
		{"wrong issuer", "Bearer " + signToken(t, "user-1", "http://elsewhere", time.Now().Add(time.Hour)), http.StatusUnauthorized, ""},
		{"malformed", "Token abc", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rr.Body.String())
			}
		})
	}
}

func TestRequireAuthenticatedUser(t *testing.T) {
	mid := newTestMiddleware()
	handler := mid.RequireAuthenticatedUser(whoAmI())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := context.ContextSetAuthenticatedUser(httptest.NewRequest(http.MethodGet, "/", nil), &context.AuthenticatedUser{ID: "user-1"})
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRecoverPanic(t *testing.T) {
	mid := newTestMiddleware()
	handler := mid.RecoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestLogAccess_PassesThrough(t *testing.T) {
	mid := newTestMiddleware()
	handler := mid.LogAccess(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(strconv.Itoa(42)))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "42", rr.Body.String())
}
