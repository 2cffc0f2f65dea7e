package context

import (
	"context"
	"net/http"
)

type contextKey string

const (
	authenticatedUserContextKey = contextKey("authenticatedUser")
)

// AuthenticatedUser is the bearer of a valid token. Identity comes from the token subject.
type AuthenticatedUser struct {
	ID string
}

func ContextSetAuthenticatedUser(r *http.Request, user *AuthenticatedUser) *http.Request {
	ctx := context.WithValue(r.Context(), authenticatedUserContextKey, user)
	return r.WithContext(ctx)
}

func ContextGetAuthenticatedUser(r *http.Request) *AuthenticatedUser {
	user, ok := r.Context().Value(authenticatedUserContextKey).(*AuthenticatedUser)
	if !ok {
		return nil
	}

	return user
}
