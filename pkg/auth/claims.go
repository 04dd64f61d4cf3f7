// Package auth authenticates API callers. Tokens come from an external
// identity provider and are verified against its JWKS; browser clients
// exchange a token once for a server-side session cookie.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing the caller's claims.
	ClaimsKey contextKey = "claims"
	// TokenKey is the context key for storing the raw JWT, when the request carried one.
	TokenKey contextKey = "token"
)

// Claims identifies the caller. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// GetClaims retrieves claims from the request context.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok && claims != nil
}

// GetToken retrieves the raw JWT string from the request context.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

// WithClaims returns ctx carrying claims. Used by the middleware and by
// callers that run work on behalf of a user outside a request.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}
