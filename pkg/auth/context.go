package auth

import (
	"context"
	"fmt"
)

// GetUserIDFromContext returns the authenticated user id, or "" when the
// context carries no claims.
func GetUserIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok {
		return ""
	}
	return claims.Subject
}

// RequireUserIDFromContext is GetUserIDFromContext for operations that
// cannot proceed anonymously.
func RequireUserIDFromContext(ctx context.Context) (string, error) {
	userID := GetUserIDFromContext(ctx)
	if userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}
