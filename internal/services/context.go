package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/kedarvyas/mandirapp/pkg/token"
)

// AuthContextValue is the authenticated caller extracted from a validated
// access token; every org-scoped query is filtered by OrganizationID.
type AuthContextValue struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Email          string
	Phone          string
	Role           string
	Type           token.JWTType
}

type authContextKey struct{}

func NewContextWithAuth(ctx context.Context, value *AuthContextValue) context.Context {
	return context.WithValue(ctx, authContextKey{}, value)
}

func AuthFromContext(ctx context.Context) (*AuthContextValue, bool) {
	value, ok := ctx.Value(authContextKey{}).(*AuthContextValue)
	return value, ok
}
