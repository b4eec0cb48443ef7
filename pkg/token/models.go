package token

import (
	"time"

	"github.com/google/uuid"
)

type JWTType string

const (
	AccessTokenExpirationTime  = time.Minute * 15
	RefreshTokenExpirationTime = time.Hour * 24 * 7

	RefreshTokenName = "refresh_token"
	AccessTokenName  = "access_token"

	JWTTypeStaff  JWTType = "staff"
	JWTTypeMember JWTType = "member"
)

type CreateTokenParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Email          string
	Phone          string
	Role           string
	JwtType        JWTType
	Duration       time.Duration
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type TokenPairParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Email          string
	Phone          string
	Role           string
	JwtType        JWTType
}
