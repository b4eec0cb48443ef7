package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/kedarvyas/mandirapp/internal/config"
	"github.com/kedarvyas/mandirapp/internal/constants"
	"github.com/kedarvyas/mandirapp/internal/dto"
	"github.com/kedarvyas/mandirapp/internal/repository"
	svc "github.com/kedarvyas/mandirapp/internal/services"
	emailpkg "github.com/kedarvyas/mandirapp/pkg/email"
	"github.com/kedarvyas/mandirapp/pkg/token"
)

var (
	_ StaffRepository = (*repository.StaffRepository)(nil)
	_ TokenRepository = (*repository.TokenRepository)(nil)
	_ TokenService    = (*token.Jwt)(nil)
)

type StaffRepository interface {
	Get(ctx context.Context, filter repository.StaffRepositoryFilter) (*repository.Staff, error)
	Exists(ctx context.Context, filter repository.StaffRepositoryFilter) (bool, error)
	Create(ctx context.Context, staff *repository.Staff, tx *sqlx.Tx) (*repository.Staff, error)
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string, tx *sqlx.Tx) error
}

type TokenRepository interface {
	Create(ctx context.Context, t *repository.Token, tx *sqlx.Tx) (*repository.Token, error)
	Get(ctx context.Context, filter *repository.TokenRepositoryFilter) (*repository.Token, error)
	Invalidate(ctx context.Context, staffID uuid.UUID, tokenType string, tx *sqlx.Tx) error
}

type TokenService interface {
	GenerateTokenPair(params *token.TokenPairParams) (*token.TokenPair, error)
	ValidateToken(tokenString string) (*token.UserClaims, error)
}

type Staff struct {
	DB           *sqlx.DB
	Config       *config.Config
	TokenService TokenService
	StaffRepo    StaffRepository
	TokenRepo    TokenRepository
	Email        *emailpkg.Email
}

func New(db *sqlx.DB, cfg *config.Config, tokenService TokenService, staffRepo StaffRepository, tokenRepo TokenRepository, email *emailpkg.Email) *Staff {
	return &Staff{
		DB:           db,
		Config:       cfg,
		TokenService: tokenService,
		StaffRepo:    staffRepo,
		TokenRepo:    tokenRepo,
		Email:        email,
	}
}

// Login authenticates a staff member and issues a token pair. The refresh
// token is persisted and rotated.
func (s *Staff) Login(ctx context.Context, input *dto.LoginInput) (*dto.AuthResponse, error) {
	staff, err := s.StaffRepo.Get(ctx, repository.StaffRepositoryFilter{
		Email: &input.Email,
	})
	if err != nil {
		// Generic message so the response does not leak whether the account
		// exists.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &svc.ApiError{
				Status:  http.StatusUnauthorized,
				Message: "invalid email or password",
			}
		}
		return nil, err
	}

	if !staff.IsActive {
		return nil, &svc.ApiError{
			Status:  http.StatusUnauthorized,
			Message: "invalid email or password",
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash.String), []byte(input.Password)); err != nil {
		return nil, &svc.ApiError{
			Status:  http.StatusUnauthorized,
			Message: "invalid email or password",
		}
	}

	return s.issueTokens(ctx, staff)
}

// SetPassword completes a staff invite by setting the password on an
// account that does not have one yet.
func (s *Staff) SetPassword(ctx context.Context, input *dto.SetPasswordInput) (*dto.AuthResponse, error) {
	staff, err := s.StaffRepo.Get(ctx, repository.StaffRepositoryFilter{
		Email: &input.Email,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &svc.ApiError{
				Status:  http.StatusBadRequest,
				Message: "Invalid email",
			}
		}
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if err := s.StaffRepo.SetPassword(ctx, staff.ID, string(hashedPassword), nil); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, staff)
}

// Refresh validates a refresh token against its persisted record and
// rotates it.
func (s *Staff) Refresh(ctx context.Context, input *dto.RefreshInput) (*dto.AuthResponse, error) {
	claims, err := s.TokenService.ValidateToken(input.RefreshToken)
	if err != nil {
		return nil, &svc.ApiError{
			Status:  http.StatusUnauthorized,
			Message: "Invalid refresh token",
		}
	}

	isValid := true
	stored, err := s.TokenRepo.Get(ctx, &repository.TokenRepositoryFilter{
		Token:   &input.RefreshToken,
		IsValid: &isValid,
	})
	if err != nil || stored.ExpiresAt.Before(time.Now()) {
		return nil, &svc.ApiError{
			Status:  http.StatusUnauthorized,
			Message: "Invalid refresh token",
		}
	}

	staff, err := s.StaffRepo.Get(ctx, repository.StaffRepositoryFilter{
		ID: &claims.ID,
	})
	if err != nil {
		return nil, &svc.ApiError{
			Status:  http.StatusUnauthorized,
			Message: "Invalid refresh token",
		}
	}

	return s.issueTokens(ctx, staff)
}

// Invite creates a staff account without a password and emails a
// set-password link.
func (s *Staff) Invite(ctx context.Context, orgID uuid.UUID, orgName string, input dto.CreateStaffInput) (*dto.Staff, error) {
	if !constants.IsValidStaffRole(input.Role) {
		return nil, &svc.ApiError{
			Status:  http.StatusBadRequest,
			Message: "Invalid staff role",
		}
	}

	emailExists, err := s.StaffRepo.Exists(ctx, repository.StaffRepositoryFilter{
		Email: &input.Email,
	})
	if err != nil {
		return nil, err
	}
	if emailExists {
		return nil, &svc.ApiError{
			Status:  http.StatusConflict,
			Message: "Email already exists",
		}
	}

	created, err := s.StaffRepo.Create(ctx, &repository.Staff{
		OrganizationID: orgID,
		Email:          input.Email,
		Name:           input.Name,
		Role:           input.Role,
		IsActive:       true,
	}, nil)
	if err != nil {
		return nil, err
	}

	body, err := emailpkg.RenderTemplate(emailpkg.TemplateTypeStaffInvite, emailpkg.StaffInviteData{
		Name:             created.Name,
		OrganizationName: orgName,
		Role:             created.Role,
		SetPasswordURL:   fmt.Sprintf("%s/set-password?email=%s", s.Config.Server.FEURL, created.Email),
	})
	if err != nil {
		return nil, err
	}

	if err := s.Email.Send(ctx, &emailpkg.SendEmailInput{
		To:      created.Email,
		Subject: fmt.Sprintf("You're invited to %s", orgName),
		Body:    body,
	}); err != nil {
		return nil, err
	}

	return mapRepositoryToHandler(created), nil
}

func (s *Staff) issueTokens(ctx context.Context, staff *repository.Staff) (*dto.AuthResponse, error) {
	tokenPairs, err := s.TokenService.GenerateTokenPair(&token.TokenPairParams{
		ID:             staff.ID,
		OrganizationID: staff.OrganizationID,
		Email:          staff.Email,
		Role:           staff.Role,
		JwtType:        token.JWTTypeStaff,
	})
	if err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.TokenRepo.Invalidate(ctx, staff.ID, token.RefreshTokenName, tx); err != nil {
		return nil, err
	}

	_, err = s.TokenRepo.Create(ctx, &repository.Token{
		StaffID:   staff.ID,
		Token:     tokenPairs.RefreshToken,
		TokenType: token.RefreshTokenName,
		IsValid:   true,
		ExpiresAt: time.Now().Add(token.RefreshTokenExpirationTime),
	}, tx)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  tokenPairs.AccessToken,
		RefreshToken: tokenPairs.RefreshToken,
		TokenType:    "Bearer",
		Staff:        mapRepositoryToHandler(staff),
	}, nil
}

func mapRepositoryToHandler(staff *repository.Staff) *dto.Staff {
	return &dto.Staff{
		ID:             staff.ID,
		OrganizationID: staff.OrganizationID,
		Email:          staff.Email,
		Name:           staff.Name,
		Role:           staff.Role,
		IsActive:       staff.IsActive,
	}
}
