package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kedarvyas/mandirapp/internal/constants"
	"github.com/kedarvyas/mandirapp/internal/dto"
	"github.com/kedarvyas/mandirapp/internal/helpers"
	"github.com/kedarvyas/mandirapp/internal/repository"
	svc "github.com/kedarvyas/mandirapp/internal/services"
	"github.com/kedarvyas/mandirapp/pkg/cache"
	"github.com/kedarvyas/mandirapp/pkg/logger"
	"github.com/kedarvyas/mandirapp/pkg/sms"
	"github.com/kedarvyas/mandirapp/pkg/token"
)

const otpTTL = 5 * time.Minute

var _ MemberRepository = (*repository.MemberRepository)(nil)

type MemberRepository interface {
	Get(ctx context.Context, filter repository.MemberRepositoryFilter) (*repository.Member, error)
	Create(ctx context.Context, member *repository.Member, tx *sqlx.Tx) (*repository.Member, error)
}

type OrganizationLookup interface {
	GetByCode(ctx context.Context, code string) (*dto.Organization, error)
}

type TokenService interface {
	GenerateTokenPair(params *token.TokenPairParams) (*token.TokenPair, error)
}

// Identity implements the phone-OTP sign-in flow for members. Codes are
// short-lived server-side state held in Redis, delivered over SMS.
type Identity struct {
	Logger       *logger.Logger
	Cache        *cache.Redis
	SMS          sms.Sender
	TokenService TokenService
	MemberRepo   MemberRepository
	OrgLookup    OrganizationLookup
}

func New(logger *logger.Logger, redis *cache.Redis, sender sms.Sender, tokenService TokenService, memberRepo MemberRepository, orgLookup OrganizationLookup) *Identity {
	return &Identity{
		Logger:       logger,
		Cache:        redis,
		SMS:          sender,
		TokenService: tokenService,
		MemberRepo:   memberRepo,
		OrgLookup:    orgLookup,
	}
}

func otpKey(orgID uuid.UUID, phone string) string {
	return fmt.Sprintf("otp:%s:%s", orgID, phone)
}

// RequestOTP issues a one-time code for the phone number within the
// organization identified by the join code.
func (i *Identity) RequestOTP(ctx context.Context, input dto.RequestOTPInput) error {
	org, err := i.OrgLookup.GetByCode(ctx, input.OrgCode)
	if err != nil {
		return err
	}

	code := helpers.GenerateOTP()
	if code == "" {
		return errors.New("failed to generate otp")
	}

	if err := i.Cache.SetPrimitive(ctx, otpKey(org.ID, input.Phone), helpers.HashToken(code), otpTTL); err != nil {
		return err
	}

	message := fmt.Sprintf("Your %s verification code is %s", org.Name, code)
	if err := i.SMS.Send(ctx, input.Phone, message); err != nil {
		return err
	}

	return nil
}

// VerifyOTP checks the submitted code and issues a member session. The code
// is consumed on success: a second verify with the same code fails.
func (i *Identity) VerifyOTP(ctx context.Context, input dto.VerifyOTPInput) (*dto.AuthResponse, error) {
	org, err := i.OrgLookup.GetByCode(ctx, input.OrgCode)
	if err != nil {
		return nil, err
	}

	key := otpKey(org.ID, input.Phone)
	stored, err := i.Cache.GetPrimitive(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, &svc.ApiError{
				Status:  http.StatusUnauthorized,
				Message: "Invalid or expired code",
			}
		}
		return nil, err
	}

	if stored != helpers.HashToken(input.Code) {
		return nil, &svc.ApiError{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired code",
		}
	}

	if err := i.Cache.Delete(ctx, key); err != nil {
		i.Logger.Warn().Err(err).Msg("failed to consume otp code")
	}

	member, err := i.findOrCreateMember(ctx, org.ID, input.Phone)
	if err != nil {
		return nil, err
	}

	tokenPairs, err := i.TokenService.GenerateTokenPair(&token.TokenPairParams{
		ID:             member.ID,
		OrganizationID: member.OrganizationID,
		Phone:          input.Phone,
		JwtType:        token.JWTTypeMember,
	})
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  tokenPairs.AccessToken,
		RefreshToken: tokenPairs.RefreshToken,
		TokenType:    "Bearer",
		Member:       mapMemberToHandler(member),
	}, nil
}

// findOrCreateMember resolves the verified phone to an existing member, or
// starts self-registration for a new one.
func (i *Identity) findOrCreateMember(ctx context.Context, orgID uuid.UUID, phone string) (*repository.Member, error) {
	member, err := i.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		OrganizationID: &orgID,
		Phone:          &phone,
	})
	if err == nil {
		return member, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return i.MemberRepo.Create(ctx, &repository.Member{
		OrganizationID: orgID,
		Phone:          repository.NullableString(phone),
		Status:         string(constants.MemberStatusPendingRegistration),
		IsIndependent:  true,
	}, nil)
}

func mapMemberToHandler(member *repository.Member) *dto.Member {
	return &dto.Member{
		ID:             member.ID,
		OrganizationID: member.OrganizationID,
		Phone:          member.Phone.String,
		FirstName:      member.FirstName,
		LastName:       member.LastName,
		Status:         member.Status,
		QRToken:        member.QRToken.String,
		CreatedAt:      member.CreatedAt,
	}
}
