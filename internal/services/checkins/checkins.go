package checkins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kedarvyas/mandirapp/internal/constants"
	"github.com/kedarvyas/mandirapp/internal/dto"
	"github.com/kedarvyas/mandirapp/internal/repository"
	svc "github.com/kedarvyas/mandirapp/internal/services"
	"github.com/kedarvyas/mandirapp/pkg/logger"
)

var (
	_ MemberRepository  = (*repository.MemberRepository)(nil)
	_ CheckInRepository = (*repository.CheckInRepository)(nil)
)

type MemberRepository interface {
	Get(ctx context.Context, filter repository.MemberRepositoryFilter) (*repository.Member, error)
}

type CheckInRepository interface {
	Create(ctx context.Context, checkIn *repository.CheckIn) (*repository.CheckIn, error)
	List(ctx context.Context, filter repository.CheckInRepositoryFilter) ([]repository.CheckIn, error)
}

type CheckIn struct {
	DB          *sqlx.DB
	Logger      *logger.Logger
	MemberRepo  MemberRepository
	CheckInRepo CheckInRepository
}

func New(db *sqlx.DB, logger *logger.Logger, memberRepo MemberRepository, checkInRepo CheckInRepository) *CheckIn {
	return &CheckIn{
		DB:          db,
		Logger:      logger,
		MemberRepo:  memberRepo,
		CheckInRepo: checkInRepo,
	}
}

// ResolveToken maps a scanned QR token to the member it identifies. The
// token is the entire trust mechanism: exact match, scoped to the
// organization. No match is a distinct user-visible outcome.
func (c *CheckIn) ResolveToken(ctx context.Context, orgID uuid.UUID, qrToken string) (*dto.Member, error) {
	if qrToken == "" {
		return nil, &svc.ApiError{
			Status:  http.StatusBadRequest,
			Message: "No code was scanned",
		}
	}

	member, err := c.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		OrganizationID: &orgID,
		QRToken:        &qrToken,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &svc.ApiError{
				Status:  http.StatusNotFound,
				Message: "Member not found for this code",
			}
		}
		return nil, err
	}

	return mapMemberToHandler(member), nil
}

// Commit records a confirmed check-in. A member whose status is not active
// is still checkable; the result carries a warning instead of an error.
// Repeat check-ins on the same day are allowed — every confirmation appends
// a row.
func (c *CheckIn) Commit(ctx context.Context, orgID uuid.UUID, memberID uuid.UUID) (*dto.CheckInResult, error) {
	member, err := c.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		ID:             &memberID,
		OrganizationID: &orgID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &svc.ApiError{
				Status:  http.StatusNotFound,
				Message: "Member not found",
			}
		}
		return nil, err
	}

	created, err := c.CheckInRepo.Create(ctx, &repository.CheckIn{
		MemberID:       member.ID,
		OrganizationID: member.OrganizationID,
	})
	if err != nil {
		return nil, err
	}

	result := &dto.CheckInResult{
		CheckIn: &dto.CheckIn{
			ID:          created.ID,
			MemberID:    created.MemberID,
			CheckedInAt: created.CheckedInAt,
		},
		Member: mapMemberToHandler(member),
	}
	if member.Status != string(constants.MemberStatusActive) {
		result.Warning = fmt.Sprintf("Member status is %q, not active", member.Status)
	}

	return result, nil
}

func (c *CheckIn) ListRecent(ctx context.Context, orgID uuid.UUID, limit uint64) ([]*dto.CheckIn, error) {
	if limit == 0 {
		limit = 50
	}

	checkIns, err := c.CheckInRepo.List(ctx, repository.CheckInRepositoryFilter{
		OrganizationID: &orgID,
		Limit:          limit,
	})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CheckIn, 0, len(checkIns))
	for _, row := range checkIns {
		result = append(result, &dto.CheckIn{
			ID:          row.ID,
			MemberID:    row.MemberID,
			CheckedInAt: row.CheckedInAt,
		})
	}
	return result, nil
}

func mapMemberToHandler(member *repository.Member) *dto.Member {
	return &dto.Member{
		ID:             member.ID,
		OrganizationID: member.OrganizationID,
		Phone:          member.Phone.String,
		FirstName:      member.FirstName,
		LastName:       member.LastName,
		PhotoURL:       member.PhotoURL.String,
		Status:         member.Status,
		IsPrimeMember:  member.IsPrimeMember,
		CreatedAt:      member.CreatedAt,
	}
}
