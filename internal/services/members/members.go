package members

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kedarvyas/mandirapp/internal/constants"
	"github.com/kedarvyas/mandirapp/internal/dto"
	"github.com/kedarvyas/mandirapp/internal/helpers"
	"github.com/kedarvyas/mandirapp/internal/repository"
	svc "github.com/kedarvyas/mandirapp/internal/services"
	"github.com/kedarvyas/mandirapp/pkg/logger"
	"github.com/kedarvyas/mandirapp/pkg/storage"
)

// SearchResultLimit caps manual check-in search results.
const SearchResultLimit = 10

var (
	_ MemberRepository      = (*repository.MemberRepository)(nil)
	_ FamilyGroupRepository = (*repository.FamilyGroupRepository)(nil)
)

type MemberRepository interface {
	Get(ctx context.Context, filter repository.MemberRepositoryFilter) (*repository.Member, error)
	List(ctx context.Context, filter repository.MemberRepositoryFilter) ([]repository.Member, error)
	Exists(ctx context.Context, filter repository.MemberRepositoryFilter) (bool, error)
	Create(ctx context.Context, member *repository.Member, tx *sqlx.Tx) (*repository.Member, error)
	Update(ctx context.Context, member *repository.Member, tx *sqlx.Tx) (*repository.Member, error)
}

type FamilyGroupRepository interface {
	Get(ctx context.Context, filter repository.FamilyGroupRepositoryFilter) (*repository.FamilyGroup, error)
	Create(ctx context.Context, group *repository.FamilyGroup, tx *sqlx.Tx) (*repository.FamilyGroup, error)
	SetPrimeMember(ctx context.Context, groupID, memberID uuid.UUID, tx *sqlx.Tx) error
}

type Member struct {
	DB              *sqlx.DB
	Logger          *logger.Logger
	MemberRepo      MemberRepository
	FamilyGroupRepo FamilyGroupRepository
	Storage         storage.Storage
}

func New(db *sqlx.DB, logger *logger.Logger, memberRepo MemberRepository, familyGroupRepo FamilyGroupRepository, store storage.Storage) *Member {
	return &Member{
		DB:              db,
		Logger:          logger,
		MemberRepo:      memberRepo,
		FamilyGroupRepo: familyGroupRepo,
		Storage:         store,
	}
}

// Create handles front-desk registration by staff. The member starts in
// pending_invite and has no QR token until activation.
func (m *Member) Create(ctx context.Context, orgID uuid.UUID, input dto.CreateMemberInput) (*dto.Member, error) {
	phoneExists, err := m.MemberRepo.Exists(ctx, repository.MemberRepositoryFilter{
		OrganizationID: &orgID,
		Phone:          &input.Phone,
	})
	if err != nil {
		return nil, err
	}
	if phoneExists {
		return nil, &svc.ApiError{
			Status:  http.StatusConflict,
			Message: "A member with this phone number already exists",
		}
	}

	member, err := m.MemberRepo.Create(ctx, &repository.Member{
		OrganizationID: orgID,
		Phone:          repository.NullableString(input.Phone),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          repository.NullableString(input.Email),
		Status:         string(constants.MemberStatusPendingInvite),
		IsIndependent:  true,
	}, nil)
	if err != nil {
		return nil, err
	}

	return mapRepositoryToHandler(member), nil
}

// RegisterFamily creates a family group with its prime member and optional
// dependents. The sequence is fixed and not transactional:
//
//  1. create the family group (prime_member_id nullable),
//  2. create the prime member pointing at the group,
//  3. patch the group's prime_member_id back-reference.
//
// A step-2 failure leaves the group orphaned; a step-3 failure leaves the
// back-reference null. Neither is rolled back — the member's family_group_id
// already carries the association.
func (m *Member) RegisterFamily(ctx context.Context, orgID uuid.UUID, input dto.RegisterFamilyInput) (*dto.Family, error) {
	group, err := m.FamilyGroupRepo.Create(ctx, &repository.FamilyGroup{
		OrganizationID: orgID,
	}, nil)
	if err != nil {
		return nil, err
	}

	prime, err := m.MemberRepo.Create(ctx, &repository.Member{
		OrganizationID: orgID,
		FamilyGroupID:  repository.ToNullUUID(group.ID),
		Phone:          repository.NullableString(input.Prime.Phone),
		FirstName:      input.Prime.FirstName,
		LastName:       input.Prime.LastName,
		Email:          repository.NullableString(input.Prime.Email),
		Status:         string(constants.MemberStatusPendingInvite),
		IsPrimeMember:  true,
		IsIndependent:  true,
	}, nil)
	if err != nil {
		m.Logger.Error().Err(err).
			Str("family_group_id", group.ID.String()).
			Msg("prime member create failed, family group left orphaned")
		return nil, err
	}

	family := &dto.Family{
		GroupID: group.ID,
		Prime:   mapRepositoryToHandler(prime),
		Members: []*dto.Member{mapRepositoryToHandler(prime)},
	}

	if err := m.FamilyGroupRepo.SetPrimeMember(ctx, group.ID, prime.ID, nil); err != nil {
		// Non-fatal: the association already holds through the member row.
		m.Logger.Warn().Err(err).
			Str("family_group_id", group.ID.String()).
			Str("member_id", prime.ID.String()).
			Msg("family group prime back-reference patch failed")
		family.PrimeLinkPending = true
	}

	for _, dep := range input.Dependents {
		dependent, err := m.AddFamilyMember(ctx, orgID, group.ID, dep)
		if err != nil {
			return nil, err
		}
		family.Members = append(family.Members, dependent)
	}

	return family, nil
}

// AddFamilyMember adds a dependent to an existing family group. Dependents
// have no phone and do not authenticate.
func (m *Member) AddFamilyMember(ctx context.Context, orgID, groupID uuid.UUID, input dto.FamilyDependent) (*dto.Member, error) {
	group, err := m.FamilyGroupRepo.Get(ctx, repository.FamilyGroupRepositoryFilter{
		ID:             &groupID,
		OrganizationID: &orgID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &svc.ApiError{
				Status:  http.StatusNotFound,
				Message: "Family group not found",
			}
		}
		return nil, err
	}

	member, err := m.MemberRepo.Create(ctx, &repository.Member{
		OrganizationID:      group.OrganizationID,
		FamilyGroupID:       repository.ToNullUUID(group.ID),
		FirstName:           input.FirstName,
		LastName:            input.LastName,
		Status:              string(constants.MemberStatusPendingInvite),
		RelationshipToPrime: repository.NullableString(input.RelationshipToPrime),
	}, nil)
	if err != nil {
		return nil, err
	}

	return mapRepositoryToHandler(member), nil
}

func (m *Member) Get(ctx context.Context, orgID, id uuid.UUID) (*dto.Member, error) {
	member, err := m.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		ID:             &id,
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
	return mapRepositoryToHandler(member), nil
}

func (m *Member) List(ctx context.Context, orgID uuid.UUID) ([]*dto.Member, error) {
	members, err := m.MemberRepo.List(ctx, repository.MemberRepositoryFilter{
		OrganizationID: &orgID,
	})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.Member, 0, len(members))
	for i := range members {
		result = append(result, mapRepositoryToHandler(&members[i]))
	}
	return result, nil
}

// Search performs the manual check-in lookup: case-insensitive substring
// match across first name, last name, and phone, scoped to the organization
// and capped. An empty result set is a normal outcome, not an error.
func (m *Member) Search(ctx context.Context, orgID uuid.UUID, query string) ([]*dto.Member, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*dto.Member{}, nil
	}

	members, err := m.MemberRepo.List(ctx, repository.MemberRepositoryFilter{
		OrganizationID: &orgID,
		Search:         &query,
		Limit:          SearchResultLimit,
	})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.Member, 0, len(members))
	for i := range members {
		result = append(result, mapRepositoryToHandler(&members[i]))
	}
	return result, nil
}

func (m *Member) Update(ctx context.Context, orgID, id uuid.UUID, input dto.UpdateMemberInput) (*dto.Member, error) {
	member, err := m.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		ID:             &id,
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

	if input.FirstName != nil {
		member.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		member.LastName = *input.LastName
	}
	if input.Email != nil {
		member.Email = repository.NullableString(*input.Email)
	}
	if input.Status != nil {
		member.Status = *input.Status
	}

	updated, err := m.MemberRepo.Update(ctx, member, nil)
	if err != nil {
		return nil, err
	}
	return mapRepositoryToHandler(updated), nil
}

// Activate moves a member to active status and assigns the QR token that
// serves as the sole check-in credential. The token is assigned once; a
// member who already holds one keeps it.
func (m *Member) Activate(ctx context.Context, orgID, id uuid.UUID) (*dto.Member, error) {
	member, err := m.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		ID:             &id,
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

	member.Status = string(constants.MemberStatusActive)
	if !member.MembershipDate.Valid {
		member.MembershipDate = sql.NullTime{Time: time.Now(), Valid: true}
	}
	if !member.QRToken.Valid {
		qrToken, err := helpers.NewQRToken()
		if err != nil {
			return nil, err
		}
		member.QRToken = repository.NullableString(qrToken)
	}

	updated, err := m.MemberRepo.Update(ctx, member, nil)
	if err != nil {
		return nil, err
	}
	return mapRepositoryToHandler(updated), nil
}

// UploadPhoto stores a captured photo payload and records its public URL on
// the member. If the member was pending self-registration and their profile
// is now complete, they are activated.
func (m *Member) UploadPhoto(ctx context.Context, orgID, id uuid.UUID, input dto.UploadPhotoInput) (*dto.Member, error) {
	member, err := m.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		ID:             &id,
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

	data, err := base64.StdEncoding.DecodeString(input.Data)
	if err != nil {
		return nil, &svc.ApiError{
			Status:  http.StatusBadRequest,
			Message: "Invalid photo payload",
		}
	}

	key := fmt.Sprintf("members/%s/photo-%s", member.ID, helpers.GenerateRandomString(8))
	url, err := m.Storage.Upload(ctx, key, data, input.ContentType)
	if err != nil {
		return nil, err
	}

	member.PhotoURL = repository.NullableString(url)

	if member.Status == string(constants.MemberStatusPendingRegistration) && member.FirstName != "" && member.LastName != "" {
		updated, err := m.MemberRepo.Update(ctx, member, nil)
		if err != nil {
			return nil, err
		}
		return m.Activate(ctx, orgID, updated.ID)
	}

	updated, err := m.MemberRepo.Update(ctx, member, nil)
	if err != nil {
		return nil, err
	}
	return mapRepositoryToHandler(updated), nil
}

func (m *Member) RegisterPushToken(ctx context.Context, orgID, id uuid.UUID, input dto.RegisterPushTokenInput) error {
	member, err := m.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		ID:             &id,
		OrganizationID: &orgID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &svc.ApiError{
				Status:  http.StatusNotFound,
				Message: "Member not found",
			}
		}
		return err
	}

	member.PushToken = repository.NullableString(input.Token)
	member.NotificationsEnabled = input.NotificationsEnabled

	_, err = m.MemberRepo.Update(ctx, member, nil)
	return err
}

func mapRepositoryToHandler(member *repository.Member) *dto.Member {
	result := &dto.Member{
		ID:                  member.ID,
		OrganizationID:      member.OrganizationID,
		Phone:               member.Phone.String,
		FirstName:           member.FirstName,
		LastName:            member.LastName,
		Email:               member.Email.String,
		PhotoURL:            member.PhotoURL.String,
		Status:              member.Status,
		IsPrimeMember:       member.IsPrimeMember,
		IsIndependent:       member.IsIndependent,
		RelationshipToPrime: member.RelationshipToPrime.String,
		QRToken:             member.QRToken.String,
		CreatedAt:           member.CreatedAt,
	}
	if member.FamilyGroupID.Valid {
		groupID := member.FamilyGroupID.UUID
		result.FamilyGroupID = &groupID
	}
	if member.MembershipDate.Valid {
		date := member.MembershipDate.Time
		result.MembershipDate = &date
	}
	return result
}
