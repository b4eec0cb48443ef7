package organizations

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/kedarvyas/mandirapp/internal/constants"
	"github.com/kedarvyas/mandirapp/internal/dto"
	"github.com/kedarvyas/mandirapp/internal/helpers"
	"github.com/kedarvyas/mandirapp/internal/kiosk"
	"github.com/kedarvyas/mandirapp/internal/repository"
	svc "github.com/kedarvyas/mandirapp/internal/services"
	"github.com/kedarvyas/mandirapp/pkg/logger"
)

var (
	_ OrganizationRepository = (*repository.OrganizationRepository)(nil)
	_ StaffRepository        = (*repository.StaffRepository)(nil)
)

type OrganizationRepository interface {
	Get(ctx context.Context, filter repository.OrganizationRepositoryFilter) (*repository.Organization, error)
	Exists(ctx context.Context, filter repository.OrganizationRepositoryFilter) (bool, error)
	Create(ctx context.Context, org *repository.Organization, tx *sqlx.Tx) (*repository.Organization, error)
	Update(ctx context.Context, org *repository.Organization, tx *sqlx.Tx) (*repository.Organization, error)
}

type StaffRepository interface {
	Create(ctx context.Context, staff *repository.Staff, tx *sqlx.Tx) (*repository.Staff, error)
}

type Organization struct {
	DB        *sqlx.DB
	Logger    *logger.Logger
	OrgRepo   OrganizationRepository
	StaffRepo StaffRepository
}

func New(db *sqlx.DB, logger *logger.Logger, orgRepo OrganizationRepository, staffRepo StaffRepository) *Organization {
	return &Organization{
		DB:        db,
		Logger:    logger,
		OrgRepo:   orgRepo,
		StaffRepo: staffRepo,
	}
}

// GetByCode resolves an organization by its join code. Codes are normalized
// before lookup; an existing-but-deactivated organization is a distinct
// outcome from not-found.
func (o *Organization) GetByCode(ctx context.Context, code string) (*dto.Organization, error) {
	normalized := helpers.NormalizeOrgCode(code)

	org, err := o.OrgRepo.Get(ctx, repository.OrganizationRepositoryFilter{
		OrgCode: &normalized,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &svc.ApiError{
				Status:  http.StatusNotFound,
				Message: "Organization not found. Check the code and try again.",
			}
		}
		return nil, err
	}

	if !org.IsActive {
		return nil, &svc.ApiError{
			Status:  http.StatusGone,
			Message: "This organization is no longer active.",
		}
	}

	return mapRepositoryToHandler(org), nil
}

func (o *Organization) GetByID(ctx context.Context, id uuid.UUID) (*dto.Organization, error) {
	org, err := o.OrgRepo.Get(ctx, repository.OrganizationRepositoryFilter{ID: &id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &svc.ApiError{
				Status:  http.StatusNotFound,
				Message: "Organization not found",
			}
		}
		return nil, err
	}

	return mapRepositoryToHandler(org), nil
}

// CreateWithAdmin bootstraps an organization together with its first staff
// member. The transactional path is atomic: either both rows exist or
// neither does. If the transactional path errors, a non-atomic two-call
// fallback runs; a partial failure there can leave a staff-less organization
// behind, which is accepted and logged rather than rolled back.
func (o *Organization) CreateWithAdmin(ctx context.Context, input dto.CreateOrganizationInput) (*dto.Organization, *dto.Staff, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	orgRow := &repository.Organization{
		Name:         input.Name,
		OrgCode:      helpers.GenerateOrgCode(input.Name),
		PrimaryColor: repository.NullableString(input.PrimaryColor),
		IsActive:     true,
	}
	staffRow := &repository.Staff{
		Email:        input.Admin.Email,
		Name:         input.Admin.Name,
		PasswordHash: repository.NullableString(string(passwordHash)),
		Role:         string(constants.RoleOwner),
		IsActive:     true,
	}

	org, staff, err := o.createWithAdminTx(ctx, orgRow, staffRow)
	if err != nil {
		o.Logger.Warn().Err(err).Msg("atomic organization bootstrap failed, falling back to two-step create")
		org, staff, err = o.createWithAdminFallback(ctx, orgRow, staffRow)
		if err != nil {
			return nil, nil, err
		}
	}

	return mapRepositoryToHandler(org), mapStaffToHandler(staff), nil
}

func (o *Organization) createWithAdminTx(ctx context.Context, orgRow *repository.Organization, staffRow *repository.Staff) (*repository.Organization, *repository.Staff, error) {
	tx, err := o.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	org, err := o.OrgRepo.Create(ctx, orgRow, tx)
	if err != nil {
		return nil, nil, err
	}

	staffRow.OrganizationID = org.ID
	staff, err := o.StaffRepo.Create(ctx, staffRow, tx)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return org, staff, nil
}

func (o *Organization) createWithAdminFallback(ctx context.Context, orgRow *repository.Organization, staffRow *repository.Staff) (*repository.Organization, *repository.Staff, error) {
	org, err := o.OrgRepo.Create(ctx, orgRow, nil)
	if err != nil {
		return nil, nil, err
	}

	staffRow.OrganizationID = org.ID
	staff, err := o.StaffRepo.Create(ctx, staffRow, nil)
	if err != nil {
		// Known soft-consistency gap: the organization row exists with no
		// staff. No compensating delete is issued.
		o.Logger.Error().Err(err).
			Str("organization_id", org.ID.String()).
			Msg("fallback bootstrap left organization without staff")
		return nil, nil, err
	}

	return org, staff, nil
}

// KioskSettings returns the organization's typed kiosk configuration with
// defaults merged over whatever partial data is stored.
func (o *Organization) KioskSettings(ctx context.Context, orgID uuid.UUID) (*kiosk.Settings, error) {
	org, err := o.OrgRepo.Get(ctx, repository.OrganizationRepositoryFilter{ID: &orgID})
	if err != nil {
		return nil, err
	}

	settings := kiosk.ParseSettings(org.Settings)
	return &settings, nil
}

func (o *Organization) UpdateKioskSettings(ctx context.Context, orgID uuid.UUID, settings kiosk.Settings) (*kiosk.Settings, error) {
	org, err := o.OrgRepo.Get(ctx, repository.OrganizationRepositoryFilter{ID: &orgID})
	if err != nil {
		return nil, err
	}

	merged, err := kiosk.MergeSettings(org.Settings, settings)
	if err != nil {
		return nil, err
	}
	org.Settings = merged

	updated, err := o.OrgRepo.Update(ctx, org, nil)
	if err != nil {
		return nil, err
	}

	parsed := kiosk.ParseSettings(updated.Settings)
	return &parsed, nil
}

// KioskView resolves the public kiosk surface for an org code: branding plus
// kiosk settings. Unlike GetByCode it reports inactive and not-found as the
// same full-screen state decision data rather than errors with chrome.
func (o *Organization) KioskView(ctx context.Context, code string) (*dto.Organization, *kiosk.Settings, error) {
	normalized := helpers.NormalizeOrgCode(code)

	org, err := o.OrgRepo.Get(ctx, repository.OrganizationRepositoryFilter{
		OrgCode: &normalized,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, &svc.ApiError{
				Status:  http.StatusNotFound,
				Message: "Organization not found",
			}
		}
		return nil, nil, err
	}
	if !org.IsActive {
		return nil, nil, &svc.ApiError{
			Status:  http.StatusNotFound,
			Message: "Organization not found",
		}
	}

	settings := kiosk.ParseSettings(org.Settings)
	return mapRepositoryToHandler(org), &settings, nil
}

func mapRepositoryToHandler(org *repository.Organization) *dto.Organization {
	return &dto.Organization{
		ID:           org.ID,
		Name:         org.Name,
		OrgCode:      org.OrgCode,
		LogoURL:      org.LogoURL.String,
		PrimaryColor: org.PrimaryColor.String,
		IsActive:     org.IsActive,
	}
}

func mapStaffToHandler(staff *repository.Staff) *dto.Staff {
	return &dto.Staff{
		ID:             staff.ID,
		OrganizationID: staff.OrganizationID,
		Email:          staff.Email,
		Name:           staff.Name,
		Role:           staff.Role,
		IsActive:       staff.IsActive,
	}
}
