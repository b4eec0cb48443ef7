package checkins

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kedarvyas/mandirapp/internal/config"
	"github.com/kedarvyas/mandirapp/internal/constants"
	"github.com/kedarvyas/mandirapp/internal/repository"
	svc "github.com/kedarvyas/mandirapp/internal/services"
	"github.com/kedarvyas/mandirapp/pkg/logger"
)

type fakeMemberRepo struct {
	byToken map[string]*repository.Member
	byID    map[uuid.UUID]*repository.Member
}

func (f *fakeMemberRepo) Get(ctx context.Context, filter repository.MemberRepositoryFilter) (*repository.Member, error) {
	if filter.QRToken != nil {
		if member, ok := f.byToken[*filter.QRToken]; ok {
			return member, nil
		}
		return nil, sql.ErrNoRows
	}
	if filter.ID != nil {
		if member, ok := f.byID[*filter.ID]; ok {
			return member, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeCheckInRepo struct {
	created []repository.CheckIn
}

func (f *fakeCheckInRepo) Create(ctx context.Context, checkIn *repository.CheckIn) (*repository.CheckIn, error) {
	row := *checkIn
	row.ID = uuid.New()
	row.CheckedInAt = time.Now()
	f.created = append(f.created, row)
	return &row, nil
}

func (f *fakeCheckInRepo) List(ctx context.Context, filter repository.CheckInRepositoryFilter) ([]repository.CheckIn, error) {
	return f.created, nil
}

func newService(members *fakeMemberRepo, checkIns *fakeCheckInRepo) *CheckIn {
	return New(nil, logger.New(&config.Config{}), members, checkIns)
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *svc.ApiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected ApiError, got %v", err)
	}
	return apiErr.Status
}

func TestResolveToken(t *testing.T) {
	orgID := uuid.New()
	member := &repository.Member{
		ID:             uuid.New(),
		OrganizationID: orgID,
		FirstName:      "Priya",
		LastName:       "Sharma",
		Status:         string(constants.MemberStatusActive),
		QRToken:        sql.NullString{String: "tok-abc123", Valid: true},
	}
	repo := &fakeMemberRepo{byToken: map[string]*repository.Member{"tok-abc123": member}}

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "exact match resolves", token: "tok-abc123"},
		{name: "empty scan rejected", token: "", wantStatus: http.StatusBadRequest},
		{name: "unknown token", token: "tok-zzz", wantStatus: http.StatusNotFound},
		{name: "partial token does not match", token: "tok-abc", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(repo, &fakeCheckInRepo{})

			got, err := service.ResolveToken(context.Background(), orgID, tt.token)
			if tt.wantStatus != 0 {
				if status := apiStatus(t, err); status != tt.wantStatus {
					t.Errorf("status = %d, want %d", status, tt.wantStatus)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveToken: %v", err)
			}
			if got.ID != member.ID {
				t.Errorf("resolved member %v, want %v", got.ID, member.ID)
			}
		})
	}
}

func TestCommitWarnsOnNonActiveMember(t *testing.T) {
	orgID := uuid.New()

	tests := []struct {
		name        string
		status      constants.MemberStatus
		wantWarning bool
	}{
		{name: "active member checks in clean", status: constants.MemberStatusActive},
		{name: "inactive member soft-warns", status: constants.MemberStatusInactive, wantWarning: true},
		{name: "pending member soft-warns", status: constants.MemberStatusPendingRegistration, wantWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member := &repository.Member{
				ID:             uuid.New(),
				OrganizationID: orgID,
				FirstName:      "Priya",
				Status:         string(tt.status),
			}
			members := &fakeMemberRepo{byID: map[uuid.UUID]*repository.Member{member.ID: member}}
			checkIns := &fakeCheckInRepo{}
			service := newService(members, checkIns)

			result, err := service.Commit(context.Background(), orgID, member.ID)
			if err != nil {
				t.Fatalf("Commit: %v", err)
			}

			if (result.Warning != "") != tt.wantWarning {
				t.Errorf("Warning = %q, wantWarning=%v", result.Warning, tt.wantWarning)
			}
			// Warned or not, the row is recorded.
			if len(checkIns.created) != 1 {
				t.Errorf("check-ins recorded = %d, want 1", len(checkIns.created))
			}
		})
	}
}

func TestCommitUnknownMember(t *testing.T) {
	service := newService(&fakeMemberRepo{}, &fakeCheckInRepo{})

	_, err := service.Commit(context.Background(), uuid.New(), uuid.New())
	if status := apiStatus(t, err); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

// Repeat confirmations are appended, never deduplicated.
func TestRepeatCheckInsAppendRows(t *testing.T) {
	orgID := uuid.New()
	member := &repository.Member{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Status:         string(constants.MemberStatusActive),
	}
	members := &fakeMemberRepo{byID: map[uuid.UUID]*repository.Member{member.ID: member}}
	checkIns := &fakeCheckInRepo{}
	service := newService(members, checkIns)

	for i := 0; i < 3; i++ {
		if _, err := service.Commit(context.Background(), orgID, member.ID); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}

	if len(checkIns.created) != 3 {
		t.Errorf("rows = %d, want 3", len(checkIns.created))
	}
}
