package members

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kedarvyas/mandirapp/internal/config"
	"github.com/kedarvyas/mandirapp/internal/constants"
	"github.com/kedarvyas/mandirapp/internal/dto"
	"github.com/kedarvyas/mandirapp/internal/repository"
	"github.com/kedarvyas/mandirapp/pkg/logger"
)

type fakeMemberRepo struct {
	members   []repository.Member
	createErr error
	listCalls []repository.MemberRepositoryFilter
}

func (f *fakeMemberRepo) Get(ctx context.Context, filter repository.MemberRepositoryFilter) (*repository.Member, error) {
	for i := range f.members {
		if filter.ID != nil && f.members[i].ID == *filter.ID {
			return &f.members[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeMemberRepo) List(ctx context.Context, filter repository.MemberRepositoryFilter) ([]repository.Member, error) {
	f.listCalls = append(f.listCalls, filter)

	if filter.Search == nil {
		return f.members, nil
	}

	needle := strings.ToLower(*filter.Search)
	var matched []repository.Member
	for _, m := range f.members {
		haystack := strings.ToLower(m.FirstName + " " + m.LastName + " " + m.Phone.String)
		if strings.Contains(haystack, needle) {
			matched = append(matched, m)
		}
		if filter.Limit > 0 && uint64(len(matched)) == filter.Limit {
			break
		}
	}
	return matched, nil
}

func (f *fakeMemberRepo) Exists(ctx context.Context, filter repository.MemberRepositoryFilter) (bool, error) {
	for _, m := range f.members {
		if filter.Phone != nil && m.Phone.String == *filter.Phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMemberRepo) Create(ctx context.Context, member *repository.Member, tx *sqlx.Tx) (*repository.Member, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	row := *member
	row.ID = uuid.New()
	f.members = append(f.members, row)
	return &row, nil
}

func (f *fakeMemberRepo) Update(ctx context.Context, member *repository.Member, tx *sqlx.Tx) (*repository.Member, error) {
	for i := range f.members {
		if f.members[i].ID == member.ID {
			f.members[i] = *member
			return member, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeFamilyGroupRepo struct {
	groups       map[uuid.UUID]*repository.FamilyGroup
	setPrimeErr  error
	primeLinks   map[uuid.UUID]uuid.UUID
	createCalled int
}

func newFakeFamilyGroupRepo() *fakeFamilyGroupRepo {
	return &fakeFamilyGroupRepo{
		groups:     map[uuid.UUID]*repository.FamilyGroup{},
		primeLinks: map[uuid.UUID]uuid.UUID{},
	}
}

func (f *fakeFamilyGroupRepo) Get(ctx context.Context, filter repository.FamilyGroupRepositoryFilter) (*repository.FamilyGroup, error) {
	if filter.ID != nil {
		if group, ok := f.groups[*filter.ID]; ok {
			return group, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFamilyGroupRepo) Create(ctx context.Context, group *repository.FamilyGroup, tx *sqlx.Tx) (*repository.FamilyGroup, error) {
	f.createCalled++
	row := *group
	row.ID = uuid.New()
	f.groups[row.ID] = &row
	return &row, nil
}

func (f *fakeFamilyGroupRepo) SetPrimeMember(ctx context.Context, groupID, memberID uuid.UUID, tx *sqlx.Tx) error {
	if f.setPrimeErr != nil {
		return f.setPrimeErr
	}
	f.primeLinks[groupID] = memberID
	return nil
}

func newService(memberRepo *fakeMemberRepo, groupRepo *fakeFamilyGroupRepo) *Member {
	return New(nil, logger.New(&config.Config{}), memberRepo, groupRepo, nil)
}

func activeMember(first, last, phone string) repository.Member {
	return repository.Member{
		ID:        uuid.New(),
		FirstName: first,
		LastName:  last,
		Phone:     sql.NullString{String: phone, Valid: phone != ""},
		Status:    string(constants.MemberStatusActive),
	}
}

func TestSearch(t *testing.T) {
	repo := &fakeMemberRepo{members: []repository.Member{
		activeMember("Pat", "Kumar", "+15555550111"),
		activeMember("Patricia", "Iyer", "+15555550112"),
		activeMember("Sam", "Patel", "+15555550113"),
		activeMember("Ravi", "Singh", "+15555550114"),
	}}
	service := newService(repo, newFakeFamilyGroupRepo())
	orgID := uuid.New()

	tests := []struct {
		name      string
		query     string
		wantNames []string
	}{
		{
			name:      "substring matches first and last names",
			query:     "Pat",
			wantNames: []string{"Pat", "Patricia", "Sam"},
		},
		{
			name:      "phone fragment matches",
			query:     "0114",
			wantNames: []string{"Ravi"},
		},
		{
			name:      "no matches is empty not error",
			query:     "zzz",
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.Search(context.Background(), orgID, tt.query)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(got) != len(tt.wantNames) {
				t.Fatalf("got %d results, want %d", len(got), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				if got[i].FirstName != want {
					t.Errorf("result[%d] = %q, want %q", i, got[i].FirstName, want)
				}
			}
		})
	}
}

func TestSearchBlankQuerySkipsRepo(t *testing.T) {
	repo := &fakeMemberRepo{}
	service := newService(repo, newFakeFamilyGroupRepo())

	got, err := service.Search(context.Background(), uuid.New(), "   ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d results", len(got))
	}
	if len(repo.listCalls) != 0 {
		t.Error("blank query must not hit the repository")
	}
}

func TestSearchAppliesResultCap(t *testing.T) {
	repo := &fakeMemberRepo{}
	for i := 0; i < 25; i++ {
		repo.members = append(repo.members, activeMember("Pat", "Kumar", ""))
	}
	service := newService(repo, newFakeFamilyGroupRepo())

	got, err := service.Search(context.Background(), uuid.New(), "Pat")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != SearchResultLimit {
		t.Errorf("got %d results, want cap of %d", len(got), SearchResultLimit)
	}
	if repo.listCalls[0].Limit != SearchResultLimit {
		t.Errorf("repo queried with limit %d", repo.listCalls[0].Limit)
	}
}

func TestRegisterFamily(t *testing.T) {
	memberRepo := &fakeMemberRepo{}
	groupRepo := newFakeFamilyGroupRepo()
	service := newService(memberRepo, groupRepo)
	orgID := uuid.New()

	family, err := service.RegisterFamily(context.Background(), orgID, dto.RegisterFamilyInput{
		Prime: dto.CreateMemberInput{
			FirstName: "Priya",
			LastName:  "Sharma",
			Phone:     "+15555550100",
		},
		Dependents: []dto.FamilyDependent{
			{FirstName: "Arjun", LastName: "Sharma", RelationshipToPrime: "spouse"},
			{FirstName: "Meera", LastName: "Sharma", RelationshipToPrime: "child"},
		},
	})
	if err != nil {
		t.Fatalf("RegisterFamily: %v", err)
	}

	if family.Prime == nil || !family.Prime.IsPrimeMember {
		t.Fatal("prime member not flagged")
	}
	if len(family.Members) != 3 {
		t.Fatalf("family has %d members, want 3", len(family.Members))
	}
	if family.PrimeLinkPending {
		t.Error("back-reference patch should have succeeded")
	}
	if got := groupRepo.primeLinks[family.GroupID]; got != family.Prime.ID {
		t.Errorf("group prime link = %v, want %v", got, family.Prime.ID)
	}

	// Dependents carry the group id but no phone.
	for _, m := range family.Members[1:] {
		if m.FamilyGroupID == nil || *m.FamilyGroupID != family.GroupID {
			t.Errorf("dependent %s missing family group id", m.FirstName)
		}
		if m.Phone != "" {
			t.Errorf("dependent %s should have no phone", m.FirstName)
		}
	}
}

// A failed back-reference patch is reported, not rolled back: the members
// already carry the association through family_group_id.
func TestRegisterFamilyBackReferenceFailureIsSoft(t *testing.T) {
	memberRepo := &fakeMemberRepo{}
	groupRepo := newFakeFamilyGroupRepo()
	groupRepo.setPrimeErr = errors.New("deadlock detected")
	service := newService(memberRepo, groupRepo)

	family, err := service.RegisterFamily(context.Background(), uuid.New(), dto.RegisterFamilyInput{
		Prime: dto.CreateMemberInput{FirstName: "Priya", LastName: "Sharma", Phone: "+15555550100"},
	})
	if err != nil {
		t.Fatalf("RegisterFamily: %v", err)
	}

	if !family.PrimeLinkPending {
		t.Error("expected PrimeLinkPending after patch failure")
	}
	if len(memberRepo.members) != 1 {
		t.Errorf("prime member rows = %d, nothing may be rolled back", len(memberRepo.members))
	}
}

// A failed prime create orphans the group; the orphan stays.
func TestRegisterFamilyPrimeFailureLeavesGroup(t *testing.T) {
	memberRepo := &fakeMemberRepo{createErr: errors.New("insert failed")}
	groupRepo := newFakeFamilyGroupRepo()
	service := newService(memberRepo, groupRepo)

	_, err := service.RegisterFamily(context.Background(), uuid.New(), dto.RegisterFamilyInput{
		Prime: dto.CreateMemberInput{FirstName: "Priya", LastName: "Sharma", Phone: "+15555550100"},
	})
	if err == nil {
		t.Fatal("expected error from prime create")
	}
	if len(groupRepo.groups) != 1 {
		t.Errorf("groups = %d, orphaned group must not be deleted", len(groupRepo.groups))
	}
}
