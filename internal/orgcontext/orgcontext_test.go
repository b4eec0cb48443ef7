package orgcontext

import (
	"context"
	"errors"
	"testing"
)

type fakeLookup struct {
	byCode map[string]*StoredOrganization
	byID   map[string]*StoredOrganization
	err    error

	codeCalls int
}

func (f *fakeLookup) OrganizationByCode(ctx context.Context, code string) (*StoredOrganization, error) {
	f.codeCalls++
	if f.err != nil {
		return nil, f.err
	}
	org, ok := f.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	return org, nil
}

func (f *fakeLookup) OrganizationByID(ctx context.Context, id string) (*StoredOrganization, error) {
	if f.err != nil {
		return nil, f.err
	}
	org, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return org, nil
}

func TestValidateOrgCode(t *testing.T) {
	lotus := &StoredOrganization{ID: "org-1", Name: "Lotus Temple", OrgCode: "LOTUS-TEMPLE1"}

	tests := []struct {
		name        string
		code        string
		lookup      *fakeLookup
		wantSuccess bool
		wantError   string
		wantCalls   int
	}{
		{
			name:      "short code rejected locally without lookup",
			code:      "AB1",
			lookup:    &fakeLookup{},
			wantError: "Organization code must be at least 5 characters",
			wantCalls: 0,
		},
		{
			name:      "whitespace only rejected locally",
			code:      "   \t ",
			lookup:    &fakeLookup{},
			wantError: "Organization code must be at least 5 characters",
			wantCalls: 0,
		},
		{
			name:        "valid code normalizes case and whitespace",
			code:        "  lotus-temple1  ",
			lookup:      &fakeLookup{byCode: map[string]*StoredOrganization{"LOTUS-TEMPLE1": lotus}},
			wantSuccess: true,
			wantCalls:   1,
		},
		{
			name:      "unknown code",
			code:      "NOSUCH-ORG",
			lookup:    &fakeLookup{},
			wantError: "Organization not found. Check the code and try again.",
			wantCalls: 1,
		},
		{
			name:      "inactive organization",
			code:      "LOTUS-TEMPLE1",
			lookup:    &fakeLookup{err: ErrInactive},
			wantError: "This organization is no longer active.",
			wantCalls: 1,
		},
		{
			name:      "transport failure maps to generic message",
			code:      "LOTUS-TEMPLE1",
			lookup:    &fakeLookup{err: errors.New("connection refused")},
			wantError: "Something went wrong. Please try again.",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := New(NewMemoryKV(), tt.lookup)

			result := store.ValidateOrgCode(context.Background(), tt.code)

			if result.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", result.Success, tt.wantSuccess)
			}
			if result.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", result.Error, tt.wantError)
			}
			if tt.lookup.codeCalls != tt.wantCalls {
				t.Errorf("lookup calls = %d, want %d", tt.lookup.codeCalls, tt.wantCalls)
			}
			if tt.wantSuccess && result.Organization == nil {
				t.Error("expected organization on success")
			}
		})
	}
}

func TestSaveAndStoredOrganization(t *testing.T) {
	store := New(NewMemoryKV(), &fakeLookup{})

	if got := store.StoredOrganization(); got != nil {
		t.Fatalf("expected nil before save, got %+v", got)
	}

	org := StoredOrganization{ID: "org-1", Name: "Lotus Temple", OrgCode: "LOTUS-TEMPLE1", PrimaryColor: "#C2410C"}
	if err := store.SaveOrganization(org); err != nil {
		t.Fatalf("SaveOrganization: %v", err)
	}

	got := store.StoredOrganization()
	if got == nil {
		t.Fatal("expected stored organization")
	}
	if *got != org {
		t.Errorf("stored = %+v, want %+v", *got, org)
	}

	// Last write wins.
	updated := org
	updated.Name = "Lotus Temple Annex"
	if err := store.SaveOrganization(updated); err != nil {
		t.Fatalf("SaveOrganization: %v", err)
	}
	if got := store.StoredOrganization(); got.Name != "Lotus Temple Annex" {
		t.Errorf("Name = %q after overwrite", got.Name)
	}

	if err := store.ClearOrganization(); err != nil {
		t.Fatalf("ClearOrganization: %v", err)
	}
	if got := store.StoredOrganization(); got != nil {
		t.Errorf("expected nil after clear, got %+v", got)
	}
}

func TestStoredOrganizationCorruptValue(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set(keyCurrentOrganization, []byte("{not json"))

	store := New(kv, &fakeLookup{})
	if got := store.StoredOrganization(); got != nil {
		t.Errorf("expected nil for corrupt value, got %+v", got)
	}
}

func TestRefreshOrganization(t *testing.T) {
	stale := StoredOrganization{ID: "org-1", Name: "Old Name", OrgCode: "LOTUS-TEMPLE1"}
	fresh := &StoredOrganization{ID: "org-1", Name: "Lotus Temple", OrgCode: "LOTUS-TEMPLE1", LogoURL: "https://cdn.example.com/logo.png"}

	lookup := &fakeLookup{byID: map[string]*StoredOrganization{"org-1": fresh}}
	store := New(NewMemoryKV(), lookup)

	store.SaveOrganization(stale)
	store.SetOrganizations([]StoredOrganization{stale, {ID: "org-2", Name: "Other"}})

	got := store.RefreshOrganization(context.Background(), "org-1")
	if got == nil || got.Name != "Lotus Temple" {
		t.Fatalf("RefreshOrganization = %+v", got)
	}

	if current := store.StoredOrganization(); current.Name != "Lotus Temple" {
		t.Errorf("current pointer not refreshed: %+v", current)
	}

	orgs := store.Organizations()
	if len(orgs) != 2 {
		t.Fatalf("organizations len = %d", len(orgs))
	}
	if orgs[0].Name != "Lotus Temple" || orgs[1].Name != "Other" {
		t.Errorf("list entry not refreshed in place: %+v", orgs)
	}
}

func TestRefreshOrganizationLookupFailure(t *testing.T) {
	stale := StoredOrganization{ID: "org-1", Name: "Old Name"}
	store := New(NewMemoryKV(), &fakeLookup{err: errors.New("offline")})
	store.SaveOrganization(stale)

	if got := store.RefreshOrganization(context.Background(), "org-1"); got != nil {
		t.Errorf("expected nil on lookup failure, got %+v", got)
	}
	if current := store.StoredOrganization(); current.Name != "Old Name" {
		t.Errorf("stale value should survive failed refresh: %+v", current)
	}
}

func TestMultiOrgListAndActiveID(t *testing.T) {
	store := New(NewMemoryKV(), &fakeLookup{})

	if orgs := store.Organizations(); len(orgs) != 0 {
		t.Fatalf("expected empty list, got %d", len(orgs))
	}

	store.AddOrganization(StoredOrganization{ID: "org-1", Name: "Lotus Temple"})
	store.AddOrganization(StoredOrganization{ID: "org-2", Name: "River Temple"})
	// Same id replaces, not appends.
	store.AddOrganization(StoredOrganization{ID: "org-1", Name: "Lotus Temple Renamed"})

	orgs := store.Organizations()
	if len(orgs) != 2 {
		t.Fatalf("organizations len = %d, want 2", len(orgs))
	}
	if orgs[0].Name != "Lotus Temple Renamed" {
		t.Errorf("replace by id failed: %+v", orgs[0])
	}

	if id := store.ActiveOrganizationID(); id != "" {
		t.Errorf("ActiveOrganizationID = %q before set", id)
	}
	store.SetActiveOrganizationID("org-2")
	if id := store.ActiveOrganizationID(); id != "org-2" {
		t.Errorf("ActiveOrganizationID = %q, want org-2", id)
	}
}

func TestSignedOutFlagIsOneShot(t *testing.T) {
	store := New(NewMemoryKV(), &fakeLookup{})

	if store.ConsumeSignedOutFlag() {
		t.Fatal("flag should start unset")
	}

	store.MarkSignedOut()

	if !store.ConsumeSignedOutFlag() {
		t.Fatal("first consume should report the flag")
	}
	if store.ConsumeSignedOutFlag() {
		t.Fatal("second consume should be false; flag is one-shot")
	}
}

// A sign-out followed by restart routes to the org-code screen even though
// the organization context is still on the device.
func TestSignOutKeepsOrganizationContext(t *testing.T) {
	store := New(NewMemoryKV(), &fakeLookup{})

	store.SaveOrganization(StoredOrganization{ID: "org-1", OrgCode: "LOTUS-TEMPLE1"})
	store.MarkSignedOut()

	if !store.ConsumeSignedOutFlag() {
		t.Fatal("expected signed-out flag")
	}
	if store.StoredOrganization() == nil {
		t.Fatal("sign-out must not clear the stored organization")
	}
}

func TestFileKV(t *testing.T) {
	path := t.TempDir() + "/store.json"
	kv := NewFileKV(path)

	if _, ok, err := kv.Get("missing"); ok || err != nil {
		t.Fatalf("Get missing = ok=%v err=%v", ok, err)
	}

	if err := kv.Set("k", []byte(`"v"`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A fresh handle over the same file sees the write.
	kv2 := NewFileKV(path)
	value, ok, err := kv2.Get("k")
	if err != nil || !ok || string(value) != `"v"` {
		t.Fatalf("Get = %q ok=%v err=%v", value, ok, err)
	}

	if err := kv2.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := kv2.Get("k"); ok {
		t.Fatal("value should be gone after delete")
	}
}
