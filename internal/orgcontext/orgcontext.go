// Package orgcontext is the member app's device-local organization context:
// which organizations the member belongs to, which one is active, and the
// transient routing flags consumed at cold start. It is a cache of server
// truth; RefreshOrganization is the only operation that reconciles it.
package orgcontext

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

const (
	keyCurrentOrganization = "current_organization"
	keyOrganizations       = "organizations"
	keyActiveOrgID         = "active_organization_id"
	keyJustSignedOut       = "just_signed_out"
	keyNotificationsPrompt = "notifications_prompt_shown"
	keyNotificationsFlag   = "notifications_enabled"
)

// minOrgCodeLength is enforced locally before any lookup call goes out.
const minOrgCodeLength = 5

// StoredOrganization is the client-side subset of an organization persisted
// on the device so the app can resume against the correct tenant without a
// network round trip.
type StoredOrganization struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OrgCode      string `json:"org_code"`
	LogoURL      string `json:"logo_url,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
}

// Sentinel errors a Lookup implementation reports; the store maps them to
// user-facing messages.
var (
	ErrNotFound = errors.New("organization not found")
	ErrInactive = errors.New("organization inactive")
)

// Lookup is the remote side of org-code validation and refresh.
type Lookup interface {
	OrganizationByCode(ctx context.Context, code string) (*StoredOrganization, error)
	OrganizationByID(ctx context.Context, id string) (*StoredOrganization, error)
}

// ValidationResult is the only shape ValidateOrgCode produces; it never
// returns an error value.
type ValidationResult struct {
	Success      bool
	Organization *StoredOrganization
	Error        string
}

type Store struct {
	kv     KV
	lookup Lookup
}

func New(kv KV, lookup Lookup) *Store {
	return &Store{kv: kv, lookup: lookup}
}

// ValidateOrgCode normalizes the code, rejects short codes locally without a
// network call, and maps lookup outcomes to distinct user-facing errors.
func (s *Store) ValidateOrgCode(ctx context.Context, code string) ValidationResult {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	if len(normalized) < minOrgCodeLength {
		return ValidationResult{
			Success: false,
			Error:   "Organization code must be at least 5 characters",
		}
	}

	org, err := s.lookup.OrganizationByCode(ctx, normalized)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return ValidationResult{
				Success: false,
				Error:   "Organization not found. Check the code and try again.",
			}
		case errors.Is(err, ErrInactive):
			return ValidationResult{
				Success: false,
				Error:   "This organization is no longer active.",
			}
		default:
			return ValidationResult{
				Success: false,
				Error:   "Something went wrong. Please try again.",
			}
		}
	}

	return ValidationResult{Success: true, Organization: org}
}

// SaveOrganization persists the single "current" organization pointer.
// Overwrite semantics: last write wins.
func (s *Store) SaveOrganization(org StoredOrganization) error {
	data, err := json.Marshal(org)
	if err != nil {
		return err
	}
	return s.kv.Set(keyCurrentOrganization, data)
}

// StoredOrganization returns the last-saved organization, or nil if none is
// stored or the stored value cannot be parsed. Parse failures are swallowed.
func (s *Store) StoredOrganization() *StoredOrganization {
	data, ok, err := s.kv.Get(keyCurrentOrganization)
	if err != nil || !ok {
		return nil
	}

	var org StoredOrganization
	if err := json.Unmarshal(data, &org); err != nil {
		return nil
	}
	return &org
}

// ClearOrganization removes the current-organization pointer only; the
// multi-org list is untouched.
func (s *Store) ClearOrganization() error {
	return s.kv.Delete(keyCurrentOrganization)
}

// RefreshOrganization re-fetches canonical fields from the remote store and
// overwrites both the single pointer (if it matches) and the corresponding
// entry in the multi-org list. Returns nil on any failure.
func (s *Store) RefreshOrganization(ctx context.Context, orgID string) *StoredOrganization {
	fresh, err := s.lookup.OrganizationByID(ctx, orgID)
	if err != nil || fresh == nil {
		return nil
	}

	if current := s.StoredOrganization(); current != nil && current.ID == orgID {
		_ = s.SaveOrganization(*fresh)
	}

	orgs := s.Organizations()
	for i := range orgs {
		if orgs[i].ID == orgID {
			orgs[i] = *fresh
			_ = s.SetOrganizations(orgs)
			break
		}
	}

	return fresh
}

// Organizations returns the multi-org membership list; empty on any
// read/parse failure.
func (s *Store) Organizations() []StoredOrganization {
	data, ok, err := s.kv.Get(keyOrganizations)
	if err != nil || !ok {
		return nil
	}

	var orgs []StoredOrganization
	if err := json.Unmarshal(data, &orgs); err != nil {
		return nil
	}
	return orgs
}

func (s *Store) SetOrganizations(orgs []StoredOrganization) error {
	data, err := json.Marshal(orgs)
	if err != nil {
		return err
	}
	return s.kv.Set(keyOrganizations, data)
}

// AddOrganization appends to the multi-org list, replacing any entry with
// the same id.
func (s *Store) AddOrganization(org StoredOrganization) error {
	orgs := s.Organizations()
	for i := range orgs {
		if orgs[i].ID == org.ID {
			orgs[i] = org
			return s.SetOrganizations(orgs)
		}
	}
	return s.SetOrganizations(append(orgs, org))
}

func (s *Store) ActiveOrganizationID() string {
	data, ok, err := s.kv.Get(keyActiveOrgID)
	if err != nil || !ok {
		return ""
	}

	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return ""
	}
	return id
}

// SetActiveOrganizationID switches the active tenant. This is a pure local
// write; the caller is expected to fully re-navigate so all data reloads
// under the new tenant.
func (s *Store) SetActiveOrganizationID(id string) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return s.kv.Set(keyActiveOrgID, data)
}

// MarkSignedOut sets the one-shot sign-out flag read by cold-start routing.
func (s *Store) MarkSignedOut() error {
	return s.kv.Set(keyJustSignedOut, []byte("true"))
}

// ConsumeSignedOutFlag reports whether the flag was set, clearing it so the
// next cold start falls through to normal session routing.
func (s *Store) ConsumeSignedOutFlag() bool {
	data, ok, err := s.kv.Get(keyJustSignedOut)
	if err != nil || !ok {
		return false
	}
	_ = s.kv.Delete(keyJustSignedOut)
	return string(data) == "true"
}

func (s *Store) NotificationsPromptShown() bool {
	data, ok, err := s.kv.Get(keyNotificationsPrompt)
	return err == nil && ok && string(data) == "true"
}

func (s *Store) SetNotificationsPromptShown() error {
	return s.kv.Set(keyNotificationsPrompt, []byte("true"))
}

func (s *Store) NotificationsEnabled() bool {
	data, ok, err := s.kv.Get(keyNotificationsFlag)
	return err == nil && ok && string(data) == "true"
}

func (s *Store) SetNotificationsEnabled(enabled bool) error {
	if enabled {
		return s.kv.Set(keyNotificationsFlag, []byte("true"))
	}
	return s.kv.Set(keyNotificationsFlag, []byte("false"))
}
