package dto

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	OrgCode      string    `json:"org_code"`
	LogoURL      string    `json:"logo_url,omitempty"`
	PrimaryColor string    `json:"primary_color,omitempty"`
	IsActive     bool      `json:"is_active"`
}

type CreateOrganizationInput struct {
	Name         string          `json:"name" validate:"required"`
	PrimaryColor string          `json:"primary_color,omitempty" validate:"omitempty,hexcolor"`
	Admin        AdminStaffInput `json:"admin" validate:"required"`
}

type AdminStaffInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type Staff struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
}

type CreateStaffInput struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role" validate:"required,oneof=owner admin treasurer secretary volunteer viewer"`
}

type Member struct {
	ID                  uuid.UUID  `json:"id"`
	OrganizationID      uuid.UUID  `json:"organization_id"`
	FamilyGroupID       *uuid.UUID `json:"family_group_id,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Email               string     `json:"email,omitempty"`
	PhotoURL            string     `json:"photo_url,omitempty"`
	Status              string     `json:"status"`
	IsPrimeMember       bool       `json:"is_prime_member"`
	IsIndependent       bool       `json:"is_independent"`
	RelationshipToPrime string     `json:"relationship_to_prime,omitempty"`
	MembershipDate      *time.Time `json:"membership_date,omitempty"`
	QRToken             string     `json:"qr_token,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

type CreateMemberInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required,min=10"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

type UpdateMemberInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=pending_invite pending_registration active inactive"`
}

type RegisterFamilyInput struct {
	Prime      CreateMemberInput `json:"prime" validate:"required"`
	Dependents []FamilyDependent `json:"dependents,omitempty" validate:"dive"`
}

type FamilyDependent struct {
	FirstName           string `json:"first_name" validate:"required"`
	LastName            string `json:"last_name" validate:"required"`
	RelationshipToPrime string `json:"relationship_to_prime" validate:"required"`
}

type Family struct {
	GroupID uuid.UUID `json:"group_id"`
	Prime   *Member   `json:"prime"`
	Members []*Member `json:"members"`
	// PrimeLinkPending is set when the group's back-reference patch failed;
	// the family is still functionally correct via the members'
	// family_group_id.
	PrimeLinkPending bool `json:"prime_link_pending,omitempty"`
}

type ResolveTokenInput struct {
	QRToken string `json:"qr_token" validate:"required"`
}

type CheckInInput struct {
	MemberID uuid.UUID `json:"member_id" validate:"required"`
}

type CheckIn struct {
	ID          uuid.UUID `json:"id"`
	MemberID    uuid.UUID `json:"member_id"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

type CheckInResult struct {
	CheckIn *CheckIn `json:"check_in"`
	Member  *Member  `json:"member"`
	// Warning is set when the member's status is not active. Check-in is
	// soft-warned, never blocked.
	Warning string `json:"warning,omitempty"`
}

type LogPaymentInput struct {
	MemberID    uuid.UUID `json:"member_id" validate:"required"`
	AmountCents int64     `json:"amount_cents" validate:"required,gt=0"`
	Method      string    `json:"method" validate:"required,oneof=cash check card other"`
	PaidAt      time.Time `json:"paid_at,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

type Payment struct {
	ID          uuid.UUID `json:"id"`
	MemberID    uuid.UUID `json:"member_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	PaidAt      time.Time `json:"paid_at"`
	Notes       string    `json:"notes,omitempty"`
}

type CreateAnnouncementInput struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	Publish  bool   `json:"publish"`
}

type Announcement struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	ImageURL    string     `json:"image_url,omitempty"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SetPasswordInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	TokenType    string  `json:"token_type"`
	Staff        *Staff  `json:"staff,omitempty"`
	Member       *Member `json:"member,omitempty"`
}

type RequestOTPInput struct {
	Phone   string `json:"phone" validate:"required,min=10,max=15"`
	OrgCode string `json:"org_code" validate:"required"`
}

type VerifyOTPInput struct {
	Phone   string `json:"phone" validate:"required,min=10,max=15"`
	OrgCode string `json:"org_code" validate:"required"`
	Code    string `json:"code" validate:"required,len=6,numeric"`
}

type UploadPhotoInput struct {
	// Base64 payload from the capture utility.
	Data        string `json:"data" validate:"required,base64"`
	ContentType string `json:"content_type" validate:"required"`
}

type RegisterPushTokenInput struct {
	Token                string `json:"token" validate:"required"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}
