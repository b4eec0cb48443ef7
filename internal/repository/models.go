package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	OrgCode      string          `json:"org_code"`
	LogoURL      sql.NullString  `json:"logo_url"`
	PrimaryColor sql.NullString  `json:"primary_color"`
	IsActive     bool            `json:"is_active"`
	Settings     json.RawMessage `json:"settings"`
	UpdatedAt    sql.NullTime    `json:"updated_at"`
	DeletedAt    sql.NullTime    `json:"deleted_at"`
	CreatedAt    time.Time       `json:"created_at"`
}

type Staff struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	Email          string         `json:"email"`
	PasswordHash   sql.NullString `json:"password_hash"`
	Name           string         `json:"name"`
	Role           string         `json:"role"`
	IsActive       bool           `json:"is_active"`
	UpdatedAt      sql.NullTime   `json:"updated_at"`
	DeletedAt      sql.NullTime   `json:"deleted_at"`
	CreatedAt      time.Time      `json:"created_at"`
}

type Member struct {
	ID                   uuid.UUID      `json:"id"`
	OrganizationID       uuid.UUID      `json:"organization_id"`
	FamilyGroupID        uuid.NullUUID  `json:"family_group_id"`
	Phone                sql.NullString `json:"phone"`
	FirstName            string         `json:"first_name"`
	LastName             string         `json:"last_name"`
	Email                sql.NullString `json:"email"`
	PhotoURL             sql.NullString `json:"photo_url"`
	Status               string         `json:"status"`
	IsPrimeMember        bool           `json:"is_prime_member"`
	IsIndependent        bool           `json:"is_independent"`
	RelationshipToPrime  sql.NullString `json:"relationship_to_prime"`
	MembershipDate       sql.NullTime   `json:"membership_date"`
	QRToken              sql.NullString `json:"qr_token"`
	PushToken            sql.NullString `json:"push_token"`
	NotificationsEnabled bool           `json:"notifications_enabled"`
	UpdatedAt            sql.NullTime   `json:"updated_at"`
	DeletedAt            sql.NullTime   `json:"deleted_at"`
	CreatedAt            time.Time      `json:"created_at"`
}

type FamilyGroup struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	PrimeMemberID  uuid.NullUUID `json:"prime_member_id"`
	UpdatedAt      sql.NullTime  `json:"updated_at"`
	CreatedAt      time.Time     `json:"created_at"`
}

type CheckIn struct {
	ID             uuid.UUID `json:"id"`
	MemberID       uuid.UUID `json:"member_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	CheckedInAt    time.Time `json:"checked_in_at"`
}

type Payment struct {
	ID             uuid.UUID      `json:"id"`
	MemberID       uuid.UUID      `json:"member_id"`
	FamilyGroupID  uuid.NullUUID  `json:"family_group_id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	AmountCents    int64          `json:"amount_cents"`
	Method         string         `json:"method"`
	PaidAt         time.Time      `json:"paid_at"`
	Notes          sql.NullString `json:"notes"`
	CreatedAt      time.Time      `json:"created_at"`
}

type Announcement struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	AuthorID       uuid.UUID      `json:"author_id"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	ImageURL       sql.NullString `json:"image_url"`
	IsPublished    bool           `json:"is_published"`
	PublishedAt    sql.NullTime   `json:"published_at"`
	UpdatedAt      sql.NullTime   `json:"updated_at"`
	CreatedAt      time.Time      `json:"created_at"`
}

type Token struct {
	ID        uuid.UUID `json:"id"`
	StaffID   uuid.UUID `json:"staff_id"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	IsValid   bool      `json:"is_valid"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
