package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kedarvyas/mandirapp/factory"
	"github.com/kedarvyas/mandirapp/internal/config"
	"github.com/kedarvyas/mandirapp/internal/constants"
	"github.com/kedarvyas/mandirapp/internal/helpers"
	"github.com/kedarvyas/mandirapp/internal/repository"
	"github.com/kedarvyas/mandirapp/pkg/database"
)

type Seed struct {
	Config          *config.Config
	DB              *database.PostgresDB
	OrgRepo         *repository.OrganizationRepository
	StaffRepo       *repository.StaffRepository
	MemberRepo      *repository.MemberRepository
	FamilyGroupRepo *repository.FamilyGroupRepository
}

func NewSeeder(cfg *config.Config) (*Seed, func(), error) {
	if !cfg.IsDev {
		return nil, nil, fmt.Errorf("seeding is only allowed in development environment")
	}

	factory, cleanup, err := factory.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize factory: %w", err)
	}

	return &Seed{
		Config:          cfg,
		DB:              factory.DB,
		OrgRepo:         factory.Repositories.Organization,
		StaffRepo:       factory.Repositories.Staff,
		MemberRepo:      factory.Repositories.Member,
		FamilyGroupRepo: factory.Repositories.FamilyGroup,
	}, cleanup, nil
}

func (s *Seed) ResetDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("Resetting database...")
	_, err := s.DB.DB.ExecContext(ctx, `
		TRUNCATE TABLE
			tokens,
			announcements,
			payments,
			check_ins,
			members,
			family_groups,
			staff,
			organizations
		RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		log.Fatalf("Failed to reset database: %v", err)
	}

	fmt.Println("Database reset completed.")
}

// CreateDemoOrganization seeds a temple with an admin login, an active
// family, and kiosk settings so every dashboard screen has data.
func (s *Seed) CreateDemoOrganization() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("Creating demo organization...")

	org, err := s.OrgRepo.Create(ctx, &repository.Organization{
		Name:         "Lotus Temple",
		OrgCode:      "LOTUS-TEMPLE1",
		PrimaryColor: sql.NullString{String: "#C2410C", Valid: true},
		IsActive:     true,
		Settings: []byte(`{"kiosk": {
			"enabled": true,
			"preset_amounts": [1100, 2500, 5100, 10100],
			"custom_amount_enabled": true,
			"payment_methods": ["card", "apple_pay"]
		}}`),
	}, nil)
	if err != nil {
		log.Fatalf("Failed to create organization: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	_, err = s.StaffRepo.Create(ctx, &repository.Staff{
		OrganizationID: org.ID,
		Email:          "admin@lotustemple.org",
		PasswordHash:   sql.NullString{String: string(hash), Valid: true},
		Name:           "Demo Admin",
		Role:           string(constants.RoleAdmin),
		IsActive:       true,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to create admin staff: %v", err)
	}

	group, err := s.FamilyGroupRepo.Create(ctx, &repository.FamilyGroup{
		OrganizationID: org.ID,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to create family group: %v", err)
	}

	prime, err := s.MemberRepo.Create(ctx, &repository.Member{
		OrganizationID: org.ID,
		FamilyGroupID:  repository.ToNullUUID(group.ID),
		Phone:          sql.NullString{String: "+15555550100", Valid: true},
		FirstName:      "Priya",
		LastName:       "Sharma",
		Status:         string(constants.MemberStatusActive),
		IsPrimeMember:  true,
		MembershipDate: sql.NullTime{Time: time.Now(), Valid: true},
		QRToken:        sql.NullString{String: s.mustQRToken(), Valid: true},
	}, nil)
	if err != nil {
		log.Fatalf("Failed to create prime member: %v", err)
	}

	if err := s.FamilyGroupRepo.SetPrimeMember(ctx, group.ID, prime.ID, nil); err != nil {
		log.Fatalf("Failed to link prime member: %v", err)
	}

	dependents := []repository.Member{
		{FirstName: "Arjun", LastName: "Sharma", RelationshipToPrime: sql.NullString{String: "spouse", Valid: true}},
		{FirstName: "Meera", LastName: "Sharma", RelationshipToPrime: sql.NullString{String: "child", Valid: true}},
	}
	for i := range dependents {
		dependents[i].OrganizationID = org.ID
		dependents[i].FamilyGroupID = repository.ToNullUUID(group.ID)
		dependents[i].Status = string(constants.MemberStatusActive)
		dependents[i].MembershipDate = sql.NullTime{Time: time.Now(), Valid: true}
		dependents[i].QRToken = sql.NullString{String: s.mustQRToken(), Valid: true}
		if _, err := s.MemberRepo.Create(ctx, &dependents[i], nil); err != nil {
			log.Fatalf("Failed to create dependent: %v", err)
		}
	}

	fmt.Printf("Demo organization created. Org code: %s, admin login: admin@lotustemple.org / changeme123\n", org.OrgCode)
}

func (s *Seed) mustQRToken() string {
	token, err := helpers.NewQRToken()
	if err != nil {
		log.Fatalf("Failed to generate QR token: %v", err)
	}
	return token
}
