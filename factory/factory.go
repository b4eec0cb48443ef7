package factory

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/kedarvyas/mandirapp/internal/config"
	"github.com/kedarvyas/mandirapp/internal/middleware"
	"github.com/kedarvyas/mandirapp/internal/push"
	"github.com/kedarvyas/mandirapp/internal/repository"
	"github.com/kedarvyas/mandirapp/internal/services/announcements"
	"github.com/kedarvyas/mandirapp/internal/services/checkins"
	"github.com/kedarvyas/mandirapp/internal/services/identity"
	"github.com/kedarvyas/mandirapp/internal/services/members"
	"github.com/kedarvyas/mandirapp/internal/services/organizations"
	"github.com/kedarvyas/mandirapp/internal/services/payments"
	"github.com/kedarvyas/mandirapp/internal/services/staff"
	"github.com/kedarvyas/mandirapp/pkg/cache"
	"github.com/kedarvyas/mandirapp/pkg/database"
	emailpkg "github.com/kedarvyas/mandirapp/pkg/email"
	"github.com/kedarvyas/mandirapp/pkg/logger"
	"github.com/kedarvyas/mandirapp/pkg/sms"
	"github.com/kedarvyas/mandirapp/pkg/storage"
	"github.com/kedarvyas/mandirapp/pkg/token"
)

type Repositories struct {
	Organization *repository.OrganizationRepository
	Staff        *repository.StaffRepository
	Member       *repository.MemberRepository
	FamilyGroup  *repository.FamilyGroupRepository
	CheckIn      *repository.CheckInRepository
	Payment      *repository.PaymentRepository
	Announcement *repository.AnnouncementRepository
	Token        *repository.TokenRepository
}

type Services struct {
	Organization *organizations.Organization
	Staff        *staff.Staff
	Identity     *identity.Identity
	Member       *members.Member
	CheckIn      *checkins.CheckIn
	Payment      *payments.Payment
	Announcement *announcements.Announcement
	Push         *push.Service
}

type Factory struct {
	DB           *database.PostgresDB
	Logger       *logger.Logger
	JWTToken     *token.Jwt
	Cache        *cache.Redis
	Email        *emailpkg.Email
	Storage      storage.Storage
	Router       *chi.Mux
	Services     *Services
	Repositories *Repositories
	Middleware   *middleware.Middleware
}

func New(cfg *config.Config) (*Factory, func(), error) {
	log := logger.New(cfg)

	db, dbCleanup, err := database.New(cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}

	redis, redisCleanup := cache.New(cfg, log)

	jwtToken := token.NewJwt(cfg.Auth.JWTSecret)

	email, err := emailpkg.New(cfg)
	if err != nil {
		dbCleanup()
		redisCleanup()
		return nil, nil, err
	}

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		dbCleanup()
		redisCleanup()
		return nil, nil, err
	}

	orgRepo := repository.NewOrganizationRepository(db.DB)
	staffRepo := repository.NewStaffRepository(db.DB)
	memberRepo := repository.NewMemberRepository(db.DB)
	familyGroupRepo := repository.NewFamilyGroupRepository(db.DB)
	checkInRepo := repository.NewCheckInRepository(db.DB)
	paymentRepo := repository.NewPaymentRepository(db.DB)
	announcementRepo := repository.NewAnnouncementRepository(db.DB)
	tokenRepo := repository.NewTokenRepository(db.DB)

	pushService := push.NewService(log, &push.LogNotifier{Logger: log}, memberRepo)

	organizationService := organizations.New(db.DB, log, orgRepo, staffRepo)
	staffService := staff.New(db.DB, cfg, jwtToken, staffRepo, tokenRepo, email)
	identityService := identity.New(log, redis, sms.LogSender{}, jwtToken, memberRepo, organizationService)
	memberService := members.New(db.DB, log, memberRepo, familyGroupRepo, store)
	checkInService := checkins.New(db.DB, log, memberRepo, checkInRepo)
	paymentService := payments.New(paymentRepo, memberRepo)
	announcementService := announcements.New(log, announcementRepo, pushService)

	mw := middleware.New(jwtToken, log)

	return &Factory{
			DB:       db,
			Logger:   log,
			JWTToken: jwtToken,
			Cache:    redis,
			Email:    email,
			Storage:  store,
			Router:   chi.NewRouter(),
			Services: &Services{
				Organization: organizationService,
				Staff:        staffService,
				Identity:     identityService,
				Member:       memberService,
				CheckIn:      checkInService,
				Payment:      paymentService,
				Announcement: announcementService,
				Push:         pushService,
			},
			Repositories: &Repositories{
				Organization: orgRepo,
				Staff:        staffRepo,
				Member:       memberRepo,
				FamilyGroup:  familyGroupRepo,
				CheckIn:      checkInRepo,
				Payment:      paymentRepo,
				Announcement: announcementRepo,
				Token:        tokenRepo,
			},
			Middleware: mw,
		}, func() {
			dbCleanup()
			redisCleanup()
		}, nil
}
