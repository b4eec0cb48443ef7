package push

import (
	"context"

	"github.com/google/uuid"

	"github.com/kedarvyas/mandirapp/internal/repository"
	"github.com/kedarvyas/mandirapp/pkg/logger"
)

type NotificationType string

const (
	TypeAnnouncement NotificationType = "announcement"
	TypeCheckIn      NotificationType = "check_in"
)

// Destination is the in-app view a tapped notification routes to.
type Destination string

const (
	DestinationNews Destination = "news"
	DestinationHome Destination = "home"
)

// RouteForType maps an incoming payload's type field to its in-app
// destination. Unknown types fall through to home.
func RouteForType(t NotificationType) Destination {
	switch t {
	case TypeAnnouncement:
		return DestinationNews
	case TypeCheckIn:
		return DestinationHome
	default:
		return DestinationHome
	}
}

type Notification struct {
	Type  NotificationType `json:"type"`
	Title string           `json:"title"`
	Body  string           `json:"body"`
}

// Notifier delivers a notification to a single device token.
type Notifier interface {
	Send(ctx context.Context, deviceToken string, n Notification) error
}

// LogNotifier is the dev-mode delivery implementation.
type LogNotifier struct {
	Logger *logger.Logger
}

var _ Notifier = (*LogNotifier)(nil)

func (l *LogNotifier) Send(ctx context.Context, deviceToken string, n Notification) error {
	l.Logger.Info().
		Str("device_token", deviceToken).
		Str("type", string(n.Type)).
		Str("title", n.Title).
		Msg("push notification (dev mode)")
	return nil
}

type MemberRepository interface {
	List(ctx context.Context, filter repository.MemberRepositoryFilter) ([]repository.Member, error)
}

var _ MemberRepository = (*repository.MemberRepository)(nil)

type Service struct {
	Logger     *logger.Logger
	Notifier   Notifier
	MemberRepo MemberRepository
}

func NewService(logger *logger.Logger, notifier Notifier, memberRepo MemberRepository) *Service {
	return &Service{
		Logger:     logger,
		Notifier:   notifier,
		MemberRepo: memberRepo,
	}
}

// Broadcast sends a notification to every member of the organization that
// has a registered device token and notifications enabled. Per-device
// failures are logged and skipped.
func (s *Service) Broadcast(ctx context.Context, orgID uuid.UUID, n Notification) error {
	members, err := s.MemberRepo.List(ctx, repository.MemberRepositoryFilter{
		OrganizationID: &orgID,
	})
	if err != nil {
		return err
	}

	for _, member := range members {
		if !member.NotificationsEnabled || !member.PushToken.Valid {
			continue
		}
		if err := s.Notifier.Send(ctx, member.PushToken.String, n); err != nil {
			s.Logger.Warn().Err(err).
				Str("member_id", member.ID.String()).
				Msg("push delivery failed")
		}
	}
	return nil
}
