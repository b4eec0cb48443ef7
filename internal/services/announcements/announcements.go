package announcements

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/kedarvyas/mandirapp/internal/constants"
	"github.com/kedarvyas/mandirapp/internal/dto"
	"github.com/kedarvyas/mandirapp/internal/push"
	"github.com/kedarvyas/mandirapp/internal/repository"
	svc "github.com/kedarvyas/mandirapp/internal/services"
	"github.com/kedarvyas/mandirapp/pkg/logger"
)

var _ AnnouncementRepository = (*repository.AnnouncementRepository)(nil)

type AnnouncementRepository interface {
	Get(ctx context.Context, filter repository.AnnouncementRepositoryFilter) (*repository.Announcement, error)
	List(ctx context.Context, filter repository.AnnouncementRepositoryFilter) ([]repository.Announcement, error)
	Create(ctx context.Context, announcement *repository.Announcement) (*repository.Announcement, error)
	Publish(ctx context.Context, id uuid.UUID) (*repository.Announcement, error)
}

type Announcement struct {
	Logger           *logger.Logger
	AnnouncementRepo AnnouncementRepository
	Push             *push.Service
}

func New(logger *logger.Logger, announcementRepo AnnouncementRepository, pushSvc *push.Service) *Announcement {
	return &Announcement{
		Logger:           logger,
		AnnouncementRepo: announcementRepo,
		Push:             pushSvc,
	}
}

func canAuthor(role string) bool {
	return lo.Contains(constants.AnnouncementAuthorRoles, constants.StaffRole(role))
}

func (a *Announcement) Create(ctx context.Context, orgID, authorID uuid.UUID, authorRole string, input dto.CreateAnnouncementInput) (*dto.Announcement, error) {
	if !canAuthor(authorRole) {
		return nil, &svc.ApiError{
			Status:  http.StatusForbidden,
			Message: "Your role cannot create announcements",
		}
	}

	row := &repository.Announcement{
		OrganizationID: orgID,
		AuthorID:       authorID,
		Title:          input.Title,
		Content:        input.Content,
		ImageURL:       repository.NullableString(input.ImageURL),
	}
	if input.Publish {
		row.IsPublished = true
		row.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	created, err := a.AnnouncementRepo.Create(ctx, row)
	if err != nil {
		return nil, err
	}

	if created.IsPublished {
		a.notify(ctx, created)
	}

	return mapRepositoryToHandler(created), nil
}

// Publish flips a draft to published. Publishing an already-published
// announcement is a no-op beyond returning the current row.
func (a *Announcement) Publish(ctx context.Context, orgID, id uuid.UUID, authorRole string) (*dto.Announcement, error) {
	if !canAuthor(authorRole) {
		return nil, &svc.ApiError{
			Status:  http.StatusForbidden,
			Message: "Your role cannot publish announcements",
		}
	}

	existing, err := a.AnnouncementRepo.Get(ctx, repository.AnnouncementRepositoryFilter{
		ID:             &id,
		OrganizationID: &orgID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &svc.ApiError{
				Status:  http.StatusNotFound,
				Message: "Announcement not found",
			}
		}
		return nil, err
	}

	wasPublished := existing.IsPublished
	published, err := a.AnnouncementRepo.Publish(ctx, existing.ID)
	if err != nil {
		return nil, err
	}

	if !wasPublished {
		a.notify(ctx, published)
	}

	return mapRepositoryToHandler(published), nil
}

func (a *Announcement) List(ctx context.Context, orgID uuid.UUID, publishedOnly bool) ([]*dto.Announcement, error) {
	filter := repository.AnnouncementRepositoryFilter{
		OrganizationID: &orgID,
	}
	if publishedOnly {
		published := true
		filter.IsPublished = &published
	}

	announcements, err := a.AnnouncementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.Announcement, 0, len(announcements))
	for i := range announcements {
		result = append(result, mapRepositoryToHandler(&announcements[i]))
	}
	return result, nil
}

// notify fans out a push notification; delivery failures are logged, never
// surfaced to the author.
func (a *Announcement) notify(ctx context.Context, announcement *repository.Announcement) {
	if a.Push == nil {
		return
	}

	err := a.Push.Broadcast(ctx, announcement.OrganizationID, push.Notification{
		Type:  push.TypeAnnouncement,
		Title: announcement.Title,
		Body:  announcement.Content,
	})
	if err != nil {
		a.Logger.Warn().Err(err).
			Str("announcement_id", announcement.ID.String()).
			Msg("failed to broadcast announcement notification")
	}
}

func mapRepositoryToHandler(announcement *repository.Announcement) *dto.Announcement {
	result := &dto.Announcement{
		ID:          announcement.ID,
		Title:       announcement.Title,
		Content:     announcement.Content,
		ImageURL:    announcement.ImageURL.String,
		IsPublished: announcement.IsPublished,
		CreatedAt:   announcement.CreatedAt,
	}
	if announcement.PublishedAt.Valid {
		publishedAt := announcement.PublishedAt.Time
		result.PublishedAt = &publishedAt
	}
	return result
}
