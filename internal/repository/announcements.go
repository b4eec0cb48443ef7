package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type AnnouncementRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type AnnouncementRepositoryFilter struct {
	ID             *uuid.UUID
	OrganizationID *uuid.UUID
	IsPublished    *bool
	Limit          uint64
}

func (aq *AnnouncementRepository) buildQuery(filter AnnouncementRepositoryFilter, queryType QueryType) (string, []any, error) {
	var builder sq.SelectBuilder
	switch queryType {
	case QueryTypeSelect:
		builder = aq.psql.Select("*").From("announcements")
	case QueryTypeCount:
		builder = aq.psql.Select("COUNT(*)").From("announcements")
	}

	if filter.ID != nil {
		builder = builder.Where(sq.Eq{"id": *filter.ID})
	}
	if filter.OrganizationID != nil {
		builder = builder.Where(sq.Eq{"organization_id": *filter.OrganizationID})
	}
	if filter.IsPublished != nil {
		builder = builder.Where(sq.Eq{"is_published": *filter.IsPublished})
	}

	if queryType == QueryTypeSelect {
		builder = builder.OrderBy("created_at DESC")
		if filter.Limit > 0 {
			builder = builder.Limit(filter.Limit)
		}
	}

	return builder.ToSql()
}

func (aq *AnnouncementRepository) Get(ctx context.Context, filter AnnouncementRepositoryFilter) (*Announcement, error) {
	query, args, err := aq.buildQuery(filter, QueryTypeSelect)
	if err != nil {
		return nil, err
	}

	var announcement Announcement
	if err := aq.db.GetContext(ctx, &announcement, query, args...); err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (aq *AnnouncementRepository) List(ctx context.Context, filter AnnouncementRepositoryFilter) ([]Announcement, error) {
	query, args, err := aq.buildQuery(filter, QueryTypeSelect)
	if err != nil {
		return nil, err
	}

	var announcements []Announcement
	if err := aq.db.SelectContext(ctx, &announcements, query, args...); err != nil {
		return nil, err
	}
	return announcements, nil
}

func (aq *AnnouncementRepository) Create(ctx context.Context, announcement *Announcement) (*Announcement, error) {
	builder := aq.psql.Insert("announcements").
		Columns("organization_id", "author_id", "title", "content", "image_url", "is_published", "published_at").
		Values(announcement.OrganizationID, announcement.AuthorID, announcement.Title, announcement.Content, announcement.ImageURL, announcement.IsPublished, announcement.PublishedAt).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var created Announcement
	err = aq.db.GetContext(ctx, &created, query, args...)
	return &created, err
}

// Publish marks an announcement published. Publishing an already-published
// announcement keeps the original published_at (idempotent toggle).
func (aq *AnnouncementRepository) Publish(ctx context.Context, id uuid.UUID) (*Announcement, error) {
	builder := aq.psql.Update("announcements").
		Set("is_published", true).
		Set("published_at", sq.Expr("COALESCE(published_at, NOW())")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var updated Announcement
	err = aq.db.GetContext(ctx, &updated, query, args...)
	return &updated, err
}
