package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type OrganizationRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type OrganizationRepositoryFilter struct {
	ID       *uuid.UUID
	OrgCode  *string
	IsActive *bool
}

func (oq *OrganizationRepository) buildQuery(filter OrganizationRepositoryFilter, queryType QueryType) (string, []any, error) {
	var builder sq.SelectBuilder
	switch queryType {
	case QueryTypeSelect:
		builder = oq.psql.Select("*").From("organizations")
	case QueryTypeCount:
		builder = oq.psql.Select("COUNT(*)").From("organizations")
	}

	builder = builder.Where(sq.Eq{"deleted_at": nil})

	if filter.ID != nil {
		builder = builder.Where(sq.Eq{"id": *filter.ID})
	}
	if filter.OrgCode != nil {
		// Codes are stored uppercase; lookup is case-insensitive.
		builder = builder.Where(sq.Eq{"org_code": strings.ToUpper(*filter.OrgCode)})
	}
	if filter.IsActive != nil {
		builder = builder.Where(sq.Eq{"is_active": *filter.IsActive})
	}

	return builder.ToSql()
}

func (oq *OrganizationRepository) Get(ctx context.Context, filter OrganizationRepositoryFilter) (*Organization, error) {
	query, args, err := oq.buildQuery(filter, QueryTypeSelect)
	if err != nil {
		return nil, err
	}

	var org Organization
	if err := oq.db.GetContext(ctx, &org, query, args...); err != nil {
		return nil, err
	}
	return &org, nil
}

func (oq *OrganizationRepository) Exists(ctx context.Context, filter OrganizationRepositoryFilter) (bool, error) {
	query, args, err := oq.buildQuery(filter, QueryTypeCount)
	if err != nil {
		return false, err
	}

	var count int
	if err := oq.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (oq *OrganizationRepository) Create(ctx context.Context, org *Organization, tx *sqlx.Tx) (*Organization, error) {
	settings := org.Settings
	if len(settings) == 0 {
		settings = []byte("{}")
	}

	builder := oq.psql.Insert("organizations").
		Columns("name", "org_code", "logo_url", "primary_color", "is_active", "settings").
		Values(org.Name, strings.ToUpper(org.OrgCode), org.LogoURL, org.PrimaryColor, org.IsActive, settings).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var created Organization
	if tx != nil {
		err = tx.GetContext(ctx, &created, query, args...)
		return &created, err
	}

	err = oq.db.GetContext(ctx, &created, query, args...)
	return &created, err
}

func (oq *OrganizationRepository) Update(ctx context.Context, org *Organization, tx *sqlx.Tx) (*Organization, error) {
	builder := oq.psql.Update("organizations").
		Set("name", org.Name).
		Set("logo_url", org.LogoURL).
		Set("primary_color", org.PrimaryColor).
		Set("is_active", org.IsActive).
		Set("settings", org.Settings).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": org.ID}).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var updated Organization
	if tx != nil {
		err = tx.GetContext(ctx, &updated, query, args...)
		return &updated, err
	}

	err = oq.db.GetContext(ctx, &updated, query, args...)
	return &updated, err
}
