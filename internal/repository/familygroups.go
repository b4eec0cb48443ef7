package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type FamilyGroupRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewFamilyGroupRepository(db *sqlx.DB) *FamilyGroupRepository {
	return &FamilyGroupRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type FamilyGroupRepositoryFilter struct {
	ID             *uuid.UUID
	OrganizationID *uuid.UUID
	PrimeMemberID  *uuid.UUID
}

func (fq *FamilyGroupRepository) buildQuery(filter FamilyGroupRepositoryFilter, queryType QueryType) (string, []any, error) {
	var builder sq.SelectBuilder
	switch queryType {
	case QueryTypeSelect:
		builder = fq.psql.Select("*").From("family_groups")
	case QueryTypeCount:
		builder = fq.psql.Select("COUNT(*)").From("family_groups")
	}

	if filter.ID != nil {
		builder = builder.Where(sq.Eq{"id": *filter.ID})
	}
	if filter.OrganizationID != nil {
		builder = builder.Where(sq.Eq{"organization_id": *filter.OrganizationID})
	}
	if filter.PrimeMemberID != nil {
		builder = builder.Where(sq.Eq{"prime_member_id": *filter.PrimeMemberID})
	}

	return builder.ToSql()
}

func (fq *FamilyGroupRepository) Get(ctx context.Context, filter FamilyGroupRepositoryFilter) (*FamilyGroup, error) {
	query, args, err := fq.buildQuery(filter, QueryTypeSelect)
	if err != nil {
		return nil, err
	}

	var group FamilyGroup
	if err := fq.db.GetContext(ctx, &group, query, args...); err != nil {
		return nil, err
	}
	return &group, nil
}

// Create inserts a family group. prime_member_id is nullable at creation:
// the prime member row does not exist yet when the group is created.
func (fq *FamilyGroupRepository) Create(ctx context.Context, group *FamilyGroup, tx *sqlx.Tx) (*FamilyGroup, error) {
	builder := fq.psql.Insert("family_groups").
		Columns("organization_id", "prime_member_id").
		Values(group.OrganizationID, group.PrimeMemberID).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var created FamilyGroup
	if tx != nil {
		err = tx.GetContext(ctx, &created, query, args...)
		return &created, err
	}

	err = fq.db.GetContext(ctx, &created, query, args...)
	return &created, err
}

func (fq *FamilyGroupRepository) SetPrimeMember(ctx context.Context, groupID, memberID uuid.UUID, tx *sqlx.Tx) error {
	builder := fq.psql.Update("family_groups").
		Set("prime_member_id", memberID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": groupID})

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	}

	_, err = fq.db.ExecContext(ctx, query, args...)
	return err
}
