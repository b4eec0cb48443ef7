package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type StaffRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type StaffRepositoryFilter struct {
	ID             *uuid.UUID
	OrganizationID *uuid.UUID
	Email          *string
	IsActive       *bool
}

func (st *StaffRepository) buildQuery(filter StaffRepositoryFilter, queryType QueryType) (string, []any, error) {
	var builder sq.SelectBuilder
	switch queryType {
	case QueryTypeSelect:
		builder = st.psql.Select("*").From("staff")
	case QueryTypeCount:
		builder = st.psql.Select("COUNT(*)").From("staff")
	}

	builder = builder.Where(sq.Eq{"deleted_at": nil})

	if filter.ID != nil {
		builder = builder.Where(sq.Eq{"id": *filter.ID})
	}
	if filter.OrganizationID != nil {
		builder = builder.Where(sq.Eq{"organization_id": *filter.OrganizationID})
	}
	if filter.Email != nil {
		builder = builder.Where(sq.Eq{"email": *filter.Email})
	}
	if filter.IsActive != nil {
		builder = builder.Where(sq.Eq{"is_active": *filter.IsActive})
	}

	return builder.ToSql()
}

func (st *StaffRepository) Get(ctx context.Context, filter StaffRepositoryFilter) (*Staff, error) {
	query, args, err := st.buildQuery(filter, QueryTypeSelect)
	if err != nil {
		return nil, err
	}

	var staff Staff
	if err := st.db.GetContext(ctx, &staff, query, args...); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (st *StaffRepository) List(ctx context.Context, filter StaffRepositoryFilter) ([]Staff, error) {
	query, args, err := st.buildQuery(filter, QueryTypeSelect)
	if err != nil {
		return nil, err
	}

	var staff []Staff
	if err := st.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, err
	}
	return staff, nil
}

func (st *StaffRepository) Exists(ctx context.Context, filter StaffRepositoryFilter) (bool, error) {
	query, args, err := st.buildQuery(filter, QueryTypeCount)
	if err != nil {
		return false, err
	}

	var count int
	if err := st.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (st *StaffRepository) Create(ctx context.Context, staff *Staff, tx *sqlx.Tx) (*Staff, error) {
	builder := st.psql.Insert("staff").
		Columns("organization_id", "email", "password_hash", "name", "role", "is_active").
		Values(staff.OrganizationID, staff.Email, staff.PasswordHash, staff.Name, staff.Role, staff.IsActive).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var created Staff
	if tx != nil {
		err = tx.GetContext(ctx, &created, query, args...)
		return &created, err
	}

	err = st.db.GetContext(ctx, &created, query, args...)
	return &created, err
}

func (st *StaffRepository) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string, tx *sqlx.Tx) error {
	builder := st.psql.Update("staff").
		Set("password_hash", passwordHash).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	}

	_, err = st.db.ExecContext(ctx, query, args...)
	return err
}
