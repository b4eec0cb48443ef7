package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CheckInRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewCheckInRepository(db *sqlx.DB) *CheckInRepository {
	return &CheckInRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type CheckInRepositoryFilter struct {
	MemberID       *uuid.UUID
	OrganizationID *uuid.UUID
	Limit          uint64
}

// Create appends a check-in row. The log is append-only: repeat check-ins for
// the same member produce additional rows.
func (cq *CheckInRepository) Create(ctx context.Context, checkIn *CheckIn) (*CheckIn, error) {
	builder := cq.psql.Insert("check_ins").
		Columns("member_id", "organization_id").
		Values(checkIn.MemberID, checkIn.OrganizationID).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var created CheckIn
	err = cq.db.GetContext(ctx, &created, query, args...)
	return &created, err
}

func (cq *CheckInRepository) List(ctx context.Context, filter CheckInRepositoryFilter) ([]CheckIn, error) {
	builder := cq.psql.Select("*").From("check_ins")

	if filter.MemberID != nil {
		builder = builder.Where(sq.Eq{"member_id": *filter.MemberID})
	}
	if filter.OrganizationID != nil {
		builder = builder.Where(sq.Eq{"organization_id": *filter.OrganizationID})
	}

	builder = builder.OrderBy("checked_in_at DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var checkIns []CheckIn
	if err := cq.db.SelectContext(ctx, &checkIns, query, args...); err != nil {
		return nil, err
	}
	return checkIns, nil
}
