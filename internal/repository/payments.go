package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PaymentRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type PaymentRepositoryFilter struct {
	MemberID       *uuid.UUID
	FamilyGroupID  *uuid.UUID
	OrganizationID *uuid.UUID
	Limit          uint64
}

func (pq *PaymentRepository) Create(ctx context.Context, payment *Payment) (*Payment, error) {
	builder := pq.psql.Insert("payments").
		Columns("member_id", "family_group_id", "organization_id", "amount_cents", "method", "paid_at", "notes").
		Values(payment.MemberID, payment.FamilyGroupID, payment.OrganizationID, payment.AmountCents, payment.Method, payment.PaidAt, payment.Notes).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var created Payment
	err = pq.db.GetContext(ctx, &created, query, args...)
	return &created, err
}

func (pq *PaymentRepository) List(ctx context.Context, filter PaymentRepositoryFilter) ([]Payment, error) {
	builder := pq.psql.Select("*").From("payments")

	if filter.MemberID != nil {
		builder = builder.Where(sq.Eq{"member_id": *filter.MemberID})
	}
	if filter.FamilyGroupID != nil {
		builder = builder.Where(sq.Eq{"family_group_id": *filter.FamilyGroupID})
	}
	if filter.OrganizationID != nil {
		builder = builder.Where(sq.Eq{"organization_id": *filter.OrganizationID})
	}

	builder = builder.OrderBy("paid_at DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var payments []Payment
	if err := pq.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, err
	}
	return payments, nil
}
