package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MemberRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type MemberRepositoryFilter struct {
	ID             *uuid.UUID
	OrganizationID *uuid.UUID
	FamilyGroupID  *uuid.UUID
	Phone          *string
	QRToken        *string
	Status         *string
	IsPrimeMember  *bool
	// Search matches first name, last name, or phone by case-insensitive
	// substring.
	Search *string
	Limit  uint64
}

func (mq *MemberRepository) buildQuery(filter MemberRepositoryFilter, queryType QueryType) (string, []any, error) {
	var builder sq.SelectBuilder
	switch queryType {
	case QueryTypeSelect:
		builder = mq.psql.Select("*").From("members")
	case QueryTypeCount:
		builder = mq.psql.Select("COUNT(*)").From("members")
	}

	// Only get non-deleted members
	builder = builder.Where(sq.Eq{"deleted_at": nil})

	if filter.ID != nil {
		builder = builder.Where(sq.Eq{"id": *filter.ID})
	}
	if filter.OrganizationID != nil {
		builder = builder.Where(sq.Eq{"organization_id": *filter.OrganizationID})
	}
	if filter.FamilyGroupID != nil {
		builder = builder.Where(sq.Eq{"family_group_id": *filter.FamilyGroupID})
	}
	if filter.Phone != nil {
		builder = builder.Where(sq.Eq{"phone": *filter.Phone})
	}
	if filter.QRToken != nil {
		builder = builder.Where(sq.Eq{"qr_token": *filter.QRToken})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.IsPrimeMember != nil {
		builder = builder.Where(sq.Eq{"is_prime_member": *filter.IsPrimeMember})
	}
	if filter.Search != nil {
		pattern := fmt.Sprintf("%%%s%%", *filter.Search)
		builder = builder.Where(sq.Or{
			sq.ILike{"first_name": pattern},
			sq.ILike{"last_name": pattern},
			sq.ILike{"phone": pattern},
		})
	}
	if queryType == QueryTypeSelect && filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	return builder.ToSql()
}

func (mq *MemberRepository) Get(ctx context.Context, filter MemberRepositoryFilter) (*Member, error) {
	query, args, err := mq.buildQuery(filter, QueryTypeSelect)
	if err != nil {
		return nil, err
	}

	var member Member
	if err := mq.db.GetContext(ctx, &member, query, args...); err != nil {
		return nil, err
	}
	return &member, nil
}

func (mq *MemberRepository) List(ctx context.Context, filter MemberRepositoryFilter) ([]Member, error) {
	query, args, err := mq.buildQuery(filter, QueryTypeSelect)
	if err != nil {
		return nil, err
	}

	var members []Member
	if err := mq.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, err
	}
	return members, nil
}

func (mq *MemberRepository) Exists(ctx context.Context, filter MemberRepositoryFilter) (bool, error) {
	query, args, err := mq.buildQuery(filter, QueryTypeCount)
	if err != nil {
		return false, err
	}

	var count int
	if err := mq.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (mq *MemberRepository) Create(ctx context.Context, member *Member, tx *sqlx.Tx) (*Member, error) {
	builder := mq.psql.Insert("members").
		Columns(
			"organization_id", "family_group_id", "phone", "first_name", "last_name",
			"email", "photo_url", "status", "is_prime_member", "is_independent",
			"relationship_to_prime", "membership_date", "qr_token",
		).
		Values(
			member.OrganizationID, member.FamilyGroupID, member.Phone, member.FirstName, member.LastName,
			member.Email, member.PhotoURL, member.Status, member.IsPrimeMember, member.IsIndependent,
			member.RelationshipToPrime, member.MembershipDate, member.QRToken,
		).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var createdMember Member
	if tx != nil {
		err = tx.GetContext(ctx, &createdMember, query, args...)
		return &createdMember, err
	}

	err = mq.db.GetContext(ctx, &createdMember, query, args...)
	return &createdMember, err
}

func (mq *MemberRepository) Update(ctx context.Context, member *Member, tx *sqlx.Tx) (*Member, error) {
	builder := mq.psql.Update("members").
		Set("family_group_id", member.FamilyGroupID).
		Set("phone", member.Phone).
		Set("first_name", member.FirstName).
		Set("last_name", member.LastName).
		Set("email", member.Email).
		Set("photo_url", member.PhotoURL).
		Set("status", member.Status).
		Set("is_prime_member", member.IsPrimeMember).
		Set("is_independent", member.IsIndependent).
		Set("relationship_to_prime", member.RelationshipToPrime).
		Set("membership_date", member.MembershipDate).
		Set("qr_token", member.QRToken).
		Set("push_token", member.PushToken).
		Set("notifications_enabled", member.NotificationsEnabled).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": member.ID}).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var updated Member
	if tx != nil {
		err = tx.GetContext(ctx, &updated, query, args...)
		return &updated, err
	}

	err = mq.db.GetContext(ctx, &updated, query, args...)
	return &updated, err
}
