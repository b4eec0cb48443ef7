package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TokenRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewTokenRepository(db *sqlx.DB) *TokenRepository {
	return &TokenRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type TokenRepositoryFilter struct {
	TokenID   *uuid.UUID
	StaffID   *uuid.UUID
	Token     *string
	TokenType *string
	IsValid   *bool
	IsExpired *bool
}

func (tr *TokenRepository) buildQuery(filter TokenRepositoryFilter, queryType QueryType) (sq.SelectBuilder, error) {
	var builder sq.SelectBuilder
	switch queryType {
	case QueryTypeSelect:
		builder = tr.psql.Select("*").From("tokens")
	case QueryTypeCount:
		builder = tr.psql.Select("COUNT(*)").From("tokens")
	default:
		return sq.SelectBuilder{}, errors.New("invalid query type provided")
	}

	if filter.TokenID != nil {
		builder = builder.Where(sq.Eq{"id": *filter.TokenID})
	}
	if filter.StaffID != nil {
		builder = builder.Where(sq.Eq{"staff_id": *filter.StaffID})
	}
	if filter.Token != nil {
		builder = builder.Where(sq.Eq{"token": *filter.Token})
	}
	if filter.TokenType != nil {
		builder = builder.Where(sq.Eq{"token_type": *filter.TokenType})
	}
	if filter.IsValid != nil {
		builder = builder.Where(sq.Eq{"is_valid": *filter.IsValid})
	}
	if filter.IsExpired != nil {
		if *filter.IsExpired {
			builder = builder.Where(sq.Lt{"expires_at": time.Now()})
		} else {
			builder = builder.Where(sq.GtOrEq{"expires_at": time.Now()})
		}
	}

	return builder, nil
}

func (tr *TokenRepository) Get(ctx context.Context, filter *TokenRepositoryFilter) (*Token, error) {
	builder, err := tr.buildQuery(*filter, QueryTypeSelect)
	if err != nil {
		return nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var token Token
	if err := tr.db.GetContext(ctx, &token, query, args...); err != nil {
		return nil, err
	}
	return &token, nil
}

func (tr *TokenRepository) Create(ctx context.Context, token *Token, tx *sqlx.Tx) (*Token, error) {
	builder := tr.psql.Insert("tokens").
		Columns("staff_id", "token", "token_type", "is_valid", "expires_at").
		Values(token.StaffID, token.Token, token.TokenType, token.IsValid, token.ExpiresAt).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var created Token
	if tx != nil {
		err = tx.GetContext(ctx, &created, query, args...)
		return &created, err
	}

	err = tr.db.GetContext(ctx, &created, query, args...)
	return &created, err
}

// Invalidate revokes every valid token of the given type for a staff member.
// Used on login and refresh to rotate refresh tokens.
func (tr *TokenRepository) Invalidate(ctx context.Context, staffID uuid.UUID, tokenType string, tx *sqlx.Tx) error {
	builder := tr.psql.Update("tokens").
		Set("is_valid", false).
		Where(sq.Eq{"staff_id": staffID, "token_type": tokenType, "is_valid": true})

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	}

	_, err = tr.db.ExecContext(ctx, query, args...)
	return err
}
