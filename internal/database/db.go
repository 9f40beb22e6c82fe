package database

import (
	"context"
	"errors"

	"github.com/BradenHooton/bookshare/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names that map to field-specific conflicts
const (
	ConstraintUsersLogin = "users_login_key"
	ConstraintUsersEmail = "users_email_key"
)

// Querier is the part of pgxpool.Pool the repositories use
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			switch pgErr.ConstraintName {
			case ConstraintUsersLogin:
				return models.ErrLoginTaken
			case ConstraintUsersEmail:
				return models.ErrEmailTaken
			}
			return models.ErrConflict
		case "23503", "23502", "23514", "22P02": // fk, not null, check, invalid text (bad uuid)
			return models.ErrBadRequest
		}
	}

	return err
}
