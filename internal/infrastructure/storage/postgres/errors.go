package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bizdesk/internal/core/apperror"
)

// PostgreSQL error codes handled by MapError.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MapError converts driver errors into AppErrors. entity and key describe
// the row for NOT_FOUND. Other errors are wrapped as DATABASE_ERROR.
func MapError(err error, entity string, key any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(entity, fmt.Sprint(key))
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewDuplicate(entity, pgErr.ConstraintName, fmt.Sprint(key)).WithCause(err)
		case pgForeignKeyViolation:
			return apperror.NewValidation(entity+" references a missing row").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgCheckViolation:
			return apperror.NewValidation(entity + " violates " + pgErr.ConstraintName).WithCause(err)
		}
	}
	return apperror.NewDatabase(err)
}
