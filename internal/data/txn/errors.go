package txn

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
)

// MapError classifies store failures. Errors that already carry a code
// pass through unchanged.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *errs.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.Wrap(errs.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errs.Wrap(errs.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return errs.Wrap(errs.CodeConflict, op, err) // unique_violation
		case "23503":
			return errs.Wrap(errs.CodePreconditionFailed, op, err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return errs.Wrap(errs.CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint failed"):
		return errs.Wrap(errs.CodeConflict, op, err)
	case strings.Contains(msg, "deadlock"), strings.Contains(msg, "database is locked"):
		return errs.Wrap(errs.CodeRetryable, op, err)
	default:
		return errs.Wrap(errs.CodePersistence, op, err)
	}
}
