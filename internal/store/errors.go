package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/apperr"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes that map onto client errors.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgNotNullViolation     = "23502"
	pgCheckViolation       = "23514"
	pgInvalidTextRepr      = "22P02"
	pgNumericValueOutRange = "22003"
)

// TranslateError maps a store error onto the apperr taxonomy. Errors that
// already carry a kind pass through; anything unrecognised becomes Internal
// with msg as the client-facing message.
func TranslateError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.NotFound, "record not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.Conflict, "duplicate entry. this record already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Wrap(apperr.NotFound, "referenced record does not exist", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Wrap(apperr.Conflict, "duplicate entry. this record already exists", err)
		case pgForeignKeyViolation:
			return apperr.Wrap(apperr.NotFound, "referenced record does not exist", err)
		case pgNotNullViolation:
			return apperr.Wrap(apperr.InvalidArgument, "required fields are missing", err)
		case pgCheckViolation, pgInvalidTextRepr, pgNumericValueOutRange:
			return apperr.Wrap(apperr.InvalidArgument, "invalid input", err)
		}
	}

	return apperr.Wrap(apperr.Internal, msg, err)
}
