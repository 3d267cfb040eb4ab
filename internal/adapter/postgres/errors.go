package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors.
// Context cancellation and deadline errors pass through unmapped.
func MapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, key, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrValidation)
		case "22P02", "22000": // invalid_text_representation, data_exception (bad vector literal)
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrCacheInvalid)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, key, err)
}
