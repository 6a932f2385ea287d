package sqlite

import (
	"context"
	"database/sql"

	"ytbrief/errors"
	"ytbrief/models"
)

// TryConsume atomically increments the caller's counter for the current
// quota day if the post-increment value stays within limit. The guarded
// upsert is a single write statement, so sqlite serializes it against
// concurrent callers; two requests can never both take the last unit.
func (r *Repository) TryConsume(ctx context.Context, userID string, limit int) (int, error) {
	const op = "SQLiteRepository.TryConsume"

	if limit < 1 {
		return 0, errors.QuotaExceeded(op, 0, limit)
	}

	dateKey := models.QuotaDay(r.now())

	// RETURNING yields the post-increment count from the same statement,
	// so each winner reports an exact remaining value. A guarded upsert
	// that changes no row returns no row at all.
	var consumed int
	err := retry(op, func() error {
		return r.statements.consumeQuota.QueryRowContext(ctx, userID, dateKey, limit).Scan(&consumed)
	})
	if err == sql.ErrNoRows {
		current, usageErr := r.usage(ctx, userID, dateKey)
		if usageErr != nil {
			return 0, usageErr
		}
		return 0, errors.QuotaExceeded(op, current, limit)
	}
	if err != nil {
		return 0, errors.Storage(op, err, "Failed to update quota ledger")
	}

	if consumed < 1 || consumed > limit {
		// Ledger invariant broken; this is a programming error, not a
		// user-facing failure.
		return 0, errors.Internal(op, nil,
			"quota ledger invariant violated: consumed count out of range")
	}

	return limit - consumed, nil
}

func (r *Repository) Usage(ctx context.Context, userID string) (int, error) {
	return r.usage(ctx, userID, models.QuotaDay(r.now()))
}

func (r *Repository) usage(ctx context.Context, userID, dateKey string) (int, error) {
	const op = "SQLiteRepository.usage"

	var consumed int
	err := r.statements.getQuota.QueryRowContext(ctx, userID, dateKey).Scan(&consumed)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Storage(op, err, "Failed to query quota ledger")
	}
	return consumed, nil
}
