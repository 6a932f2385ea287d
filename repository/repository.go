package repository

import (
	"context"

	"ytbrief/models"
)

// SummaryRepository is the cache store: a durable mapping from canonical
// video identity to the summary computed for it. Entries never expire.
type SummaryRepository interface {
	// Find returns the cached record for a video, or a not-found error.
	Find(ctx context.Context, videoID string) (*models.SummaryRecord, error)
	// Save stores a record, overwriting any previous record for the same
	// video identity. Callers must not rely on overwrite semantics for
	// correctness.
	Save(ctx context.Context, record *models.SummaryRecord) error
}

// QuotaRepository is the quota ledger: per-user consumption counters
// bucketed by quota day. TryConsume must be atomic per (user, day) across
// concurrent callers.
type QuotaRepository interface {
	// TryConsume increments the user's counter for the current quota day
	// by one if the result stays within limit, returning the remaining
	// quota. Exceeding the limit returns a quota-exceeded error carrying
	// the current consumption.
	TryConsume(ctx context.Context, userID string, limit int) (remaining int, err error)
	// Usage reports the user's consumption for the current quota day.
	Usage(ctx context.Context, userID string) (int, error)
}
