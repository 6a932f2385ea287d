package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"ytbrief/errors"
)

// Repository implements both the summary cache and the quota ledger on a
// single sqlite database.
type Repository struct {
	db         *sql.DB
	statements *preparedStatements
	now        func() time.Time
}

func NewRepository(db *sql.DB) (*Repository, error) {
	stmts := &preparedStatements{}
	if err := stmts.prepare(context.Background(), db); err != nil {
		return nil, err
	}
	return &Repository{
		db:         db,
		statements: stmts,
		now:        time.Now,
	}, nil
}

func (r *Repository) Close() error {
	return r.statements.close()
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "database is locked") ||
		strings.Contains(err.Error(), "busy")
}

// retry reruns fn on sqlite lock contention, matching the write retry the
// rest of the repository relies on.
func retry(op string, fn func() error) error {
	var lastErr error
	for i := 0; i < 3; i++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isLockError(lastErr) {
			return lastErr
		}
		time.Sleep(time.Second * time.Duration(i+1))
	}
	return errors.Storage(op, lastErr, "database busy after retries")
}
