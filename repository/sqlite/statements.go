package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"ytbrief/errors"
)

const (
	saveSummaryQuery = `
        INSERT INTO summaries (
            video_id, title, channel, published_at, duration_seconds,
            content_type, body, reading_minutes, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(video_id) DO UPDATE SET
            title = excluded.title,
            channel = excluded.channel,
            published_at = excluded.published_at,
            duration_seconds = excluded.duration_seconds,
            content_type = excluded.content_type,
            body = excluded.body,
            reading_minutes = excluded.reading_minutes,
            created_at = excluded.created_at
    `

	findSummaryQuery = `
        SELECT video_id, title, channel, published_at, duration_seconds,
               content_type, body, reading_minutes, created_at
        FROM summaries WHERE video_id = ?
    `

	consumeQuotaQuery = `
        INSERT INTO quota_entries (user_id, date_key, consumed)
        VALUES (?, ?, 1)
        ON CONFLICT(user_id, date_key) DO UPDATE SET
            consumed = consumed + 1
        WHERE quota_entries.consumed < ?
        RETURNING consumed
    `

	getQuotaQuery = `
        SELECT consumed FROM quota_entries WHERE user_id = ? AND date_key = ?
    `
)

type preparedStatements struct {
	saveSummary  *sql.Stmt
	findSummary  *sql.Stmt
	consumeQuota *sql.Stmt
	getQuota     *sql.Stmt
}

func (stmts *preparedStatements) prepare(ctx context.Context, db *sql.DB) error {
	const op = "preparedStatements.prepare"

	var err error

	if stmts.saveSummary, err = db.PrepareContext(ctx, saveSummaryQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare saveSummary statement")
	}

	if stmts.findSummary, err = db.PrepareContext(ctx, findSummaryQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare findSummary statement")
	}

	if stmts.consumeQuota, err = db.PrepareContext(ctx, consumeQuotaQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare consumeQuota statement")
	}

	if stmts.getQuota, err = db.PrepareContext(ctx, getQuotaQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare getQuota statement")
	}

	return nil
}

func (stmts *preparedStatements) close() error {
	var errs []error

	statements := [...]*sql.Stmt{
		stmts.saveSummary,
		stmts.findSummary,
		stmts.consumeQuota,
		stmts.getQuota,
	}

	for _, stmt := range statements {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close prepared statements: %v", errs)
	}

	return nil
}
