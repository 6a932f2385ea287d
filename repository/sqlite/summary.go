package sqlite

import (
	"context"
	"database/sql"
	"time"

	"ytbrief/errors"
	"ytbrief/models"
)

func (r *Repository) Find(ctx context.Context, videoID string) (*models.SummaryRecord, error) {
	const op = "SQLiteRepository.Find"

	record := &models.SummaryRecord{}
	var contentType string
	var durationSeconds int64

	err := r.statements.findSummary.QueryRowContext(ctx, videoID).Scan(
		&record.VideoID,
		&record.Title,
		&record.Channel,
		&record.PublishedAt,
		&durationSeconds,
		&contentType,
		&record.Body,
		&record.ReadingMinutes,
		&record.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Summary not found")
	}
	if err != nil {
		return nil, errors.Storage(op, err, "Failed to query summary")
	}

	record.Duration = time.Duration(durationSeconds) * time.Second
	record.ContentType = models.ContentType(contentType)
	return record, nil
}

func (r *Repository) Save(ctx context.Context, record *models.SummaryRecord) error {
	const op = "SQLiteRepository.Save"

	err := retry(op, func() error {
		_, err := r.statements.saveSummary.ExecContext(ctx,
			record.VideoID,
			record.Title,
			record.Channel,
			record.PublishedAt,
			int64(record.Duration.Seconds()),
			string(record.ContentType),
			record.Body,
			record.ReadingMinutes,
			record.CreatedAt,
		)
		return err
	})
	if err != nil {
		return errors.Storage(op, err, "Failed to save summary")
	}
	return nil
}
