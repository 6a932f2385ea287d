package summarize

import (
	"context"
	"time"

	"ytbrief/models"
)

// Engine is the opaque upstream summarization call. Implementations return
// classified errors so the adapter can decide what is retryable.
type Engine interface {
	Summarize(ctx context.Context, transcript string, md models.VideoMetadata, tag models.ContentType) (string, error)
}

// Service wraps the engine with retry policy, upstream rate limiting, and
// derived-field computation.
type Service interface {
	Summarize(ctx context.Context, transcript *models.Transcript, md models.VideoMetadata, tag models.ContentType) (body string, readingMinutes int, err error)
}

type Config struct {
	RetryAttempts  int
	BackoffBase    time.Duration
	RequestTimeout time.Duration
	RequestsPerSec float64
	Burst          int
	MinWords       int
}
