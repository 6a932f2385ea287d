package summarize

import (
	"context"
	"strings"
	"time"

	"ytbrief/errors"
	"ytbrief/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Average reading speed used to derive the reading-time estimate.
const wordsPerMinute = 200

type service struct {
	engine  Engine
	limiter *rate.Limiter
	config  Config
	logger  *logrus.Logger
	sleep   func(time.Duration)
}

func NewService(engine Engine, config Config) Service {
	rps := config.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	burst := config.Burst
	if burst < 1 {
		burst = 1
	}
	if config.RetryAttempts < 1 {
		config.RetryAttempts = 1
	}
	return &service{
		engine:  engine,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		config:  config,
		logger:  logrus.StandardLogger(),
		sleep:   time.Sleep,
	}
}

func (s *service) Summarize(ctx context.Context, transcript *models.Transcript, md models.VideoMetadata, tag models.ContentType) (string, int, error) {
	const op = "SummarizeService.Summarize"
	logger := s.logger.WithContext(ctx).WithField("title", md.Title)

	if transcript.Empty() {
		return "", 0, errors.TranscriptUnavailable(op, nil,
			"Transcripts are disabled for this video")
	}
	if transcript.WordCount() < s.config.MinWords {
		return "", 0, errors.TranscriptTooShort(op,
			"Transcript is too short to summarize")
	}

	text := transcript.FullText()

	var lastErr error
	for attempt := 0; attempt < s.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			backoff := s.config.BackoffBase << (attempt - 1)
			logger.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"backoff": backoff,
			}).Warn("Retrying summarization")
			s.sleep(backoff)
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return "", 0, errors.Internal(op, err, "Summarization cancelled")
		}

		body, err := s.callEngine(ctx, text, md, tag)
		if err == nil {
			return body, ReadingMinutes(body), nil
		}

		lastErr = err
		if !errors.Retryable(err) {
			logger.WithError(err).Warn("Summarization failed with terminal error")
			return "", 0, err
		}
	}

	logger.WithError(lastErr).Error("Summarization retries exhausted")
	return "", 0, lastErr
}

func (s *service) callEngine(ctx context.Context, text string, md models.VideoMetadata, tag models.ContentType) (string, error) {
	const op = "SummarizeService.callEngine"

	callCtx := ctx
	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}

	body, err := s.engine.Summarize(callCtx, text, md, tag)
	if err != nil {
		return "", err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return "", errors.UpstreamRejected(op, nil, "Summary engine returned an empty result")
	}
	return body, nil
}

// ReadingMinutes estimates reading time for a summary body, never below one
// minute.
func ReadingMinutes(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
