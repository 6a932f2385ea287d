package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure. Every per-item failure in a batch
// carries exactly one kind so the presentation layer can render a
// distinguishable reason without inspecting wrapped causes.
type Kind string

const (
	KindInvalidInput          Kind = "invalid_input"
	KindNotFound              Kind = "not_found"
	KindResolutionFailed      Kind = "resolution_failed"
	KindTranscriptUnavailable Kind = "transcript_unavailable"
	KindTranscriptTooShort    Kind = "transcript_too_short"
	KindQuotaExceeded         Kind = "quota_exceeded"
	KindUpstreamThrottled     Kind = "upstream_throttled"
	KindUpstreamUnavailable   Kind = "upstream_unavailable"
	KindUpstreamRejected      Kind = "upstream_rejected"
	KindStorage               Kind = "storage_error"
	KindInternal              Kind = "internal"
)

type AppError struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"kind"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`

	// Quota context, set only for KindQuotaExceeded.
	Consumed int `json:"-"`
	Limit    int `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func InvalidInput(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindInvalidInput,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func NotFound(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func Internal(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func ResolutionFailed(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindResolutionFailed,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func TranscriptUnavailable(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindTranscriptUnavailable,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func TranscriptTooShort(op string, message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindTranscriptTooShort,
		Message: message,
		Op:      op,
	}
}

// QuotaExceeded carries the user's current consumption and the daily limit
// for user-facing messaging.
func QuotaExceeded(op string, consumed, limit int) *AppError {
	return &AppError{
		Code:     http.StatusTooManyRequests,
		Kind:     KindQuotaExceeded,
		Message:  fmt.Sprintf("Daily summary limit of %d reached (%d used)", limit, consumed),
		Op:       op,
		Consumed: consumed,
		Limit:    limit,
	}
}

func UpstreamThrottled(op string, err error) *AppError {
	return &AppError{
		Code:    http.StatusTooManyRequests,
		Kind:    KindUpstreamThrottled,
		Message: "Summary engine is throttling requests",
		Op:      op,
		Err:     err,
	}
}

func UpstreamUnavailable(op string, err error) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Kind:    KindUpstreamUnavailable,
		Message: "Summary engine is unavailable",
		Op:      op,
		Err:     err,
	}
}

func UpstreamRejected(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindUpstreamRejected,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func Storage(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindStorage,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// KindOf reports the classification of err, unwrapping as needed.
// Non-AppError values classify as KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// Public returns the user-facing message for err. Wrapped causes stay out
// of responses.
func Public(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal error"
}

// Retryable reports whether the failure may succeed on a later attempt.
// Only upstream throttling and transient unavailability qualify.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindUpstreamThrottled, KindUpstreamUnavailable:
		return true
	default:
		return false
	}
}
