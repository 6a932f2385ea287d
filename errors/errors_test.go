package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := InvalidInput("Test.Op", nil, "bad input")
	if err.Error() != "bad input" {
		t.Errorf("expected 'bad input', got '%s'", err.Error())
	}

	wrapped := Internal("Test.Op", fmt.Errorf("disk full"), "save failed")
	expected := "save failed: disk full"
	if wrapped.Error() != expected {
		t.Errorf("expected '%s', got '%s'", expected, wrapped.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Storage("Test.Op", cause, "store failed")
	if err.Unwrap() != cause {
		t.Error("Unwrap did not return the wrapped cause")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"resolution failed", ResolutionFailed("op", nil, "bad url"), KindResolutionFailed},
		{"transcript unavailable", TranscriptUnavailable("op", nil, "captions disabled"), KindTranscriptUnavailable},
		{"quota exceeded", QuotaExceeded("op", 20, 20), KindQuotaExceeded},
		{"wrapped app error", fmt.Errorf("context: %w", UpstreamThrottled("op", nil)), KindUpstreamThrottled},
		{"plain error", fmt.Errorf("plain"), KindInternal},
		{"nil cause storage", Storage("op", nil, "cache unavailable"), KindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.expected {
				t.Errorf("KindOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestQuotaExceededContext(t *testing.T) {
	err := QuotaExceeded("op", 19, 20)
	if err.Consumed != 19 || err.Limit != 20 {
		t.Errorf("expected consumed=19 limit=20, got consumed=%d limit=%d", err.Consumed, err.Limit)
	}
	if err.Code != http.StatusTooManyRequests {
		t.Errorf("expected code %d, got %d", http.StatusTooManyRequests, err.Code)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"throttled", UpstreamThrottled("op", nil), true},
		{"unavailable", UpstreamUnavailable("op", nil), true},
		{"rejected", UpstreamRejected("op", nil, "policy refusal"), false},
		{"transcript too short", TranscriptTooShort("op", "too short"), false},
		{"plain error", fmt.Errorf("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.expected {
				t.Errorf("Retryable() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NotFound("op", nil, "missing")) {
		t.Error("expected IsNotFound to be true for NotFound error")
	}
	if IsNotFound(Internal("op", nil, "boom")) {
		t.Error("expected IsNotFound to be false for Internal error")
	}
}
