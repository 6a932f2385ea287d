package summarize

import (
	"context"
	"strings"
	"testing"
	"time"

	"ytbrief/errors"
	"ytbrief/models"
)

type fakeEngine struct {
	calls   int
	results []engineResult
}

type engineResult struct {
	body string
	err  error
}

func (f *fakeEngine) Summarize(ctx context.Context, transcript string, md models.VideoMetadata, tag models.ContentType) (string, error) {
	i := f.calls
	f.calls++
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i].body, f.results[i].err
}

func newTestService(t *testing.T, engine Engine, config Config) *service {
	t.Helper()
	if config.RetryAttempts == 0 {
		config.RetryAttempts = 3
	}
	if config.MinWords == 0 {
		config.MinWords = 5
	}
	if config.RequestsPerSec == 0 {
		config.RequestsPerSec = 1000
	}
	svc := NewService(engine, config).(*service)
	svc.sleep = func(time.Duration) {}
	return svc
}

func transcriptWithWords(n int) *models.Transcript {
	words := make([]string, n)
	for i := range words {
		words[i] = "word"
	}
	return &models.Transcript{
		Segments: []models.Segment{{Start: 0, Text: strings.Join(words, " ")}},
	}
}

func TestNewServiceDefaultsRetryAttempts(t *testing.T) {
	engine := &fakeEngine{results: []engineResult{{body: "a fine summary"}}}
	svc := NewService(engine, Config{MinWords: 5, RequestsPerSec: 1000}).(*service)
	svc.sleep = func(time.Duration) {}

	body, minutes, err := svc.Summarize(context.Background(),
		transcriptWithWords(100), models.VideoMetadata{Title: "t"}, models.ContentTypeNews)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if body != "a fine summary" {
		t.Errorf("body = %q, want engine result", body)
	}
	if minutes != 1 {
		t.Errorf("readingMinutes = %d, want 1", minutes)
	}
	if engine.calls != 1 {
		t.Errorf("engine calls = %d, want 1", engine.calls)
	}
}

func TestSummarizeRetriesThrottledThenSucceeds(t *testing.T) {
	engine := &fakeEngine{results: []engineResult{
		{err: errors.UpstreamThrottled("test", nil)},
		{body: "a fine summary"},
	}}
	svc := newTestService(t, engine, Config{})

	body, minutes, err := svc.Summarize(context.Background(),
		transcriptWithWords(100), models.VideoMetadata{Title: "t"}, models.ContentTypeNews)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if body != "a fine summary" {
		t.Errorf("body = %q", body)
	}
	if minutes != 1 {
		t.Errorf("readingMinutes = %d, want 1", minutes)
	}
	if engine.calls != 2 {
		t.Errorf("engine calls = %d, want 2", engine.calls)
	}
}

func TestSummarizeDoesNotRetryRejected(t *testing.T) {
	engine := &fakeEngine{results: []engineResult{
		{err: errors.UpstreamRejected("test", nil, "nope")},
	}}
	svc := newTestService(t, engine, Config{})

	_, _, err := svc.Summarize(context.Background(),
		transcriptWithWords(100), models.VideoMetadata{}, models.ContentTypeNews)
	if !errors.IsKind(err, errors.KindUpstreamRejected) {
		t.Fatalf("error kind = %v, want KindUpstreamRejected", errors.KindOf(err))
	}
	if engine.calls != 1 {
		t.Errorf("engine calls = %d, want 1", engine.calls)
	}
}

func TestSummarizeExhaustsRetries(t *testing.T) {
	engine := &fakeEngine{results: []engineResult{
		{err: errors.UpstreamUnavailable("test", nil)},
	}}
	svc := newTestService(t, engine, Config{RetryAttempts: 3})

	_, _, err := svc.Summarize(context.Background(),
		transcriptWithWords(100), models.VideoMetadata{}, models.ContentTypeTutorial)
	if !errors.IsKind(err, errors.KindUpstreamUnavailable) {
		t.Fatalf("error kind = %v, want KindUpstreamUnavailable", errors.KindOf(err))
	}
	if engine.calls != 3 {
		t.Errorf("engine calls = %d, want 3", engine.calls)
	}
}

func TestSummarizeEmptyTranscript(t *testing.T) {
	engine := &fakeEngine{results: []engineResult{{body: "unused"}}}
	svc := newTestService(t, engine, Config{})

	_, _, err := svc.Summarize(context.Background(),
		&models.Transcript{}, models.VideoMetadata{}, models.ContentTypeNews)
	if !errors.IsKind(err, errors.KindTranscriptUnavailable) {
		t.Fatalf("error kind = %v, want KindTranscriptUnavailable", errors.KindOf(err))
	}
	if engine.calls != 0 {
		t.Errorf("engine calls = %d, want 0", engine.calls)
	}
}

func TestSummarizeShortTranscript(t *testing.T) {
	engine := &fakeEngine{results: []engineResult{{body: "unused"}}}
	svc := newTestService(t, engine, Config{MinWords: 25})

	_, _, err := svc.Summarize(context.Background(),
		transcriptWithWords(10), models.VideoMetadata{}, models.ContentTypeNews)
	if !errors.IsKind(err, errors.KindTranscriptTooShort) {
		t.Fatalf("error kind = %v, want KindTranscriptTooShort", errors.KindOf(err))
	}
}

func TestSummarizeEmptyEngineResult(t *testing.T) {
	engine := &fakeEngine{results: []engineResult{{body: "  \n "}}}
	svc := newTestService(t, engine, Config{RetryAttempts: 1})

	_, _, err := svc.Summarize(context.Background(),
		transcriptWithWords(100), models.VideoMetadata{}, models.ContentTypeNews)
	if !errors.IsKind(err, errors.KindUpstreamRejected) {
		t.Fatalf("error kind = %v, want KindUpstreamRejected", errors.KindOf(err))
	}
}

func TestReadingMinutes(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{name: "empty body floors at one", words: 0, want: 1},
		{name: "short body", words: 150, want: 1},
		{name: "exact page", words: 200, want: 1},
		{name: "rounds up", words: 201, want: 2},
		{name: "long body", words: 650, want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.Repeat("word ", tt.words)
			if got := ReadingMinutes(body); got != tt.want {
				t.Errorf("ReadingMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}
