package models

import (
	"fmt"
	"strings"
	"time"
)

// VideoRef is a parsed video reference. Equality is by canonical ID; the raw
// URL is kept only for error reporting.
type VideoRef struct {
	ID  string `json:"id"`
	Raw string `json:"raw_url,omitempty"`
}

// Segment is one timed caption line.
type Segment struct {
	Start time.Duration `json:"start"`
	Text  string        `json:"text"`
}

// Transcript is the ordered caption track for one video. A transcript with
// zero segments means captions are unavailable, not that the video is silent.
type Transcript struct {
	Segments []Segment `json:"segments"`
}

func (t *Transcript) Empty() bool {
	return t == nil || len(t.Segments) == 0
}

// FullText joins segment texts with single spaces, matching the form the
// summary engine is prompted with.
func (t *Transcript) FullText() string {
	if t == nil {
		return ""
	}
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if s := strings.TrimSpace(seg.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func (t *Transcript) WordCount() int {
	return len(strings.Fields(t.FullText()))
}

type VideoMetadata struct {
	Title       string        `json:"title"`
	Channel     string        `json:"channel"`
	PublishedAt time.Time     `json:"published_at"`
	Duration    time.Duration `json:"duration"`
}

// DurationDisplay renders the video length as HH:MM:SS, or MM:SS under an
// hour.
func (m VideoMetadata) DurationDisplay() string {
	total := int(m.Duration.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

type ContentType string

const (
	ContentTypeNews     ContentType = "news"
	ContentTypeTutorial ContentType = "tutorial"
)

// SummaryRecord is the durable result of one successful summarization.
// Records are immutable after creation; the cache overwrites whole records
// rather than updating fields.
type SummaryRecord struct {
	VideoID        string        `json:"video_id"`
	Title          string        `json:"title"`
	Channel        string        `json:"channel"`
	PublishedAt    time.Time     `json:"published_at"`
	Duration       time.Duration `json:"duration"`
	ContentType    ContentType   `json:"content_type"`
	Body           string        `json:"body"`
	ReadingMinutes int           `json:"reading_minutes"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (r *SummaryRecord) Metadata() VideoMetadata {
	return VideoMetadata{
		Title:       r.Title,
		Channel:     r.Channel,
		PublishedAt: r.PublishedAt,
		Duration:    r.Duration,
	}
}

// ReadingTimeDisplay renders the estimate the way the chat layer shows it,
// e.g. "~3 mins read".
func (r *SummaryRecord) ReadingTimeDisplay() string {
	minutes := r.ReadingMinutes
	if minutes < 1 {
		minutes = 1
	}
	if minutes == 1 {
		return "~1 min read"
	}
	return fmt.Sprintf("~%d mins read", minutes)
}

// QuotaEntry is one user's consumption counter for one quota day.
type QuotaEntry struct {
	UserID   string `json:"user_id"`
	DateKey  string `json:"date_key"`
	Consumed int    `json:"consumed"`
}

// QuotaDay buckets a point in time into the fixed reference timezone's
// calendar day. UTC keeps the boundary deterministic across deployments.
func QuotaDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
