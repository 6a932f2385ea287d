package models

import (
	"time"

	"ytbrief/errors"
)

// BatchRequest represents the incoming request for bulk summarization.
type BatchRequest struct {
	UserID string   `json:"user_id"`
	Refs   []string `json:"refs"`
	Force  bool     `json:"force,omitempty"`
}

// PlaylistRequest represents the incoming request to summarize a playlist.
type PlaylistRequest struct {
	UserID      string `json:"user_id"`
	PlaylistURL string `json:"playlist_url"`
}

// SummaryResponse carries the display fields for one successful item.
type SummaryResponse struct {
	VideoID        string    `json:"video_id"`
	Title          string    `json:"title"`
	Channel        string    `json:"channel"`
	PublishedAt    time.Time `json:"published_at"`
	Duration       string    `json:"duration"`
	ContentType    string    `json:"content_type"`
	Body           string    `json:"body"`
	ReadingTime    string    `json:"reading_time"`
	SummaryCreated time.Time `json:"summary_created_at"`
}

func NewSummaryResponse(r *SummaryRecord) *SummaryResponse {
	return &SummaryResponse{
		VideoID:        r.VideoID,
		Title:          r.Title,
		Channel:        r.Channel,
		PublishedAt:    r.PublishedAt,
		Duration:       r.Metadata().DurationDisplay(),
		ContentType:    string(r.ContentType),
		Body:           r.Body,
		ReadingTime:    r.ReadingTimeDisplay(),
		SummaryCreated: r.CreatedAt,
	}
}

// ItemResponse is one position of a batch response.
type ItemResponse struct {
	Ref       string           `json:"ref"`
	FromCache bool             `json:"from_cache,omitempty"`
	Summary   *SummaryResponse `json:"summary,omitempty"`
	ErrorKind string           `json:"error_kind,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// BatchResponse is the full ordered response for one batch.
type BatchResponse struct {
	Items           []ItemResponse `json:"items"`
	Succeeded       int            `json:"succeeded"`
	Failed          int            `json:"failed"`
	ServedFromCache int            `json:"served_from_cache"`
}

func NewBatchResponse(result *BatchResult) *BatchResponse {
	resp := &BatchResponse{
		Items:           make([]ItemResponse, 0, len(result.Items)),
		Succeeded:       result.Succeeded(),
		Failed:          result.Failed(),
		ServedFromCache: result.ServedFromCache(),
	}
	for _, item := range result.Items {
		ir := ItemResponse{Ref: item.Ref.Raw, FromCache: item.FromCache}
		if ir.Ref == "" {
			ir.Ref = item.Ref.ID
		}
		if item.OK() {
			ir.Summary = NewSummaryResponse(item.Record)
		} else if item.Err != nil {
			ir.ErrorKind = string(errors.KindOf(item.Err))
			ir.Error = errors.Public(item.Err)
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
