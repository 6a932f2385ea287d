package batch

import (
	"context"
	"time"

	"ytbrief/models"
)

// Service fans a batch of video references out through the summarization
// pipeline and reassembles the results in submission order.
type Service interface {
	// Run processes a mixed list of video and playlist references for one
	// user. Item failures are reported in place; Run itself only fails on
	// invalid input.
	Run(ctx context.Context, userID string, refs []string, force bool) (*models.BatchResult, error)
	// RunPlaylist expands a playlist reference and processes its members.
	RunPlaylist(ctx context.Context, userID, playlistURL string) (*models.BatchResult, error)
}

// Exporter persists finished summaries outside the cache, for example to
// object storage. Export failures never fail the item.
type Exporter interface {
	SaveSummary(ctx context.Context, record *models.SummaryRecord) error
}

type Config struct {
	MaxConcurrent int
	ItemTimeout   time.Duration
	DailyLimit    int
}
