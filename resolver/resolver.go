package resolver

import (
	"context"

	"ytbrief/models"
)

// Resolver turns video references into transcripts and metadata, and
// expands playlist references into their ordered member lists. Both calls
// reach external services and can fail per reference.
type Resolver interface {
	Resolve(ctx context.Context, ref models.VideoRef) (*models.Transcript, *models.VideoMetadata, error)
	ExpandPlaylist(ctx context.Context, playlistID string) ([]models.VideoRef, error)
}
