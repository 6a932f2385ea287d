package youtube

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	apperrors "ytbrief/errors"
	"ytbrief/models"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const playlistPageSize = 50

// Resolver fetches metadata and playlist membership through the YouTube
// Data API and caption tracks through the timedtext endpoint.
type Resolver struct {
	service     *youtube.Service
	transcripts *transcriptClient
}

func NewResolver(ctx context.Context, apiKey string) (*Resolver, error) {
	const op = "youtube.NewResolver"

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, apperrors.Internal(op, err, "Failed to initialize YouTube client")
	}

	return &Resolver{
		service:     service,
		transcripts: newTranscriptClient(),
	}, nil
}

func (r *Resolver) Resolve(ctx context.Context, ref models.VideoRef) (*models.Transcript, *models.VideoMetadata, error) {
	const op = "YouTubeResolver.Resolve"

	md, err := r.fetchMetadata(ctx, ref.ID)
	if err != nil {
		return nil, nil, err
	}

	transcript, err := r.transcripts.Fetch(ctx, ref.ID)
	if err != nil {
		return nil, nil, err
	}

	return transcript, md, nil
}

func (r *Resolver) fetchMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	const op = "YouTubeResolver.fetchMetadata"

	call := r.service.Videos.
		List([]string{"snippet", "contentDetails"}).
		Id(videoID).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, classifyAPIError(op, err)
	}

	if len(response.Items) == 0 {
		return nil, apperrors.ResolutionFailed(op, nil,
			fmt.Sprintf("Video %s not found (deleted or private)", videoID))
	}

	item := response.Items[0]
	md := &models.VideoMetadata{}
	if item.Snippet != nil {
		md.Title = item.Snippet.Title
		md.Channel = item.Snippet.ChannelTitle
		if published, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			md.PublishedAt = published
		}
	}
	if item.ContentDetails != nil {
		md.Duration = parseISO8601Duration(item.ContentDetails.Duration)
	}

	return md, nil
}

func (r *Resolver) ExpandPlaylist(ctx context.Context, playlistID string) ([]models.VideoRef, error) {
	const op = "YouTubeResolver.ExpandPlaylist"

	var refs []models.VideoRef
	pageToken := ""

	for {
		call := r.service.PlaylistItems.
			List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(playlistPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, classifyAPIError(op, err)
		}

		for _, item := range response.Items {
			if item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
				continue
			}
			refs = append(refs, models.VideoRef{
				ID:  item.ContentDetails.VideoId,
				Raw: "https://www.youtube.com/watch?v=" + item.ContentDetails.VideoId,
			})
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if len(refs) == 0 {
		return nil, apperrors.ResolutionFailed(op, nil, "Playlist is empty or private")
	}

	return refs, nil
}

func classifyAPIError(op string, err error) error {
	if apiErr, ok := err.(*googleapi.Error); ok {
		switch {
		case apiErr.Code == 404:
			return apperrors.ResolutionFailed(op, err, "Video or playlist not found")
		case apiErr.Code == 403:
			return apperrors.ResolutionFailed(op, err, "Video or playlist is not accessible")
		case apiErr.Code == 429:
			return apperrors.UpstreamThrottled(op, err)
		case apiErr.Code >= 500:
			return apperrors.UpstreamUnavailable(op, err)
		}
	}
	return apperrors.ResolutionFailed(op, err, "Failed to reach YouTube")
}

var iso8601Duration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

func parseISO8601Duration(raw string) time.Duration {
	match := iso8601Duration.FindStringSubmatch(raw)
	if match == nil {
		return 0
	}
	hours, _ := strconv.Atoi(zeroIfEmpty(match[1]))
	minutes, _ := strconv.Atoi(zeroIfEmpty(match[2]))
	seconds, _ := strconv.Atoi(zeroIfEmpty(match[3]))
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
