package youtube

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strconv"
	"time"

	apperrors "ytbrief/errors"
	"ytbrief/models"

	"github.com/pkg/errors"
)

const timedTextURL = "https://video.google.com/timedtext"

// transcriptClient pulls the English caption track for a video. Videos with
// captions disabled return an empty document, which surfaces as a
// transcript-unavailable failure rather than an empty transcript.
type transcriptClient struct {
	client *http.Client
}

func newTranscriptClient() *transcriptClient {
	return &transcriptClient{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type timedTextDocument struct {
	XMLName xml.Name        `xml:"transcript"`
	Texts   []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",chardata"`
}

func (c *transcriptClient) Fetch(ctx context.Context, videoID string) (*models.Transcript, error) {
	const op = "transcriptClient.Fetch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, timedTextURL, nil)
	if err != nil {
		return nil, apperrors.Internal(op, err, "Failed to build transcript request")
	}
	q := req.URL.Query()
	q.Set("lang", "en")
	q.Set("v", videoID)
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.ResolutionFailed(op,
			errors.Wrap(err, "timedtext request failed"), "Failed to fetch transcript")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.TranscriptUnavailable(op, nil,
			"Transcripts are disabled for this video")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ResolutionFailed(op,
			errors.Errorf("timedtext returned status %d", resp.StatusCode),
			"Failed to fetch transcript")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ResolutionFailed(op,
			errors.Wrap(err, "reading timedtext body"), "Failed to fetch transcript")
	}

	// An empty document means no caption track exists for the language.
	if len(body) == 0 {
		return nil, apperrors.TranscriptUnavailable(op, nil,
			"Transcripts are disabled for this video")
	}

	var doc timedTextDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, apperrors.TranscriptUnavailable(op,
			errors.Wrap(err, "parsing timedtext document"),
			"Transcript track could not be parsed")
	}

	transcript := &models.Transcript{Segments: make([]models.Segment, 0, len(doc.Texts))}
	for _, line := range doc.Texts {
		start, _ := strconv.ParseFloat(line.Start, 64)
		transcript.Segments = append(transcript.Segments, models.Segment{
			Start: time.Duration(start * float64(time.Second)),
			Text:  line.Body,
		})
	}

	return transcript, nil
}
