package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"ytbrief/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	Bucket    string
}

// SpacesClient exports finished summaries to S3-compatible object storage
// as plain-text documents.
type SpacesClient struct {
	client *s3.Client
	bucket string
}

func NewSpacesClient(cfg SpacesConfig) (*SpacesClient, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: cfg.Endpoint,
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	return &SpacesClient{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
	}, nil
}

// SaveSummary writes one summary as a text object keyed by video identity
// and title. Re-exporting the same video overwrites the previous object.
func (s *SpacesClient) SaveSummary(ctx context.Context, record *models.SummaryRecord) error {
	body := exportDocument(record)
	key := fmt.Sprintf("summaries/%s_%s.txt", record.VideoID, sanitizeFilename(record.Title))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(body)),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to save to Spaces: %v", err)
	}

	return nil
}

func exportDocument(record *models.SummaryRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", record.Title)
	fmt.Fprintf(&b, "Channel: %s\n", record.Channel)
	fmt.Fprintf(&b, "Published: %s\n", record.PublishedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %s\n", record.Metadata().DurationDisplay())
	fmt.Fprintf(&b, "Reading time: %s\n\n", record.ReadingTimeDisplay())
	b.WriteString(plainText(record.Body))
	b.WriteString("\n")
	return b.String()
}

// plainText strips the markdown emphasis and heading markers the summary
// engine produces.
func plainText(body string) string {
	replacer := strings.NewReplacer("**", "", "__", "", "*", "", "`", "")
	lines := strings.Split(replacer.Replace(body), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, "# ")
	}
	return strings.Join(lines, "\n")
}

const maxFilenameLen = 80

// sanitizeFilename keeps a title usable as an object-key segment.
func sanitizeFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" {
		name = "summary"
	}
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	return name
}
