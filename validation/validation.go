package validation

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"ytbrief/errors"
	"ytbrief/models"
)

var (
	videoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})(?:[&?/]|$)`),
		regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
	}
	playlistIDPattern = regexp.MustCompile(`list=([0-9A-Za-z_-]+)`)
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateURL performs URL validation
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	if urlStr == "" {
		return errors.InvalidInput(op, nil, "URL is required")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return errors.InvalidInput(op, err, "Invalid URL format")
	}

	// Protocol validation
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.InvalidInput(op, nil, "URL must use HTTP or HTTPS")
	}

	// Domain validation
	host := parsedURL.Hostname()
	if !strings.Contains(host, "youtube.com") && !strings.Contains(host, "youtu.be") {
		return errors.InvalidInput(op, nil, "Only YouTube URLs are supported")
	}

	return nil
}

// ParseVideoRef extracts the canonical video ID from any supported URL form.
// Two URLs naming the same video produce the same ref.
func (v *Validator) ParseVideoRef(urlStr string) (models.VideoRef, error) {
	const op = "Validator.ParseVideoRef"

	if err := v.ValidateURL(urlStr); err != nil {
		return models.VideoRef{}, err
	}

	for _, pattern := range videoIDPatterns {
		if match := pattern.FindStringSubmatch(urlStr); match != nil {
			return models.VideoRef{ID: match[1], Raw: urlStr}, nil
		}
	}

	return models.VideoRef{}, errors.ResolutionFailed(
		op, nil, fmt.Sprintf("'%s' is not a valid YouTube video URL", urlStr))
}

// ParsePlaylistID extracts a playlist ID, or returns an empty string when the
// URL does not reference a playlist.
func (v *Validator) ParsePlaylistID(urlStr string) string {
	if match := playlistIDPattern.FindStringSubmatch(urlStr); match != nil {
		return match[1]
	}
	return ""
}

// IsPlaylist reports whether the URL references a playlist rather than a
// single video. A watch URL with a list parameter still counts as a single
// video, matching how the original share links behave.
func (v *Validator) IsPlaylist(urlStr string) bool {
	if v.ParsePlaylistID(urlStr) == "" {
		return false
	}
	for _, pattern := range videoIDPatterns {
		if pattern.MatchString(strings.Split(urlStr, "list=")[0]) {
			return false
		}
	}
	return true
}

// RequestValidationOpts holds options for request validation
type RequestValidationOpts struct {
	MaxContentLength int64
	AllowedMethods   []string
	RequireJSON      bool
}

// ValidateRequest validates HTTP requests
func (v *Validator) ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "Validator.ValidateRequest"

	// Method validation
	if len(opts.AllowedMethods) > 0 {
		methodAllowed := false
		for _, method := range opts.AllowedMethods {
			if r.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			return errors.InvalidInput(op, nil, fmt.Sprintf("Method %s not allowed", r.Method))
		}
	}

	// Content type validation
	if opts.RequireJSON {
		if contentType := r.Header.Get("Content-Type"); !strings.Contains(contentType, "application/json") {
			return errors.InvalidInput(op, nil, "Content-Type must be application/json")
		}
	}

	// Content length validation
	if opts.MaxContentLength > 0 && r.ContentLength > opts.MaxContentLength {
		return errors.InvalidInput(op, nil, "Request body too large")
	}

	return nil
}
