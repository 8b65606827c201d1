package resolver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/podscout/podscout/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Client calls the stream-resolution helper service. Failures are absorbed:
// a nil StreamInfo with a nil error means "could not resolve, leave the
// episode as-is", which is exactly what enrichment wants. No retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a resolver client pointed at the helper service.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// streamResponse is the helper's wire shape. An error body carries only the
// error field.
type streamResponse struct {
	StreamURL    string  `json:"stream_url"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Title        string  `json:"title"`
	Duration     float64 `json:"duration"`
	Error        string  `json:"error"`
}

// Resolve resolves sourceURL into playable media URLs.
func (c *Client) Resolve(ctx context.Context, sourceURL string) (*domain.StreamInfo, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return nil, nil
	}

	query := url.Values{}
	query.Set("url", sourceURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stream-url?"+query.Encode(), nil)
	if err != nil {
		return nil, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("resolver unreachable", "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil
	}

	var result streamResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Debug("resolver returned malformed body", "url", sourceURL)
		return nil, nil
	}
	if result.Error != "" || result.StreamURL == "" {
		c.logger.Debug("resolution failed", "url", sourceURL, "error", result.Error)
		return nil, nil
	}

	return &domain.StreamInfo{
		StreamURL:    result.StreamURL,
		ThumbnailURL: result.ThumbnailURL,
		Title:        result.Title,
		Duration:     result.Duration,
	}, nil
}
