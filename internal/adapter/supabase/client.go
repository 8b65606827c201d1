package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/podscout/podscout/internal/domain"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the current user's credentials per request, so a
// logout takes effect without rebuilding the client.
type TokenSource interface {
	Token() string
	UserID() string
}

// Client talks to the Supabase-style REST backend: the metadata catalog, the
// library upsert RPC, and the auth endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a backend client. apiKey is the static anon key attached
// to every request.
func NewClient(baseURL, apiKey string, tokens TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated request and returns the response body.
// Auth'd endpoints fail fast with ErrUnauthenticated before any request is
// sent when no access token is held.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any, requireAuth bool) ([]byte, error) {
	token := c.tokens.Token()
	if requireAuth && token == "" {
		return nil, domain.ErrUnauthenticated
	}

	reqURL := c.baseURL + path
	if query != nil {
		reqURL = reqURL + "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if method == http.MethodPost {
		// RPC and inserts return the resulting row(s)
		req.Header.Set("Prefer", "return=representation")
	}

	c.logger.Debug("backend request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend request failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrUnauthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := domain.NewServerError(resp.StatusCode, respBody)
		c.logger.Error("backend request error", "path", path, "status", resp.StatusCode, "message", serr.Message)
		return nil, serr
	}

	return respBody, nil
}

// FetchPage returns one page of catalog records ordered newest-first,
// optionally filtered by category.
func (c *Client) FetchPage(ctx context.Context, category string, offset, limit int) ([]*domain.Episode, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))
	if category != "" && category != domain.CategoryAll {
		query.Set("category", "eq."+category)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/rest/v1/metadata", query, nil, true)
	if err != nil {
		return nil, err
	}

	var records []metadataRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	return mapEpisodes(records), nil
}

// FetchByIDs returns the catalog records matching the given ids.
func (c *Client) FetchByIDs(ctx context.Context, ids []int64) ([]*domain.Episode, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	query := url.Values{}
	query.Set("id", "in.("+strings.Join(parts, ",")+")")

	body, err := c.doRequest(ctx, http.MethodGet, "/rest/v1/metadata", query, nil, true)
	if err != nil {
		return nil, err
	}

	var records []metadataRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	return mapEpisodes(records), nil
}

// Submit posts a new catalog entry and returns the created record.
func (c *Client) Submit(ctx context.Context, sub domain.Submission) (*domain.Episode, error) {
	payload := submissionBody{
		Title:       sub.Title,
		Author:      sub.Author,
		Description: sub.Description,
		YouTubeURL:  sub.YouTubeURL,
		Duration:    sub.Duration,
		Category:    sub.Category,
		IsExplicit:  sub.IsExplicit,
		Language:    sub.Language,
		Tags:        sub.Tags,
		Website:     sub.Website,
		RSSURL:      sub.RSSURL,
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/rest/v1/metadata", nil, payload, true)
	if err != nil {
		return nil, err
	}

	// The representation comes back as a single-element array; tolerate a
	// bare object too.
	var records []metadataRecord
	if err := json.Unmarshal(body, &records); err != nil {
		var record metadataRecord
		if err := json.Unmarshal(body, &record); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
		}
		records = []metadataRecord{record}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty representation", domain.ErrDecode)
	}

	ep := mapEpisode(records[0])
	return &ep, nil
}

// Upsert writes the non-nil library flags for (episodeID, current user) and
// returns the full resulting state. Both flags nil performs a pure read.
func (c *Client) Upsert(ctx context.Context, episodeID int64, liked, watchLater *bool) (domain.LibraryStatus, error) {
	payload := upsertBody{
		PodcastID:    episodeID,
		UserID:       c.tokens.UserID(),
		IsLiked:      liked,
		IsWatchLater: watchLater,
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/rest/v1/rpc/upsert_podcast_library", nil, payload, true)
	if err != nil {
		return domain.LibraryStatus{}, err
	}

	var results []upsertResult
	if err := json.Unmarshal(body, &results); err != nil || len(results) == 0 {
		return domain.LibraryStatus{}, fmt.Errorf("%w: unexpected upsert response", domain.ErrDecode)
	}

	return domain.LibraryStatus{
		EpisodeID:  episodeID,
		UserID:     payload.UserID,
		Liked:      results[0].ResultIsLiked,
		WatchLater: results[0].ResultIsWatchLater,
	}, nil
}

// Entries returns every library row for the current user.
func (c *Client) Entries(ctx context.Context) ([]domain.LibraryStatus, error) {
	userID := c.tokens.UserID()
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	query := url.Values{}
	query.Set("user_id", "eq."+userID)
	query.Set("select", "podcast_id,is_liked,is_watch_later")

	body, err := c.doRequest(ctx, http.MethodGet, "/rest/v1/podcast_library", query, nil, true)
	if err != nil {
		return nil, err
	}

	var rows []libraryRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	entries := make([]domain.LibraryStatus, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.LibraryStatus{
			EpisodeID:  row.PodcastID,
			UserID:     userID,
			Liked:      row.IsLiked,
			WatchLater: row.IsWatchLater,
		})
	}
	return entries, nil
}
