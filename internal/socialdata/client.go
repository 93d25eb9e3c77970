// ABOUTME: HTTP client for the SocialData.tools enrichment API.
// ABOUTME: Normalizes tweet listings into the shared Page envelope and decodes user profiles.
package socialdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2389-research/twitter-mcp/internal/models"
)

// DefaultBaseURL is the public SocialData.tools endpoint.
const DefaultBaseURL = "https://api.socialdata.tools"

const userAgent = "Twitter-MCP-Server/1.0"

// APIError is returned for any non-2xx SocialData response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("SocialData API error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// StatusCode extracts the HTTP status from an error chain, or 0 if none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client queries SocialData.tools with a query-string API key.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given key. An empty baseURL selects DefaultBaseURL.
func NewClient(apiKey, baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SearchOptions controls /twitter/search.
type SearchOptions struct {
	Query      string
	MaxResults int
	StartTime  string
	EndTime    string
}

// UserLookup identifies a user by handle or numeric id. Username wins when both are set.
type UserLookup struct {
	Username       string
	UserID         string
	IncludeMetrics bool
}

func (u UserLookup) apply(q url.Values) {
	if u.Username != "" {
		q.Set("username", u.Username)
	} else {
		q.Set("user_id", u.UserID)
	}
}

// tweetList accepts both the {"tweets": [...]} and {"data": [...]} shapes.
type tweetList struct {
	Data       []models.SocialTweet `json:"data"`
	Tweets     []models.SocialTweet `json:"tweets"`
	NextCursor string               `json:"next_cursor"`
	Meta       *models.Meta         `json:"meta"`
}

func toPage[T any](data, alt []T, cursor string, meta *models.Meta) *models.Page[T] {
	if len(data) == 0 {
		data = alt
	}
	if meta == nil {
		meta = &models.Meta{ResultCount: len(data), NextToken: cursor}
	}
	return &models.Page[T]{Data: data, Meta: meta}
}

func countOr(n, def int) string {
	if n <= 0 {
		n = def
	}
	return strconv.Itoa(n)
}

// SearchTweets runs a search query. MaxResults defaults to 10.
func (c *Client) SearchTweets(ctx context.Context, opts SearchOptions) (*models.Page[models.SocialTweet], error) {
	q := url.Values{}
	q.Set("query", opts.Query)
	q.Set("count", countOr(opts.MaxResults, 10))
	if opts.StartTime != "" {
		q.Set("start_time", opts.StartTime)
	}
	if opts.EndTime != "" {
		q.Set("end_time", opts.EndTime)
	}

	var out tweetList
	if err := c.get(ctx, "/twitter/search", q, &out); err != nil {
		return nil, err
	}
	return toPage(out.Data, out.Tweets, out.NextCursor, out.Meta), nil
}

// UserProfile fetches one profile by username or id.
func (c *Client) UserProfile(ctx context.Context, lookup UserLookup) (*models.SocialUser, error) {
	endpoint := "/twitter/user/profile"
	if lookup.Username == "" {
		endpoint = "/twitter/user/profile_by_id"
	}
	q := url.Values{}
	lookup.apply(q)
	q.Set("include_metrics", strconv.FormatBool(lookup.IncludeMetrics))

	var raw json.RawMessage
	if err := c.get(ctx, endpoint, q, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		Data *models.SocialUser `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}
	var user models.SocialUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &user, nil
}

// UserTweets lists a user's recent tweets. maxResults defaults to 10.
func (c *Client) UserTweets(ctx context.Context, lookup UserLookup, maxResults int) (*models.Page[models.SocialTweet], error) {
	q := url.Values{}
	lookup.apply(q)
	q.Set("count", countOr(maxResults, 10))

	var out tweetList
	if err := c.get(ctx, "/twitter/user/tweets", q, &out); err != nil {
		return nil, err
	}
	return toPage(out.Data, out.Tweets, out.NextCursor, out.Meta), nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("SocialData request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("socialdata request",
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if raw, ok := out.(*json.RawMessage); ok {
		data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		*raw = data
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
