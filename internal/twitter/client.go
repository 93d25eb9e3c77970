// ABOUTME: HTTP client for the X API v2 with OAuth 1.0a or app-only bearer auth.
// ABOUTME: Shared request plumbing, field/pagination options and optional pacing.
package twitter

import (
	"bytes"
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

	"github.com/dghubble/oauth1"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://api.twitter.com"
	defaultUploadURL = "https://upload.twitter.com"
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 10 << 20
)

// ClientConfig configures a Client. Either all four OAuth 1.0a values or
// BearerToken must be set.
type ClientConfig struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
	BearerToken       string

	BaseURL   string
	UploadURL string
	Timeout   time.Duration

	// RequestsPerSecond paces outgoing requests; 0 disables pacing.
	RequestsPerSecond float64
}

func (c *ClientConfig) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.UploadURL == "" {
		c.UploadURL = defaultUploadURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	c.UploadURL = strings.TrimRight(c.UploadURL, "/")
}

func (c *ClientConfig) userContext() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessTokenSecret != ""
}

// Client calls the X API. It is safe for concurrent use.
type Client struct {
	baseURL     string
	uploadURL   string
	http        *http.Client
	limiter     *rate.Limiter
	userContext bool
}

// NewClient builds a Client, signing requests with OAuth 1.0a when user
// credentials are present and falling back to an app-only bearer token.
func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.defaults()

	var httpClient *http.Client
	switch {
	case cfg.userContext():
		oauthCfg := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
		httpClient = oauthCfg.Client(oauth1.NoContext, oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret))
	case cfg.BearerToken != "":
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.BearerToken, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(context.Background(), src)
	default:
		return nil, errors.New("twitter: OAuth 1.0a credentials or a bearer token are required")
	}
	httpClient.Timeout = cfg.Timeout

	c := &Client{
		baseURL:     cfg.BaseURL,
		uploadURL:   cfg.UploadURL,
		http:        httpClient,
		userContext: cfg.userContext(),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c, nil
}

// UserContext reports whether the client acts on behalf of a user.
func (c *Client) UserContext() bool {
	return c.userContext
}

// Fields selects optional response fields and expansions.
type Fields struct {
	Tweet      []string
	User       []string
	List       []string
	DMEvent    []string
	Expansions []string
}

func (f Fields) apply(q url.Values) {
	set := func(key string, vals []string) {
		if len(vals) > 0 {
			q.Set(key, strings.Join(vals, ","))
		}
	}
	set("tweet.fields", f.Tweet)
	set("user.fields", f.User)
	set("list.fields", f.List)
	set("dm_event.fields", f.DMEvent)
	set("expansions", f.Expansions)
}

// PageOptions controls list endpoints.
type PageOptions struct {
	Fields
	MaxResults      int
	PaginationToken string
}

func (o PageOptions) values() url.Values {
	q := url.Values{}
	o.Fields.apply(q)
	if o.MaxResults > 0 {
		q.Set("max_results", strconv.Itoa(o.MaxResults))
	}
	if o.PaginationToken != "" {
		q.Set("pagination_token", o.PaginationToken)
	}
	return q
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// doJSON sends an optional JSON body and decodes the JSON response into out.
func (c *Client) doJSON(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// send executes req and decodes a successful JSON response into out.
func (c *Client) send(req *http.Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("twitter API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	slog.Debug("twitter request",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return newAPIError(resp, respBody)
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], respBody...)
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// dataEnvelope is the single-object v2 response shape.
type dataEnvelope[T any] struct {
	Data   *T        `json:"data"`
	Errors []Problem `json:"errors"`
}
