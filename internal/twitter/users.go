// ABOUTME: User endpoints: lookup, follow graph, blocks and mutes.
// ABOUTME: Block and mute calls return the raw upstream body for pass-through.
package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/2389-research/twitter-mcp/internal/models"
)

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context, fields Fields) (*models.User, error) {
	return c.lookupUser(ctx, "/2/users/me", fields)
}

// UserByUsername resolves a handle. Returns ErrUserNotFound when the API
// answers without data.
func (c *Client) UserByUsername(ctx context.Context, username string, fields Fields) (*models.User, error) {
	return c.lookupUser(ctx, "/2/users/by/username/"+url.PathEscape(username), fields)
}

func (c *Client) lookupUser(ctx context.Context, path string, fields Fields) (*models.User, error) {
	q := url.Values{}
	fields.apply(q)

	var out dataEnvelope[models.User]
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(path, q), nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, ErrUserNotFound
	}
	return out.Data, nil
}

type targetUserPayload struct {
	TargetUserID string `json:"target_user_id"`
}

// Follow makes sourceID follow targetID.
func (c *Client) Follow(ctx context.Context, sourceID, targetID string) error {
	path := "/2/users/" + url.PathEscape(sourceID) + "/following"
	return c.doJSON(ctx, http.MethodPost, c.endpoint(path, nil), targetUserPayload{TargetUserID: targetID}, nil)
}

// Unfollow removes a follow relationship.
func (c *Client) Unfollow(ctx context.Context, sourceID, targetID string) error {
	path := "/2/users/" + url.PathEscape(sourceID) + "/following/" + url.PathEscape(targetID)
	return c.doJSON(ctx, http.MethodDelete, c.endpoint(path, nil), nil, nil)
}

// Followers lists accounts following userID.
func (c *Client) Followers(ctx context.Context, userID string, opts PageOptions) (*models.Page[models.User], error) {
	return c.userPage(ctx, "/2/users/"+url.PathEscape(userID)+"/followers", opts)
}

// Following lists accounts userID follows.
func (c *Client) Following(ctx context.Context, userID string, opts PageOptions) (*models.Page[models.User], error) {
	return c.userPage(ctx, "/2/users/"+url.PathEscape(userID)+"/following", opts)
}

// Block blocks targetID on behalf of sourceID and returns the raw response.
func (c *Client) Block(ctx context.Context, sourceID, targetID string) (json.RawMessage, error) {
	path := "/2/users/" + url.PathEscape(sourceID) + "/blocking"
	var raw json.RawMessage
	err := c.doJSON(ctx, http.MethodPost, c.endpoint(path, nil), targetUserPayload{TargetUserID: targetID}, &raw)
	return raw, err
}

// Unblock removes a block.
func (c *Client) Unblock(ctx context.Context, sourceID, targetID string) (json.RawMessage, error) {
	path := "/2/users/" + url.PathEscape(sourceID) + "/blocking/" + url.PathEscape(targetID)
	var raw json.RawMessage
	err := c.doJSON(ctx, http.MethodDelete, c.endpoint(path, nil), nil, &raw)
	return raw, err
}

// Mute mutes targetID on behalf of sourceID.
func (c *Client) Mute(ctx context.Context, sourceID, targetID string) (json.RawMessage, error) {
	path := "/2/users/" + url.PathEscape(sourceID) + "/muting"
	var raw json.RawMessage
	err := c.doJSON(ctx, http.MethodPost, c.endpoint(path, nil), targetUserPayload{TargetUserID: targetID}, &raw)
	return raw, err
}

// Unmute removes a mute.
func (c *Client) Unmute(ctx context.Context, sourceID, targetID string) (json.RawMessage, error) {
	path := "/2/users/" + url.PathEscape(sourceID) + "/muting/" + url.PathEscape(targetID)
	var raw json.RawMessage
	err := c.doJSON(ctx, http.MethodDelete, c.endpoint(path, nil), nil, &raw)
	return raw, err
}

// Blocking lists accounts blocked by userID.
func (c *Client) Blocking(ctx context.Context, userID string, opts PageOptions) (*models.Page[models.User], error) {
	return c.userPage(ctx, "/2/users/"+url.PathEscape(userID)+"/blocking", opts)
}

// Muting lists accounts muted by userID.
func (c *Client) Muting(ctx context.Context, userID string, opts PageOptions) (*models.Page[models.User], error) {
	return c.userPage(ctx, "/2/users/"+url.PathEscape(userID)+"/muting", opts)
}

func (c *Client) userPage(ctx context.Context, path string, opts PageOptions) (*models.Page[models.User], error) {
	var out models.Page[models.User]
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(path, opts.values()), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
