// ABOUTME: List endpoints: create, membership changes and listings.
// ABOUTME: Owned lists are fetched per user id.
package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/2389-research/twitter-mcp/internal/models"
)

// ListRequest is the body of POST /2/lists.
type ListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
}

// CreateList creates a list owned by the authenticated user.
func (c *Client) CreateList(ctx context.Context, r ListRequest) (*models.List, error) {
	var out dataEnvelope[models.List]
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("/2/lists", nil), r, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, fmt.Errorf("create list: empty response")
	}
	return out.Data, nil
}

type listMemberPayload struct {
	UserID string `json:"user_id"`
}

// AddListMember adds userID to listID.
func (c *Client) AddListMember(ctx context.Context, listID, userID string) error {
	path := "/2/lists/" + url.PathEscape(listID) + "/members"
	return c.doJSON(ctx, http.MethodPost, c.endpoint(path, nil), listMemberPayload{UserID: userID}, nil)
}

// RemoveListMember removes userID from listID.
func (c *Client) RemoveListMember(ctx context.Context, listID, userID string) error {
	path := "/2/lists/" + url.PathEscape(listID) + "/members/" + url.PathEscape(userID)
	return c.doJSON(ctx, http.MethodDelete, c.endpoint(path, nil), nil, nil)
}

// ListMembers lists the members of listID.
func (c *Client) ListMembers(ctx context.Context, listID string, opts PageOptions) (*models.Page[models.User], error) {
	return c.userPage(ctx, "/2/lists/"+url.PathEscape(listID)+"/members", opts)
}

// OwnedLists lists the lists owned by userID.
func (c *Client) OwnedLists(ctx context.Context, userID string, opts PageOptions) (*models.Page[models.List], error) {
	var out models.Page[models.List]
	path := "/2/users/" + url.PathEscape(userID) + "/owned_lists"
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(path, opts.values()), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
