// ABOUTME: Direct message endpoints on the v2 dm_conversations and dm_events APIs.
// ABOUTME: Sends one-to-one messages and lists events globally or per conversation.
package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/2389-research/twitter-mcp/internal/models"
)

// DMRequest is the body of a one-to-one direct message.
type DMRequest struct {
	Text     string
	MediaIDs []string
}

type dmPayload struct {
	Text        string         `json:"text"`
	Attachments []dmAttachment `json:"attachments,omitempty"`
}

type dmAttachment struct {
	MediaID string `json:"media_id"`
}

// SendDM sends a direct message to participantID and returns the raw response.
func (c *Client) SendDM(ctx context.Context, participantID string, r DMRequest) (json.RawMessage, error) {
	payload := dmPayload{Text: r.Text}
	for _, id := range r.MediaIDs {
		payload.Attachments = append(payload.Attachments, dmAttachment{MediaID: id})
	}

	path := "/2/dm_conversations/with/" + url.PathEscape(participantID) + "/messages"
	var raw json.RawMessage
	err := c.doJSON(ctx, http.MethodPost, c.endpoint(path, nil), payload, &raw)
	return raw, err
}

// DMEvents lists recent direct message events across all conversations.
func (c *Client) DMEvents(ctx context.Context, opts PageOptions) (*models.Page[models.DMEvent], error) {
	return c.dmPage(ctx, "/2/dm_events", opts)
}

// ConversationEvents lists direct message events within one conversation.
func (c *Client) ConversationEvents(ctx context.Context, conversationID string, opts PageOptions) (*models.Page[models.DMEvent], error) {
	return c.dmPage(ctx, "/2/dm_conversations/"+url.PathEscape(conversationID)+"/dm_events", opts)
}

func (c *Client) dmPage(ctx context.Context, path string, opts PageOptions) (*models.Page[models.DMEvent], error) {
	var out models.Page[models.DMEvent]
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(path, opts.values()), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
