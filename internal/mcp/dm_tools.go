// ABOUTME: MCP tools for direct messages: send, list events and read conversations.
// ABOUTME: Media messages attach a previously uploaded media id.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/2389-research/twitter-mcp/internal/twitter"
)

const defaultDMEventFields = "id,text,created_at,sender_id,dm_conversation_id,referenced_tweets,attachments"

func (s *Server) directMessageTools() []*tool {
	return []*tool{
		{
			name:        "sendDirectMessage",
			description: "Send a direct message to a specified user",
			schema: `{
				"type": "object",
				"properties": {
					"recipientId": {"type": "string", "description": "The ID of the user to send the message to"},
					"text": {"type": "string", "description": "The text of the direct message"},
					"mediaId": {"type": "string", "description": "Optional media ID to attach"}
				},
				"required": ["recipientId", "text"]
			}`,
			handler: s.handleSendDirectMessage,
		},
		{
			name:        "getDirectMessages",
			description: "Retrieve direct message conversations",
			schema: `{
				"type": "object",
				"properties": {
					"maxResults": {"type": "number", "minimum": 1, "maximum": 100, "description": "Maximum number of events to return (default: 100, max: 100)"},
					"paginationToken": {"type": "string", "description": "Token for the next page of results"},
					"dmEventFields": {"type": "array", "items": {"type": "string"}, "description": "Direct message event fields to include"}
				}
			}`,
			handler: s.handleGetDirectMessages,
		},
		{
			name:        "getDirectMessageEvents",
			description: "Get direct message events with optional expansions",
			schema: `{
				"type": "object",
				"properties": {
					"maxResults": {"type": "number", "minimum": 1, "maximum": 100, "description": "Maximum number of events to return (default: 100, max: 100)"},
					"paginationToken": {"type": "string", "description": "Token for the next page of results"},
					"dmEventFields": {"type": "array", "items": {"type": "string"}, "description": "Direct message event fields to include"},
					"expansions": {"type": "array", "items": {"type": "string"}, "description": "Expansions such as sender_id or participant_ids"},
					"userFields": {"type": "array", "items": {"type": "string"}, "description": "User fields for expanded users"}
				}
			}`,
			handler: s.handleGetDirectMessageEvents,
		},
		{
			name:        "getConversation",
			description: "Get full conversation history for a specific conversation",
			schema: `{
				"type": "object",
				"properties": {
					"conversationId": {"type": "string", "description": "The ID of the direct message conversation"},
					"maxResults": {"type": "number", "minimum": 1, "maximum": 100, "description": "Maximum number of messages to return (default: 100, max: 100)"},
					"paginationToken": {"type": "string", "description": "Token for the next page of results"},
					"dmEventFields": {"type": "array", "items": {"type": "string"}, "description": "Direct message event fields to include"}
				},
				"required": ["conversationId"]
			}`,
			handler: s.handleGetConversation,
		},
		{
			name:        "markAsRead",
			description: "Mark direct messages in a conversation as read",
			schema: `{
				"type": "object",
				"properties": {
					"conversationId": {"type": "string", "description": "The ID of the direct message conversation"},
					"lastReadEventId": {"type": "string", "description": "The ID of the last message event that was read"}
				},
				"required": ["conversationId", "lastReadEventId"]
			}`,
			handler: s.handleMarkAsRead,
		},
		{
			name:        "createMediaMessage",
			description: "Send a direct message with a media attachment",
			schema: schemaf(`{
				"type": "object",
				"properties": {
					"recipientId": {"type": "string", "description": "The ID of the user to send the message to"},
					"text": {"type": "string", "description": "The text of the direct message"},
					"mediaId": {"type": "string", "description": "The ID of the uploaded media to attach"},
					"mediaType": {"type": "string", "enum": %s, "description": "MIME type of the media"},
					"altText": {"type": "string", "description": "Alternative text for the media (accessibility)"}
				},
				"required": ["recipientId", "text", "mediaId"]
			}`, mediaTypeEnum),
			handler: s.handleCreateMediaMessage,
		},
	}
}

func (s *Server) handleSendDirectMessage(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		RecipientID string `json:"recipientId"`
		Text        string `json:"text"`
		MediaID     string `json:"mediaId"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	req := twitter.DMRequest{Text: args.Text}
	if args.MediaID != "" {
		req.MediaIDs = []string{args.MediaID}
	}
	resp, err := s.twitter.SendDM(ctx, args.RecipientID, req)
	if err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return "", fmt.Errorf("Failed to send direct message: User %s not found or cannot receive messages.", args.RecipientID)
		}
		return "", twitterError(err, "sending direct message")
	}
	return fmt.Sprintf("Direct message sent successfully to user %s. Response: %s", args.RecipientID, indent(resp)), nil
}

type dmListArgs struct {
	MaxResults      count    `json:"maxResults"`
	PaginationToken string   `json:"paginationToken"`
	DMEventFields   []string `json:"dmEventFields"`
	Expansions      []string `json:"expansions"`
	UserFields      []string `json:"userFields"`
}

func (a dmListArgs) options() twitter.PageOptions {
	return twitter.PageOptions{
		Fields: twitter.Fields{
			DMEvent:    fieldsOr(a.DMEventFields, defaultDMEventFields),
			Expansions: a.Expansions,
			User:       a.UserFields,
		},
		MaxResults:      min(intOr(a.MaxResults, 100), 100),
		PaginationToken: a.PaginationToken,
	}
}

func (s *Server) handleGetDirectMessages(ctx context.Context, raw json.RawMessage) (string, error) {
	var args dmListArgs
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	args.Expansions, args.UserFields = nil, nil

	page, err := s.twitter.DMEvents(ctx, args.options())
	if err != nil {
		return "", twitterError(err, "getting direct messages")
	}
	if page.Len() == 0 {
		return "No direct message conversations found.", nil
	}

	return fmt.Sprintf("Retrieved %d direct message events: %s", page.Len(), indent(map[string]any{
		"conversations": page.Data,
		"meta":          page.Meta,
	})), nil
}

func (s *Server) handleGetDirectMessageEvents(ctx context.Context, raw json.RawMessage) (string, error) {
	var args dmListArgs
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	page, err := s.twitter.DMEvents(ctx, args.options())
	if err != nil {
		return "", twitterError(err, "getting direct message events")
	}
	if page.Len() == 0 {
		return "No direct message events found.", nil
	}

	return fmt.Sprintf("Retrieved %d direct message events: %s", page.Len(), indent(map[string]any{
		"events":   page.Data,
		"includes": page.Includes,
		"meta":     page.Meta,
	})), nil
}

func (s *Server) handleGetConversation(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		dmListArgs
		ConversationID string `json:"conversationId"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	args.Expansions, args.UserFields = nil, nil

	page, err := s.twitter.ConversationEvents(ctx, args.ConversationID, args.options())
	if err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return "", fmt.Errorf("Failed to get conversation: Conversation %s not found.", args.ConversationID)
		}
		return "", twitterError(err, "getting conversation")
	}
	if page.Len() == 0 {
		return fmt.Sprintf("No messages found in conversation %s.", args.ConversationID), nil
	}

	return fmt.Sprintf("Retrieved %d messages from conversation %s: %s", page.Len(), args.ConversationID, indent(map[string]any{
		"conversationId": args.ConversationID,
		"messages":       page.Data,
		"meta":           page.Meta,
	})), nil
}

// handleMarkAsRead confirms the caller's identity. The public v2 API has no
// read-receipt endpoint, so nothing is written upstream.
func (s *Server) handleMarkAsRead(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		ConversationID  string `json:"conversationId"`
		LastReadEventID string `json:"lastReadEventId"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	if _, err := s.twitter.Me(ctx, twitter.Fields{}); err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return "", fmt.Errorf("Failed to mark message as read: Message %s not found.", args.LastReadEventID)
		}
		return "", fmt.Errorf("%w. Note: This functionality may not be available in the public Twitter API v2.",
			twitterError(err, "marking message as read"))
	}

	return fmt.Sprintf("Message %s marked as read. Note: This functionality may require special API access "+
		"or may not be available in the public Twitter API v2.", args.LastReadEventID), nil
}

func (s *Server) handleCreateMediaMessage(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		RecipientID string `json:"recipientId"`
		Text        string `json:"text"`
		MediaID     string `json:"mediaId"`
		MediaType   string `json:"mediaType"`
		AltText     string `json:"altText"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	if args.AltText != "" {
		if err := s.twitter.SetMediaAltText(ctx, args.MediaID, args.AltText); err != nil {
			return "", twitterError(err, "sending media message")
		}
	}

	resp, err := s.twitter.SendDM(ctx, args.RecipientID, twitter.DMRequest{
		Text:     args.Text,
		MediaIDs: []string{args.MediaID},
	})
	switch {
	case hasStatus(err, http.StatusNotFound):
		return "", fmt.Errorf("Failed to send media message: User %s not found or media %s not found.", args.RecipientID, args.MediaID)
	case hasStatus(err, http.StatusRequestEntityTooLarge):
		return "", fmt.Errorf("Failed to send media message: Media file too large. Check Twitter's media size limits.")
	case hasStatus(err, http.StatusUnsupportedMediaType):
		return "", fmt.Errorf("Failed to send media message: Unsupported media type. Check Twitter's supported media formats.")
	case err != nil:
		return "", twitterError(err, "sending media message")
	}
	return fmt.Sprintf("Direct message with media sent successfully to user %s. Response: %s", args.RecipientID, indent(resp)), nil
}
