// ABOUTME: MCP tools for blocking and muting accounts.
// ABOUTME: Targets are given by user id or username; listings page through blocks and mutes.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/2389-research/twitter-mcp/internal/models"
	"github.com/2389-research/twitter-mcp/internal/twitter"
)

const moderationTargetSchema = `{
	"type": "object",
	"properties": {
		"userId": {"type": "string", "description": "The ID of the user to %[1]s"},
		"username": {"type": "string", "description": "The username of the user to %[1]s (alternative to userId)"}
	}
}`

const moderationListSchema = `{
	"type": "object",
	"properties": {
		"maxResults": {"type": "number", "minimum": 1, "maximum": 1000, "description": "Maximum number of users to return (default: 100, max: 1000)"},
		"paginationToken": {"type": "string", "description": "Token for the next page of results"},
		"userFields": {"type": "array", "items": {"type": "string"}, "description": "User fields to include in the response"}
	}
}`

const defaultModerationUserFields = "id,name,username,public_metrics,description,verified"

// moderationVerb describes one block or mute action and its failure advice.
type moderationVerb struct {
	verb     string // "block"
	past     string // "blocked"
	gerund   string // "Blocking"
	scope    string // "block.write"
	family   string // "Block"
	notFound string // suffix for 404
	conflict bool   // whether 422 has advice
	act      func(ctx context.Context, sourceID, targetID string) (json.RawMessage, error)
}

func (s *Server) moderationTools() []*tool {
	verbs := []moderationVerb{
		{verb: "block", past: "blocked", gerund: "Blocking", scope: "block.write", family: "Block", notFound: "not found.", conflict: true,
			act: func(ctx context.Context, src, tgt string) (json.RawMessage, error) { return s.twitter.Block(ctx, src, tgt) }},
		{verb: "unblock", past: "unblocked", gerund: "Unblocking", scope: "block.write", family: "Block", notFound: "not found or was not previously blocked.",
			act: func(ctx context.Context, src, tgt string) (json.RawMessage, error) { return s.twitter.Unblock(ctx, src, tgt) }},
		{verb: "mute", past: "muted", gerund: "Muting", scope: "mute.write", family: "Mute", notFound: "not found.", conflict: true,
			act: func(ctx context.Context, src, tgt string) (json.RawMessage, error) { return s.twitter.Mute(ctx, src, tgt) }},
		{verb: "unmute", past: "unmuted", gerund: "Unmuting", scope: "mute.write", family: "Mute", notFound: "not found or was not previously muted.",
			act: func(ctx context.Context, src, tgt string) (json.RawMessage, error) { return s.twitter.Unmute(ctx, src, tgt) }},
	}

	var tools []*tool
	for _, v := range verbs {
		tools = append(tools, &tool{
			name:        v.verb + "User",
			description: fmt.Sprintf("%s a user account by user ID or username", capitalize(v.verb)),
			schema:      schemaf(moderationTargetSchema, v.verb),
			handler:     s.moderate(v),
		})
	}

	tools = append(tools,
		&tool{
			name:        "getBlockedUsers",
			description: "Retrieve a paginated list of blocked users",
			schema:      moderationListSchema,
			handler: s.moderationList("blocked", "blockedUsers", "block.read", "Block",
				func(ctx context.Context, id string, opts twitter.PageOptions) (*models.Page[models.User], error) {
					return s.twitter.Blocking(ctx, id, opts)
				}),
		},
		&tool{
			name:        "getMutedUsers",
			description: "Retrieve a paginated list of muted users",
			schema:      moderationListSchema,
			handler: s.moderationList("muted", "mutedUsers", "mute.read", "Mute",
				func(ctx context.Context, id string, opts twitter.PageOptions) (*models.Page[models.User], error) {
					return s.twitter.Muting(ctx, id, opts)
				}),
		},
	)
	return tools
}

var errModerationTarget = errors.New("Either userId or username must be provided")

func (s *Server) moderate(v moderationVerb) toolHandler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args struct {
			UserID   string `json:"userId"`
			Username string `json:"username"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}
		label := args.Username
		if label == "" {
			label = args.UserID
		}

		text, err := s.runModeration(ctx, v, args.UserID, args.Username)
		if err != nil {
			return "", v.failure(err, label)
		}
		return text, nil
	}
}

func (s *Server) runModeration(ctx context.Context, v moderationVerb, userID, username string) (string, error) {
	if userID == "" && username == "" {
		return "", errModerationTarget
	}

	targetID := userID
	if targetID == "" {
		user, err := s.twitter.UserByUsername(ctx, username, twitter.Fields{})
		if errors.Is(err, twitter.ErrUserNotFound) {
			return "", fmt.Errorf("User with username '%s' not found", username)
		}
		if err != nil {
			return "", err
		}
		targetID = user.ID
	}

	me, err := s.twitter.Me(ctx, twitter.Fields{})
	if err != nil {
		return "", err
	}
	resp, err := v.act(ctx, me.ID, targetID)
	if err != nil {
		return "", err
	}

	name := username
	if name == "" {
		name = targetID
	}
	return fmt.Sprintf("Successfully %s user %s. Response: %s", v.past, name, indent(resp)), nil
}

func (v moderationVerb) failure(err error, label string) error {
	prefix := "Failed to " + v.verb + " user"
	switch {
	case hasStatus(err, http.StatusForbidden):
		return fmt.Errorf("%s: Insufficient permissions. %s requires OAuth 2.0 authentication with %s scope.", prefix, v.gerund, v.scope)
	case hasStatus(err, http.StatusNotFound):
		return fmt.Errorf("%s: User %s %s", prefix, label, v.notFound)
	case v.conflict && hasStatus(err, http.StatusUnprocessableEntity):
		return fmt.Errorf("%s: User %s may already be %s or cannot be %s.", prefix, label, v.past, v.past)
	case hasStatus(err, http.StatusTooManyRequests):
		return fmt.Errorf("%s: Rate limit exceeded. %s endpoints allow 50 requests per 15 minutes.", prefix, v.family)
	default:
		return fmt.Errorf("%s: %w", prefix, err)
	}
}

func (s *Server) moderationList(kind, key, scope, family string,
	list func(ctx context.Context, id string, opts twitter.PageOptions) (*models.Page[models.User], error)) toolHandler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args struct {
			MaxResults      count    `json:"maxResults"`
			PaginationToken string   `json:"paginationToken"`
			UserFields      []string `json:"userFields"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}

		fail := func(err error) error {
			prefix := "Failed to get " + kind + " users"
			switch {
			case hasStatus(err, http.StatusForbidden):
				return fmt.Errorf("%s: Insufficient permissions. This endpoint requires OAuth 2.0 authentication with %s scope.", prefix, scope)
			case hasStatus(err, http.StatusTooManyRequests):
				return fmt.Errorf("%s: Rate limit exceeded. %s endpoints allow 50 requests per 15 minutes.", prefix, family)
			default:
				return fmt.Errorf("%s: %w", prefix, err)
			}
		}

		me, err := s.twitter.Me(ctx, twitter.Fields{})
		if err != nil {
			return "", fail(err)
		}
		page, err := list(ctx, me.ID, twitter.PageOptions{
			Fields:          twitter.Fields{User: fieldsOr(args.UserFields, defaultModerationUserFields)},
			MaxResults:      min(intOr(args.MaxResults, 100), 1000),
			PaginationToken: args.PaginationToken,
		})
		if err != nil {
			return "", fail(err)
		}
		if page.Len() == 0 {
			return fmt.Sprintf("No %s users found.", kind), nil
		}

		return fmt.Sprintf("Retrieved %d %s users: %s", page.Len(), kind, indent(map[string]any{
			key:    page.Data,
			"meta": page.Meta,
		})), nil
	}
}
