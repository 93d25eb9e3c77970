// ABOUTME: MCP tools for user profiles and the follow graph.
// ABOUTME: Follow and unfollow act on behalf of the authenticated user.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/2389-research/twitter-mcp/internal/twitter"
)

const followGraphSchema = `{
	"type": "object",
	"properties": {
		"username": {"type": "string", "description": "The username of the user whose %s to fetch"},
		"maxResults": {"type": "number", "minimum": 1, "maximum": 1000, "description": "The maximum number of results to return (default: 100, max: 1000)"},
		"userFields": {
			"type": "array",
			"items": {"type": "string", "enum": ["description", "profile_image_url", "public_metrics", "verified", "location", "url"]},
			"description": "Additional user fields to include in the response"
		}
	},
	"required": ["username"]
}`

func (s *Server) userTools() []*tool {
	return []*tool{
		{
			name:        "getUserInfo",
			description: "Get information about a Twitter user",
			schema: `{
				"type": "object",
				"properties": {
					"username": {"type": "string", "description": "The username of the user"}
				},
				"required": ["username"]
			}`,
			handler: s.handleGetUserInfo,
		},
		{
			name:        "getAuthenticatedUser",
			description: "Get the authenticated user's own profile information",
			schema: `{
				"type": "object",
				"properties": {
					"userFields": {"type": "array", "items": {"type": "string"}, "description": "User fields to include in the response"}
				}
			}`,
			handler: s.handleGetAuthenticatedUser,
		},
		{
			name:        "followUser",
			description: "Follow a user by their username",
			schema: `{
				"type": "object",
				"properties": {
					"username": {"type": "string", "description": "The username of the user to follow"}
				},
				"required": ["username"]
			}`,
			handler: s.followAction("Successfully followed user: ", "following user", true),
		},
		{
			name:        "unfollowUser",
			description: "Unfollow a user by their username",
			schema: `{
				"type": "object",
				"properties": {
					"username": {"type": "string", "description": "The username of the user to unfollow"}
				},
				"required": ["username"]
			}`,
			handler: s.followAction("Successfully unfollowed user: ", "unfollowing user", false),
		},
		{
			name:        "getFollowers",
			description: "Get a list of followers for a user",
			schema:      schemaf(followGraphSchema, "followers"),
			handler:     s.handleGetFollowers,
		},
		{
			name:        "getFollowing",
			description: "Get a list of users that a user is following",
			schema:      schemaf(followGraphSchema, "following list"),
			handler:     s.handleGetFollowing,
		},
	}
}

func (s *Server) handleGetUserInfo(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Username string `json:"username"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	user, err := s.twitter.UserByUsername(ctx, args.Username, twitter.Fields{
		User: fieldsOr(nil, "description,public_metrics,profile_image_url,verified"),
	})
	if err != nil {
		return "", twitterError(userLookupError(err, args.Username), "getting user info")
	}
	return "User info: " + indent(user), nil
}

var (
	errAuthenticatedUser = errors.New("Authentication failed. Please check your API credentials and tokens. " +
		"This endpoint requires valid OAuth 1.0a User Context or OAuth 2.0 Authorization Code with PKCE authentication.")
	errRateLimited = errors.New("Rate limit exceeded. Please wait before making another request.")
)

func (s *Server) handleGetAuthenticatedUser(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		UserFields []string `json:"userFields"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	me, err := s.twitter.Me(ctx, twitter.Fields{
		User: fieldsOr(args.UserFields, "id,username,name,description,public_metrics,verified,profile_image_url,created_at"),
	})
	switch {
	case errors.Is(err, twitter.ErrUserNotFound):
		return "", twitterError(errors.New("Unable to retrieve authenticated user information"), "getting authenticated user")
	case hasStatus(err, http.StatusUnauthorized):
		return "", errAuthenticatedUser
	case hasStatus(err, http.StatusTooManyRequests):
		return "", errRateLimited
	case err != nil:
		return "", twitterError(err, "getting authenticated user")
	}
	return "Authenticated user info: " + indent(me), nil
}

// followAction resolves the caller and the target handle, then follows or unfollows.
func (s *Server) followAction(success, action string, follow bool) toolHandler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args struct {
			Username string `json:"username"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}

		me, err := s.twitter.Me(ctx, twitter.Fields{})
		if err != nil {
			return "", twitterError(err, action)
		}
		target, err := s.twitter.UserByUsername(ctx, args.Username, twitter.Fields{})
		if err != nil {
			return "", twitterError(userLookupError(err, args.Username), action)
		}

		if follow {
			err = s.twitter.Follow(ctx, me.ID, target.ID)
		} else {
			err = s.twitter.Unfollow(ctx, me.ID, target.ID)
		}
		if err != nil {
			return "", twitterError(err, action)
		}
		return success + args.Username, nil
	}
}

const followTierAdvice = "Get %s functionality requires elevated permissions. " +
	"This endpoint may require Pro tier access ($5,000/month) or special permission approval from X. " +
	"Current Basic tier ($200/month) has limited access to %s data for privacy reasons. " +
	"Contact X Developer Support or consider upgrading at https://developer.x.com/en/portal/products/pro"

type followGraphArgs struct {
	Username   string   `json:"username"`
	MaxResults count    `json:"maxResults"`
	UserFields []string `json:"userFields"`
}

func (s *Server) handleGetFollowers(ctx context.Context, raw json.RawMessage) (string, error) {
	var args followGraphArgs
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	user, err := s.twitter.UserByUsername(ctx, args.Username, twitter.Fields{})
	if err != nil {
		return "", followGraphError(userLookupError(err, args.Username), "followers", "getting followers")
	}
	page, err := s.twitter.Followers(ctx, user.ID, twitter.PageOptions{
		Fields:     twitter.Fields{User: fieldsOr(args.UserFields, "description,public_metrics")},
		MaxResults: int(args.MaxResults),
	})
	if err != nil {
		return "", followGraphError(err, "followers", "getting followers")
	}
	if page.Len() == 0 {
		return "No followers found for user: " + args.Username, nil
	}

	return fmt.Sprintf("Followers for %s: %s", args.Username, indent(map[string]any{
		"followers": page.Data,
		"meta":      page.Meta,
	})), nil
}

func (s *Server) handleGetFollowing(ctx context.Context, raw json.RawMessage) (string, error) {
	var args followGraphArgs
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	user, err := s.twitter.UserByUsername(ctx, args.Username, twitter.Fields{})
	if err != nil {
		return "", followGraphError(userLookupError(err, args.Username), "following", "getting following")
	}
	page, err := s.twitter.Following(ctx, user.ID, twitter.PageOptions{
		Fields:     twitter.Fields{User: fieldsOr(args.UserFields, "description,profile_image_url,public_metrics,verified")},
		MaxResults: int(args.MaxResults),
	})
	if err != nil {
		return "", followGraphError(err, "following", "getting following")
	}
	if page.Len() == 0 {
		return fmt.Sprintf("User %s is not following anyone", args.Username), nil
	}

	return fmt.Sprintf("Users followed by %s: %s", args.Username, indent(map[string]any{
		"following": page.Data,
		"meta":      page.Meta,
	})), nil
}

func followGraphError(err error, kind, action string) error {
	if hasStatus(err, http.StatusForbidden) {
		return fmt.Errorf(followTierAdvice, kind, kind)
	}
	return twitterError(err, action)
}
