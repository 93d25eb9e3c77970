// ABOUTME: MCP tools for Twitter lists: creation, membership and listings.
// ABOUTME: Members may be given by username or user id.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2389-research/twitter-mcp/internal/twitter"
)

const listMemberSchema = `{
	"type": "object",
	"properties": {
		"listId": {"type": "string", "description": "The ID of the list"},
		"username": {"type": "string", "description": "The username of the user to %[1]s"},
		"userId": {"type": "string", "description": "The ID of the user to %[1]s (used when username is absent)"}
	},
	"required": ["listId"]
}`

func (s *Server) listTools() []*tool {
	return []*tool{
		{
			name:        "createList",
			description: "Create a new Twitter list",
			schema: `{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "The name of the list"},
					"description": {"type": "string", "description": "A description of the list"},
					"private": {"type": "boolean", "description": "Whether the list should be private"}
				},
				"required": ["name"]
			}`,
			handler: s.handleCreateList,
		},
		{
			name:        "addUserToList",
			description: "Add a user to a Twitter list",
			schema:      schemaf(listMemberSchema, "add"),
			handler:     s.listMemberAction("Successfully added user %s to list %s", "adding user to list", true),
		},
		{
			name:        "removeUserFromList",
			description: "Remove a user from a Twitter list",
			schema:      schemaf(listMemberSchema, "remove"),
			handler:     s.listMemberAction("Successfully removed user %s from list %s", "removing user from list", false),
		},
		{
			name:        "getListMembers",
			description: "Get members of a Twitter list",
			schema: `{
				"type": "object",
				"properties": {
					"listId": {"type": "string", "description": "The ID of the list"},
					"maxResults": {"type": "number", "minimum": 1, "maximum": 100, "description": "The maximum number of results to return (default: 100, max: 100)"},
					"userFields": {
						"type": "array",
						"items": {"type": "string", "enum": ["description", "profile_image_url", "public_metrics", "verified", "location", "url"]},
						"description": "Additional user fields to include in the response"
					}
				},
				"required": ["listId"]
			}`,
			handler: s.handleGetListMembers,
		},
		{
			name:        "getUserLists",
			description: "Get lists owned by a user",
			schema: `{
				"type": "object",
				"properties": {
					"username": {"type": "string", "description": "The username of the user whose lists to fetch"},
					"maxResults": {"type": "number", "minimum": 1, "maximum": 100, "description": "The maximum number of results to return (default: 100, max: 100)"},
					"listFields": {
						"type": "array",
						"items": {"type": "string", "enum": ["created_at", "follower_count", "member_count", "private", "description"]},
						"description": "Additional list fields to include in the response"
					}
				},
				"required": ["username"]
			}`,
			handler: s.handleGetUserLists,
		},
	}
}

func (s *Server) handleCreateList(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Private     bool   `json:"private"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	list, err := s.twitter.CreateList(ctx, twitter.ListRequest{
		Name:        args.Name,
		Description: args.Description,
		Private:     args.Private,
	})
	if err != nil {
		return "", twitterError(err, "creating list")
	}
	return fmt.Sprintf("Successfully created list: %s (ID: %s)", list.Name, list.ID), nil
}

var errMemberTarget = errors.New("Either userId or username must be provided")

func (s *Server) listMemberAction(success, action string, add bool) toolHandler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args struct {
			ListID   string `json:"listId"`
			Username string `json:"username"`
			UserID   string `json:"userId"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}

		userID, label := args.UserID, args.UserID
		switch {
		case args.Username != "":
			user, err := s.twitter.UserByUsername(ctx, args.Username, twitter.Fields{})
			if err != nil {
				return "", twitterError(userLookupError(err, args.Username), action)
			}
			userID, label = user.ID, args.Username
		case userID == "":
			return "", errMemberTarget
		}

		var err error
		if add {
			err = s.twitter.AddListMember(ctx, args.ListID, userID)
		} else {
			err = s.twitter.RemoveListMember(ctx, args.ListID, userID)
		}
		if err != nil {
			return "", twitterError(err, action)
		}
		return fmt.Sprintf(success, label, args.ListID), nil
	}
}

func (s *Server) handleGetListMembers(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		ListID     string   `json:"listId"`
		MaxResults count    `json:"maxResults"`
		UserFields []string `json:"userFields"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	page, err := s.twitter.ListMembers(ctx, args.ListID, twitter.PageOptions{
		Fields:     twitter.Fields{User: fieldsOr(args.UserFields, "description,profile_image_url,public_metrics,verified")},
		MaxResults: intOr(args.MaxResults, 100),
	})
	if err != nil {
		return "", twitterError(err, "getting list members")
	}
	if page.Len() == 0 {
		return "No members found in list: " + args.ListID, nil
	}

	return fmt.Sprintf("Members of list %s: %s", args.ListID, indent(map[string]any{
		"members": page.Data,
		"meta":    page.Meta,
	})), nil
}

func (s *Server) handleGetUserLists(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Username   string   `json:"username"`
		MaxResults count    `json:"maxResults"`
		ListFields []string `json:"listFields"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	user, err := s.twitter.UserByUsername(ctx, args.Username, twitter.Fields{})
	if err != nil {
		return "", twitterError(userLookupError(err, args.Username), "getting user lists")
	}
	page, err := s.twitter.OwnedLists(ctx, user.ID, twitter.PageOptions{
		Fields:     twitter.Fields{List: fieldsOr(args.ListFields, "created_at,follower_count,member_count,private,description")},
		MaxResults: intOr(args.MaxResults, 100),
	})
	if err != nil {
		return "", twitterError(err, "getting user lists")
	}
	if page.Len() == 0 {
		return "No lists found for user: " + args.Username, nil
	}

	return fmt.Sprintf("Lists owned by %s: %s", args.Username, indent(map[string]any{
		"lists": page.Data,
		"meta":  page.Meta,
	})), nil
}
