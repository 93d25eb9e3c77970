// ABOUTME: MCP tools for likes and retweets on behalf of the authenticated user.
// ABOUTME: Also lists retweeters of a tweet and tweets liked by a user.
package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/2389-research/twitter-mcp/internal/twitter"
)

const tweetIDSchema = `{
	"type": "object",
	"properties": {
		"tweetId": {"type": "string", "description": "The ID of the tweet to %s"}
	},
	"required": ["tweetId"]
}`

func (s *Server) engagementTools() []*tool {
	return []*tool{
		{
			name:        "likeTweet",
			description: "Like a tweet by its ID",
			schema:      schemaf(tweetIDSchema, "like"),
			handler: s.engage("Successfully liked tweet: ", "liking tweet",
				func(ctx context.Context, userID, tweetID string) error {
					return s.twitter.Like(ctx, userID, tweetID)
				}),
		},
		{
			name:        "unlikeTweet",
			description: "Unlike a previously liked tweet",
			schema:      schemaf(tweetIDSchema, "unlike"),
			handler: s.engage("Successfully unliked tweet: ", "unliking tweet",
				func(ctx context.Context, userID, tweetID string) error {
					return s.twitter.Unlike(ctx, userID, tweetID)
				}),
		},
		{
			name:        "retweet",
			description: "Retweet a tweet by its ID",
			schema:      schemaf(tweetIDSchema, "retweet"),
			handler: s.engage("Successfully retweeted tweet: ", "retweeting",
				func(ctx context.Context, userID, tweetID string) error {
					return s.twitter.Retweet(ctx, userID, tweetID)
				}),
		},
		{
			name:        "undoRetweet",
			description: "Undo a retweet by its ID",
			schema:      schemaf(tweetIDSchema, "un-retweet"),
			handler: s.engage("Successfully undid retweet: ", "undoing retweet",
				func(ctx context.Context, userID, tweetID string) error {
					return s.twitter.UndoRetweet(ctx, userID, tweetID)
				}),
		},
		{
			name:        "getRetweets",
			description: "Get a list of retweets of a tweet",
			schema: `{
				"type": "object",
				"properties": {
					"tweetId": {"type": "string", "description": "The ID of the tweet to get retweets for"},
					"maxResults": {"type": "number", "minimum": 1, "maximum": 100, "description": "The maximum number of results to return (default: 100, max: 100)"},
					"userFields": {
						"type": "array",
						"items": {"type": "string", "enum": ["description", "profile_image_url", "public_metrics", "verified"]},
						"description": "Additional user fields to include in the response"
					}
				},
				"required": ["tweetId"]
			}`,
			handler: s.handleGetRetweets,
		},
		{
			name:        "getLikedTweets",
			description: "Get a list of tweets liked by a user",
			schema: `{
				"type": "object",
				"properties": {
					"userId": {"type": "string", "description": "The ID of the user whose likes to fetch"},
					"maxResults": {"type": "number", "minimum": 1, "maximum": 100, "description": "The maximum number of results to return (default: 100, max: 100)"},
					"tweetFields": {
						"type": "array",
						"items": {"type": "string", "enum": ["created_at", "author_id", "conversation_id", "public_metrics", "entities", "context_annotations"]},
						"description": "Additional tweet fields to include in the response"
					}
				},
				"required": ["userId"]
			}`,
			handler: s.handleGetLikedTweets,
		},
	}
}

// engage builds a handler that resolves the caller's id and applies act to a tweet.
func (s *Server) engage(success, action string, act func(ctx context.Context, userID, tweetID string) error) toolHandler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args struct {
			TweetID string `json:"tweetId"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return "", err
		}

		me, err := s.twitter.Me(ctx, twitter.Fields{})
		if err != nil {
			return "", twitterError(err, action)
		}
		if err := act(ctx, me.ID, args.TweetID); err != nil {
			return "", twitterError(err, action)
		}
		return success + args.TweetID, nil
	}
}

func (s *Server) handleGetRetweets(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		TweetID    string   `json:"tweetId"`
		MaxResults count    `json:"maxResults"`
		UserFields []string `json:"userFields"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	page, err := s.twitter.RetweetedBy(ctx, args.TweetID, twitter.PageOptions{
		Fields:     twitter.Fields{User: fieldsOr(args.UserFields, "description,profile_image_url,public_metrics,verified")},
		MaxResults: intOr(args.MaxResults, 100),
	})
	if err != nil {
		return "", twitterError(err, "getting retweets")
	}
	if page.Len() == 0 {
		return "No retweets found for tweet: " + args.TweetID, nil
	}

	return "Users who retweeted: " + indent(map[string]any{
		"retweetedBy": page.Data,
		"meta":        page.Meta,
	}), nil
}

var errLikedTweetsTier = errors.New("Get liked tweets functionality may require elevated permissions or Pro tier access. " +
	"Current Basic tier ($200/month) has limited access to user engagement data. " +
	"Consider upgrading to Pro tier ($5,000/month) at https://developer.x.com/en/portal/products/pro " +
	"or use alternative methods to track user engagement.")

func (s *Server) handleGetLikedTweets(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		UserID      string   `json:"userId"`
		MaxResults  count    `json:"maxResults"`
		TweetFields []string `json:"tweetFields"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	page, err := s.twitter.LikedTweets(ctx, args.UserID, twitter.PageOptions{
		Fields:     twitter.Fields{Tweet: fieldsOr(args.TweetFields, "created_at,public_metrics,author_id")},
		MaxResults: intOr(args.MaxResults, 100),
	})
	if err != nil {
		if twitter.IsInvalidRequest(err) {
			return "", errLikedTweetsTier
		}
		return "", twitterError(err, "getting liked tweets")
	}
	if page.Len() == 0 {
		return "No liked tweets found for user: " + args.UserID, nil
	}

	return "Liked tweets: " + indent(map[string]any{
		"likedTweets": page.Data,
		"meta":        page.Meta,
	}), nil
}
