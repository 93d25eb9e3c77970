// ABOUTME: MCP tools for creating, reading and deleting tweets.
// ABOUTME: Covers plain, reply and media tweets plus user timelines.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/2389-research/twitter-mcp/internal/twitter"
)

// mediaTypeEnum is the JSON enum of MIME types the upload flow accepts.
var mediaTypeEnum = func() string {
	data, _ := json.Marshal(twitter.SupportedMediaTypes)
	return string(data)
}()

func (s *Server) tweetTools() []*tool {
	return []*tool{
		{
			name:        "postTweet",
			description: "Post a tweet to Twitter",
			schema: `{
				"type": "object",
				"properties": {
					"text": {"type": "string", "description": "The text of the tweet"}
				},
				"required": ["text"]
			}`,
			handler: s.handlePostTweet,
		},
		{
			name:        "postTweetWithMedia",
			description: "Post a tweet with media attachment to Twitter",
			schema: schemaf(`{
				"type": "object",
				"properties": {
					"text": {"type": "string", "description": "The text of the tweet"},
					"mediaPath": {"type": "string", "description": "Local file path to the media to upload"},
					"mediaType": {"type": "string", "enum": %s, "description": "MIME type of the media file"},
					"altText": {"type": "string", "description": "Alternative text for the media (accessibility)"}
				},
				"required": ["text", "mediaPath", "mediaType"]
			}`, mediaTypeEnum),
			handler: s.handlePostTweetWithMedia,
		},
		{
			name:        "getTweetById",
			description: "Get a tweet by its ID",
			schema: `{
				"type": "object",
				"properties": {
					"tweetId": {"type": "string", "description": "The ID of the tweet"},
					"tweetFields": {"type": "array", "items": {"type": "string"}, "description": "Tweet fields to include (default: created_at, public_metrics, text)"}
				},
				"required": ["tweetId"]
			}`,
			handler: s.handleGetTweetByID,
		},
		{
			name:        "getTweetsByIds",
			description: "Get multiple tweets by their IDs",
			schema: `{
				"type": "object",
				"properties": {
					"tweetIds": {"type": "array", "items": {"type": "string"}, "maxItems": 100, "description": "Array of tweet IDs to fetch"},
					"tweetFields": {
						"type": "array",
						"items": {"type": "string", "enum": ["created_at", "author_id", "conversation_id", "public_metrics", "entities", "context_annotations"]},
						"description": "Additional tweet fields to include in the response"
					}
				},
				"required": ["tweetIds"]
			}`,
			handler: s.handleGetTweetsByIDs,
		},
		{
			name:        "replyToTweet",
			description: "Reply to a tweet on Twitter",
			schema: `{
				"type": "object",
				"properties": {
					"tweetId": {"type": "string", "description": "The ID of the tweet to reply to"},
					"text": {"type": "string", "description": "The text of the reply"}
				},
				"required": ["tweetId", "text"]
			}`,
			handler: s.handleReplyToTweet,
		},
		{
			name:        "deleteTweet",
			description: "Delete a tweet owned by the authenticated user",
			schema: `{
				"type": "object",
				"properties": {
					"tweetId": {"type": "string", "description": "The ID of the tweet to delete"}
				},
				"required": ["tweetId"]
			}`,
			handler: s.handleDeleteTweet,
		},
		{
			name:        "getUserTimeline",
			title:       "Get User Timeline",
			description: "Get recent tweets from a user timeline",
			schema: `{
				"type": "object",
				"properties": {
					"username": {"type": "string", "description": "The username of the user"},
					"maxResults": {"type": "number", "minimum": 5, "maximum": 100, "description": "Number of tweets to return (default: 10)"},
					"tweetFields": {"type": "array", "items": {"type": "string"}, "description": "Tweet fields to include (default: created_at, public_metrics)"}
				},
				"required": ["username"]
			}`,
			handler: s.handleGetUserTimeline,
		},
	}
}

func (s *Server) handlePostTweet(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Text string `json:"text"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	tweet, err := s.twitter.CreateTweet(ctx, twitter.TweetRequest{Text: args.Text})
	if err != nil {
		return "", fmt.Errorf("Failed to post tweet: %w", err)
	}
	return "Successfully posted tweet: " + tweet.ID, nil
}

func (s *Server) handlePostTweetWithMedia(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Text      string `json:"text"`
		MediaPath string `json:"mediaPath"`
		MediaType string `json:"mediaType"`
		AltText   string `json:"altText"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	media, err := s.twitter.UploadMedia(ctx, args.MediaPath, args.MediaType)
	if err != nil {
		return "", fmt.Errorf("Failed to post tweet with media: %w", err)
	}
	if args.AltText != "" {
		if err := s.twitter.SetMediaAltText(ctx, media.MediaIDString, args.AltText); err != nil {
			return "", fmt.Errorf("Failed to post tweet with media: %w", err)
		}
	}

	tweet, err := s.twitter.CreateTweet(ctx, twitter.TweetRequest{
		Text:     args.Text,
		MediaIDs: []string{media.MediaIDString},
	})
	if err != nil {
		return "", fmt.Errorf("Failed to post tweet with media: %w", err)
	}
	return "Successfully posted tweet with media: " + tweet.ID, nil
}

func (s *Server) handleGetTweetByID(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		TweetID     string   `json:"tweetId"`
		TweetFields []string `json:"tweetFields"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	tweet, err := s.twitter.GetTweet(ctx, args.TweetID, twitter.Fields{
		Tweet: fieldsOr(args.TweetFields, "created_at,public_metrics,text"),
	})
	if err != nil {
		return "", fmt.Errorf("Failed to get tweet: %w", err)
	}
	return "Tweet details: " + indent(tweet), nil
}

func (s *Server) handleGetTweetsByIDs(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		TweetIDs    []string `json:"tweetIds"`
		TweetFields []string `json:"tweetFields"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	if len(args.TweetIDs) == 0 {
		return "", fmt.Errorf("Missing required argument: tweetIds")
	}

	page, err := s.twitter.GetTweets(ctx, args.TweetIDs, twitter.Fields{
		Tweet: fieldsOr(args.TweetFields, "created_at,public_metrics,text"),
	})
	if err != nil {
		return "", twitterError(err, "getting tweets")
	}
	if page.Len() == 0 {
		return "No tweets found for ids: " + strings.Join(args.TweetIDs, ", "), nil
	}
	return "Tweets: " + indent(page.Data), nil
}

func (s *Server) handleReplyToTweet(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		TweetID string `json:"tweetId"`
		Text    string `json:"text"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	tweet, err := s.twitter.CreateTweet(ctx, twitter.TweetRequest{Text: args.Text, ReplyTo: args.TweetID})
	if err != nil {
		return "", fmt.Errorf("Failed to reply to tweet: %w", err)
	}
	return "Successfully replied to tweet: " + tweet.ID, nil
}

func (s *Server) handleDeleteTweet(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		TweetID string `json:"tweetId"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	if err := s.twitter.DeleteTweet(ctx, args.TweetID); err != nil {
		return "", fmt.Errorf("Failed to delete tweet: %w", err)
	}
	return "Successfully deleted tweet: " + args.TweetID, nil
}

func (s *Server) handleGetUserTimeline(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Username    string   `json:"username"`
		MaxResults  count    `json:"maxResults"`
		TweetFields []string `json:"tweetFields"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	user, err := s.twitter.UserByUsername(ctx, args.Username, twitter.Fields{})
	if err != nil {
		return "", twitterError(userLookupError(err, args.Username), "getting user timeline")
	}

	limit := min(max(intOr(args.MaxResults, 10), 5), 100)
	page, err := s.twitter.UserTweets(ctx, user.ID, twitter.PageOptions{
		Fields:     twitter.Fields{Tweet: fieldsOr(args.TweetFields, "created_at,public_metrics")},
		MaxResults: limit,
	})
	if err != nil {
		return "", twitterError(err, "getting user timeline")
	}
	if page.Len() == 0 {
		return "No tweets found in timeline for user: " + args.Username, nil
	}

	return fmt.Sprintf("Timeline for @%s: %s", args.Username, indent(map[string]any{
		"tweets": page.Data,
		"meta":   page.Meta,
	})), nil
}
