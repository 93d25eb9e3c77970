// ABOUTME: MCP tools for X recent search and hashtag analytics.
// ABOUTME: Search results carry their author merged in from includes.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/2389-research/twitter-mcp/internal/models"
	"github.com/2389-research/twitter-mcp/internal/twitter"
)

func (s *Server) searchTools() []*tool {
	return []*tool{
		{
			name:        "searchTweets",
			description: "Search for tweets on Twitter with advanced options",
			schema: `{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "The query to search for"},
					"maxResults": {"type": "number", "minimum": 10, "maximum": 100, "description": "The maximum number of results to return (default: 10)"},
					"since": {"type": "string", "description": "Start time for search (ISO 8601 format)"},
					"until": {"type": "string", "description": "End time for search (ISO 8601 format)"},
					"tweetFields": {
						"type": "array",
						"items": {"type": "string", "enum": ["created_at", "author_id", "conversation_id", "public_metrics", "entities", "context_annotations"]},
						"description": "Additional tweet fields to include in the response"
					}
				},
				"required": ["query"]
			}`,
			handler: s.handleSearchTweets,
		},
		{
			name:        "getHashtagAnalytics",
			title:       "hashtagAnalytics",
			description: "Get analytics for a hashtag using Twitter search",
			schema: `{
				"type": "object",
				"properties": {
					"hashtag": {"type": "string", "description": "The hashtag to analyze (without #)"},
					"startTime": {"type": "string", "description": "Start time in ISO 8601 format"},
					"endTime": {"type": "string", "description": "End time in ISO 8601 format"},
					"maxResults": {"type": "number", "minimum": 10, "maximum": 100, "description": "The maximum number of tweets to analyze (default: 100, max: 100)"}
				},
				"required": ["hashtag"]
			}`,
			handler: s.handleHashtagAnalytics,
		},
	}
}

var errSearchTier = errors.New("Search functionality requires Pro tier access ($5,000/month) or higher. " +
	"Current Basic tier ($200/month) does not include recent search API access. " +
	"Consider upgrading at https://developer.x.com/en/portal/products/pro or use alternative data sources.")

func (s *Server) handleSearchTweets(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Query       string   `json:"query"`
		MaxResults  count    `json:"maxResults"`
		Since       string   `json:"since"`
		Until       string   `json:"until"`
		TweetFields []string `json:"tweetFields"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	page, err := s.twitter.SearchRecent(ctx, twitter.SearchOptions{
		Fields: twitter.Fields{
			Tweet:      fieldsOr(args.TweetFields, "created_at,public_metrics"),
			User:       []string{"username"},
			Expansions: []string{"author_id"},
		},
		Query:      args.Query,
		MaxResults: intOr(args.MaxResults, 10),
		StartTime:  args.Since,
		EndTime:    args.Until,
	})
	if err != nil {
		if twitter.IsInvalidRequest(err) {
			return "", errSearchTier
		}
		return "", twitterError(err, "searching tweets")
	}
	if page.Len() == 0 {
		return "No tweets found for query: " + args.Query, nil
	}

	return "Search results: " + indent(withAuthors(page)), nil
}

// withAuthors attaches each tweet's author from the page's included users.
func withAuthors(page *models.Page[models.Tweet]) []models.Tweet {
	users := make(map[string]*models.User)
	if page.Includes != nil {
		for i := range page.Includes.Users {
			users[page.Includes.Users[i].ID] = &page.Includes.Users[i]
		}
	}

	tweets := make([]models.Tweet, len(page.Data))
	for i, t := range page.Data {
		if author, ok := users[t.AuthorID]; ok {
			t.Author = author
		}
		tweets[i] = t
	}
	return tweets
}

var errHashtagTier = errors.New("Hashtag analytics requires Pro tier access ($5,000/month) or higher for search functionality. " +
	"Current Basic tier ($200/month) does not include recent search API access. " +
	"Consider upgrading at https://developer.x.com/en/portal/products/pro or use alternative analytics sources.")

func (s *Server) handleHashtagAnalytics(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Hashtag    string `json:"hashtag"`
		StartTime  string `json:"startTime"`
		EndTime    string `json:"endTime"`
		MaxResults count  `json:"maxResults"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	clean := strings.TrimPrefix(args.Hashtag, "#")
	page, err := s.twitter.SearchRecent(ctx, twitter.SearchOptions{
		Fields:     twitter.Fields{Tweet: []string{"public_metrics", "created_at"}},
		Query:      "#" + clean,
		MaxResults: intOr(args.MaxResults, 100),
		StartTime:  args.StartTime,
		EndTime:    args.EndTime,
	})
	if err != nil {
		if twitter.IsInvalidRequest(err) {
			return "", errHashtagTier
		}
		return "", twitterError(err, "getting hashtag analytics")
	}
	if page.Len() == 0 {
		return "No tweets found for hashtag: " + args.Hashtag, nil
	}

	type hashtagStats struct {
		Hashtag       string `json:"hashtag"`
		TotalTweets   int    `json:"totalTweets"`
		TotalLikes    int    `json:"totalLikes"`
		TotalRetweets int    `json:"totalRetweets"`
		TotalReplies  int    `json:"totalReplies"`
	}
	stats := hashtagStats{Hashtag: "#" + clean, TotalTweets: page.Len()}
	for _, t := range page.Data {
		if t.PublicMetrics == nil {
			continue
		}
		stats.TotalLikes += t.PublicMetrics.LikeCount
		stats.TotalRetweets += t.PublicMetrics.RetweetCount
		stats.TotalReplies += t.PublicMetrics.ReplyCount
	}

	return formatAnalytics(stats, "Hashtag Analytics for "+args.Hashtag), nil
}
