// ABOUTME: MCP tools for thread reconstruction, conversation trees and thread metrics.
// ABOUTME: Threads are found through SocialData conversation_id searches.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/2389-research/twitter-mcp/internal/models"
	"github.com/2389-research/twitter-mcp/internal/socialdata"
)

func (s *Server) threadTools() []*tool {
	return []*tool{
		{
			name:        "getFullThread",
			title:       "Full Thread Analysis",
			backend:     backendSocialData,
			description: "Reconstruct a complete tweet thread in chronological order",
			schema: `{
				"type": "object",
				"properties": {
					"tweetId": {"type": "string", "description": "The ID of any tweet in the thread"},
					"includeMetrics": {"type": "boolean", "description": "Include engagement metrics for each tweet (default: true)"}
				},
				"required": ["tweetId"]
			}`,
			handler: s.handleGetFullThread,
		},
		{
			name:        "getConversationTree",
			title:       "Conversation Tree Analysis",
			backend:     backendSocialData,
			description: "Map the replies and quote tweets around a tweet",
			schema: `{
				"type": "object",
				"properties": {
					"tweetId": {"type": "string", "description": "The ID of the root tweet"},
					"maxDepth": {"type": "number", "minimum": 1, "maximum": 10, "description": "Maximum reply depth to analyze (default: 3)"},
					"includeQuotes": {"type": "boolean", "description": "Include quote tweets (default: true)"}
				},
				"required": ["tweetId"]
			}`,
			handler: s.handleGetConversationTree,
		},
		{
			name:        "getThreadMetrics",
			title:       "Thread Metrics",
			backend:     backendSocialData,
			description: "Analyze engagement across the tweets of a thread",
			schema: `{
				"type": "object",
				"properties": {
					"tweetId": {"type": "string", "description": "The ID of the thread's root tweet"},
					"analyzeEngagement": {"type": "boolean", "description": "Include engagement distribution (default: true)"},
					"timeframe": {"type": "string", "description": "Timeframe label for the analysis (default: \"24h\")"}
				},
				"required": ["tweetId"]
			}`,
			handler: s.handleGetThreadMetrics,
		},
	}
}

type threadTweet struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Author    string        `json:"author,omitempty"`
	CreatedAt string        `json:"created_at,omitempty"`
	Metrics   *tweetMetrics `json:"metrics,omitempty"`
}

type timeSpan struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// byCreation sorts tweets oldest first. Tweets without a timestamp keep their place.
func byCreation(tweets []models.SocialTweet) {
	sort.SliceStable(tweets, func(i, j int) bool {
		a, okA := tweets[i].Created()
		b, okB := tweets[j].Created()
		return okA && okB && a.Before(b)
	})
}

func (s *Server) handleGetFullThread(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		TweetID        string `json:"tweetId"`
		IncludeMetrics *bool  `json:"includeMetrics"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	page, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{
		Query:      "conversation_id:" + args.TweetID,
		MaxResults: 100,
	})
	if err != nil {
		return "", socialDataError(err, "full thread analysis")
	}

	if page.Len() == 0 {
		replies, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{
			Query:      "to:* in_reply_to_status_id:" + args.TweetID,
			MaxResults: 50,
		})
		if err != nil {
			return "", socialDataError(err, "full thread analysis")
		}
		var data []models.SocialTweet
		if replies != nil {
			data = replies.Data
		}
		return formatTweetList(data, "Thread replies for tweet "+args.TweetID), nil
	}

	thread := append([]models.SocialTweet(nil), page.Data...)
	byCreation(thread)

	includeMetrics := boolOr(args.IncludeMetrics, true)
	tweets := make([]threadTweet, 0, len(thread))
	for _, t := range thread {
		tt := threadTweet{
			ID:        t.IDStr,
			Text:      t.Body(),
			Author:    t.AuthorHandle(),
			CreatedAt: t.TweetCreatedAt,
		}
		if includeMetrics {
			tt.Metrics = &tweetMetrics{Likes: t.Likes(), Retweets: t.Retweets(), Replies: t.Replies()}
		}
		tweets = append(tweets, tt)
	}

	var duration *timeSpan
	if len(thread) > 1 {
		duration = &timeSpan{Start: thread[0].TweetCreatedAt, End: thread[len(thread)-1].TweetCreatedAt}
	}

	analysis := map[string]any{
		"thread_id":       args.TweetID,
		"total_tweets":    len(thread),
		"thread_duration": duration,
		"tweets":          tweets,
	}
	return formatAnalytics(analysis, "Full Thread Analysis for "+args.TweetID), nil
}

func (s *Server) handleGetConversationTree(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		TweetID       string `json:"tweetId"`
		MaxDepth      count  `json:"maxDepth"`
		IncludeQuotes *bool  `json:"includeQuotes"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	replies, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{
		Query:      "to:* " + args.TweetID,
		MaxResults: 50,
	})
	if err != nil {
		return "", socialDataError(err, "conversation tree analysis")
	}

	var quotes []models.SocialTweet
	if boolOr(args.IncludeQuotes, true) {
		page, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{
			Query:      fmt.Sprintf("url:%s OR %s", args.TweetID, args.TweetID),
			MaxResults: 25,
		})
		if err != nil {
			return "", socialDataError(err, "conversation tree analysis")
		}
		if page != nil {
			quotes = page.Data
		}
	}

	type replyMetrics struct {
		Likes    int `json:"likes"`
		Retweets int `json:"retweets"`
	}
	type treeTweet struct {
		ID        string        `json:"id"`
		Text      string        `json:"text"`
		Author    string        `json:"author,omitempty"`
		CreatedAt string        `json:"created_at,omitempty"`
		Metrics   *replyMetrics `json:"metrics,omitempty"`
	}

	replyTweets := []treeTweet{}
	var replyData []models.SocialTweet
	if replies != nil {
		replyData = replies.Data
	}
	for _, t := range replyData {
		replyTweets = append(replyTweets, treeTweet{
			ID:        t.IDStr,
			Text:      truncate(t.Body(), 280),
			Author:    t.AuthorHandle(),
			CreatedAt: t.TweetCreatedAt,
			Metrics:   &replyMetrics{Likes: t.Likes(), Retweets: t.Retweets()},
		})
	}
	quoteTweets := []treeTweet{}
	for _, t := range quotes {
		quoteTweets = append(quoteTweets, treeTweet{
			ID:        t.IDStr,
			Text:      truncate(t.Body(), 280),
			Author:    t.AuthorHandle(),
			CreatedAt: t.TweetCreatedAt,
		})
	}

	tree := map[string]any{
		"root_tweet_id":      args.TweetID,
		"max_depth_analyzed": intOr(args.MaxDepth, 3),
		"direct_replies": map[string]any{
			"count":  len(replyTweets),
			"tweets": replyTweets,
		},
		"quote_tweets": map[string]any{
			"count":  len(quoteTweets),
			"tweets": quoteTweets,
		},
		"engagement_summary": map[string]any{
			"total_interactions": len(replyTweets) + len(quoteTweets),
			"reply_rate":         len(replyTweets),
			"quote_rate":         len(quoteTweets),
		},
	}
	return formatAnalytics(tree, "Conversation Tree for "+args.TweetID), nil
}

type engagementPoint struct {
	Position        int `json:"position"`
	Likes           int `json:"likes"`
	Retweets        int `json:"retweets"`
	EngagementScore int `json:"engagement_score"`
}

func (s *Server) handleGetThreadMetrics(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		TweetID           string `json:"tweetId"`
		AnalyzeEngagement *bool  `json:"analyzeEngagement"`
		Timeframe         string `json:"timeframe"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	page, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{
		Query:      "conversation_id:" + args.TweetID,
		MaxResults: 100,
	})
	if err != nil {
		return "", socialDataError(err, "thread metrics analysis")
	}
	if page.Len() == 0 {
		return "No thread data found for tweet " + args.TweetID, nil
	}

	tweets := page.Data
	metrics := map[string]any{
		"thread_id":          args.TweetID,
		"thread_length":      len(tweets),
		"timeframe_analyzed": stringOr(args.Timeframe, "24h"),
	}

	if boolOr(args.AnalyzeEngagement, true) {
		var likes, retweets, replies int
		distribution := make([]engagementPoint, 0, len(tweets))
		for i, t := range tweets {
			likes += t.Likes()
			retweets += t.Retweets()
			replies += t.Replies()
			distribution = append(distribution, engagementPoint{
				Position:        i + 1,
				Likes:           t.Likes(),
				Retweets:        t.Retweets(),
				EngagementScore: t.Likes() + 2*t.Retweets(),
			})
		}
		sort.SliceStable(distribution, func(i, j int) bool {
			return distribution[i].EngagementScore > distribution[j].EngagementScore
		})

		n := float64(len(tweets))
		metrics["engagement_metrics"] = map[string]any{
			"total_likes":             likes,
			"total_retweets":          retweets,
			"total_replies":           replies,
			"avg_likes_per_tweet":     roundInt(float64(likes) / n),
			"avg_retweets_per_tweet":  roundInt(float64(retweets) / n),
			"engagement_distribution": distribution,
		}

		top := distribution[0]
		boost := 100
		if len(tweets) > 1 {
			boost = 0
			if total := likes + 2*retweets; total > 0 {
				boost = roundInt(float64(top.EngagementScore) / float64(total) * 100)
			}
		}
		metrics["top_performing_tweet"] = map[string]any{
			"position":          top.Position,
			"engagement_score":  top.EngagementScore,
			"performance_boost": boost,
		}
	}

	return formatAnalytics(metrics, "Thread Performance Metrics for "+args.TweetID), nil
}
