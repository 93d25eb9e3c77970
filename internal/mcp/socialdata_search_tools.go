// ABOUTME: MCP tools for SocialData.tools search: advanced, historical and trending.
// ABOUTME: Search operators are appended to the query before it is sent upstream.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2389-research/twitter-mcp/internal/socialdata"
)

func (s *Server) socialSearchTools() []*tool {
	return []*tool{
		{
			name:        "advancedTweetSearch",
			title:       "Advanced Tweet Search",
			backend:     backendSocialData,
			description: "Advanced tweet search with operators and filters, bypassing API tier restrictions",
			schema: `{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Search query with advanced operators (e.g., \"AI OR ML -crypto lang:en\")"},
					"maxResults": {"type": "number", "minimum": 1, "maximum": 100, "description": "Maximum number of results to return (default: 10, max: 100)"},
					"startTime": {"type": "string", "description": "Start time for search in ISO 8601 format (e.g., \"2024-01-01T00:00:00Z\")"},
					"endTime": {"type": "string", "description": "End time for search in ISO 8601 format"},
					"includeRetweets": {"type": "boolean", "description": "Whether to include retweets in results (default: true)"},
					"language": {"type": "string", "description": "Language code to filter tweets (e.g., \"en\", \"es\", \"fr\")"}
				},
				"required": ["query"]
			}`,
			handler: s.handleAdvancedTweetSearch,
		},
		{
			name:        "historicalTweetSearch",
			title:       "Historical Tweet Search",
			backend:     backendSocialData,
			description: "Search historical tweets beyond standard API limitations",
			schema: `{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Search query string"},
					"dateRange": {
						"type": "object",
						"properties": {
							"start": {"type": "string", "description": "Start date in ISO 8601 format"},
							"end": {"type": "string", "description": "End date in ISO 8601 format"}
						},
						"required": ["start", "end"],
						"description": "Date range for historical search"
					},
					"maxResults": {"type": "number", "minimum": 1, "maximum": 200, "description": "Maximum number of results (default: 50, max: 200)"}
				},
				"required": ["query", "dateRange"]
			}`,
			handler: s.handleHistoricalTweetSearch,
		},
		{
			name:        "trendingTopicsSearch",
			title:       "Trending Topics Search",
			backend:     backendSocialData,
			description: "Get trending topics and popular content for analysis",
			schema: `{
				"type": "object",
				"properties": {
					"location": {"type": "string", "description": "Location for trending topics (default: \"worldwide\")"},
					"timeframe": {"type": "string", "enum": ["hourly", "daily", "weekly"], "description": "Timeframe for trending analysis (default: \"hourly\")"},
					"count": {"type": "number", "minimum": 1, "maximum": 50, "description": "Number of trending topics to return (default: 10, max: 50)"}
				}
			}`,
			handler: s.handleTrendingTopicsSearch,
		},
	}
}

func (s *Server) handleAdvancedTweetSearch(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Query           string `json:"query"`
		MaxResults      count  `json:"maxResults"`
		StartTime       string `json:"startTime"`
		EndTime         string `json:"endTime"`
		IncludeRetweets *bool  `json:"includeRetweets"`
		Language        string `json:"language"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	query := args.Query
	if !boolOr(args.IncludeRetweets, true) {
		query += " -is:retweet"
	}
	if args.Language != "" {
		query += " lang:" + args.Language
	}

	page, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{
		Query:      query,
		MaxResults: intOr(args.MaxResults, 10),
		StartTime:  args.StartTime,
		EndTime:    args.EndTime,
	})
	if err != nil {
		return "", socialDataError(err, "advanced tweet search")
	}
	if page.Len() == 0 {
		return "No tweets found for advanced search: " + args.Query, nil
	}

	return formatTweetList(page.Data, fmt.Sprintf("Advanced Search Results for %q (%d tweets)", args.Query, page.Len())), nil
}

func (s *Server) handleHistoricalTweetSearch(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Query     string `json:"query"`
		DateRange struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"dateRange"`
		MaxResults count `json:"maxResults"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	if args.DateRange.Start == "" || args.DateRange.End == "" {
		return "", fmt.Errorf("Missing required argument: dateRange.start and dateRange.end")
	}

	page, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{
		Query:      args.Query,
		MaxResults: intOr(args.MaxResults, 50),
		StartTime:  args.DateRange.Start,
		EndTime:    args.DateRange.End,
	})
	if err != nil {
		return "", socialDataError(err, "historical tweet search")
	}
	if page.Len() == 0 {
		return fmt.Sprintf("No historical tweets found for %q between %s and %s",
			args.Query, args.DateRange.Start, args.DateRange.End), nil
	}

	return formatTweetList(page.Data, fmt.Sprintf("Historical Search Results for %q (%s to %s)",
		args.Query, args.DateRange.Start, args.DateRange.End)), nil
}

var trendWindows = map[string]time.Duration{
	"hourly": time.Hour,
	"daily":  24 * time.Hour,
	"weekly": 7 * 24 * time.Hour,
}

func (s *Server) handleTrendingTopicsSearch(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Location  string `json:"location"`
		Timeframe string `json:"timeframe"`
		Count     count  `json:"count"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	location := stringOr(args.Location, "worldwide")
	timeframe := stringOr(args.Timeframe, "hourly")
	window, ok := trendWindows[timeframe]
	if !ok {
		window = trendWindows["weekly"]
	}

	end := now().UTC()
	page, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{
		Query:      "filter:popular -filter:replies",
		MaxResults: intOr(args.Count, 10),
		StartTime:  end.Add(-window).Format(isoMillis),
		EndTime:    end.Format(isoMillis),
	})
	if err != nil {
		return "", socialDataError(err, "trending topics search")
	}
	if page.Len() == 0 {
		return fmt.Sprintf("No trending topics found for %s (%s)", location, timeframe), nil
	}

	return formatTweetList(page.Data, fmt.Sprintf("Trending Topics - %s (%s)", location, timeframe)), nil
}
