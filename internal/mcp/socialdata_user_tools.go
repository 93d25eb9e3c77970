// ABOUTME: MCP tools for SocialData.tools user research: bulk profiles, growth and influence.
// ABOUTME: Metrics are computed from the profile snapshot and a sample of recent tweets.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/2389-research/twitter-mcp/internal/models"
	"github.com/2389-research/twitter-mcp/internal/socialdata"
)

func (s *Server) socialUserTools() []*tool {
	return []*tool{
		{
			name:        "bulkUserProfiles",
			title:       "Bulk User Profiles",
			backend:     backendSocialData,
			description: "Get multiple user profiles in a single request for comparative analysis",
			schema: `{
				"type": "object",
				"properties": {
					"usernames": {"type": "array", "items": {"type": "string"}, "maxItems": 20, "description": "Array of usernames to analyze (e.g., [\"elonmusk\", \"sundarpichai\"])"},
					"userIds": {"type": "array", "items": {"type": "string"}, "maxItems": 20, "description": "Array of user IDs to analyze"},
					"includeMetrics": {"type": "boolean", "description": "Include detailed metrics and analytics (default: true)"}
				}
			}`,
			handler: s.handleBulkUserProfiles,
		},
		{
			name:        "userGrowthAnalytics",
			title:       "User Growth Analytics",
			backend:     backendSocialData,
			description: "Analyze user growth patterns and engagement trends over time",
			schema: `{
				"type": "object",
				"properties": {
					"username": {"type": "string", "description": "Username to analyze growth patterns for"},
					"timeframe": {"type": "string", "enum": ["daily", "weekly", "monthly"], "description": "Analysis timeframe (default: \"weekly\")"},
					"period": {"type": "number", "minimum": 1, "maximum": 12, "description": "Number of periods to analyze (default: 4)"}
				},
				"required": ["username"]
			}`,
			handler: s.handleUserGrowthAnalytics,
		},
		{
			name:        "userInfluenceMetrics",
			title:       "User Influence Metrics",
			backend:     backendSocialData,
			description: "Calculate user influence scores and engagement metrics",
			schema: `{
				"type": "object",
				"properties": {
					"username": {"type": "string", "description": "Username to analyze influence metrics for"},
					"analyzeEngagement": {"type": "boolean", "description": "Include engagement analysis (default: true)"},
					"analyzeReach": {"type": "boolean", "description": "Include reach and influence scoring (default: true)"}
				},
				"required": ["username"]
			}`,
			handler: s.handleUserInfluenceMetrics,
		},
	}
}

func (s *Server) handleBulkUserProfiles(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Usernames      []string `json:"usernames"`
		UserIDs        []string `json:"userIds"`
		IncludeMetrics *bool    `json:"includeMetrics"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	includeMetrics := boolOr(args.IncludeMetrics, true)

	lookups := make([]socialdata.UserLookup, 0, len(args.Usernames)+len(args.UserIDs))
	for _, name := range args.Usernames {
		lookups = append(lookups, socialdata.UserLookup{Username: name, IncludeMetrics: includeMetrics})
	}
	for _, id := range args.UserIDs {
		lookups = append(lookups, socialdata.UserLookup{UserID: id, IncludeMetrics: includeMetrics})
	}

	var profiles []models.SocialUser
	for _, lookup := range lookups {
		profile, err := s.social.UserProfile(ctx, lookup)
		if err != nil {
			slog.Warn("failed to get profile",
				slog.String("username", lookup.Username),
				slog.String("user_id", lookup.UserID),
				slog.Any("error", err),
			)
			continue
		}
		profiles = append(profiles, *profile)
	}

	if len(profiles) == 0 {
		return "No user profiles retrieved", nil
	}
	return formatUserList(profiles, fmt.Sprintf("Bulk User Profiles (%d users)", len(profiles))), nil
}

func (s *Server) handleUserGrowthAnalytics(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Username  string `json:"username"`
		Timeframe string `json:"timeframe"`
		Period    count  `json:"period"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	profile, err := s.social.UserProfile(ctx, socialdata.UserLookup{Username: args.Username, IncludeMetrics: true})
	if err != nil {
		return "", socialDataError(err, "user growth analytics")
	}
	tweets, err := s.social.UserTweets(ctx, socialdata.UserLookup{Username: args.Username}, 50)
	if err != nil {
		return "", socialDataError(err, "user growth analytics")
	}

	avgEngagement := 0.0
	if tweets.Len() > 0 {
		total := 0
		for _, t := range tweets.Data {
			total += t.Likes() + t.Retweets()
		}
		avgEngagement = float64(total) / float64(tweets.Len())
	}

	analytics := map[string]any{
		"user": map[string]any{
			"username":          profile.Handle(),
			"current_followers": profile.Followers(),
			"current_following": profile.Following(),
			"total_tweets":      profile.Statuses(),
		},
		"timeframe": stringOr(args.Timeframe, "weekly"),
		"period":    intOr(args.Period, 4),
		"recent_activity": map[string]any{
			"recent_tweets_count": tweets.Len(),
			"avg_engagement":      avgEngagement,
		},
		"note": "Growth analytics based on current snapshot and recent activity patterns",
	}

	return formatAnalytics(analytics, "User Growth Analytics for @"+args.Username), nil
}

func (s *Server) handleUserInfluenceMetrics(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Username          string `json:"username"`
		AnalyzeEngagement *bool  `json:"analyzeEngagement"`
		AnalyzeReach      *bool  `json:"analyzeReach"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	var (
		profile *models.SocialUser
		tweets  *models.Page[models.SocialTweet]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.social.UserProfile(gctx, socialdata.UserLookup{Username: args.Username, IncludeMetrics: true})
		return err
	})
	g.Go(func() error {
		var err error
		tweets, err = s.social.UserTweets(gctx, socialdata.UserLookup{Username: args.Username}, 20)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", socialDataError(err, "user influence metrics")
	}

	followers := profile.Followers()
	metrics := map[string]any{
		"user": map[string]any{
			"username":  profile.Handle(),
			"followers": followers,
			"following": profile.Following(),
			"verified":  profile.Verified,
		},
	}

	if n := tweets.Len(); boolOr(args.AnalyzeEngagement, true) && n > 0 {
		var likes, retweets, replies int
		for _, t := range tweets.Data {
			likes += t.Likes()
			retweets += t.Retweets()
			replies += t.Replies()
		}
		rate := 0.0
		if followers > 0 {
			rate = float64(roundInt(float64(likes+retweets+replies)/float64(n)/float64(followers)*10000)) / 100
		}
		metrics["engagement"] = map[string]any{
			"avg_likes_per_tweet":    roundInt(float64(likes) / float64(n)),
			"avg_retweets_per_tweet": roundInt(float64(retweets) / float64(n)),
			"avg_replies_per_tweet":  roundInt(float64(replies) / float64(n)),
			"engagement_rate":        rate,
		}
	}

	if boolOr(args.AnalyzeReach, true) {
		base := followers
		if base == 0 {
			base = 1
		}
		metrics["reach"] = map[string]any{
			"follower_base":             followers,
			"potential_reach":           followers,
			"estimated_influence_score": math.Min(100, math.Log10(float64(base)+1)*20),
		}
	}

	return formatAnalytics(metrics, "Influence Metrics for @"+args.Username), nil
}

// roundInt rounds half up, matching the usual rounding of engagement averages.
func roundInt(x float64) int {
	return int(math.Floor(x + 0.5))
}
