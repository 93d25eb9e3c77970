// ABOUTME: MCP tools for hashtag trends, keyword sentiment and virality tracking.
// ABOUTME: All analysis runs locally over a sample of SocialData search results.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/2389-research/twitter-mcp/internal/models"
	"github.com/2389-research/twitter-mcp/internal/socialdata"
)

func (s *Server) analyticsTools() []*tool {
	return []*tool{
		{
			name:        "getHashtagTrends",
			title:       "Hashtag Trends",
			backend:     backendSocialData,
			description: "Analyze hashtag volume and engagement over time",
			schema: `{
				"type": "object",
				"properties": {
					"hashtag": {"type": "string", "description": "The hashtag to analyze (with or without #)"},
					"timeframe": {"type": "string", "enum": ["hourly", "daily", "weekly"], "description": "Grouping period (default: \"daily\")"},
					"period": {"type": "number", "minimum": 1, "maximum": 30, "description": "Number of periods to analyze (default: 7)"}
				},
				"required": ["hashtag"]
			}`,
			handler: s.handleGetHashtagTrends,
		},
		{
			name:        "analyzeSentiment",
			title:       "Sentiment Analysis",
			backend:     backendSocialData,
			description: "Keyword-based sentiment analysis of tweets matching a query",
			schema: `{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Search query for the tweets to analyze"},
					"sampleSize": {"type": "number", "minimum": 10, "maximum": 200, "description": "Number of tweets to analyze (default: 50)"},
					"includeKeywords": {"type": "boolean", "description": "Include keyword frequency analysis (default: true)"}
				},
				"required": ["query"]
			}`,
			handler: s.handleAnalyzeSentiment,
		},
		{
			name:        "trackVirality",
			title:       "Virality Tracking",
			backend:     backendSocialData,
			description: "Track how a tweet spreads through shares and discussions",
			schema: `{
				"type": "object",
				"properties": {
					"tweetId": {"type": "string", "description": "The ID of the tweet to track"},
					"trackingPeriod": {"type": "string", "description": "Tracking period label (default: \"24h\")"},
					"analyzeSpread": {"type": "boolean", "description": "Include spread velocity analysis (default: true)"}
				},
				"required": ["tweetId"]
			}`,
			handler: s.handleTrackVirality,
		},
	}
}

func engagementOf(t models.SocialTweet) int {
	return t.Likes() + t.Retweets()
}

// byEngagement sorts tweets by likes plus retweets, highest first.
func byEngagement(tweets []models.SocialTweet) {
	sort.SliceStable(tweets, func(i, j int) bool { return engagementOf(tweets[i]) > engagementOf(tweets[j]) })
}

// periodKey buckets a timestamp by hour, day or week. Weeks start on Sunday.
func periodKey(ts time.Time, timeframe string) string {
	switch timeframe {
	case "hourly":
		return ts.Format("2006-01-02T15")
	case "daily":
		return ts.Format("2006-01-02")
	default:
		return ts.AddDate(0, 0, -int(ts.Weekday())).Format("2006-01-02")
	}
}

type trendPoint struct {
	Period          string              `json:"period"`
	TweetCount      int                 `json:"tweet_count"`
	TotalEngagement int                 `json:"total_engagement"`
	AvgEngagement   int                 `json:"avg_engagement"`
	TopTweet        *models.SocialTweet `json:"top_tweet"`
}

func (s *Server) handleGetHashtagTrends(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Hashtag   string `json:"hashtag"`
		Timeframe string `json:"timeframe"`
		Period    count  `json:"period"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	clean := strings.TrimPrefix(args.Hashtag, "#")
	timeframe := stringOr(args.Timeframe, "daily")

	page, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{Query: "#" + clean, MaxResults: 100})
	if err != nil {
		return "", socialDataError(err, "hashtag trends analysis")
	}
	if page.Len() == 0 {
		return "No recent data found for hashtag #" + clean, nil
	}
	tweets := append([]models.SocialTweet(nil), page.Data...)

	groups := make(map[string][]models.SocialTweet)
	for _, t := range tweets {
		ts, ok := t.Created()
		if !ok {
			continue
		}
		key := periodKey(ts, timeframe)
		groups[key] = append(groups[key], t)
	}

	trend := make([]trendPoint, 0, len(groups))
	for key, group := range groups {
		total := 0
		for _, t := range group {
			total += engagementOf(t)
		}
		byEngagement(group)
		top := group[0]
		trend = append(trend, trendPoint{
			Period:          key,
			TweetCount:      len(group),
			TotalEngagement: total,
			AvgEngagement:   roundInt(float64(total) / float64(len(group))),
			TopTweet:        &top,
		})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Period < trend[j].Period })

	var peak *trendPoint
	for i := range trend {
		if peak == nil || trend[i].TweetCount > peak.TweetCount {
			peak = &trend[i]
		}
	}
	direction, engagementTrend := "Stable", "Stable"
	if len(trend) > 1 {
		first, last := trend[0], trend[len(trend)-1]
		direction = "Declining"
		if last.TweetCount > first.TweetCount {
			direction = "Rising"
		}
		engagementTrend = "Decreasing"
		if last.AvgEngagement > first.AvgEngagement {
			engagementTrend = "Increasing"
		}
	}

	byEngagement(tweets)
	length := 0
	for _, t := range tweets {
		length += utf8.RuneCountInString(t.Body())
	}

	trends := map[string]any{
		"hashtag":         "#" + clean,
		"timeframe":       timeframe,
		"period_analyzed": intOr(args.Period, 7),
		"total_tweets":    len(tweets),
		"trend_data":      trend,
		"trend_analysis": map[string]any{
			"peak_period":        peak,
			"trending_direction": direction,
			"engagement_trend":   engagementTrend,
		},
		"content_insights": map[string]any{
			"most_engaging_tweet": map[string]any{
				"text":       truncate(tweets[0].Body(), 200),
				"engagement": engagementOf(tweets[0]),
			},
			"avg_tweet_length": roundInt(float64(length) / float64(len(tweets))),
		},
	}
	return formatAnalytics(trends, "Hashtag Trends Analysis: #"+clean), nil
}

var (
	positiveKeywords = []string{"good", "great", "awesome", "love", "amazing", "excellent", "perfect", "happy", "wonderful", "❤️", "😊", "👍", "🎉"}
	negativeKeywords = []string{"bad", "terrible", "awful", "hate", "horrible", "worst", "disgusting", "angry", "sad", "😡", "😢", "👎", "💔"}

	wordPattern = regexp.MustCompile(`\b\w+\b`)
)

func countKeywords(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

func matchedKeywords(text string, keywords []string) []string {
	out := []string{}
	for _, k := range keywords {
		if strings.Contains(text, k) {
			out = append(out, k)
		}
	}
	return out
}

type scoredTweet struct {
	TweetID    string `json:"tweet_id"`
	Text       string `json:"text"`
	Sentiment  string `json:"sentiment"`
	Confidence string `json:"confidence"`
	Engagement int    `json:"engagement"`
}

type keywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// topKeywords returns the ten most frequent words longer than three characters.
// Ties keep first-seen order.
func topKeywords(text string) []keywordCount {
	counts := make(map[string]int)
	var order []string
	for _, w := range wordPattern.FindAllString(text, -1) {
		if len(w) <= 3 {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	out := make([]keywordCount, 0, 10)
	for _, w := range order[:min(10, len(order))] {
		out = append(out, keywordCount{Word: w, Count: counts[w]})
	}
	return out
}

func mostEngaging(tweets []scoredTweet, sentiment string) *scoredTweet {
	var best *scoredTweet
	for i := range tweets {
		if tweets[i].Sentiment != sentiment {
			continue
		}
		if best == nil || tweets[i].Engagement > best.Engagement {
			best = &tweets[i]
		}
	}
	return best
}

func (s *Server) handleAnalyzeSentiment(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Query           string `json:"query"`
		SampleSize      count  `json:"sampleSize"`
		IncludeKeywords *bool  `json:"includeKeywords"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	page, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{Query: args.Query, MaxResults: intOr(args.SampleSize, 50)})
	if err != nil {
		return "", socialDataError(err, "sentiment analysis")
	}
	if page.Len() == 0 {
		return "No tweets found for sentiment analysis: " + args.Query, nil
	}
	tweets := page.Data

	var positive, negative, neutral int
	scored := make([]scoredTweet, 0, len(tweets))
	texts := make([]string, 0, len(tweets))
	for _, t := range tweets {
		text := strings.ToLower(t.Body())
		texts = append(texts, t.Body())
		pos, neg := countKeywords(text, positiveKeywords), countKeywords(text, negativeKeywords)

		sentiment := "neutral"
		switch {
		case pos > neg:
			sentiment = "positive"
			positive++
		case neg > pos:
			sentiment = "negative"
			negative++
		default:
			neutral++
		}
		confidence := "low"
		if max(pos, neg) > 0 {
			confidence = "medium"
		}
		scored = append(scored, scoredTweet{
			TweetID:    t.IDStr,
			Text:       truncate(t.Body(), 150),
			Sentiment:  sentiment,
			Confidence: confidence,
			Engagement: engagementOf(t),
		})
	}

	keywords := map[string]any{}
	if boolOr(args.IncludeKeywords, true) {
		all := strings.ToLower(strings.Join(texts, " "))
		keywords["top_keywords"] = topKeywords(all)
		keywords["positive_indicators"] = matchedKeywords(all, positiveKeywords)
		keywords["negative_indicators"] = matchedKeywords(all, negativeKeywords)
	}

	n := float64(len(tweets))
	share := func(count int) map[string]int {
		return map[string]int{"count": count, "percentage": roundInt(float64(count) / n * 100)}
	}

	overall := "Neutral"
	switch {
	case positive > negative:
		overall = "Positive"
	case negative > positive:
		overall = "Negative"
	}
	confidence := "Low"
	switch {
	case len(tweets) > 30:
		confidence = "High"
	case len(tweets) > 10:
		confidence = "Medium"
	}

	samples := map[string]any{}
	if t := mostEngaging(scored, "positive"); t != nil {
		samples["most_positive"] = t
	}
	if t := mostEngaging(scored, "negative"); t != nil {
		samples["most_negative"] = t
	}

	analysis := map[string]any{
		"query":         args.Query,
		"sample_size":   len(tweets),
		"analysis_date": now().UTC().Format(isoMillis),
		"sentiment_distribution": map[string]any{
			"positive": share(positive),
			"negative": share(negative),
			"neutral":  share(neutral),
		},
		"overall_sentiment": overall,
		"confidence_level":  confidence,
		"keyword_analysis":  keywords,
		"sample_tweets":     samples,
	}
	return formatAnalytics(analysis, fmt.Sprintf("Sentiment Analysis: %q", args.Query)), nil
}

type spreadPeriod struct {
	Hour         string `json:"hour"`
	Interactions int    `json:"interactions"`
	Cumulative   int    `json:"cumulative"`
}

type spreader struct {
	User       string `json:"user"`
	Engagement int    `json:"engagement"`
}

func (s *Server) handleTrackVirality(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		TweetID        string `json:"tweetId"`
		TrackingPeriod string `json:"trackingPeriod"`
		AnalyzeSpread  *bool  `json:"analyzeSpread"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	var shares, discussions *models.Page[models.SocialTweet]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shares, err = s.social.SearchTweets(gctx, socialdata.SearchOptions{
			Query:      fmt.Sprintf("%s OR url:%s", args.TweetID, args.TweetID),
			MaxResults: 100,
		})
		return err
	})
	g.Go(func() error {
		var err error
		discussions, err = s.social.SearchTweets(gctx, socialdata.SearchOptions{
			Query:      fmt.Sprintf("%q", args.TweetID),
			MaxResults: 50,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return "", socialDataError(err, "virality tracking")
	}

	all := append(append([]models.SocialTweet(nil), pageData(shares)...), pageData(discussions)...)
	if len(all) == 0 {
		return "No viral spread detected for tweet " + args.TweetID, nil
	}

	users := make(map[string]bool)
	for _, t := range all {
		users[t.AuthorHandle()] = true
	}

	analysis := map[string]any{
		"tweet_id":           args.TweetID,
		"tracking_period":    stringOr(args.TrackingPeriod, "24h"),
		"total_interactions": len(all),
		"spread_metrics": map[string]any{
			"direct_shares": shares.Len(),
			"discussions":   discussions.Len(),
			"unique_users":  len(users),
		},
	}

	if boolOr(args.AnalyzeSpread, true) {
		analysis["virality_analysis"] = spreadAnalysis(all)
	}

	return formatAnalytics(analysis, "Virality Tracking for Tweet "+args.TweetID), nil
}

func spreadAnalysis(all []models.SocialTweet) map[string]any {
	hours := make(map[string]int)
	for _, t := range all {
		if ts, ok := t.Created(); ok {
			hours[ts.Format("2006-01-02T15")]++
		}
	}
	velocity := make([]spreadPeriod, 0, len(hours))
	for hour, n := range hours {
		velocity = append(velocity, spreadPeriod{Hour: hour, Interactions: n})
	}
	sort.Slice(velocity, func(i, j int) bool { return velocity[i].Hour < velocity[j].Hour })

	cumulative := 0
	var peak spreadPeriod
	for i := range velocity {
		cumulative += velocity[i].Interactions
		velocity[i].Cumulative = cumulative
		if i == 0 || velocity[i].Interactions > peak.Interactions {
			peak = velocity[i]
		}
	}

	engagement := make(map[string]int)
	var order []string
	for _, t := range all {
		user := t.AuthorHandle()
		if user == "" {
			continue
		}
		if _, ok := engagement[user]; !ok {
			order = append(order, user)
		}
		engagement[user] += engagementOf(t)
	}
	sort.SliceStable(order, func(i, j int) bool { return engagement[order[i]] > engagement[order[j]] })

	top := make([]spreader, 0, 10)
	reach := 0
	for _, user := range order[:min(10, len(order))] {
		top = append(top, spreader{User: user, Engagement: engagement[user]})
		reach += engagement[user]
	}

	pattern := "Limited"
	if len(velocity) > 5 {
		pattern = "Linear"
		if peak.Interactions > velocity[0].Interactions*3 {
			pattern = "Exponential"
		}
	}

	return map[string]any{
		"spread_velocity":   velocity,
		"peak_spread_hour":  peak.Hour,
		"viral_coefficient": roundInt(float64(len(all)) / float64(max(1, len(hours)))),
		"spread_pattern":    pattern,
		"top_spreaders":     top,
		"reach_estimate":    reach,
		"viral_score":       min(100, roundInt(0.3*float64(len(all))+0.4*float64(len(engagement))+0.3*float64(peak.Interactions))),
	}
}
