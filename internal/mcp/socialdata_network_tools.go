// ABOUTME: MCP tools for network analysis: mutual connections, follower demographics, influence maps.
// ABOUTME: Networks are inferred from mention searches rather than follower graphs.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/2389-research/twitter-mcp/internal/models"
	"github.com/2389-research/twitter-mcp/internal/socialdata"
)

func (s *Server) networkTools() []*tool {
	return []*tool{
		{
			name:        "findMutualConnections",
			title:       "Mutual Connections Analysis",
			backend:     backendSocialData,
			description: "Find interactions and shared connections between two users",
			schema: `{
				"type": "object",
				"properties": {
					"user1": {"type": "string", "description": "First username (without @)"},
					"user2": {"type": "string", "description": "Second username (without @)"},
					"maxResults": {"type": "number", "minimum": 1, "maximum": 100, "description": "Maximum number of mutual connections to return (default: 20)"}
				},
				"required": ["user1", "user2"]
			}`,
			handler: s.handleFindMutualConnections,
		},
		{
			name:        "analyzeFollowerDemographics",
			title:       "Follower Demographics Analysis",
			backend:     backendSocialData,
			description: "Analyze the accounts that interact with a user",
			schema: `{
				"type": "object",
				"properties": {
					"username": {"type": "string", "description": "Username to analyze (without @)"},
					"sampleSize": {"type": "number", "minimum": 10, "maximum": 200, "description": "Number of interactions to sample (default: 50)"},
					"analyzeDemographics": {"type": "boolean", "description": "Include demographic breakdown (default: true)"}
				},
				"required": ["username"]
			}`,
			handler: s.handleAnalyzeFollowerDemographics,
		},
		{
			name:        "mapInfluenceNetwork",
			title:       "Influence Network Mapping",
			backend:     backendSocialData,
			description: "Map the network of accounts around a central user",
			schema: `{
				"type": "object",
				"properties": {
					"centerUser": {"type": "string", "description": "Username at the center of the network (without @)"},
					"depth": {"type": "number", "minimum": 1, "maximum": 3, "description": "Network depth to analyze (default: 2)"},
					"connectionTypes": {
						"type": "array",
						"items": {"type": "string", "enum": ["followers", "following", "mutual"]},
						"description": "Connection types to include (default: all)"
					}
				},
				"required": ["centerUser"]
			}`,
			handler: s.handleMapInfluenceNetwork,
		},
	}
}

type mentionSample struct {
	From   string `json:"from,omitempty"`
	Author string `json:"author,omitempty"`
	Text   string `json:"text"`
	Date   string `json:"date,omitempty"`
}

func (s *Server) handleFindMutualConnections(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		User1      string `json:"user1"`
		User2      string `json:"user2"`
		MaxResults count  `json:"maxResults"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	maxResults := intOr(args.MaxResults, 20)

	var direct, both *models.Page[models.SocialTweet]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		direct, err = s.social.SearchTweets(gctx, socialdata.SearchOptions{
			Query:      fmt.Sprintf("(from:%[1]s @%[2]s) OR (from:%[2]s @%[1]s)", args.User1, args.User2),
			MaxResults: 50,
		})
		return err
	})
	g.Go(func() error {
		var err error
		both, err = s.social.SearchTweets(gctx, socialdata.SearchOptions{
			Query:      fmt.Sprintf("@%s @%s", args.User1, args.User2),
			MaxResults: maxResults,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return "", socialDataError(err, "mutual connections analysis")
	}

	directTweets := pageData(direct)
	bothTweets := pageData(both)

	seen := make(map[string]bool)
	interacting := []string{}
	for _, t := range append(append([]models.SocialTweet(nil), directTweets...), bothTweets...) {
		name := t.AuthorHandle()
		if name == "" || name == args.User1 || name == args.User2 || seen[name] {
			continue
		}
		seen[name] = true
		interacting = append(interacting, name)
	}

	recent := []mentionSample{}
	for _, t := range directTweets[:min(5, len(directTweets))] {
		recent = append(recent, mentionSample{From: t.AuthorHandle(), Text: truncate(t.Body(), 140), Date: t.TweetCreatedAt})
	}
	samples := []mentionSample{}
	for _, t := range bothTweets[:min(3, len(bothTweets))] {
		samples = append(samples, mentionSample{Author: t.AuthorHandle(), Text: truncate(t.Body(), 140), Date: t.TweetCreatedAt})
	}

	strength := "Weak"
	switch {
	case len(interacting) > 5:
		strength = "Strong"
	case len(interacting) > 1:
		strength = "Moderate"
	}

	result := map[string]any{
		"user1": args.User1,
		"user2": args.User2,
		"direct_interactions": map[string]any{
			"count":           len(directTweets),
			"recent_mentions": recent,
		},
		"mutual_interactions": map[string]any{
			"users_mentioning_both": interacting[:min(maxResults, len(interacting))],
			"count":                 len(interacting),
			"sample_tweets":         samples,
		},
		"connection_strength": map[string]any{
			"direct_mentions":        len(directTweets),
			"mutual_mention_network": len(interacting),
			"estimated_relationship": strength,
		},
	}
	return formatAnalytics(result, fmt.Sprintf("Mutual Connections: @%s ↔ @%s", args.User1, args.User2)), nil
}

func pageData[T any](p *models.Page[T]) []T {
	if p == nil {
		return nil
	}
	return p.Data
}

type interactingUser struct {
	ScreenName string
	Name       string
	Followers  int
	Verified   bool
}

func (s *Server) handleAnalyzeFollowerDemographics(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Username            string `json:"username"`
		SampleSize          count  `json:"sampleSize"`
		AnalyzeDemographics *bool  `json:"analyzeDemographics"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}

	mentions, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{
		Query:      "@" + args.Username,
		MaxResults: intOr(args.SampleSize, 50),
	})
	if err != nil {
		return "", socialDataError(err, "follower analytics")
	}

	// Later mentions by the same account replace earlier ones but keep its position.
	index := make(map[string]int)
	var sample []interactingUser
	for _, t := range pageData(mentions) {
		if t.User == nil || t.User.Handle() == args.Username {
			continue
		}
		u := interactingUser{
			ScreenName: t.User.Handle(),
			Name:       t.User.Name,
			Followers:  t.User.Followers(),
			Verified:   t.User.Verified,
		}
		if i, ok := index[u.ScreenName]; ok {
			sample[i] = u
			continue
		}
		index[u.ScreenName] = len(sample)
		sample = append(sample, u)
	}

	analytics := map[string]any{
		"target_user":   args.Username,
		"sample_size":   len(sample),
		"analysis_date": now().UTC().Format(isoMillis),
	}

	if boolOr(args.AnalyzeDemographics, true) && len(sample) > 0 {
		var verified, total, micro, regular, large int
		for _, u := range sample {
			if u.Verified {
				verified++
			}
			total += u.Followers
			switch {
			case u.Followers >= 100000:
				large++
			case u.Followers >= 1000:
				micro++
			default:
				regular++
			}
		}

		quality := "Low"
		switch {
		case len(sample) > 20:
			quality = "High"
		case len(sample) > 10:
			quality = "Medium"
		}

		n := float64(len(sample))
		analytics["demographics"] = map[string]any{
			"verified_percentage":    roundInt(float64(verified) / n * 100),
			"average_follower_count": roundInt(float64(total) / n),
			"follower_distribution": map[string]int{
				"micro_influencers": micro,
				"regular_users":     regular,
				"large_accounts":    large,
			},
			"engagement_quality": quality,
		}

		sorted := append([]interactingUser(nil), sample...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Followers > sorted[j].Followers })
		top := make([]map[string]any, 0, 10)
		for _, u := range sorted[:min(10, len(sorted))] {
			top = append(top, map[string]any{
				"username":  u.ScreenName,
				"name":      u.Name,
				"followers": u.Followers,
				"verified":  u.Verified,
			})
		}
		analytics["top_interacting_users"] = top
	}

	return formatAnalytics(analytics, "Follower Demographics Analysis for @"+args.Username), nil
}

type networkNode struct {
	Username       string
	Name           string
	Type           string
	InfluenceScore float64
	Followers      *int
	Verified       *bool
}

var mentionPattern = regexp.MustCompile(`@(\w+)`)

func (s *Server) handleMapInfluenceNetwork(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		CenterUser      string   `json:"centerUser"`
		Depth           count    `json:"depth"`
		ConnectionTypes []string `json:"connectionTypes"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	center := args.CenterUser

	incoming, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{Query: "@" + center, MaxResults: 100})
	if err != nil {
		return "", socialDataError(err, "influence network mapping")
	}
	outgoing, err := s.social.SearchTweets(ctx, socialdata.SearchOptions{Query: "from:" + center + " @", MaxResults: 50})
	if err != nil {
		return "", socialDataError(err, "influence network mapping")
	}

	nodes := map[string]*networkNode{center: {Username: center, Type: "center", InfluenceScore: 100}}
	var order []string

	inCounts := make(map[string]int)
	var inOrder []string
	for _, t := range pageData(incoming) {
		if t.User == nil || t.User.Handle() == center {
			continue
		}
		name := t.User.Handle()
		if _, ok := inCounts[name]; !ok {
			inOrder = append(inOrder, name)
		}
		inCounts[name]++
		if _, ok := nodes[name]; !ok {
			followers, verified := t.User.Followers(), t.User.Verified
			nodes[name] = &networkNode{
				Username:       name,
				Name:           t.User.Name,
				Type:           "incoming",
				InfluenceScore: min(90, float64(followers)/1000),
				Followers:      &followers,
				Verified:       &verified,
			}
			order = append(order, name)
		}
	}

	outSet := make(map[string]bool)
	var outOrder []string
	for _, t := range pageData(outgoing) {
		for _, m := range mentionPattern.FindAllStringSubmatch(t.Body(), -1) {
			name := m[1]
			if name == center {
				continue
			}
			if !outSet[name] {
				outSet[name] = true
				outOrder = append(outOrder, name)
			}
			if _, ok := nodes[name]; !ok {
				nodes[name] = &networkNode{Username: name, Type: "outgoing", InfluenceScore: 50}
				order = append(order, name)
			}
		}
	}

	unique := len(inCounts)
	for _, name := range outOrder {
		if _, ok := inCounts[name]; !ok {
			unique++
		}
	}

	ranked := make([]*networkNode, 0, len(order))
	reach := 0
	for _, name := range order {
		n := nodes[name]
		ranked = append(ranked, n)
		if n.Followers != nil {
			reach += *n.Followers
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].InfluenceScore > ranked[j].InfluenceScore })

	top := make([]map[string]any, 0, 15)
	for _, n := range ranked[:min(15, len(ranked))] {
		entry := map[string]any{
			"username":        n.Username,
			"connection_type": n.Type,
			"influence_score": roundInt(n.InfluenceScore),
		}
		if n.Name != "" {
			entry["name"] = n.Name
		}
		if n.Followers != nil {
			entry["followers"] = *n.Followers
		}
		if n.Verified != nil {
			entry["verified"] = *n.Verified
		}
		top = append(top, entry)
	}

	mostActive := "None"
	best := 0
	for _, name := range inOrder {
		if inCounts[name] > best {
			mostActive, best = name, inCounts[name]
		}
	}

	strength := "Developing"
	switch {
	case len(inCounts) > 20:
		strength = "Strong"
	case len(inCounts) > 5:
		strength = "Moderate"
	}

	connectionTypes := args.ConnectionTypes
	if len(connectionTypes) == 0 {
		connectionTypes = []string{"followers", "following", "mutual"}
	}

	network := map[string]any{
		"center_user":      center,
		"network_depth":    intOr(args.Depth, 2),
		"total_nodes":      len(nodes),
		"connection_types": connectionTypes,
		"network_metrics": map[string]any{
			"incoming_connections":     len(inCounts),
			"outgoing_connections":     len(outSet),
			"total_unique_connections": unique,
			"network_density":          roundInt(float64(len(inCounts)+len(outSet)) / 2),
			"influence_centrality":     min(100, len(inCounts)*2+len(outSet)),
		},
		"top_connected_users": top,
		"network_insights": map[string]any{
			"most_active_mentioner":  mostActive,
			"network_reach_estimate": strconv.Itoa(roundInt(float64(reach)/1000)) + "K",
			"connection_strength":    strength,
		},
	}
	return formatAnalytics(network, "Influence Network Map for @"+center), nil
}
