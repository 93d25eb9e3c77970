// ABOUTME: MCP server initialization and tool dispatch for twitter-mcp.
// ABOUTME: Registers X and SocialData tools, prompts and resources over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/twitter-mcp/internal/models"
	"github.com/2389-research/twitter-mcp/internal/socialdata"
	"github.com/2389-research/twitter-mcp/internal/twitter"
)

const (
	serverName    = "twitter-mcp-server"
	serverVersion = "0.0.1"
)

// TwitterAPI is the subset of the X API client used by tool handlers.
type TwitterAPI interface {
	CreateTweet(ctx context.Context, r twitter.TweetRequest) (*models.Tweet, error)
	GetTweet(ctx context.Context, id string, fields twitter.Fields) (*models.Tweet, error)
	GetTweets(ctx context.Context, ids []string, fields twitter.Fields) (*models.Page[models.Tweet], error)
	DeleteTweet(ctx context.Context, id string) error
	UserTweets(ctx context.Context, userID string, opts twitter.PageOptions) (*models.Page[models.Tweet], error)
	SearchRecent(ctx context.Context, opts twitter.SearchOptions) (*models.Page[models.Tweet], error)
	UploadMedia(ctx context.Context, path, mediaType string) (*models.Media, error)
	SetMediaAltText(ctx context.Context, mediaID, text string) error

	Me(ctx context.Context, fields twitter.Fields) (*models.User, error)
	UserByUsername(ctx context.Context, username string, fields twitter.Fields) (*models.User, error)
	Follow(ctx context.Context, sourceID, targetID string) error
	Unfollow(ctx context.Context, sourceID, targetID string) error
	Followers(ctx context.Context, userID string, opts twitter.PageOptions) (*models.Page[models.User], error)
	Following(ctx context.Context, userID string, opts twitter.PageOptions) (*models.Page[models.User], error)

	Like(ctx context.Context, userID, tweetID string) error
	Unlike(ctx context.Context, userID, tweetID string) error
	Retweet(ctx context.Context, userID, tweetID string) error
	UndoRetweet(ctx context.Context, userID, tweetID string) error
	RetweetedBy(ctx context.Context, tweetID string, opts twitter.PageOptions) (*models.Page[models.User], error)
	LikedTweets(ctx context.Context, userID string, opts twitter.PageOptions) (*models.Page[models.Tweet], error)

	CreateList(ctx context.Context, r twitter.ListRequest) (*models.List, error)
	AddListMember(ctx context.Context, listID, userID string) error
	RemoveListMember(ctx context.Context, listID, userID string) error
	ListMembers(ctx context.Context, listID string, opts twitter.PageOptions) (*models.Page[models.User], error)
	OwnedLists(ctx context.Context, userID string, opts twitter.PageOptions) (*models.Page[models.List], error)

	SendDM(ctx context.Context, participantID string, r twitter.DMRequest) (json.RawMessage, error)
	DMEvents(ctx context.Context, opts twitter.PageOptions) (*models.Page[models.DMEvent], error)
	ConversationEvents(ctx context.Context, conversationID string, opts twitter.PageOptions) (*models.Page[models.DMEvent], error)

	Block(ctx context.Context, sourceID, targetID string) (json.RawMessage, error)
	Unblock(ctx context.Context, sourceID, targetID string) (json.RawMessage, error)
	Mute(ctx context.Context, sourceID, targetID string) (json.RawMessage, error)
	Unmute(ctx context.Context, sourceID, targetID string) (json.RawMessage, error)
	Blocking(ctx context.Context, userID string, opts twitter.PageOptions) (*models.Page[models.User], error)
	Muting(ctx context.Context, userID string, opts twitter.PageOptions) (*models.Page[models.User], error)
}

// SocialDataAPI is the subset of the SocialData.tools client used by tool handlers.
type SocialDataAPI interface {
	SearchTweets(ctx context.Context, opts socialdata.SearchOptions) (*models.Page[models.SocialTweet], error)
	UserProfile(ctx context.Context, lookup socialdata.UserLookup) (*models.SocialUser, error)
	UserTweets(ctx context.Context, lookup socialdata.UserLookup, maxResults int) (*models.Page[models.SocialTweet], error)
}

// backend names the upstream a tool needs before it can run.
type backend int

const (
	backendTwitter backend = iota
	backendSocialData
)

type toolHandler func(ctx context.Context, args json.RawMessage) (string, error)

// tool is one registry entry. title names the tool in credential guidance and
// defaults to name.
type tool struct {
	name        string
	title       string
	description string
	schema      string
	backend     backend
	handler     toolHandler

	required []string
}

// ToolInfo describes a registered tool for listings.
type ToolInfo struct {
	Name        string
	Description string
	Required    []string
}

// Server wraps the MCP server with the upstream API clients.
type Server struct {
	mcp     *gomcp.Server
	twitter TwitterAPI
	social  SocialDataAPI

	tools map[string]*tool
	order []string
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithTwitter sets the X API client. Without it X tools answer with setup guidance.
func WithTwitter(c TwitterAPI) ServerOption {
	return func(s *Server) {
		s.twitter = c
	}
}

// WithSocialData sets the SocialData.tools client.
func WithSocialData(c SocialDataAPI) ServerOption {
	return func(s *Server) {
		s.social = c
	}
}

// NewServer creates an MCP server exposing the full tool catalog.
func NewServer(opts ...ServerOption) (*Server, error) {
	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		nil,
	)

	s := &Server{
		mcp:   mcpServer,
		tools: make(map[string]*tool),
	}

	for _, opt := range opts {
		opt(s)
	}

	families := [][]*tool{
		s.tweetTools(),
		s.engagementTools(),
		s.userTools(),
		s.listTools(),
		s.searchTools(),
		s.directMessageTools(),
		s.moderationTools(),
		s.socialSearchTools(),
		s.socialUserTools(),
		s.threadTools(),
		s.networkTools(),
		s.analyticsTools(),
	}
	for _, family := range families {
		for _, t := range family {
			if err := s.register(t); err != nil {
				return nil, err
			}
		}
	}

	s.registerPrompts()
	s.registerResources()

	return s, nil
}

func (s *Server) register(t *tool) error {
	if _, dup := s.tools[t.name]; dup {
		return fmt.Errorf("duplicate tool %q", t.name)
	}

	var schema struct {
		Type     string   `json:"type"`
		Required []string `json:"required"`
	}
	if err := json.Unmarshal([]byte(t.schema), &schema); err != nil {
		return fmt.Errorf("tool %s: invalid input schema: %w", t.name, err)
	}
	if schema.Type != "object" {
		return fmt.Errorf("tool %s: input schema must be an object", t.name)
	}
	t.required = schema.Required
	if t.title == "" {
		t.title = t.name
	}

	s.tools[t.name] = t
	s.order = append(s.order, t.name)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        t.name,
		Description: t.description,
		InputSchema: json.RawMessage(t.schema),
	}, func(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		return s.Call(ctx, req.Params.Name, req.Params.Arguments), nil
	})
	return nil
}

// Tools lists the registered tools sorted by name.
func (s *Server) Tools() []ToolInfo {
	names := append([]string(nil), s.order...)
	sort.Strings(names)

	infos := make([]ToolInfo, 0, len(names))
	for _, name := range names {
		t := s.tools[name]
		infos = append(infos, ToolInfo{Name: t.name, Description: t.description, Required: t.required})
	}
	return infos
}

// Call dispatches one tool invocation. The result always carries exactly one
// text block; failures are reported with IsError rather than a Go error.
func (s *Server) Call(ctx context.Context, name string, args json.RawMessage) *gomcp.CallToolResult {
	t, ok := s.tools[name]
	if !ok {
		return toolError("Error: Unknown tool: %s", name)
	}

	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}
	var bag map[string]json.RawMessage
	if err := json.Unmarshal(args, &bag); err != nil {
		return toolError("Error: invalid arguments: %v", err)
	}
	for _, key := range t.required {
		if !present(bag[key]) {
			return toolError("Error: Missing required argument: %s", key)
		}
	}

	switch {
	case t.backend == backendTwitter && s.twitter == nil:
		return textResult(missingTwitterCredentials(t.title))
	case t.backend == backendSocialData && s.social == nil:
		return textResult(missingSocialDataKey(t.title))
	}

	requestID := uuid.NewString()
	start := time.Now()
	text, err := t.handler(ctx, args)
	if err != nil {
		slog.Warn("tool call failed",
			slog.String("request_id", requestID),
			slog.String("tool", name),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err),
		)
		return toolError("Error: %s", err.Error())
	}

	slog.Debug("tool call",
		slog.String("request_id", requestID),
		slog.String("tool", name),
		slog.Duration("elapsed", time.Since(start)),
	)
	return textResult(text)
}

// present reports whether a raw argument is set to something other than null or "".
func present(raw json.RawMessage) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str != ""
	}
	return true
}

func schemaf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}
