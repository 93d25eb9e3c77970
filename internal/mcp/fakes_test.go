// ABOUTME: In-memory fakes of the X and SocialData clients for tool handler tests.
// ABOUTME: Also provides helpers to build servers and call tools by name.
package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/twitter-mcp/internal/models"
	"github.com/2389-research/twitter-mcp/internal/socialdata"
	"github.com/2389-research/twitter-mcp/internal/twitter"
)

type fakeTwitter struct {
	me    *models.User
	users map[string]*models.User

	// err fails every call other than Me and UserByUsername.
	err   error
	meErr error

	tweets []models.Tweet
	people []models.User
	lists  []models.List
	events []models.DMEvent

	calls       []string
	lastTweet   twitter.TweetRequest
	lastSearch  twitter.SearchOptions
	lastPage    twitter.PageOptions
	lastDM      twitter.DMRequest
	lastTarget  string
	lastAltText string
}

func newFakeTwitter() *fakeTwitter {
	return &fakeTwitter{
		me: &models.User{ID: "1000", Username: "me", Name: "Me"},
		users: map[string]*models.User{
			"jack": {ID: "12", Username: "jack", Name: "Jack"},
		},
	}
}

func (f *fakeTwitter) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeTwitter) tweetPage() *models.Page[models.Tweet] {
	return &models.Page[models.Tweet]{Data: f.tweets, Meta: &models.Meta{ResultCount: len(f.tweets)}}
}

func (f *fakeTwitter) userPage() *models.Page[models.User] {
	return &models.Page[models.User]{Data: f.people, Meta: &models.Meta{ResultCount: len(f.people)}}
}

func (f *fakeTwitter) dmPage() *models.Page[models.DMEvent] {
	return &models.Page[models.DMEvent]{Data: f.events, Meta: &models.Meta{ResultCount: len(f.events)}}
}

func (f *fakeTwitter) CreateTweet(_ context.Context, r twitter.TweetRequest) (*models.Tweet, error) {
	f.lastTweet = r
	if err := f.record("CreateTweet"); err != nil {
		return nil, err
	}
	return &models.Tweet{ID: "555", Text: r.Text}, nil
}

func (f *fakeTwitter) GetTweet(_ context.Context, id string, _ twitter.Fields) (*models.Tweet, error) {
	if err := f.record("GetTweet"); err != nil {
		return nil, err
	}
	return &models.Tweet{ID: id, Text: "hello world"}, nil
}

func (f *fakeTwitter) GetTweets(_ context.Context, _ []string, _ twitter.Fields) (*models.Page[models.Tweet], error) {
	if err := f.record("GetTweets"); err != nil {
		return nil, err
	}
	return f.tweetPage(), nil
}

func (f *fakeTwitter) DeleteTweet(_ context.Context, id string) error {
	f.lastTarget = id
	return f.record("DeleteTweet")
}

func (f *fakeTwitter) UserTweets(_ context.Context, userID string, opts twitter.PageOptions) (*models.Page[models.Tweet], error) {
	f.lastTarget, f.lastPage = userID, opts
	if err := f.record("UserTweets"); err != nil {
		return nil, err
	}
	return f.tweetPage(), nil
}

func (f *fakeTwitter) SearchRecent(_ context.Context, opts twitter.SearchOptions) (*models.Page[models.Tweet], error) {
	f.lastSearch = opts
	if err := f.record("SearchRecent"); err != nil {
		return nil, err
	}
	page := f.tweetPage()
	if len(f.people) > 0 {
		page.Includes = &models.Includes{Users: f.people}
	}
	return page, nil
}

func (f *fakeTwitter) UploadMedia(_ context.Context, path, _ string) (*models.Media, error) {
	f.lastTarget = path
	if err := f.record("UploadMedia"); err != nil {
		return nil, err
	}
	return &models.Media{MediaID: 777, MediaIDString: "777"}, nil
}

func (f *fakeTwitter) SetMediaAltText(_ context.Context, _ string, text string) error {
	f.lastAltText = text
	return f.record("SetMediaAltText")
}

func (f *fakeTwitter) Me(_ context.Context, _ twitter.Fields) (*models.User, error) {
	f.calls = append(f.calls, "Me")
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.me, nil
}

func (f *fakeTwitter) UserByUsername(_ context.Context, username string, _ twitter.Fields) (*models.User, error) {
	f.calls = append(f.calls, "UserByUsername")
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, twitter.ErrUserNotFound
}

func (f *fakeTwitter) Follow(_ context.Context, _, targetID string) error {
	f.lastTarget = targetID
	return f.record("Follow")
}

func (f *fakeTwitter) Unfollow(_ context.Context, _, targetID string) error {
	f.lastTarget = targetID
	return f.record("Unfollow")
}

func (f *fakeTwitter) Followers(_ context.Context, userID string, opts twitter.PageOptions) (*models.Page[models.User], error) {
	f.lastTarget, f.lastPage = userID, opts
	if err := f.record("Followers"); err != nil {
		return nil, err
	}
	return f.userPage(), nil
}

func (f *fakeTwitter) Following(_ context.Context, userID string, opts twitter.PageOptions) (*models.Page[models.User], error) {
	f.lastTarget, f.lastPage = userID, opts
	if err := f.record("Following"); err != nil {
		return nil, err
	}
	return f.userPage(), nil
}

func (f *fakeTwitter) Like(_ context.Context, _, tweetID string) error {
	f.lastTarget = tweetID
	return f.record("Like")
}

func (f *fakeTwitter) Unlike(_ context.Context, _, tweetID string) error {
	f.lastTarget = tweetID
	return f.record("Unlike")
}

func (f *fakeTwitter) Retweet(_ context.Context, _, tweetID string) error {
	f.lastTarget = tweetID
	return f.record("Retweet")
}

func (f *fakeTwitter) UndoRetweet(_ context.Context, _, tweetID string) error {
	f.lastTarget = tweetID
	return f.record("UndoRetweet")
}

func (f *fakeTwitter) RetweetedBy(_ context.Context, tweetID string, opts twitter.PageOptions) (*models.Page[models.User], error) {
	f.lastTarget, f.lastPage = tweetID, opts
	if err := f.record("RetweetedBy"); err != nil {
		return nil, err
	}
	return f.userPage(), nil
}

func (f *fakeTwitter) LikedTweets(_ context.Context, userID string, opts twitter.PageOptions) (*models.Page[models.Tweet], error) {
	f.lastTarget, f.lastPage = userID, opts
	if err := f.record("LikedTweets"); err != nil {
		return nil, err
	}
	return f.tweetPage(), nil
}

func (f *fakeTwitter) CreateList(_ context.Context, r twitter.ListRequest) (*models.List, error) {
	if err := f.record("CreateList"); err != nil {
		return nil, err
	}
	return &models.List{ID: "L1", Name: r.Name}, nil
}

func (f *fakeTwitter) AddListMember(_ context.Context, _, userID string) error {
	f.lastTarget = userID
	return f.record("AddListMember")
}

func (f *fakeTwitter) RemoveListMember(_ context.Context, _, userID string) error {
	f.lastTarget = userID
	return f.record("RemoveListMember")
}

func (f *fakeTwitter) ListMembers(_ context.Context, listID string, opts twitter.PageOptions) (*models.Page[models.User], error) {
	f.lastTarget, f.lastPage = listID, opts
	if err := f.record("ListMembers"); err != nil {
		return nil, err
	}
	return f.userPage(), nil
}

func (f *fakeTwitter) OwnedLists(_ context.Context, userID string, opts twitter.PageOptions) (*models.Page[models.List], error) {
	f.lastTarget, f.lastPage = userID, opts
	if err := f.record("OwnedLists"); err != nil {
		return nil, err
	}
	return &models.Page[models.List]{Data: f.lists}, nil
}

func (f *fakeTwitter) SendDM(_ context.Context, participantID string, r twitter.DMRequest) (json.RawMessage, error) {
	f.lastTarget, f.lastDM = participantID, r
	if err := f.record("SendDM"); err != nil {
		return nil, err
	}
	return json.RawMessage(`{"data":{"dm_event_id":"dm1"}}`), nil
}

func (f *fakeTwitter) DMEvents(_ context.Context, opts twitter.PageOptions) (*models.Page[models.DMEvent], error) {
	f.lastPage = opts
	if err := f.record("DMEvents"); err != nil {
		return nil, err
	}
	return f.dmPage(), nil
}

func (f *fakeTwitter) ConversationEvents(_ context.Context, conversationID string, opts twitter.PageOptions) (*models.Page[models.DMEvent], error) {
	f.lastTarget, f.lastPage = conversationID, opts
	if err := f.record("ConversationEvents"); err != nil {
		return nil, err
	}
	return f.dmPage(), nil
}

func (f *fakeTwitter) moderation(call, targetID string) (json.RawMessage, error) {
	f.lastTarget = targetID
	if err := f.record(call); err != nil {
		return nil, err
	}
	return json.RawMessage(`{"data":{"ok":true}}`), nil
}

func (f *fakeTwitter) Block(_ context.Context, _, targetID string) (json.RawMessage, error) {
	return f.moderation("Block", targetID)
}

func (f *fakeTwitter) Unblock(_ context.Context, _, targetID string) (json.RawMessage, error) {
	return f.moderation("Unblock", targetID)
}

func (f *fakeTwitter) Mute(_ context.Context, _, targetID string) (json.RawMessage, error) {
	return f.moderation("Mute", targetID)
}

func (f *fakeTwitter) Unmute(_ context.Context, _, targetID string) (json.RawMessage, error) {
	return f.moderation("Unmute", targetID)
}

func (f *fakeTwitter) Blocking(_ context.Context, _ string, opts twitter.PageOptions) (*models.Page[models.User], error) {
	f.lastPage = opts
	if err := f.record("Blocking"); err != nil {
		return nil, err
	}
	return f.userPage(), nil
}

func (f *fakeTwitter) Muting(_ context.Context, _ string, opts twitter.PageOptions) (*models.Page[models.User], error) {
	f.lastPage = opts
	if err := f.record("Muting"); err != nil {
		return nil, err
	}
	return f.userPage(), nil
}

// fakeSocial answers searches by exact query, falling back to tweets.
type fakeSocial struct {
	mu sync.Mutex

	err      error
	tweets   []models.SocialTweet
	byQuery  map[string][]models.SocialTweet
	profiles map[string]*models.SocialUser
	timeline []models.SocialTweet

	queries []socialdata.SearchOptions
	lookups []socialdata.UserLookup
}

func (f *fakeSocial) SearchTweets(_ context.Context, opts socialdata.SearchOptions) (*models.Page[models.SocialTweet], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, opts)
	if f.err != nil {
		return nil, f.err
	}
	data := f.tweets
	if f.byQuery != nil {
		data = f.byQuery[opts.Query]
	}
	return &models.Page[models.SocialTweet]{Data: data}, nil
}

func (f *fakeSocial) UserProfile(_ context.Context, lookup socialdata.UserLookup) (*models.SocialUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, lookup)
	if f.err != nil {
		return nil, f.err
	}
	key := lookup.Username
	if key == "" {
		key = lookup.UserID
	}
	if p, ok := f.profiles[key]; ok {
		return p, nil
	}
	return nil, &socialdata.APIError{StatusCode: http.StatusNotFound}
}

func (f *fakeSocial) UserTweets(_ context.Context, lookup socialdata.UserLookup, _ int) (*models.Page[models.SocialTweet], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, lookup)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Page[models.SocialTweet]{Data: f.timeline}, nil
}

func (f *fakeSocial) searched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.queries))
	for _, q := range f.queries {
		out = append(out, q.Query)
	}
	return out
}

func newTestServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	s, err := NewServer(opts...)
	require.NoError(t, err)
	return s
}

func callTool(t *testing.T, s *Server, name string, args any) *gomcp.CallToolResult {
	t.Helper()
	var raw json.RawMessage
	if args != nil {
		data, err := json.Marshal(args)
		require.NoError(t, err)
		raw = data
	}
	result := s.Call(context.Background(), name, raw)
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	return result
}

func getTextContent(result *gomcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(*gomcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

// socialTweet builds a SocialData tweet with the given author and counts.
func socialTweet(id, author, created string, likes, retweets int) models.SocialTweet {
	return models.SocialTweet{
		IDStr:          id,
		Text:           "tweet " + id,
		TweetCreatedAt: created,
		FavoriteCount:  likes,
		RetweetCount:   retweets,
		User:           &models.SocialUser{ScreenName: author, Name: author, FollowersCount: 10},
	}
}
