// ABOUTME: Tests for the X API v2 tool handlers against an in-memory client.
// ABOUTME: Covers success texts, empty results and the status-code advisories.
package mcp

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/twitter-mcp/internal/models"
	"github.com/2389-research/twitter-mcp/internal/twitter"
)

func xServer(t *testing.T) (*Server, *fakeTwitter) {
	t.Helper()
	fake := newFakeTwitter()
	return newTestServer(t, WithTwitter(fake)), fake
}

func okText(t *testing.T, s *Server, name string, args any) string {
	t.Helper()
	result := callTool(t, s, name, args)
	require.False(t, result.IsError, getTextContent(result))
	return getTextContent(result)
}

func errText(t *testing.T, s *Server, name string, args any) string {
	t.Helper()
	result := callTool(t, s, name, args)
	require.True(t, result.IsError, getTextContent(result))
	return getTextContent(result)
}

func TestPostTweet(t *testing.T) {
	s, fake := xServer(t)
	assert.Equal(t, "Successfully posted tweet: 555", okText(t, s, "postTweet", map[string]any{"text": "hi"}))
	assert.Equal(t, "hi", fake.lastTweet.Text)
}

func TestPostTweetFailure(t *testing.T) {
	s, fake := xServer(t)
	fake.err = errors.New("boom")
	assert.Equal(t, "Error: Failed to post tweet: boom", errText(t, s, "postTweet", map[string]any{"text": "hi"}))
}

func TestPostTweetWithMediaSetsAltText(t *testing.T) {
	s, fake := xServer(t)
	text := okText(t, s, "postTweetWithMedia", map[string]any{
		"text": "look", "mediaPath": "/tmp/cat.png", "mediaType": "image/png", "altText": "a cat",
	})

	assert.Equal(t, "Successfully posted tweet with media: 555", text)
	assert.Equal(t, []string{"UploadMedia", "SetMediaAltText", "CreateTweet"}, fake.calls)
	assert.Equal(t, "a cat", fake.lastAltText)
	assert.Equal(t, []string{"777"}, fake.lastTweet.MediaIDs)
}

func TestReplyAndDeleteTweet(t *testing.T) {
	s, fake := xServer(t)

	assert.Equal(t, "Successfully replied to tweet: 555",
		okText(t, s, "replyToTweet", map[string]any{"tweetId": "42", "text": "agreed"}))
	assert.Equal(t, "42", fake.lastTweet.ReplyTo)

	assert.Equal(t, "Successfully deleted tweet: 42", okText(t, s, "deleteTweet", map[string]any{"tweetId": "42"}))
}

func TestGetTweetByID(t *testing.T) {
	s, _ := xServer(t)
	text := okText(t, s, "getTweetById", map[string]any{"tweetId": "42"})
	assert.Contains(t, text, "Tweet details: ")
	assert.Contains(t, text, `"text": "hello world"`)
}

func TestGetTweetByIDKeepsUpstreamFields(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/tweets/1", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":"1","text":"hi","edit_history_tweet_ids":["1"],` +
			`"possibly_sensitive":false,"source":"web","in_reply_to_user_id":"42"}}`))
	}))
	t.Cleanup(upstream.Close)

	client, err := twitter.NewClient(twitter.ClientConfig{BearerToken: "b", BaseURL: upstream.URL, UploadURL: upstream.URL})
	require.NoError(t, err)
	s := newTestServer(t, WithTwitter(client))

	text := okText(t, s, "getTweetById", map[string]any{"tweetId": "1"})
	for _, key := range []string{`"edit_history_tweet_ids"`, `"in_reply_to_user_id": "42"`, `"possibly_sensitive": false`, `"source": "web"`} {
		assert.Contains(t, text, key)
	}
}

func TestGetTweetsByIDs(t *testing.T) {
	s, fake := xServer(t)

	assert.Equal(t, "Error: Missing required argument: tweetIds",
		errText(t, s, "getTweetsByIds", map[string]any{"tweetIds": []string{}}))
	assert.Equal(t, "No tweets found for ids: 1, 2",
		okText(t, s, "getTweetsByIds", map[string]any{"tweetIds": []string{"1", "2"}}))

	fake.tweets = []models.Tweet{{ID: "1", Text: "one"}}
	assert.Contains(t, okText(t, s, "getTweetsByIds", map[string]any{"tweetIds": []string{"1"}}), `"text": "one"`)
}

func TestGetUserTimelineClampsMaxResults(t *testing.T) {
	s, fake := xServer(t)
	fake.tweets = []models.Tweet{{ID: "1", Text: "one"}}

	text := okText(t, s, "getUserTimeline", map[string]any{"username": "jack", "maxResults": 1})
	assert.Contains(t, text, "Timeline for @jack: ")
	assert.Equal(t, 5, fake.lastPage.MaxResults)
	assert.Equal(t, "12", fake.lastTarget)

	okText(t, s, "getUserTimeline", map[string]any{"username": "jack", "maxResults": 500})
	assert.Equal(t, 100, fake.lastPage.MaxResults)

	okText(t, s, "getUserTimeline", map[string]any{"username": "jack"})
	assert.Equal(t, 10, fake.lastPage.MaxResults)

	okText(t, s, "getUserTimeline", map[string]any{"username": "jack", "maxResults": 20.7})
	assert.Equal(t, 20, fake.lastPage.MaxResults)
}

func TestCountArgument(t *testing.T) {
	var args struct {
		N count `json:"n"`
	}
	require.NoError(t, decodeArgs([]byte(`{"n": 10.5}`), &args))
	assert.Equal(t, count(10), args.N)

	require.NoError(t, decodeArgs([]byte(`{"n": null}`), &args))
	assert.Equal(t, count(10), args.N)

	err := decodeArgs([]byte(`{"n": "ten"}`), &args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid arguments")
	assert.Equal(t, 7, intOr(0, 7))
}

func TestGetUserTimelineEmptyAndUnknown(t *testing.T) {
	s, _ := xServer(t)
	assert.Equal(t, "No tweets found in timeline for user: jack",
		okText(t, s, "getUserTimeline", map[string]any{"username": "jack"}))
	assert.Equal(t, "Error: Twitter API error during getting user timeline: User not found: ghost",
		errText(t, s, "getUserTimeline", map[string]any{"username": "ghost"}))
}

func TestEngagementActions(t *testing.T) {
	cases := map[string]string{
		"likeTweet":   "Successfully liked tweet: 123",
		"unlikeTweet": "Successfully unliked tweet: 123",
		"retweet":     "Successfully retweeted tweet: 123",
		"undoRetweet": "Successfully undid retweet: 123",
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			s, fake := xServer(t)
			assert.Equal(t, want, okText(t, s, name, map[string]any{"tweetId": "123"}))
			require.Len(t, fake.calls, 2)
			assert.Equal(t, "Me", fake.calls[0])
			assert.Equal(t, "123", fake.lastTarget)
		})
	}
}

func TestEngagementAdvisories(t *testing.T) {
	s, fake := xServer(t)

	fake.err = &twitter.APIError{StatusCode: 429}
	assert.Equal(t, "Error: Twitter API rate limit exceeded during liking tweet. Please wait and try again later.",
		errText(t, s, "likeTweet", map[string]any{"tweetId": "123"}))

	fake.err = &twitter.APIError{StatusCode: 401, Title: "Unauthorized"}
	text := errText(t, s, "retweet", map[string]any{"tweetId": "123"})
	assert.Contains(t, text, "Twitter API authentication failed: Request failed with code 401: Unauthorized")
	assert.Contains(t, text, "Please check your Twitter API credentials in the .env file.")
}

func TestGetRetweets(t *testing.T) {
	s, fake := xServer(t)
	assert.Equal(t, "No retweets found for tweet: 9", okText(t, s, "getRetweets", map[string]any{"tweetId": "9"}))
	assert.Equal(t, 100, fake.lastPage.MaxResults)

	fake.people = []models.User{{ID: "5", Username: "ann"}}
	text := okText(t, s, "getRetweets", map[string]any{"tweetId": "9"})
	assert.Contains(t, text, "Users who retweeted: ")
	assert.Contains(t, text, `"retweetedBy"`)
}

func TestGetLikedTweetsTierAdvice(t *testing.T) {
	s, fake := xServer(t)
	fake.err = &twitter.APIError{StatusCode: 400, Title: "Invalid Request"}
	assert.Equal(t, "Error: "+errLikedTweetsTier.Error(), errText(t, s, "getLikedTweets", map[string]any{"userId": "12"}))
}

func TestGetUserInfo(t *testing.T) {
	s, _ := xServer(t)
	assert.Contains(t, okText(t, s, "getUserInfo", map[string]any{"username": "jack"}), "User info: ")
	assert.Equal(t, "Error: Twitter API error during getting user info: User not found: ghost",
		errText(t, s, "getUserInfo", map[string]any{"username": "ghost"}))
}

func TestGetAuthenticatedUser(t *testing.T) {
	s, fake := xServer(t)
	assert.Contains(t, okText(t, s, "getAuthenticatedUser", nil), `"username": "me"`)

	fake.meErr = &twitter.APIError{StatusCode: 401}
	assert.Equal(t, "Error: "+errAuthenticatedUser.Error(), errText(t, s, "getAuthenticatedUser", nil))

	fake.meErr = &twitter.APIError{StatusCode: 429}
	assert.Equal(t, "Error: Rate limit exceeded. Please wait before making another request.",
		errText(t, s, "getAuthenticatedUser", nil))
}

func TestFollowAndUnfollow(t *testing.T) {
	s, fake := xServer(t)
	assert.Equal(t, "Successfully followed user: jack", okText(t, s, "followUser", map[string]any{"username": "jack"}))
	assert.Equal(t, "12", fake.lastTarget)
	assert.Equal(t, "Successfully unfollowed user: jack", okText(t, s, "unfollowUser", map[string]any{"username": "jack"}))
}

func TestFollowGraph(t *testing.T) {
	s, fake := xServer(t)
	assert.Equal(t, "No followers found for user: jack", okText(t, s, "getFollowers", map[string]any{"username": "jack"}))
	assert.Equal(t, "User jack is not following anyone", okText(t, s, "getFollowing", map[string]any{"username": "jack"}))

	fake.people = []models.User{{ID: "5", Username: "ann"}}
	assert.Contains(t, okText(t, s, "getFollowers", map[string]any{"username": "jack"}), "Followers for jack: ")

	fake.err = &twitter.APIError{StatusCode: 403}
	text := errText(t, s, "getFollowing", map[string]any{"username": "jack"})
	assert.Contains(t, text, "Get following functionality requires elevated permissions.")
}

func TestListTools(t *testing.T) {
	s, fake := xServer(t)

	assert.Equal(t, "Successfully created list: Go (ID: L1)", okText(t, s, "createList", map[string]any{"name": "Go"}))

	assert.Equal(t, "Successfully added user jack to list L9",
		okText(t, s, "addUserToList", map[string]any{"listId": "L9", "username": "jack"}))
	assert.Equal(t, "12", fake.lastTarget)

	assert.Equal(t, "Successfully removed user 99 from list L9",
		okText(t, s, "removeUserFromList", map[string]any{"listId": "L9", "userId": "99"}))
	assert.Equal(t, "99", fake.lastTarget)

	assert.Equal(t, "Error: Either userId or username must be provided",
		errText(t, s, "addUserToList", map[string]any{"listId": "L9"}))

	assert.Equal(t, "No members found in list: L9", okText(t, s, "getListMembers", map[string]any{"listId": "L9"}))
	assert.Equal(t, "No lists found for user: jack", okText(t, s, "getUserLists", map[string]any{"username": "jack"}))

	fake.lists = []models.List{{ID: "L9", Name: "Go"}}
	assert.Contains(t, okText(t, s, "getUserLists", map[string]any{"username": "jack"}), "Lists owned by jack: ")
}

func TestSearchTweetsMergesAuthors(t *testing.T) {
	s, fake := xServer(t)
	fake.tweets = []models.Tweet{{ID: "1", Text: "go", AuthorID: "5"}}
	fake.people = []models.User{{ID: "5", Username: "ann"}}

	text := okText(t, s, "searchTweets", map[string]any{"query": "golang", "since": "2024-01-01T00:00:00Z"})
	assert.Contains(t, text, "Search results: ")
	assert.Contains(t, text, `"username": "ann"`)
	assert.Equal(t, "golang", fake.lastSearch.Query)
	assert.Equal(t, 10, fake.lastSearch.MaxResults)
	assert.Equal(t, "2024-01-01T00:00:00Z", fake.lastSearch.StartTime)
}

func TestSearchTweetsEmptyAndTier(t *testing.T) {
	s, fake := xServer(t)
	assert.Equal(t, "No tweets found for query: golang", okText(t, s, "searchTweets", map[string]any{"query": "golang"}))

	fake.err = &twitter.APIError{StatusCode: 400, Title: "Invalid Request"}
	assert.Equal(t, "Error: "+errSearchTier.Error(), errText(t, s, "searchTweets", map[string]any{"query": "golang"}))
}

func TestHashtagAnalytics(t *testing.T) {
	s, fake := xServer(t)
	assert.Equal(t, "No tweets found for hashtag: golang", okText(t, s, "getHashtagAnalytics", map[string]any{"hashtag": "golang"}))
	assert.Equal(t, "#golang", fake.lastSearch.Query)

	fake.tweets = []models.Tweet{
		{ID: "1", PublicMetrics: &models.TweetMetrics{LikeCount: 3, RetweetCount: 1, ReplyCount: 2}},
		{ID: "2", PublicMetrics: &models.TweetMetrics{LikeCount: 4}},
		{ID: "3"},
	}
	text := okText(t, s, "getHashtagAnalytics", map[string]any{"hashtag": "#golang"})
	assert.Contains(t, text, "Hashtag Analytics for #golang:\n")
	assert.Contains(t, text, `"totalTweets": 3`)
	assert.Contains(t, text, `"totalLikes": 7`)
	assert.Contains(t, text, `"totalReplies": 2`)
}

func TestHashtagAnalyticsWithoutCredentialsUsesTitle(t *testing.T) {
	s := newTestServer(t)
	text := okText(t, s, "getHashtagAnalytics", map[string]any{"hashtag": "golang"})
	assert.Equal(t, missingTwitterCredentials("hashtagAnalytics"), text)
}

func TestSendDirectMessage(t *testing.T) {
	s, fake := xServer(t)
	text := okText(t, s, "sendDirectMessage", map[string]any{"recipientId": "5", "text": "hey", "mediaId": "777"})
	assert.Contains(t, text, "Direct message sent successfully to user 5. Response: ")
	assert.Contains(t, text, `"dm_event_id": "dm1"`)
	assert.Equal(t, []string{"777"}, fake.lastDM.MediaIDs)

	fake.err = &twitter.APIError{StatusCode: 404}
	assert.Equal(t, "Error: Failed to send direct message: User 5 not found or cannot receive messages.",
		errText(t, s, "sendDirectMessage", map[string]any{"recipientId": "5", "text": "hey"}))
}

func TestDirectMessageListings(t *testing.T) {
	s, fake := xServer(t)
	assert.Equal(t, "No direct message conversations found.", okText(t, s, "getDirectMessages", map[string]any{"maxResults": 500}))
	assert.Equal(t, 100, fake.lastPage.MaxResults)
	assert.Equal(t, "No direct message events found.", okText(t, s, "getDirectMessageEvents", nil))
	assert.Equal(t, "No messages found in conversation c1.", okText(t, s, "getConversation", map[string]any{"conversationId": "c1"}))

	fake.events = []models.DMEvent{{ID: "e1", Text: "hey"}}
	assert.Contains(t, okText(t, s, "getDirectMessages", nil), "Retrieved 1 direct message events: ")
	assert.Contains(t, okText(t, s, "getConversation", map[string]any{"conversationId": "c1"}),
		"Retrieved 1 messages from conversation c1: ")

	fake.err = &twitter.APIError{StatusCode: 404}
	assert.Equal(t, "Error: Failed to get conversation: Conversation c1 not found.",
		errText(t, s, "getConversation", map[string]any{"conversationId": "c1"}))
}

func TestMarkAsRead(t *testing.T) {
	s, fake := xServer(t)
	text := okText(t, s, "markAsRead", map[string]any{"conversationId": "c1", "lastReadEventId": "e9"})
	assert.Contains(t, text, "Message e9 marked as read.")
	assert.Equal(t, []string{"Me"}, fake.calls)
}

func TestCreateMediaMessageAdvisories(t *testing.T) {
	s, fake := xServer(t)
	args := map[string]any{"recipientId": "5", "text": "pic", "mediaId": "777"}

	assert.Contains(t, okText(t, s, "createMediaMessage", args), "Direct message with media sent successfully to user 5.")

	fake.err = &twitter.APIError{StatusCode: 413}
	assert.Equal(t, "Error: Failed to send media message: Media file too large. Check Twitter's media size limits.",
		errText(t, s, "createMediaMessage", args))

	fake.err = &twitter.APIError{StatusCode: 415}
	assert.Contains(t, errText(t, s, "createMediaMessage", args), "Unsupported media type")
}

func TestModerationActions(t *testing.T) {
	s, fake := xServer(t)

	text := okText(t, s, "blockUser", map[string]any{"userId": "42"})
	assert.Contains(t, text, "Successfully blocked user 42. Response: ")
	assert.Equal(t, "42", fake.lastTarget)

	assert.Contains(t, okText(t, s, "muteUser", map[string]any{"username": "jack"}), "Successfully muted user jack.")
	assert.Equal(t, "12", fake.lastTarget)

	assert.Equal(t, "Error: Failed to unblock user: Either userId or username must be provided",
		errText(t, s, "unblockUser", map[string]any{}))
	assert.Equal(t, "Error: Failed to block user: User with username 'ghost' not found",
		errText(t, s, "blockUser", map[string]any{"username": "ghost"}))
}

func TestModerationAdvisories(t *testing.T) {
	s, fake := xServer(t)

	fake.err = &twitter.APIError{StatusCode: 422}
	assert.Equal(t, "Error: Failed to mute user: User jack may already be muted or cannot be muted.",
		errText(t, s, "muteUser", map[string]any{"username": "jack"}))

	fake.err = &twitter.APIError{StatusCode: 404}
	assert.Equal(t, "Error: Failed to unmute user: User 42 not found or was not previously muted.",
		errText(t, s, "unmuteUser", map[string]any{"userId": "42"}))

	fake.err = &twitter.APIError{StatusCode: 403}
	assert.Equal(t, "Error: Failed to block user: Insufficient permissions. Blocking requires OAuth 2.0 authentication with block.write scope.",
		errText(t, s, "blockUser", map[string]any{"userId": "42"}))
}

func TestModerationListings(t *testing.T) {
	s, fake := xServer(t)
	assert.Equal(t, "No blocked users found.", okText(t, s, "getBlockedUsers", map[string]any{"maxResults": 5000}))
	assert.Equal(t, 1000, fake.lastPage.MaxResults)

	fake.people = []models.User{{ID: "5", Username: "ann"}}
	text := okText(t, s, "getMutedUsers", map[string]any{"paginationToken": "next"})
	assert.Contains(t, text, "Retrieved 1 muted users: ")
	assert.Contains(t, text, `"mutedUsers"`)
	assert.Equal(t, "next", fake.lastPage.PaginationToken)

	fake.err = &twitter.APIError{StatusCode: 429}
	assert.Equal(t, "Error: Failed to get muted users: Rate limit exceeded. Mute endpoints allow 50 requests per 15 minutes.",
		errText(t, s, "getMutedUsers", nil))
}
