// ABOUTME: Tests for the X API client against httptest servers.
// ABOUTME: Covers auth headers, payloads, error parsing, pagination and media upload.
package twitter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(ClientConfig{
		BearerToken: "test-bearer",
		BaseURL:     server.URL,
		UploadURL:   server.URL,
	})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(ClientConfig{APIKey: "only-key"})
	assert.Error(t, err)
}

func TestBearerAuthHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-bearer", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"id":"1","name":"Me","username":"me"}}`))
	})
	assert.False(t, c.UserContext())

	user, err := c.Me(context.Background(), Fields{User: []string{"public_metrics"}})
	require.NoError(t, err)
	assert.Equal(t, "me", user.Username)
}

func TestOAuth1SignsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		assert.True(t, strings.HasPrefix(auth, "OAuth "), "expected OAuth header, got %q", auth)
		assert.Contains(t, auth, `oauth_consumer_key="ck"`)
		assert.Contains(t, auth, `oauth_token="at"`)
		_, _ = w.Write([]byte(`{"data":{"id":"42","text":"hi"}}`))
	}))
	defer server.Close()

	c, err := NewClient(ClientConfig{
		APIKey: "ck", APISecret: "cs", AccessToken: "at", AccessTokenSecret: "as",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	assert.True(t, c.UserContext())

	tweet, err := c.CreateTweet(context.Background(), TweetRequest{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "42", tweet.ID)
}

func TestCreateTweetPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2/tweets", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "reply text", body["text"])
		assert.Equal(t, map[string]any{"in_reply_to_tweet_id": "99"}, body["reply"])
		assert.Equal(t, map[string]any{"media_ids": []any{"m1"}}, body["media"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"100","text":"reply text"}}`))
	})

	tweet, err := c.CreateTweet(context.Background(), TweetRequest{Text: "reply text", ReplyTo: "99", MediaIDs: []string{"m1"}})
	require.NoError(t, err)
	assert.Equal(t, "100", tweet.ID)
}

func TestAPIErrorParsesProblem(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"title":"Too Many Requests","detail":"Too Many Requests","type":"about:blank","status":429}`))
	})

	_, err := c.GetTweet(context.Background(), "1", Fields{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, 429, StatusCode(err))
	assert.Contains(t, err.Error(), "429")
}

func TestAPIErrorInvalidRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad query","parameters":{}}],"title":"Invalid Request","detail":"One or more parameters to your request was invalid."}`))
	})

	_, err := c.SearchRecent(context.Background(), SearchOptions{Query: "golang"})
	require.Error(t, err)
	assert.True(t, IsInvalidRequest(err))
	assert.Contains(t, err.Error(), "bad query")
}

func TestAPIErrorPlainBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	})

	err := c.DeleteTweet(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, "Request failed with code 502: upstream down", err.Error())
}

func TestUserByUsernameNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/by/username/ghost", r.URL.Path)
		_, _ = w.Write([]byte(`{"errors":[{"title":"Not Found Error","detail":"Could not find user with username: [ghost]."}]}`))
	})

	_, err := c.UserByUsername(context.Background(), "ghost", Fields{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetTweetKeepsUnmodeledFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/tweets/1", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":"1","text":"hi","edit_history_tweet_ids":["1"],"in_reply_to_user_id":"42"}}`))
	})

	tweet, err := c.GetTweet(context.Background(), "1", Fields{})
	require.NoError(t, err)
	assert.Equal(t, "hi", tweet.Text)

	out, err := json.Marshal(tweet)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","text":"hi","edit_history_tweet_ids":["1"],"in_reply_to_user_id":"42"}`, string(out))
}

func TestPageOptionsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/7/followers", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "50", q.Get("max_results"))
		assert.Equal(t, "tok", q.Get("pagination_token"))
		assert.Equal(t, "description,verified", q.Get("user.fields"))
		_, _ = w.Write([]byte(`{"data":[{"id":"1","name":"A","username":"a"}],"meta":{"result_count":1,"next_token":"n2"}}`))
	})

	page, err := c.Followers(context.Background(), "7", PageOptions{
		Fields:          Fields{User: []string{"description", "verified"}},
		MaxResults:      50,
		PaginationToken: "tok",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Len())
	assert.Equal(t, "n2", page.Meta.NextToken)
}

func TestEngagementEndpoints(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost {
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "t1", body["tweet_id"])
		}
		_, _ = w.Write([]byte(`{"data":{"liked":true}}`))
	})

	ctx := context.Background()
	require.NoError(t, c.Like(ctx, "u1", "t1"))
	require.NoError(t, c.Unlike(ctx, "u1", "t1"))
	require.NoError(t, c.Retweet(ctx, "u1", "t1"))
	require.NoError(t, c.UndoRetweet(ctx, "u1", "t1"))

	assert.Equal(t, []string{
		"POST /2/users/u1/likes",
		"DELETE /2/users/u1/likes/t1",
		"POST /2/users/u1/retweets",
		"DELETE /2/users/u1/retweets/t1",
	}, seen)
}

func TestBlockReturnsRawResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/me1/blocking", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"blocking":true}}`))
	})

	raw, err := c.Block(context.Background(), "me1", "target")
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"blocking":true}}`, string(raw))
}

func TestSendDMAttachments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/dm_conversations/with/55/messages", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"text":"hello","attachments":[{"media_id":"m9"}]}`, string(body))
		_, _ = w.Write([]byte(`{"data":{"dm_conversation_id":"c1","dm_event_id":"e1"}}`))
	})

	raw, err := c.SendDM(context.Background(), "55", DMRequest{Text: "hello", MediaIDs: []string{"m9"}})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "dm_event_id")
}

func TestUploadMediaChunkedFlow(t *testing.T) {
	prev := statusPollInterval
	statusPollInterval = 10 * time.Millisecond
	t.Cleanup(func() { statusPollInterval = prev })

	var commands []string
	var statusCalls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case uploadPath:
			if r.Method == http.MethodGet {
				atomic.AddInt32(&statusCalls, 1)
				_, _ = w.Write([]byte(`{"media_id_string":"777","processing_info":{"state":"succeeded"}}`))
				return
			}
			if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
				assert.NoError(t, r.ParseMultipartForm(1<<20))
				commands = append(commands, r.FormValue("command")+":"+r.FormValue("segment_index"))
				w.WriteHeader(http.StatusNoContent)
				return
			}
			assert.NoError(t, r.ParseForm())
			cmd := r.FormValue("command")
			commands = append(commands, cmd)
			switch cmd {
			case "INIT":
				assert.Equal(t, "image/png", r.FormValue("media_type"))
				assert.Equal(t, "tweet_image", r.FormValue("media_category"))
				_, _ = w.Write([]byte(`{"media_id":777,"media_id_string":"777"}`))
			case "FINALIZE":
				_, _ = w.Write([]byte(`{"media_id":777,"media_id_string":"777","processing_info":{"state":"pending","check_after_secs":0}}`))
			}
		case metadataPath:
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"media_id":"777","alt_text":{"text":"a cat"}}`, string(body))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	path := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(path, []byte("not really a png"), 0600))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	media, err := c.UploadMedia(ctx, path, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "777", media.MediaIDString)
	assert.Equal(t, []string{"INIT", "APPEND:0", "FINALIZE"}, commands)
	assert.Equal(t, int32(1), atomic.LoadInt32(&statusCalls))

	require.NoError(t, c.SetMediaAltText(ctx, "777", "a cat"))
}

func TestUploadMediaMissingFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := c.UploadMedia(context.Background(), filepath.Join(t.TempDir(), "missing.png"), "image/png")
	assert.Error(t, err)
}

func TestUploadMediaRejectsUnsupportedType(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0600))

	_, err := c.UploadMedia(context.Background(), path, "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported media type "text/plain"`)
	assert.Contains(t, err.Error(), "image/jpeg, image/png, image/gif, video/mp4")
}

func TestMediaCategory(t *testing.T) {
	assert.Equal(t, "tweet_image", mediaCategory("image/jpeg"))
	assert.Equal(t, "tweet_gif", mediaCategory("image/gif"))
	assert.Equal(t, "tweet_video", mediaCategory("video/mp4"))
}

func TestRequestsPerSecondPacing(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"data":{"id":"1","name":"n","username":"u"}}`))
	}))
	defer server.Close()

	c, err := NewClient(ClientConfig{BearerToken: "b", BaseURL: server.URL, RequestsPerSecond: 1000})
	require.NoError(t, err)
	require.NotNil(t, c.limiter)

	for i := 0; i < 3; i++ {
		_, err := c.Me(context.Background(), Fields{})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
