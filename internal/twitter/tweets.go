// ABOUTME: Tweet endpoints: create, lookup, delete, user timelines and recent search.
// ABOUTME: Reply and media attachments are expressed through TweetRequest.
package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/2389-research/twitter-mcp/internal/models"
)

// TweetRequest is the body of POST /2/tweets.
type TweetRequest struct {
	Text     string
	ReplyTo  string
	MediaIDs []string
}

type tweetPayload struct {
	Text  string        `json:"text"`
	Reply *replyPayload `json:"reply,omitempty"`
	Media *mediaPayload `json:"media,omitempty"`
}

type replyPayload struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type mediaPayload struct {
	MediaIDs []string `json:"media_ids"`
}

// CreateTweet posts a tweet, reply or media tweet.
func (c *Client) CreateTweet(ctx context.Context, r TweetRequest) (*models.Tweet, error) {
	payload := tweetPayload{Text: r.Text}
	if r.ReplyTo != "" {
		payload.Reply = &replyPayload{InReplyToTweetID: r.ReplyTo}
	}
	if len(r.MediaIDs) > 0 {
		payload.Media = &mediaPayload{MediaIDs: r.MediaIDs}
	}

	var out dataEnvelope[models.Tweet]
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("/2/tweets", nil), payload, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, fmt.Errorf("create tweet: empty response")
	}
	return out.Data, nil
}

// GetTweet fetches a single tweet.
func (c *Client) GetTweet(ctx context.Context, id string, fields Fields) (*models.Tweet, error) {
	q := url.Values{}
	fields.apply(q)

	var out dataEnvelope[models.Tweet]
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("/2/tweets/"+url.PathEscape(id), q), nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Title: "Not Found Error", Detail: "Could not find tweet with id: " + id}
	}
	return out.Data, nil
}

// GetTweets fetches up to 100 tweets by id.
func (c *Client) GetTweets(ctx context.Context, ids []string, fields Fields) (*models.Page[models.Tweet], error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	fields.apply(q)

	var out models.Page[models.Tweet]
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("/2/tweets", q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTweet deletes a tweet owned by the authenticated user.
func (c *Client) DeleteTweet(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.endpoint("/2/tweets/"+url.PathEscape(id), nil), nil, nil)
}

// UserTweets lists the most recent tweets authored by a user.
func (c *Client) UserTweets(ctx context.Context, userID string, opts PageOptions) (*models.Page[models.Tweet], error) {
	var out models.Page[models.Tweet]
	path := "/2/users/" + url.PathEscape(userID) + "/tweets"
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(path, opts.values()), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchOptions controls GET /2/tweets/search/recent.
type SearchOptions struct {
	Fields
	Query      string
	MaxResults int
	StartTime  string
	EndTime    string
	NextToken  string
}

// SearchRecent searches tweets from the last seven days.
func (c *Client) SearchRecent(ctx context.Context, opts SearchOptions) (*models.Page[models.Tweet], error) {
	q := url.Values{}
	q.Set("query", opts.Query)
	opts.Fields.apply(q)
	if opts.MaxResults > 0 {
		q.Set("max_results", strconv.Itoa(opts.MaxResults))
	}
	if opts.StartTime != "" {
		q.Set("start_time", opts.StartTime)
	}
	if opts.EndTime != "" {
		q.Set("end_time", opts.EndTime)
	}
	if opts.NextToken != "" {
		q.Set("next_token", opts.NextToken)
	}

	var out models.Page[models.Tweet]
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("/2/tweets/search/recent", q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
