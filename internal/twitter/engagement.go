// ABOUTME: Engagement endpoints for likes and retweets.
// ABOUTME: Includes retweeted_by and liked_tweets listings.
package twitter

import (
	"context"
	"net/http"
	"net/url"

	"github.com/2389-research/twitter-mcp/internal/models"
)

type tweetIDPayload struct {
	TweetID string `json:"tweet_id"`
}

// Like likes tweetID as userID.
func (c *Client) Like(ctx context.Context, userID, tweetID string) error {
	path := "/2/users/" + url.PathEscape(userID) + "/likes"
	return c.doJSON(ctx, http.MethodPost, c.endpoint(path, nil), tweetIDPayload{TweetID: tweetID}, nil)
}

// Unlike removes a like.
func (c *Client) Unlike(ctx context.Context, userID, tweetID string) error {
	path := "/2/users/" + url.PathEscape(userID) + "/likes/" + url.PathEscape(tweetID)
	return c.doJSON(ctx, http.MethodDelete, c.endpoint(path, nil), nil, nil)
}

// Retweet retweets tweetID as userID.
func (c *Client) Retweet(ctx context.Context, userID, tweetID string) error {
	path := "/2/users/" + url.PathEscape(userID) + "/retweets"
	return c.doJSON(ctx, http.MethodPost, c.endpoint(path, nil), tweetIDPayload{TweetID: tweetID}, nil)
}

// UndoRetweet removes a retweet.
func (c *Client) UndoRetweet(ctx context.Context, userID, tweetID string) error {
	path := "/2/users/" + url.PathEscape(userID) + "/retweets/" + url.PathEscape(tweetID)
	return c.doJSON(ctx, http.MethodDelete, c.endpoint(path, nil), nil, nil)
}

// RetweetedBy lists users who retweeted tweetID.
func (c *Client) RetweetedBy(ctx context.Context, tweetID string, opts PageOptions) (*models.Page[models.User], error) {
	return c.userPage(ctx, "/2/tweets/"+url.PathEscape(tweetID)+"/retweeted_by", opts)
}

// LikedTweets lists tweets liked by userID.
func (c *Client) LikedTweets(ctx context.Context, userID string, opts PageOptions) (*models.Page[models.Tweet], error) {
	var out models.Page[models.Tweet]
	path := "/2/users/" + url.PathEscape(userID) + "/liked_tweets"
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(path, opts.values()), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
