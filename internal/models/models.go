// ABOUTME: Upstream entity types for the X API v2 and SocialData.tools.
// ABOUTME: Provides the canonical Page envelope and metric helper methods.
package models

import (
	"encoding/json"
	"time"
)

// Tweet is an X API v2 tweet object.
type Tweet struct {
	ID                 string          `json:"id"`
	Text               string          `json:"text"`
	AuthorID           string          `json:"author_id,omitempty"`
	ConversationID     string          `json:"conversation_id,omitempty"`
	CreatedAt          string          `json:"created_at,omitempty"`
	Lang               string          `json:"lang,omitempty"`
	PublicMetrics      *TweetMetrics   `json:"public_metrics,omitempty"`
	Entities           json.RawMessage `json:"entities,omitempty"`
	ContextAnnotations json.RawMessage `json:"context_annotations,omitempty"`
	Attachments        json.RawMessage `json:"attachments,omitempty"`
	ReferencedTweets   json.RawMessage `json:"referenced_tweets,omitempty"`

	// Author is filled from includes.users when the author_id expansion is requested.
	Author *User `json:"author,omitempty"`

	// Extra holds upstream members the fields above do not carry.
	Extra map[string]json.RawMessage `json:"-"`
}

// TweetMetrics holds the public engagement counters of a tweet.
type TweetMetrics struct {
	RetweetCount    int `json:"retweet_count"`
	ReplyCount      int `json:"reply_count"`
	LikeCount       int `json:"like_count"`
	QuoteCount      int `json:"quote_count"`
	BookmarkCount   int `json:"bookmark_count,omitempty"`
	ImpressionCount int `json:"impression_count,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// User is an X API v2 user object.
type User struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Username        string       `json:"username"`
	Description     string       `json:"description,omitempty"`
	Location        string       `json:"location,omitempty"`
	URL             string       `json:"url,omitempty"`
	ProfileImageURL string       `json:"profile_image_url,omitempty"`
	CreatedAt       string       `json:"created_at,omitempty"`
	Protected       bool         `json:"protected,omitempty"`
	Verified        bool         `json:"verified,omitempty"`
	PublicMetrics   *UserMetrics `json:"public_metrics,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// UserMetrics holds the public counters of a user.
type UserMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
	ListedCount    int `json:"listed_count"`
	LikeCount      int `json:"like_count,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// List is an X API v2 list object.
type List struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	OwnerID       string `json:"owner_id,omitempty"`
	Private       *bool  `json:"private,omitempty"`
	FollowerCount *int   `json:"follower_count,omitempty"`
	MemberCount   *int   `json:"member_count,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// DMEvent is an X API v2 direct message event.
type DMEvent struct {
	ID               string          `json:"id"`
	EventType        string          `json:"event_type,omitempty"`
	Text             string          `json:"text,omitempty"`
	CreatedAt        string          `json:"created_at,omitempty"`
	SenderID         string          `json:"sender_id,omitempty"`
	DMConversationID string          `json:"dm_conversation_id,omitempty"`
	ParticipantIDs   []string        `json:"participant_ids,omitempty"`
	ReferencedTweets json.RawMessage `json:"referenced_tweets,omitempty"`
	Attachments      json.RawMessage `json:"attachments,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Includes carries expanded objects referenced from a response's data.
type Includes struct {
	Users  []User          `json:"users,omitempty"`
	Tweets []Tweet         `json:"tweets,omitempty"`
	Media  json.RawMessage `json:"media,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Meta carries pagination details for list responses.
type Meta struct {
	ResultCount   int    `json:"result_count"`
	NextToken     string `json:"next_token,omitempty"`
	PreviousToken string `json:"previous_token,omitempty"`
	NewestID      string `json:"newest_id,omitempty"`
	OldestID      string `json:"oldest_id,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Page is the single response shape for every list-returning upstream call.
// Data is always the top-level array; callers never look for a nested data.data.
type Page[T any] struct {
	Data     []T       `json:"data"`
	Includes *Includes `json:"includes,omitempty"`
	Meta     *Meta     `json:"meta,omitempty"`
}

// Len returns the number of items on the page.
func (p *Page[T]) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Data)
}

// Media is the result of a v1.1 media upload.
type Media struct {
	MediaID       int64  `json:"media_id"`
	MediaIDString string `json:"media_id_string"`
	Size          int64  `json:"size,omitempty"`
	ExpiresAfter  int    `json:"expires_after_secs,omitempty"`
}

// SocialTweet is a tweet as returned by SocialData.tools (v1.1-like shape).
type SocialTweet struct {
	IDStr                string          `json:"id_str"`
	Text                 string          `json:"text,omitempty"`
	FullText             string          `json:"full_text,omitempty"`
	TweetCreatedAt       string          `json:"tweet_created_at,omitempty"`
	CreatedAt            string          `json:"created_at,omitempty"`
	Lang                 string          `json:"lang,omitempty"`
	ConversationIDStr    string          `json:"conversation_id_str,omitempty"`
	InReplyToStatusIDStr string          `json:"in_reply_to_status_id_str,omitempty"`
	QuotedStatusIDStr    string          `json:"quoted_status_id_str,omitempty"`
	FavoriteCount        int             `json:"favorite_count"`
	RetweetCount         int             `json:"retweet_count"`
	ReplyCount           int             `json:"reply_count"`
	QuoteCount           int             `json:"quote_count"`
	ViewsCount           int             `json:"views_count,omitempty"`
	PublicMetrics        *TweetMetrics   `json:"public_metrics,omitempty"`
	Entities             json.RawMessage `json:"entities,omitempty"`
	User                 *SocialUser     `json:"user,omitempty"`
}

// Body returns the tweet text, preferring the untruncated form.
func (t SocialTweet) Body() string {
	if t.FullText != "" {
		return t.FullText
	}
	return t.Text
}

// Likes returns the like count from either metric shape.
func (t SocialTweet) Likes() int {
	if t.PublicMetrics != nil && t.PublicMetrics.LikeCount > 0 {
		return t.PublicMetrics.LikeCount
	}
	return t.FavoriteCount
}

// Retweets returns the retweet count from either metric shape.
func (t SocialTweet) Retweets() int {
	if t.PublicMetrics != nil && t.PublicMetrics.RetweetCount > 0 {
		return t.PublicMetrics.RetweetCount
	}
	return t.RetweetCount
}

// Replies returns the reply count from either metric shape.
func (t SocialTweet) Replies() int {
	if t.PublicMetrics != nil && t.PublicMetrics.ReplyCount > 0 {
		return t.PublicMetrics.ReplyCount
	}
	return t.ReplyCount
}

// AuthorHandle returns the author's screen name, or "" when the user is absent.
func (t SocialTweet) AuthorHandle() string {
	if t.User == nil {
		return ""
	}
	return t.User.Handle()
}

// Created parses tweet_created_at (ISO 8601) or the legacy created_at format.
func (t SocialTweet) Created() (time.Time, bool) {
	for _, v := range []string{t.TweetCreatedAt, t.CreatedAt} {
		if v == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return ts.UTC(), true
		}
		if ts, err := time.Parse(time.RubyDate, v); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// SocialUser is a user profile as returned by SocialData.tools.
type SocialUser struct {
	IDStr                string       `json:"id_str,omitempty"`
	Name                 string       `json:"name,omitempty"`
	ScreenName           string       `json:"screen_name,omitempty"`
	Username             string       `json:"username,omitempty"`
	Description          string       `json:"description,omitempty"`
	Location             string       `json:"location,omitempty"`
	ProfileImageURLHTTPS string       `json:"profile_image_url_https,omitempty"`
	CreatedAt            string       `json:"created_at,omitempty"`
	Verified             bool         `json:"verified"`
	FollowersCount       int          `json:"followers_count"`
	FriendsCount         int          `json:"friends_count"`
	StatusesCount        int          `json:"statuses_count"`
	FavouritesCount      int          `json:"favourites_count,omitempty"`
	PublicMetrics        *UserMetrics `json:"public_metrics,omitempty"`
}

// Handle returns the screen name, falling back to the v2 username.
func (u SocialUser) Handle() string {
	if u.ScreenName != "" {
		return u.ScreenName
	}
	return u.Username
}

// Followers returns the follower count from either metric shape.
func (u SocialUser) Followers() int {
	if u.PublicMetrics != nil && u.PublicMetrics.FollowersCount > 0 {
		return u.PublicMetrics.FollowersCount
	}
	return u.FollowersCount
}

// Following returns the following count from either metric shape.
func (u SocialUser) Following() int {
	if u.PublicMetrics != nil && u.PublicMetrics.FollowingCount > 0 {
		return u.PublicMetrics.FollowingCount
	}
	return u.FriendsCount
}

// Statuses returns the total tweet count from either metric shape.
func (u SocialUser) Statuses() int {
	if u.PublicMetrics != nil && u.PublicMetrics.TweetCount > 0 {
		return u.PublicMetrics.TweetCount
	}
	return u.StatusesCount
}
