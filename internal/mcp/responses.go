// ABOUTME: Response envelopes, credential guidance and upstream error mapping.
// ABOUTME: Shared formatters render tweet and user lists as indented JSON.
package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/twitter-mcp/internal/models"
	"github.com/2389-research/twitter-mcp/internal/socialdata"
	"github.com/2389-research/twitter-mcp/internal/twitter"
)

// isoMillis matches the millisecond ISO 8601 timestamps used in reports.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// now is replaced in tests.
var now = time.Now

// toolError creates an error result for MCP tool responses.
func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func textResult(text string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}
}

func missingTwitterCredentials(title string) string {
	return "📋 **" + title + ` requires Twitter API credentials**

To use Twitter tools, please:

1. **Create a Twitter Developer Account** at https://developer.twitter.com
2. **Create a new Twitter App** and generate API keys
3. **Add to your .env file:**
   ` + "```" + `
   X_API_KEY=your_api_key_here
   X_API_SECRET=your_api_secret_here
   X_ACCESS_TOKEN=your_access_token_here
   X_ACCESS_TOKEN_SECRET=your_access_token_secret_here
   ` + "```" + `
4. **Restart the MCP server**

**Alternative:** Use the enhanced SocialData.tools research tools instead (if available)`
}

func missingSocialDataKey(title string) string {
	return "⚠️ **" + title + ` requires SocialData.tools API key**

To use enhanced research tools, please:

1. **Get an API key** at https://socialdata.tools
2. **Add to your .env file:**
   ` + "```" + `
   SOCIALDATA_API_KEY=your_api_key_here
   ` + "```" + `
3. **Restart the MCP server**

**Alternative:** Use the basic Twitter API tools instead (with limited access)`
}

// statusOf returns the upstream HTTP status carried by err, or 0.
func statusOf(err error) int {
	if code := twitter.StatusCode(err); code != 0 {
		return code
	}
	return socialdata.StatusCode(err)
}

// hasStatus reports whether err carries one of codes. Errors without a typed
// status fall back to looking for the code in the message.
func hasStatus(err error, codes ...int) bool {
	if err == nil {
		return false
	}
	status := statusOf(err)
	msg := err.Error()
	for _, code := range codes {
		if status == code {
			return true
		}
		if status == 0 && strings.Contains(msg, strconv.Itoa(code)) {
			return true
		}
	}
	return false
}

// twitterError maps an X API failure during action to user guidance.
func twitterError(err error, action string) error {
	switch {
	case hasStatus(err, http.StatusUnauthorized, http.StatusForbidden):
		return fmt.Errorf("Twitter API authentication failed: %w. Please check your Twitter API credentials in the .env file.", err)
	case hasStatus(err, http.StatusTooManyRequests):
		return fmt.Errorf("Twitter API rate limit exceeded during %s. Please wait and try again later.", action)
	case hasStatus(err, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable):
		return fmt.Errorf("Twitter API server error during %s. Please try again later.", action)
	default:
		return fmt.Errorf("Twitter API error during %s: %w", action, err)
	}
}

// socialDataError maps a SocialData.tools failure during action to user guidance.
func socialDataError(err error, action string) error {
	switch {
	case hasStatus(err, http.StatusUnauthorized, http.StatusForbidden):
		return fmt.Errorf("SocialData API authentication failed: %w. Please check your SOCIALDATA_API_KEY in the .env file.", err)
	case hasStatus(err, http.StatusTooManyRequests):
		return fmt.Errorf("SocialData API rate limit exceeded: %w. Please wait before making another request.", err)
	case hasStatus(err, http.StatusInternalServerError):
		return fmt.Errorf("SocialData API server error: %w. Please try again later.", err)
	default:
		return fmt.Errorf("SocialData %s failed: %w", action, err)
	}
}

// userLookupError turns a missing user into "User not found: name".
func userLookupError(err error, username string) error {
	if errors.Is(err, twitter.ErrUserNotFound) {
		return fmt.Errorf("User not found: %s", username)
	}
	return err
}

func indent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func formatAnalytics(v any, title string) string {
	return title + ":\n" + indent(v)
}

type tweetSummary struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Author    string        `json:"author,omitempty"`
	CreatedAt string        `json:"created_at,omitempty"`
	Metrics   *tweetMetrics `json:"metrics,omitempty"`
}

type tweetMetrics struct {
	Likes    int `json:"likes"`
	Retweets int `json:"retweets"`
	Replies  int `json:"replies"`
}

func formatTweetList(tweets []models.SocialTweet, title string) string {
	if len(tweets) == 0 {
		return "No tweets found for " + title
	}
	out := make([]tweetSummary, 0, len(tweets))
	for _, t := range tweets {
		created := t.CreatedAt
		if created == "" {
			created = t.TweetCreatedAt
		}
		out = append(out, tweetSummary{
			ID:        t.IDStr,
			Text:      t.Body(),
			Author:    t.AuthorHandle(),
			CreatedAt: created,
			Metrics:   &tweetMetrics{Likes: t.Likes(), Retweets: t.Retweets(), Replies: t.Replies()},
		})
	}
	return formatAnalytics(out, title)
}

type userSummary struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
	Verified  bool   `json:"verified"`
}

func formatUserList(users []models.SocialUser, title string) string {
	if len(users) == 0 {
		return "No users found for " + title
	}
	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userSummary{
			Username:  u.Handle(),
			Name:      u.Name,
			Followers: u.Followers(),
			Following: u.Following(),
			Verified:  u.Verified,
		})
	}
	return formatAnalytics(out, title)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// fieldsOr returns fields, or the comma-separated defaults when fields is empty.
func fieldsOr(fields []string, defaults string) []string {
	if len(fields) > 0 {
		return fields
	}
	return strings.Split(defaults, ",")
}

// count is a numeric tool argument. Fractional values are truncated toward zero.
type count int

func (c *count) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = count(f)
	return nil
}

func intOr(n count, def int) int {
	if n <= 0 {
		return def
	}
	return int(n)
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// decodeArgs unmarshals tool arguments into dst.
func decodeArgs(args json.RawMessage, dst any) error {
	if err := json.Unmarshal(args, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
