// ABOUTME: Credential validation for the X API.
// ABOUTME: Signs a GET /2/users/me request with the entered OAuth 1.0a values.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/2389-research/twitter-mcp/internal/twitter"
)

const validateTimeout = 10 * time.Second

// ValidateConnection tests the X credentials by fetching the authenticated user.
// The context allows cancellation when the user quits during validation.
func ValidateConnection(ctx context.Context, apiURL string, creds Credentials) error {
	client, err := twitter.NewClient(twitter.ClientConfig{
		APIKey:            creds.APIKey,
		APISecret:         creds.APISecret,
		AccessToken:       creds.AccessToken,
		AccessTokenSecret: creds.AccessTokenSecret,
		BaseURL:           apiURL,
		Timeout:           validateTimeout,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	if _, err := client.Me(ctx, twitter.Fields{}); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return nil
}
