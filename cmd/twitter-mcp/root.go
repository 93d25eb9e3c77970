// ABOUTME: Root Cobra command and lifecycle hooks for the twitter-mcp CLI.
// ABOUTME: Loads config, configures slog on stderr and builds the upstream clients.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/2389-research/twitter-mcp/internal/config"
	mcppkg "github.com/2389-research/twitter-mcp/internal/mcp"
	"github.com/2389-research/twitter-mcp/internal/socialdata"
	"github.com/2389-research/twitter-mcp/internal/twitter"
)

var globalConfig *config.Config
var globalLogFile io.Closer

var rootCmd = &cobra.Command{
	Use:   "twitter-mcp",
	Short: "MCP server for the X API and SocialData.tools",
	Long: `
████████╗██╗    ██╗██╗████████╗████████╗███████╗██████╗
╚══██╔══╝██║    ██║██║╚══██╔══╝╚══██╔══╝██╔════╝██╔══██╗
   ██║   ██║ █╗ ██║██║   ██║      ██║   █████╗  ██████╔╝
   ██║   ██║███╗██║██║   ██║      ██║   ██╔══╝  ██╔══██╗
   ██║   ╚███╔███╔╝██║   ██║      ██║   ███████╗██║  ██║
   ╚═╝    ╚══╝╚══╝ ╚═╝   ╚═╝      ╚═╝   ╚══════╝╚═╝  ╚═╝

   TWITTER MCP

Tweets, engagement, lists, DMs and moderation through the X API v2,
plus search and analytics through SocialData.tools.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "setup" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg

		return setupLogging(cfg)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalLogFile != nil {
			_ = globalLogFile.Close()
			globalLogFile = nil
		}
		return nil
	},
}

// setupLogging installs the default slog logger. stdout carries the MCP
// stream, so logs go to stderr or to the configured file.
func setupLogging(cfg *config.Config) error {
	var level slog.Level
	if cfg.Log.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	path, err := cfg.GetLogPath()
	if err != nil {
		return err
	}
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	globalLogFile = f
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, opts)))
	return nil
}

// newServer builds the MCP server with whichever clients are configured.
// A missing credential set leaves that client out rather than failing.
func newServer(cfg *config.Config) (*mcppkg.Server, error) {
	var opts []mcppkg.ServerOption

	if cfg.HasTwitter() {
		client, err := twitter.NewClient(twitter.ClientConfig{
			APIKey:            cfg.Twitter.APIKey,
			APISecret:         cfg.Twitter.APISecret,
			AccessToken:       cfg.Twitter.AccessToken,
			AccessTokenSecret: cfg.Twitter.AccessTokenSecret,
			BearerToken:       cfg.Twitter.BearerToken,
			BaseURL:           cfg.TwitterAPIURL(),
			UploadURL:         cfg.TwitterUploadURL(),
			RequestsPerSecond: cfg.Twitter.RequestsPerSecond,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create X API client: %w", err)
		}
		if !client.UserContext() {
			slog.Warn("X API using app-only bearer token; posting, engagement and DM tools need OAuth 1.0a keys")
		}
		opts = append(opts, mcppkg.WithTwitter(client))
	} else {
		slog.Warn("X API credentials not configured; X tools will return setup guidance")
	}

	if cfg.HasSocialData() {
		opts = append(opts, mcppkg.WithSocialData(socialdata.NewClient(cfg.SocialData.APIKey, cfg.SocialDataURL())))
	} else {
		slog.Warn("SocialData API key not configured; SocialData tools will return setup guidance")
	}

	return mcppkg.NewServer(opts...)
}
