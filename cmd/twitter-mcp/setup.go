// ABOUTME: Cobra command for interactive X API and SocialData credential setup.
// ABOUTME: Launches a bubbletea TUI wizard to collect and validate credentials.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/twitter-mcp/internal/config"
	"github.com/2389-research/twitter-mcp/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure X API and SocialData credentials",
	Long:  "Interactive wizard to enter and validate X API and SocialData.tools credentials.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	// Only the config file is edited; env overrides must not leak into it.
	cfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(cfg.TwitterAPIURL(), tui.Credentials{
		APIKey:            cfg.Twitter.APIKey,
		APISecret:         cfg.Twitter.APISecret,
		AccessToken:       cfg.Twitter.AccessToken,
		AccessTokenSecret: cfg.Twitter.AccessTokenSecret,
		SocialDataKey:     cfg.SocialData.APIKey,
	})

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup cancelled.")
		return nil
	}

	creds := final.Result()
	cfg.Twitter.APIKey = creds.APIKey
	cfg.Twitter.APISecret = creds.APISecret
	cfg.Twitter.AccessToken = creds.AccessToken
	cfg.Twitter.AccessTokenSecret = creds.AccessTokenSecret
	cfg.SocialData.APIKey = creds.SocialDataKey

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Println("Config saved successfully.")
	} else {
		fmt.Printf("Config saved to %s\n", configPath)
	}
	return nil
}
