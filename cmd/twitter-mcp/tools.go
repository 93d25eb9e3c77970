// ABOUTME: CLI commands for inspecting and invoking MCP tools from a shell.
// ABOUTME: Provides list and call subcommands that go through the server dispatcher.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List or call MCP tools",
	Long:  "Inspect the tool catalog and call individual tools without an MCP client.",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available tools",
	RunE:  runToolsList,
}

var toolsCallCmd = &cobra.Command{
	Use:   "call <name>",
	Short: "Call a tool",
	Long:  "Call a tool by name with a JSON object of arguments.",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolsCall,
}

// Flags
var (
	toolsCallArgs string
	toolsVerbose  bool
)

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsCallCmd)

	toolsListCmd.Flags().BoolVarP(&toolsVerbose, "verbose", "v", false, "Show descriptions and required arguments")
	toolsCallCmd.Flags().StringVar(&toolsCallArgs, "args", "{}", "Tool arguments as a JSON object")
}

func runToolsList(cmd *cobra.Command, args []string) error {
	server, err := newServer(globalConfig)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, t := range server.Tools() {
		if !toolsVerbose {
			fmt.Fprintln(out, t.Name)
			continue
		}
		fmt.Fprintf(out, "%s\n  %s\n", t.Name, t.Description)
		if len(t.Required) > 0 {
			fmt.Fprintf(out, "  required: %s\n", strings.Join(t.Required, ", "))
		}
	}
	return nil
}

var errToolFailed = errors.New("tool call failed")

func runToolsCall(cmd *cobra.Command, args []string) error {
	if !json.Valid([]byte(toolsCallArgs)) {
		return fmt.Errorf("--args is not valid JSON: %s", toolsCallArgs)
	}

	server, err := newServer(globalConfig)
	if err != nil {
		return err
	}

	result := server.Call(cmd.Context(), args[0], json.RawMessage(toolsCallArgs))
	for _, c := range result.Content {
		if tc, ok := c.(*gomcp.TextContent); ok {
			fmt.Fprintln(cmd.OutOrStdout(), tc.Text)
		}
	}
	if result.IsError {
		return errToolFailed
	}
	return nil
}
