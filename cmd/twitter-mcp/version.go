// ABOUTME: Version command for the twitter-mcp CLI.
// ABOUTME: Prints the build version, overridable with -ldflags.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "twitter-mcp %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
