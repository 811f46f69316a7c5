package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthome/graphpress/cmd/graphpress/commands"
)

var rootCmd = &cobra.Command{
	Use:   "graphpress",
	Short: "GraphPress - content graph query/mutation/subscription engine",
	Long: `GraphPress - a declarative query, mutation and subscription engine
over a content graph of users, posts and comments.

Available commands:
  serve   - Start the GraphPress server
  config  - Manage GraphPress configuration
  version - Show version information

Examples:
  graphpress serve                 # Start with graphpress.toml in cwd
  graphpress serve --demo          # Start with demo fixtures
  graphpress config init           # Write a starter config file
  graphpress config show           # Show the effective configuration`,
}

func init() {
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
