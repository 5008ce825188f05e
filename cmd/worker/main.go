package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nepfy/nepfy-backend/cmd/worker/commands"
)

var rootCmd = &cobra.Command{
	Use:          "nepfy-worker",
	Short:        "Background jobs and maintenance tools for nepfy.",
	Long:         `nepfy-worker runs scheduled maintenance jobs and offers helpers for slugs, proposal subdomains and AI agent configs.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(commands.RunCommand())
	rootCmd.AddCommand(commands.SlugCommand())
	rootCmd.AddCommand(commands.SubdomainCommand())
	rootCmd.AddCommand(commands.AgentsCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
