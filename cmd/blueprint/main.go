package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parsecv/blueprint/internal/cli"
	"github.com/parsecv/blueprint/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "blueprint",
		Short: "Blueprint CLI - Progressive profile merging",
		Long: `Blueprint CLI provides commands to merge CV extractions and inspect merged profiles.

Environment variables:
  BLUEPRINT_API_KEY   API key for authentication (required)
  BLUEPRINT_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-key", "", "API key for authentication (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.MergeCmd())
	rootCmd.AddCommand(client.GetCmd())
	rootCmd.AddCommand(client.ChangesCmd())
	rootCmd.AddCommand(client.AuthCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
