package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parsecv/blueprint/internal/cli"
	"github.com/parsecv/blueprint/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blueprintd",
		Short: "Blueprint daemon and CLI",
		Long:  "Blueprint daemon for running the merge API server and managing organizations and API keys",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.OrgCmd())
	rootCmd.AddCommand(admin.APIKeyCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
