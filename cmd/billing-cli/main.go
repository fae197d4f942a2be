// Package main is the entry point for the billing-cli application.
// It registers the maintenance sub-commands (migrate, cron, staff) and
// executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/JsAppNinja/blesta-sub003/cmd/billing-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "billing-cli",
		Short: "Billing maintenance CLI tool",
		Long: `billing-cli runs maintenance tasks against the billing database.
It migrates the schema, runs cron tasks outside the server and bootstraps staff accounts.

The configuration is read from the file given with --config. Without it, defaults
and BILLING_* environment variables are used, for example:
- BILLING_DATABASE_TYPE
- BILLING_DATABASE_DSN
- BILLING_SECURITY_ENCRYPTION_KEY
- BILLING_SECURITY_JWT_SECRET`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the YAML configuration file")

	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitMigrateCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize migrate commands: %w", err)
	}

	if err := commands.InitCronCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize cron commands: %w", err)
	}

	if err := commands.InitStaffCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize staff commands: %w", err)
	}

	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
