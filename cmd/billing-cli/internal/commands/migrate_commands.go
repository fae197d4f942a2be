package commands

import (
	"context"

	"github.com/JsAppNinja/blesta-sub003/internal/bootstrap"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// MigrateCmd creates or updates the schema and seeds system themes and tasks
func MigrateCmd(cmd *cobra.Command, _ []string) error {
	return withContainer(cmd, func(_ context.Context, _ *bootstrap.Container, log logger.Logger) error {
		log.Info("Schema is up to date")
		return nil
	})
}

// InitMigrateCommands registers the migrate command
func InitMigrateCommands(rootCmd *cobra.Command) error {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database schema and seed system data",
		Args:  cobra.NoArgs,
		RunE:  MigrateCmd,
	})
	return nil
}
