package commands

import (
	"context"
	"fmt"

	"github.com/JsAppNinja/blesta-sub003/internal/bootstrap"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/spf13/cobra"
)

func setupLogger(settings *config.LoggerSettings) (logger.Logger, error) {
	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// loadConfig reads the --config file, falling back to defaults and the
// environment when the flag is empty
func loadConfig(cmd *cobra.Command) (*config.RestConfig, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("invalid config flag: %w", err)
	}
	if path == "" {
		return config.InitializeRestConfigFromEnv()
	}
	return config.InitializeRestConfig(path)
}

// withContainer builds the application for one command and releases it
// afterwards
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *bootstrap.Container, log logger.Logger) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := setupLogger(&cfg.Logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Error("Failed to close connections: ", err)
		}
	}()

	return fn(ctx, c, log)
}
