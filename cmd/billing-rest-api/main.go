// cmd/billing-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/JsAppNinja/blesta-sub003/internal/api/rest/v1"
	"github.com/JsAppNinja/blesta-sub003/internal/app"
	"github.com/JsAppNinja/blesta-sub003/internal/bootstrap"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"
	"github.com/gin-contrib/cors"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/rest-app.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := bootstrap.New(context.Background(), restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			log.Error("Failed to close dependencies: ", err)
		}
	}()

	var scheduler *app.Scheduler
	if restConfig.Cron.Enabled {
		scheduler, err = app.NewScheduler(deps.Cron, deps.StaffRepo, restConfig.Cron.Interval, log)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
	}

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, scheduler, log)
}

func newRouter(cfg *config.RestConfig, deps *bootstrap.Container) *gin.Engine {
	r := gin.Default()

	// Sessions travel in a cookie, so origins must be listed explicitly
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1.SetupRoutes(r, &v1.Services{
		Authenticator: deps.Authenticator,
		Staff:         deps.Staff,
		Settings:      deps.Settings,
		Clients:       deps.Clients,
		Invoices:      deps.Invoices,
		Accounts:      deps.Accounts,
		Transactions:  deps.Transactions,
		Logs:          deps.Logs,
		Themes:        deps.Themes,
		Plugins:       deps.Plugins,
		Cron:          deps.Cron,
		Reports:       deps.Reports,
		Search:        deps.Search,
		Metrics:       deps.Metrics,
		CookieSecure:  cfg.Security.CookieSecure,
	})

	return r
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *bootstrap.Container, scheduler *app.Scheduler, log logger.Logger) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	if scheduler != nil {
		scheduler.Start()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Infof("Received signal %v, initiating graceful shutdown", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(ctx)
	}

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
