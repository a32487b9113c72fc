// Package serve implements the HTTP server command.
package serve

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wownom/feedback-collector/internal/api"
	"github.com/wownom/feedback-collector/internal/conf"
	"github.com/wownom/feedback-collector/internal/datastore"
	"github.com/wownom/feedback-collector/internal/logging"
	"github.com/wownom/feedback-collector/internal/observability"
	"github.com/wownom/feedback-collector/internal/taxonomy"
)

// shutdownTimeout is how long in-flight requests get to finish on shutdown
const shutdownTimeout = 10 * time.Second

// Command creates the serve command which runs the feedback collection server.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the feedback collection server",
		Long:  "Start the HTTP server collecting food recognition corrections and serving exports and stats.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Host, "host", viper.GetString("webserver.host"), "Host address to bind to")
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port to listen on")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

func runServer(ctx context.Context, settings *conf.Settings) error {
	logger, closeLogger := newServerLogger(settings)
	defer func() {
		if err := closeLogger(); err != nil {
			logging.Error("failed to close server log file", "error", err)
		}
	}()

	// Open the relational store
	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logger.Error("failed to close datastore", "error", err)
		}
	}()

	// Bootstrap the dish taxonomy, failures are non-fatal
	taxonomy.LoadAtStartup(ds, settings.Taxonomy.Path, logger)

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	if count, err := ds.CountTaxonomyEntries(); err == nil {
		metrics.Feedback.SetTaxonomyEntries(count)
	}

	e := newEcho(settings, metrics)
	api.New(e, ds, settings, log.Default(), metrics)

	// Serve until interrupted
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		addr := settings.WebServer.Host + ":" + settings.WebServer.Port
		logger.Info("starting server", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

// newServerLogger returns the structured logger for the server. With file
// logging enabled it writes rotated JSON logs to the configured path; the
// returned close function releases the file writer and is a no-op otherwise.
func newServerLogger(settings *conf.Settings) (*slog.Logger, func() error) {
	if settings.Main.Log.Enabled && settings.Main.Log.Path != "" {
		fileLogger, closeFunc, err := logging.NewFileLogger(settings.Main.Log.Path, "server", slog.LevelInfo)
		if err == nil {
			return fileLogger, closeFunc
		}
		logging.Warn("failed to initialize file logging, falling back to stdout",
			"path", settings.Main.Log.Path, "error", err)
	}

	logger := logging.ForService("server")
	if logger == nil {
		logger = slog.Default()
	}
	return logger, func() error { return nil }
}

// newEcho assembles the echo instance with its middleware stack and the
// endpoints living outside the API group.
func newEcho(settings *conf.Settings, metrics *observability.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     settings.WebServer.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
	}))
	if settings.WebServer.BodyLimit != "" {
		e.Use(middleware.BodyLimit(settings.WebServer.BodyLimit))
	}

	// Root-level health check for load balancers
	e.GET("/healthz", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	return e
}
