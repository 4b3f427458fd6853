package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/rover"
	"github.com/aretw0/rover/internal/config"
	"github.com/aretw0/rover/internal/presentation/tui"
	httpAdapter "github.com/aretw0/rover/pkg/adapters/http"
	"github.com/aretw0/rover/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/rover/pkg/adapters/redis"
	"github.com/aretw0/rover/pkg/observability"
	"github.com/aretw0/rover/pkg/ports"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the HTTP API around one shared robot.

Routes: POST /move_robot, /reposition_robot, /reset_robot (and /undo_robot for the
command pattern), GET /robot_position (and /robot_history for the command pattern), /events, /health, /info, /metrics and the
OpenAPI document under /api-docs/openapi.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applyServerFlags(cmd, cfg); err != nil {
			return err
		}

		events := memory.NewBroadcaster(memory.WithLogger(logger))
		sinks := []ports.PoseSink{events}
		opts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithEvents(events),
			httpAdapter.WithVersion(rover.Version),
		}

		if cfg.Metrics.Enabled {
			metrics := observability.NewMetrics()
			sinks = append(sinks, metrics)
			opts = append(opts, httpAdapter.WithMetrics(metrics))
		}

		if cfg.Redis.Addr != "" {
			publisher := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
				redisAdapter.WithChannel(cfg.Redis.Channel))
			defer publisher.Close()
			if err := publisher.Ping(cmd.Context()); err != nil {
				logger.Warn("Redis unreachable, pose events will not be published", "addr", cfg.Redis.Addr, "err", err)
			} else {
				sinks = append(sinks, publisher)
				logger.Info("Publishing pose events to Redis", "addr", cfg.Redis.Addr, "channel", publisher.Channel())
			}
		}

		robot, err := rover.New(cfg.Pattern,
			rover.WithLogger(logger),
			rover.WithOrigin(cfg.Start.Pose()),
			rover.WithSink(sinks...),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.Server.Addr(),
			Handler: httpAdapter.NewHandler(robot, opts...),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(os.Stdout)
			fmt.Printf("Starting Rover Server on %s\n", srv.Addr)
			fmt.Printf("Pattern: %s (%s)\n", robot.Pattern().Name(), robot.Pattern().Description())
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Println("Rover Server stopped gracefully")
			return nil
		}
	},
}

// applyServerFlags overrides server.port and server.host and validates the result.
func applyServerFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	return cfg.Validate()
}

func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	cmd.Flags().String("host", "0.0.0.0", "Interface to bind")
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServerFlags(serveCmd)
}
