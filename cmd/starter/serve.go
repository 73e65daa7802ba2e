package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	starter "github.com/vango-dev/starter"
)

func serveCmd(dir *string) *cobra.Command {
	var (
		port    int
		host    string
		base    string
		metrics bool
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the application server",
		Long: `Start the HTTP server with live sessions.

Examples:
  starter serve
  starter serve --port=8080 --base=/app
  starter serve --metrics --debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*dir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("base") {
				cfg.Server.BasePath = base
			}
			if metrics {
				cfg.Metrics.Enabled = true
			}
			if debug {
				cfg.Debug = true
			}

			level := slog.LevelInfo
			if cfg.Debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			app, err := starter.New(cfg, starter.WithLogger(logger))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "Serving on http://%s%s/", cfg.Address(), cfg.BasePath())
			if cfg.Metrics.Enabled {
				info(out, "Metrics at http://%s%s", cfg.Address(), cfg.Metrics.Path)
			}
			if cfg.Debug {
				info(out, "Debug state at http://%s%s%s", cfg.Address(), cfg.BasePath(), starter.DebugPath)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from starter.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from starter.json)")
	cmd.Flags().StringVar(&base, "base", "", "Base path the app is served under")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging and the state endpoint")

	return cmd
}
