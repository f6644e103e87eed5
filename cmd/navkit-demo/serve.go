package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-go/navkit/pkg/middleware"
	"github.com/vango-go/navkit/pkg/server"
	"github.com/vango-go/navkit/pkg/session"
)

func serveCmd() *cobra.Command {
	var (
		addr        string
		baseURL     string
		withMetrics bool
		withTracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the demo server",
		Long: `Start the demo server.

Examples:
  navkit-demo serve
  navkit-demo serve --addr=:9000 --base-url=https://demo.example.com/
  navkit-demo serve --metrics --tracing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, baseURL, withMetrics, withTracing)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Application base URL (default derived from addr)")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "Expose Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&withTracing, "tracing", false, "Trace session events with OpenTelemetry")

	return cmd
}

func runServe(addr, baseURL string, withMetrics, withTracing bool) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	opts := []server.Option{
		server.WithAddr(addr),
		server.WithLogger(logger),
		server.WithTitle("navkit demo"),
		server.WithMetrics(withMetrics),
	}

	if baseURL != "" {
		base, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("parse base URL: %w", err)
		}
		opts = append(opts, server.WithBaseURL(base))
	}

	var ics []session.EventInterceptor
	if withMetrics {
		ics = append(ics, middleware.Prometheus())
	}
	if withTracing {
		ics = append(ics, middleware.OpenTelemetry())
	}
	if len(ics) > 0 {
		opts = append(opts, server.WithInterceptors(ics...))
	}

	var app demoApp
	srv, err := server.New(app.Root, opts...)
	if err != nil {
		return err
	}
	app.base = srv.BaseURL()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
