package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-dashboard/internal/config"
	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/feed"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
	"github.com/couchcryptid/quake-dashboard/internal/render"
)

// cli holds the persistent flags and the per-invocation dependencies.
type cli struct {
	file     string
	url      string
	timeout  time.Duration
	logLevel string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "quakectl",
		Short:         "Earthquake dashboard views in the terminal",
		Long:          `quakectl loads the USGS earthquake feed (or a local CSV) and renders the dashboard's statistics panel, table and chart, or reports on feed quality.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: failed to read .env: %v\n", err)
			}
			c.logger = observability.NewLogger(c.logLevel, "pretty")
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.file, "file", "", "local feed CSV (default $FEED_PATH)")
	f.StringVar(&c.url, "url", "", "feed URL (default $FEED_URL or the USGS all_month feed)")
	f.DurationVar(&c.timeout, "timeout", 0, "feed fetch timeout (default $FEED_TIMEOUT)")
	f.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newSummaryCmd(c),
		newTableCmd(c),
		newChartCmd(c),
		newValidateCmd(c),
		newGenmockCmd(),
	)
	return root
}

// source picks the feed: --file, then --url, then the environment config.
func (c *cli) source() (feed.Source, error) {
	if c.file != "" {
		return feed.NewFileSource(c.file), nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	timeout := cfg.FeedTimeout
	if c.timeout > 0 {
		timeout = c.timeout
	}
	switch {
	case c.url != "":
		return feed.NewHTTPSource(c.url, timeout), nil
	case cfg.FeedPath != "":
		return feed.NewFileSource(cfg.FeedPath), nil
	default:
		return feed.NewHTTPSource(cfg.FeedURL, timeout), nil
	}
}

// ingest runs one ingestion pass, logging what was dropped.
func (c *cli) ingest(ctx context.Context) (pipeline.Result, feed.Source, error) {
	src, err := c.source()
	if err != nil {
		return pipeline.Result{}, nil, err
	}
	c.logger.Info("loading feed", "source", src.Describe())

	res, err := pipeline.Ingest(ctx, src)
	if err != nil {
		return pipeline.Result{}, src, err
	}
	for _, r := range res.Rejections {
		c.logger.Debug("row rejected", "row", r.Row, "id", r.ID, "reason", r.Reason, "error", r.Err)
	}
	c.logger.Info("feed loaded",
		"records", len(res.Snapshot.Records),
		"rows", res.RowsRead,
		"rejected", res.RejectedTotal(),
	)
	return res, src, nil
}

// session loads the feed into a fresh dashboard session.
func (c *cli) session(ctx context.Context) (*dashboard.Session, error) {
	res, _, err := c.ingest(ctx)
	if err != nil {
		return nil, err
	}
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())
	return dashboard.NewSession(fixedSnapshot{res.Snapshot}, nil, c.logger, metrics), nil
}

func styles(cmd *cobra.Command) render.Styles {
	return render.NewStyles(lipgloss.NewRenderer(cmd.OutOrStdout()))
}

type fixedSnapshot struct{ snap *domain.Snapshot }

func (f fixedSnapshot) Snapshot() *domain.Snapshot { return f.snap }
