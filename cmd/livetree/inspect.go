package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/livetree/internal/config"
	"github.com/vango-dev/livetree/pkg/element"
	"github.com/vango-dev/livetree/pkg/inspect"
	"github.com/vango-dev/livetree/pkg/metrics"
)

func inspectCmd(opts *options) *cobra.Command {
	var (
		addr     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve the demo tree and its event stream",
		Long: `Play the todo script in a loop and serve the live tree over HTTP.

Open the address in a browser to watch the snapshot and the event stream.
Prometheus metrics are served on /metrics when metrics are enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspect.Addr = addr
			}
			if interval > 0 {
				cfg.Inspect.Interval = interval.String()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd.OutOrStdout(), "inspector on %s", cfg.Inspect.Addr)
			return runInspector(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :7070)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Time between script steps (default from config, 1s)")

	return cmd
}

// runInspector plays the script on one goroutine and serves the hub on
// another until ctx is done or either fails.
func runInspector(ctx context.Context, cfg *config.Config) error {
	logger := cfg.Logger(os.Stderr)
	hub := inspect.NewHub(inspect.WithLogger(logger))
	d, recorder, gatherer := newInspectDemo(cfg, logger, hub)

	server := inspect.NewServer(hub, inspect.Config{Gatherer: gatherer, Logger: logger})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx, cfg.Inspect.Addr)
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.InspectInterval())
		defer ticker.Stop()

		cycle := append([]step{{"clear", func(a *todoApp) { a.Clear() }}}, script...)
		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			d.Play(cycle[i%len(cycle)])
			if recorder != nil {
				recorder.SetRuntimeStats(d.rt.Stats())
			}
		}
	})
	return g.Wait()
}

// newInspectDemo mounts a demo that publishes to hub instead of keeping its
// events. The recorder and gatherer are nil unless metrics are enabled.
func newInspectDemo(cfg *config.Config, logger *slog.Logger, hub *inspect.Hub) (*demo, *metrics.Recorder, prometheus.Gatherer) {
	var (
		extra    []element.Option
		gatherer prometheus.Gatherer
		recorder *metrics.Recorder
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		recorder = metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace(cfg.Metrics.Namespace))
		extra = append(extra, element.WithRecorder(recorder))
		gatherer = reg
	}

	d := newDemo(cfg, logger, extra...)
	d.keep = false
	d.watch = append(d.watch, inspect.Observe(hub, d.doc.Body()))
	d.Mount()
	return d, recorder, gatherer
}
