package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ritzau/dotlite/pkg/analysis"
	"github.com/ritzau/dotlite/pkg/logging"
	"github.com/ritzau/dotlite/pkg/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	quietPeriod     = 100 * time.Millisecond
	maxWait         = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the decoded graphs of a directory over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("dir", ".", "Directory of DOT files to serve")
	cmd.Flags().Int("port", 8080, "Port for the web server")
	cmd.Flags().Bool("watch", false, "Reload graphs when files change")
	cmd.Flags().Int("workers", 0, "Parallel decoders (0 = one per CPU)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	server := web.NewServer(a.cfg.Dir, a.cfg.Workers)
	runner := analysis.NewRunner(a.cfg.Dir, server.Catalog())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start(a.cfg.Port)
	})

	g.Go(func() error {
		if err := runner.Run(ctx, analysis.Options{Reason: "initial load"}); err != nil {
			return err
		}
		if !a.cfg.Watch {
			return nil
		}
		if err := runner.Watch(ctx, quietPeriod, maxWait); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logging.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
