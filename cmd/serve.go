package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artisan-dex/api"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the marketplace HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// The HTTP client is the one confirming actions, so the wallet
			// approves without prompting.
			market, cleanup, err := buildMarket(ctx, opts.cfg, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			cfg := opts.cfg.Server
			server := api.New(&api.HTTPServerConfig{
				ListenAddr:               cfg.ListenAddr,
				AllowedOrigins:           cfg.AllowedOrigins,
				ReadTimeout:              cfg.ReadTimeout,
				WriteTimeout:             cfg.WriteTimeout,
				RequestTimeout:           cfg.RequestTimeout,
				GracefulShutdownDuration: 10 * time.Second,
			}, market)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.Run(gctx)
			})
			g.Go(func() error {
				loadCtx, cancel := context.WithTimeout(gctx, cfg.RequestTimeout)
				defer cancel()
				if err := market.Load(loadCtx); err != nil {
					logrus.Warnf("initial load err: %v", err)
				}
				return nil
			})
			return g.Wait()
		},
	}
}
