package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/rushteam/playful/config"
	"github.com/rushteam/playful/pkg/logging"
	"github.com/rushteam/playful/server"
	"github.com/rushteam/playful/steam"
)

func cmdServe(cfg **config.Config) *cli.Command {
	var addr string

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "start the HTTP recommendation server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "HTTP listen address (overrides server.addr)",
				Destination: &addr,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			conf := *cfg
			if addr != "" {
				conf.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			composer, kv, err := bootstrap(ctx, conf)
			if err != nil {
				return err
			}
			defer kv.Close()

			client := steam.NewClient(conf.Steam, nil)
			provider := steam.NewCachedProvider(client, kv, conf.Steam.CacheTTL)
			provider.FetchTimeout = conf.Server.RequestTimeout
			srv := server.New(composer, provider,
				server.WithResolver(client),
				server.WithRequestTimeout(conf.Server.RequestTimeout),
			)

			httpServer := &http.Server{
				Addr:         conf.Server.Addr,
				Handler:      srv.Handler(),
				ReadTimeout:  conf.Server.ReadTimeout,
				WriteTimeout: conf.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logging.Info().Str("addr", conf.Server.Addr).Msg("server starting")
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logging.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}
}
