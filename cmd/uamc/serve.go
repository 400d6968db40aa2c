package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/metalagman/uamc/internal/compiler"
	"github.com/metalagman/uamc/internal/config"
	"github.com/metalagman/uamc/internal/web"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadWorkingConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			app := fx.New(serveModule(cfg), fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }))
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr config key)")
	return cmd
}

// serveModule wires the HTTP server: config, compiler, handlers and listener.
func serveModule(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			newCompiler,
			newWebServer,
			newHTTPServer,
		),
		fx.Invoke(func(*http.Server) {}),
	)
}

func newWebServer(cfg config.Config, c *compiler.Compiler) (*web.Server, error) {
	return web.NewServer(c, web.Options{
		ArchiveName:  cfg.Archive.Name,
		MaxBodyBytes: int64(cfg.Server.MaxBodyKB) << 10,
	})
}

func newHTTPServer(lc fx.Lifecycle, cfg config.Config, s *web.Server) *http.Server {
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info().Str("addr", ln.Addr().String()).Msg("serving")
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("http server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("shutting down")
			return srv.Shutdown(ctx)
		},
	})
	return srv
}
