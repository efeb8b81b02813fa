package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/panel"
	"go-chi-calculator/internal/remote"
	"go-chi-calculator/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the keypad panel over HTTP",
	Long: `Starts one keypad session and exposes its keys, state and change
stream under /keypad, next to /health and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdown, err := initObservability(ctx)
		if err != nil {
			return err
		}
		defer shutdown(context.Background())

		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg config.Keypad) error {
	logger := observability.Logger

	machine := keypad.New(
		remote.NewClient(cfg.RemoteURL),
		keypad.WithRequestTimeout(cfg.RequestTimeout),
	)
	defer machine.Close()

	p := panel.New(machine, panel.WithHeartbeat(cfg.Heartbeat))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(server.WithRoutes(p.RegisterRoutes)),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("keypad panel started",
			zap.String("addr", cfg.Addr),
			zap.String("remote_url", cfg.RemoteURL),
			zap.Duration("request_timeout", cfg.RequestTimeout),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("keypad panel shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
