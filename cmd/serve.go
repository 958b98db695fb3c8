package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"feedpulse/internal/bootstrap"
	"feedpulse/internal/bootstrap/logging"
	"feedpulse/internal/errs"
	"feedpulse/internal/transport/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the feedback ingestion and admin API server",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svcs bootstrap.Services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = app.Config.Server.Addr
		}

		server := &http.Server{
			Addr: addr,
			Handler: httpapi.NewRouter(httpapi.Deps{
				Ingest:     svcs.Ingest,
				Triage:     svcs.Triage,
				Apps:       svcs.Apps,
				AdminToken: app.Config.Server.AdminToken,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		serveErr := make(chan error, 1)
		go func() {
			serveErr <- server.ListenAndServe()
		}()

		logging.Info(ctx, "api server started", slog.String("addr", addr))

		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error(ctx, "api server failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrap(err, "serve api")
			}
		case <-signalCtx.Done():
			logging.Info(ctx, "shutdown signal received")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return errs.Wrap(err, "shutdown api server")
			}
		}

		logging.Info(ctx, "api server stopped")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr from config)")
}
