package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/handlers"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/logger"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/routes"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/scheduler"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd(configPath *string) *cobra.Command {
	var withSeed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if withSeed {
				if err := a.seeder().Run(cmd.Context()); err != nil {
					return err
				}
			}
			return a.serve()
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", false, "load demo data before serving")
	return cmd
}

func (a *app) serve() error {
	h := &handlers.Handler{
		Accounts: a.accounts,
		Projects: a.projects,
		Ledger:   a.ledger,
		Ping:     func(ctx context.Context) error { return store.Ping(ctx, a.db) },
		Debug:    a.cfg.Server.Debug(),
	}
	router := routes.NewRoutes(h, a.tokens, routes.Options{AllowedOrigins: a.cfg.CORS.AllowedOrigins})

	var jobs *scheduler.Manager
	if a.cfg.Reconcile.Enabled {
		m, err := scheduler.NewManager()
		if err != nil {
			return err
		}
		if err := m.Register(scheduler.NewReconcileJob(a.ledger, a.cfg.Reconcile.Interval, a.cfg.Reconcile.Workers)); err != nil {
			return err
		}
		m.Start()
		jobs = m
	}

	srv := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr), zap.String("mode", a.cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case <-stop:
	case serveErr = <-errCh:
		logger.Log.Error("server error", zap.Error(serveErr))
	}
	logger.Log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}
	if jobs != nil {
		jobs.Stop()
	}

	logger.Log.Info("server stopped")
	return serveErr
}
