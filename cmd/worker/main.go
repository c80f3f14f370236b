package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	merchantApp "github.com/payhub-io/payhub/internal/application/merchant"
	webhookApp "github.com/payhub-io/payhub/internal/application/webhook"
	"github.com/payhub-io/payhub/internal/bootstrap"
	"github.com/payhub-io/payhub/internal/repository/postgres"
	"github.com/payhub-io/payhub/internal/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "payhub-worker", "payhub_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	eventRepo := postgres.NewWebhookEventRepository(app.Pool)
	merchantRepo := postgres.NewMerchantRepository(app.Pool)

	// --- Use cases ---
	policy := app.WebhookPolicy()
	sender := worker.NewBreakerSender("webhook-delivery", webhookApp.NewHTTPSender(policy.DeliveryTimeout), app.Metrics)
	deliverUC := webhookApp.NewDeliverUseCase(eventRepo, sender, policy, app.Metrics, app.Logger)
	webhookInfoUC := merchantApp.NewGetWebhookInfoUseCase(merchantRepo)

	// --- Retry poller ---
	locks := worker.NewRedisLockFactory(app.Redis, app.Config.Worker.LockTTL)
	poller := worker.NewRetryPoller(
		eventRepo,
		webhookInfoUC,
		deliverUC,
		locks,
		app.Config.Worker,
		app.Metrics,
		app.Logger,
	)

	// Signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Webhook retry poller.
	g.Go(func() error {
		return poller.Run(gCtx)
	})

	// 2. Ops server (health + metrics).
	opsServer := newOpsServer(app)
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
		defer shutdownCancel()
		return opsServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// 3. Wait for shutdown signal.
	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}

func newOpsServer(app *bootstrap.App) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if err := app.Pool.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	if app.Config.Observability.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", app.Config.Server.Port),
		Handler:      r,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
	}
}
