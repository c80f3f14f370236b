package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	merchantApp "github.com/payhub-io/payhub/internal/application/merchant"
	orderApp "github.com/payhub-io/payhub/internal/application/order"
	processorApp "github.com/payhub-io/payhub/internal/application/processor"
	webhookApp "github.com/payhub-io/payhub/internal/application/webhook"
	"github.com/payhub-io/payhub/internal/bootstrap"
	"github.com/payhub-io/payhub/internal/controller"
	"github.com/payhub-io/payhub/internal/infrastructure/vault"
	"github.com/payhub-io/payhub/internal/repository/postgres"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "payhub-api", "payhub")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	merchantRepo := postgres.NewMerchantRepository(app.Pool)
	configRepo := postgres.NewProcessorConfigRepository(app.Pool)
	orderRepo := postgres.NewOrderRepository(app.Pool)
	eventRepo := postgres.NewWebhookEventRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	// --- Application services ---
	credVault := vault.New(app.Config.Vault.Secret)
	webhookInfoUC := merchantApp.NewGetWebhookInfoUseCase(merchantRepo)
	configUC := processorApp.NewGetConfigUseCase(configRepo, credVault, app.Logger)
	getOrderUC := orderApp.NewGetOrderUseCase(orderRepo)
	updateOrderUC := orderApp.NewUpdateOrderStatusUseCase(orderRepo, txManager, app.Metrics, app.Logger)
	createEventUC := webhookApp.NewCreateEventUseCase(eventRepo, app.Metrics, app.Logger)
	deliverUC := webhookApp.NewDeliverUseCase(eventRepo, nil, app.WebhookPolicy(), app.Metrics, app.Logger)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:          app.Pool,
		RedisClient:   app.Redis,
		WebhookInfoUC: webhookInfoUC,
		ConfigUC:      configUC,
		GetOrderUC:    getOrderUC,
		UpdateOrderUC: updateOrderUC,
		CreateEventUC: createEventUC,
		DeliverUC:     deliverUC,
		Metrics:       app.Metrics,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
