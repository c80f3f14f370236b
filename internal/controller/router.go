package controller

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	merchantApp "github.com/payhub-io/payhub/internal/application/merchant"
	orderApp "github.com/payhub-io/payhub/internal/application/order"
	processorApp "github.com/payhub-io/payhub/internal/application/processor"
	webhookApp "github.com/payhub-io/payhub/internal/application/webhook"
	"github.com/payhub-io/payhub/internal/infrastructure/observability"
	customMW "github.com/payhub-io/payhub/internal/middleware"
)

type RouterDeps struct {
	Pool          *pgxpool.Pool
	RedisClient   *redis.Client
	WebhookInfoUC *merchantApp.GetWebhookInfoUseCase
	ConfigUC      *processorApp.GetConfigUseCase
	GetOrderUC    *orderApp.GetOrderUseCase
	UpdateOrderUC *orderApp.UpdateOrderStatusUseCase
	CreateEventUC *webhookApp.CreateEventUseCase
	DeliverUC     *webhookApp.DeliverUseCase
	Metrics       *observability.Metrics
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Pool, deps.RedisClient)
	merchantH := NewMerchantController(deps.WebhookInfoUC, deps.ConfigUC)
	orderH := NewOrderController(deps.GetOrderUC, deps.UpdateOrderUC)
	webhookH := NewWebhookController(deps.CreateEventUC, deps.DeliverUC)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Merchants
		r.Get("/merchants/{id}/webhook-info", merchantH.GetWebhookInfo)
		r.Get("/merchants/{id}/processors/{processor}/config", merchantH.GetProcessorConfig)

		// Orders
		r.Get("/orders/{id}", orderH.GetOrder)
		r.Post("/orders/{id}/status", orderH.UpdateStatus)

		// Webhook events
		r.Post("/webhook-events", webhookH.CreateEvent)
		r.Post("/webhook-events/{id}/deliver", webhookH.Deliver)
	})

	return r
}
