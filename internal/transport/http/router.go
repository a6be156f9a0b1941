package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/liquidsuites/launch-api/internal/application/broadcast"
	"github.com/liquidsuites/launch-api/internal/application/export"
	"github.com/liquidsuites/launch-api/internal/application/subscription"
	"github.com/liquidsuites/launch-api/internal/config"
	"github.com/liquidsuites/launch-api/internal/transport/http/handler"
	appmiddleware "github.com/liquidsuites/launch-api/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the public write endpoints.
	publicRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	subscriptionSvc := subscription.NewService(subscription.ServiceDeps{
		SubscriberRepo: deps.SubscriberRepo,
		Gateway:        deps.Gateway,
		WelcomeMessage: cfg.WelcomeMessage,
		Metrics:        deps.Metrics,
	})
	broadcastSvc := broadcast.NewService(broadcast.ServiceDeps{
		SubscriberRepo: deps.SubscriberRepo,
		BroadcastRepo:  deps.BroadcastRepo,
		Gateway:        deps.Gateway,
		Metrics:        deps.Metrics,
	})
	var exportSvc export.Service
	if deps.ObjectStore != nil {
		exportSvc = export.NewService(deps.SubscriberRepo, deps.ObjectStore)
	}

	healthH := handler.NewHealthHandler()
	subscriberH := handler.NewSubscriberHandler(subscriptionSvc, exportSvc)
	smsH := handler.NewSMSHandler(subscriptionSvc)
	broadcastH := handler.NewBroadcastHandler(broadcastSvc)

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(publicRL.Limit).Post("/subscribe", subscriberH.Subscribe)
		r.With(publicRL.Limit).Post("/send-sms", smsH.Send)

		// ── Admin routes ─────────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.AdminJWT(cfg.AdminJWTSecret))

			r.Post("/notify-all", broadcastH.NotifyAll)
			r.Get("/broadcasts", broadcastH.History)
			r.Get("/subscribers", subscriberH.List)
			r.Post("/subscribers/export", subscriberH.Export)
		})
	})

	return r
}
