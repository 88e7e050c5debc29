// Package api is the HTTP delivery channel: the chat endpoint plus direct
// advice, diagnosis and weather-tip endpoints.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexanderramin/arecabot/internal/logger"
	"github.com/alexanderramin/arecabot/internal/metrics"
	"github.com/alexanderramin/arecabot/internal/service"
)

// Deps are the collaborators the router needs. Gatherer may be nil, in
// which case /metrics is not mounted.
type Deps struct {
	Chat     service.ChatService
	Advice   service.AdviceService
	Log      logger.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	h := NewHandler(d.Chat, d.Advice, d.Log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Log, d.Metrics))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/chatbot", h.Chatbot)
		r.Post("/advice/{kind}", h.Advice)
		r.Post("/weather/tips", h.WeatherTips)
	})
	// GET carries no body, so it sits outside the content-type check.
	r.Get("/api/diseases/{label}", h.Disease)
	r.Get("/api/schemes", h.Schemes)
	r.Get("/api/schemes/{name}", h.Scheme)
	r.Get("/api/conversations/{id}/turns", h.History)

	return r
}
