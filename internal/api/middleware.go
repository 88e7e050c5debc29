package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alexanderramin/arecabot/internal/logger"
	"github.com/alexanderramin/arecabot/internal/metrics"
)

// requestLogger logs each request once it completes and, when m is set,
// records it under its route pattern.
func requestLogger(log logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				route := routePattern(r)
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				elapsed := time.Since(start)
				if m != nil {
					m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
					m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
				}
				log.Info("http request", logger.Fields{
					"request_id":  middleware.GetReqID(r.Context()),
					"method":      r.Method,
					"route":       route,
					"path":        r.URL.Path,
					"status":      status,
					"bytes":       ww.BytesWritten(),
					"duration_ms": elapsed.Milliseconds(),
					"remote":      r.RemoteAddr,
				})
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// routePattern keeps metric labels bounded: /api/diseases/{label}, not the
// raw path.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
