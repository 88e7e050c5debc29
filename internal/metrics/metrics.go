// Package metrics defines the prometheus collectors for chat turns and
// advice requests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors. Use New with a dedicated registry in tests.
type Metrics struct {
	Turns           *prometheus.CounterVec
	TurnDuration    *prometheus.HistogramVec
	ActiveSessions  prometheus.Gauge
	Advice          *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	TranscriptError prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Turns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arecabot_turns_total",
				Help: "Chat turns by channel, outcome and intent",
			},
			[]string{"channel", "outcome", "intent"},
		),
		TurnDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arecabot_turn_duration_seconds",
				Help:    "Time to answer one chat turn",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"channel"},
		),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "arecabot_active_sessions",
			Help: "Conversations currently held in memory",
		}),
		Advice: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arecabot_advice_total",
				Help: "Direct advice requests by kind",
			},
			[]string{"kind"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arecabot_http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "arecabot_http_request_duration_seconds",
				Help: "HTTP request latency by route",
			},
			[]string{"route"},
		),
		TranscriptError: f.NewCounter(prometheus.CounterOpts{
			Name: "arecabot_transcript_errors_total",
			Help: "Turns answered but not recorded",
		}),
	}
}
