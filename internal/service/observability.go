package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/arecabot/internal/logger"
	"github.com/alexanderramin/arecabot/internal/metrics"
)

// Use case names reported to observers.
const (
	UseCaseTurn         = "chat.turn"
	UseCaseAdvicePrefix = "advice."
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	log logger.Logger
}

// NewLogUseCaseObserver logs every use case at debug level, failures at error.
func NewLogUseCaseObserver(l logger.Logger) UseCaseObserver {
	if l == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{log: l}
}

func (o *logUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	fields := make(logger.Fields, len(event.Fields)+3)
	for k, v := range event.Fields {
		fields[k] = v
	}
	fields["use_case"] = event.Name
	fields["duration_ms"] = event.Duration.Milliseconds()
	fields["success"] = event.Success
	if event.Err != nil {
		o.log.WithError(event.Err).Error("service_use_case", fields)
		return
	}
	o.log.Debug("service_use_case", fields)
}

type metricsUseCaseObserver struct {
	m *metrics.Metrics
}

// NewMetricsUseCaseObserver feeds turn and advice events into m.
func NewMetricsUseCaseObserver(m *metrics.Metrics) UseCaseObserver {
	if m == nil {
		return NoopUseCaseObserver{}
	}
	return &metricsUseCaseObserver{m: m}
}

func (o *metricsUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	if kind, ok := strings.CutPrefix(event.Name, UseCaseAdvicePrefix); ok {
		o.m.Advice.WithLabelValues(kind).Inc()
		return
	}
	if event.Name == UseCaseTurn {
		channel := stringField(event.Fields, "channel")
		o.m.Turns.WithLabelValues(channel, stringField(event.Fields, "outcome"), stringField(event.Fields, "intent")).Inc()
		o.m.TurnDuration.WithLabelValues(channel).Observe(event.Duration.Seconds())
		if n, ok := event.Fields["active_sessions"].(int); ok {
			o.m.ActiveSessions.Set(float64(n))
		}
		if _, failed := event.Fields["transcript_error"]; failed {
			o.m.TranscriptError.Inc()
		}
	}
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

type multiObserver []UseCaseObserver

func (m multiObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, o := range m {
		o.ObserveUseCase(ctx, event)
	}
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var live multiObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	}
	return live
}
