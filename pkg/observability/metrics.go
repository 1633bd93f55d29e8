package observability

import (
	"context"

	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the coordinator collectors.
type Metrics struct {
	Events      *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Failures    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbot_events_total",
				Help: "Inbound chat events by kind.",
			},
			[]string{"kind"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbot_transitions_total",
				Help: "Committed state transitions.",
			},
			[]string{"from", "to"},
		),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbot_failures_total",
				Help: "Events aborted without a state change, by state and reason.",
			},
			[]string{"state", "reason"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orderbot_event_duration_seconds",
				Help:    "Time from state load to commit for successful events.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"state"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Events, m.Transitions, m.Failures, m.Duration)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvent: func(ctx context.Context, ev domain.Event) {
			m.Events.WithLabelValues(string(ev.Kind)).Inc()
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.From.String(), e.To.String()).Inc()
			m.Duration.WithLabelValues(e.From.String()).Observe(e.Duration.Seconds())
		},
		OnFailure: func(ctx context.Context, e *domain.FailureEvent) {
			state := e.State.String()
			if state == "" {
				state = "none"
			}
			m.Failures.WithLabelValues(state, e.Reason).Inc()
		},
	}
}
