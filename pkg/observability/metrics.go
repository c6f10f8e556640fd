package observability

import (
	"context"

	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the tour engine collectors.
type Metrics struct {
	Starts          *prometheus.CounterVec
	Stops           *prometheus.CounterVec
	StepChanges     *prometheus.CounterVec
	Gates           *prometheus.CounterVec
	AbandonedStarts *prometheus.CounterVec
	SkippedMeasures *prometheus.CounterVec
	StaleDiscarded  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Starts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourguide_tour_starts_total",
			Help: "Tours started, by tour key.",
		}, []string{"tour"}),
		Stops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourguide_tour_stops_total",
			Help: "Tours stopped, by tour key.",
		}, []string{"tour"}),
		StepChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourguide_step_changes_total",
			Help: "Current step commits, by tour key and step.",
		}, []string{"tour", "step"}),
		Gates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourguide_gate_outcomes_total",
			Help: "Gating callback results, by tour key and outcome.",
		}, []string{"tour", "outcome"}),
		AbandonedStarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourguide_start_abandoned_total",
			Help: "Starts given up because no step registered in time.",
		}, []string{"tour"}),
		SkippedMeasures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourguide_measure_skipped_total",
			Help: "Target measurements that returned no usable geometry.",
		}, []string{"tour"}),
		StaleDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourguide_stale_discarded_total",
			Help: "Asynchronous results dropped after the tour moved on.",
		}, []string{"tour"}),
	}
	if reg != nil {
		reg.MustRegister(m.Starts, m.Stops, m.StepChanges, m.Gates, m.AbandonedStarts, m.SkippedMeasures, m.StaleDiscarded)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStart: func(_ context.Context, key string, _ *domain.Step) {
			m.Starts.WithLabelValues(key).Inc()
		},
		OnStop: func(_ context.Context, key string) {
			m.Stops.WithLabelValues(key).Inc()
		},
		OnStepChange: func(_ context.Context, key string, step *domain.Step) {
			if step == nil {
				return
			}
			m.StepChanges.WithLabelValues(key, step.Name).Inc()
		},
		OnGate: func(_ context.Context, key string, _ *domain.Step, outcome domain.Outcome) {
			m.Gates.WithLabelValues(key, outcome.String()).Inc()
		},
		OnStartAbandoned: func(_ context.Context, key string, _ int) {
			m.AbandonedStarts.WithLabelValues(key).Inc()
		},
		OnMeasureSkipped: func(_ context.Context, key string, _ *domain.Step, _ error) {
			m.SkippedMeasures.WithLabelValues(key).Inc()
		},
		OnStaleDiscarded: func(_ context.Context, key string, _ uint64) {
			m.StaleDiscarded.WithLabelValues(key).Inc()
		},
	}
}
