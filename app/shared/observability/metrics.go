package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records the outcome of service operations.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)
	RecordAssignmentSpread(ctx context.Context, roundID string, spread int)
	RecordRankedTeams(ctx context.Context, roundID string, count int)
}

// PrometheusMetrics implements Metrics on a Prometheus registerer.
type PrometheusMetrics struct {
	operations       *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	assignmentSpread *prometheus.GaugeVec
	rankedTeams      *prometheus.GaugeVec
}

// NewPrometheusMetrics registers the marking collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marking_operations_total",
				Help: "Service operations by outcome.",
			},
			[]string{"service", "operation", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marking_operation_duration_seconds",
				Help:    "Duration of service operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "operation"},
		),
		assignmentSpread: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marking_assignment_workload_spread",
				Help: "Difference between the most and least loaded judge after the last assignment write.",
			},
			[]string{"round_id"},
		),
		rankedTeams: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marking_ranked_teams",
				Help: "Teams ranked by the last winner calculation.",
			},
			[]string{"round_id"},
		),
	}
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "attempt").Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "success").Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "failure").Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(service, operation).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordAssignmentSpread(_ context.Context, roundID string, spread int) {
	m.assignmentSpread.WithLabelValues(roundID).Set(float64(spread))
}

func (m *PrometheusMetrics) RecordRankedTeams(_ context.Context, roundID string, count int) {
	m.rankedTeams.WithLabelValues(roundID).Set(float64(count))
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

// NewNoop returns a Metrics that records nothing.
func NewNoop() Metrics { return NoopMetrics{} }

func (NoopMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoopMetrics) RecordAssignmentSpread(context.Context, string, int)                    {}
func (NoopMetrics) RecordRankedTeams(context.Context, string, int)                         {}
