// Package metrics exposes Prometheus metrics for the settlement services.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "settlewise"

// Metrics holds the collectors for one server. Each instance owns its
// registry, so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	PlansTotal       prometheus.Counter
	PlanTransactions prometheus.Counter
	PlanParticipants prometheus.Histogram
	RPCDuration      *prometheus.HistogramVec
}

// New registers all collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PlansTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Settlement plans computed.",
		}),
		PlanTransactions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_transactions_total",
			Help:      "Payments suggested across all settlement plans.",
		}),
		PlanParticipants: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_participants",
			Help:      "Participants per settlement plan.",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 8),
		}),
		RPCDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Duration of Connect RPCs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
}

// ObservePlan records one computed plan.
func (m *Metrics) ObservePlan(participants, transactions int) {
	m.PlansTotal.Inc()
	m.PlanTransactions.Add(float64(transactions))
	m.PlanParticipants.Observe(float64(participants))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Interceptor returns a Connect interceptor that times every unary RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeUnknown.String()
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					code = connectErr.Code().String()
				}
			}
			m.RPCDuration.WithLabelValues(req.Spec().Procedure, code).Observe(time.Since(start).Seconds())

			return resp, err
		}
	}
}
