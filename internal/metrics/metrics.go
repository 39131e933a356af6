package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "authserver"

// Metrics holds every collector the server exports. Each instance owns its
// registry so tests can build independent copies.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	TenantsCreated  prometheus.Counter
	TenantsDeleted  prometheus.Counter
	AccessDenied    *prometheus.CounterVec
	Reconciled      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		TenantsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenants_created_total",
			Help:      "Total number of tenants created",
		}),
		TenantsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenants_deleted_total",
			Help:      "Total number of tenants deleted by members",
		}),
		AccessDenied: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_access_denied_total",
			Help:      "Tenant operations rejected for lack of membership or role",
		}, []string{"operation"}),
		Reconciled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pending_tenants_reconciled_total",
			Help:      "Pending tenants resolved by the reconciler",
		}, []string{"action"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Nil-safe helpers so services can run without metrics.

func (m *Metrics) IncTenantCreated() {
	if m != nil {
		m.TenantsCreated.Inc()
	}
}

func (m *Metrics) IncTenantDeleted() {
	if m != nil {
		m.TenantsDeleted.Inc()
	}
}

func (m *Metrics) IncAccessDenied(operation string) {
	if m != nil {
		m.AccessDenied.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) IncReconciled(action string) {
	if m != nil {
		m.Reconciled.WithLabelValues(action).Inc()
	}
}
