package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	WizardTransitionsTotal *prometheus.CounterVec
	WizardSessionsActive   prometheus.Gauge
	PricingCallDuration    *prometheus.HistogramVec

	DBQueryDuration      *prometheus.HistogramVec
	DBOpenConnections    prometheus.Gauge
	DBInUseConnections   prometheus.Gauge
	DBIdleConnections    prometheus.Gauge
	DBWaitCount          prometheus.Gauge
	DBWaitDurationSecond prometheus.Gauge
}

// New регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		WizardTransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "osago_wizard_transitions_total",
			Help:        "Quote wizard navigation attempts by step and outcome",
			ConstLabels: constLabels,
		}, []string{"direction", "step", "outcome"}),

		WizardSessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "osago_wizard_sessions_active",
			Help:        "Number of live quote wizard sessions",
			ConstLabels: constLabels,
		}),

		PricingCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "osago_pricing_call_duration_seconds",
			Help:        "Duration of pricing service calls",
			ConstLabels: constLabels,
			Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation", "status"}),

		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}),
		DBInUseConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}),
		DBIdleConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}),
		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),
		DBWaitDurationSecond: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_duration_seconds",
			Help:        "Total time blocked waiting for a new connection",
			ConstLabels: constLabels,
		}),
	}
}

// RecordWizardTransition учитывает попытку перехода по шагам мастера
// direction: next, back; outcome: ok, invalid, pricing_failed, busy
func (m *Metrics) RecordWizardTransition(direction, step, outcome string) {
	if m == nil {
		return
	}
	m.WizardTransitionsTotal.WithLabelValues(direction, step, outcome).Inc()
}

// SetActiveSessions выставляет количество живых сессий мастера
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.WizardSessionsActive.Set(float64(n))
}

// ObservePricingCall фиксирует длительность запроса к сервису расчета
func (m *Metrics) ObservePricingCall(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.PricingCallDuration.WithLabelValues(outcome).Observe(seconds)
}
