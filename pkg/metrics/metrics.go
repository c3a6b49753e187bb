package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration   *prometheus.HistogramVec
	dbQueryErrors     *prometheus.CounterVec
	dbOpenConnections *prometheus.GaugeVec
	dbInUse           *prometheus.GaugeVec
	dbIdle            *prometheus.GaugeVec
	dbWaitCount       *prometheus.GaugeVec

	bookingConflicts *prometheus.CounterVec
	smsMessages      *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном реестре (удобно для тестов)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		dbOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{}),
		dbInUse: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),
		dbIdle: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{}),
		dbWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),
		bookingConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Commits rejected because a slot was taken concurrently",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		smsMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "sms_messages_total",
			Help:        "SMS notifications by outcome",
			ConstLabels: constLabels,
		}, []string{"event", "result"}),
	}
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveQuery(operation string, duration time.Duration, err error) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetPoolStats обновляет метрики пула соединений
func (m *Metrics) SetPoolStats(stats sql.DBStats) {
	m.dbOpenConnections.WithLabelValues().Set(float64(stats.OpenConnections))
	m.dbInUse.WithLabelValues().Set(float64(stats.InUse))
	m.dbIdle.WithLabelValues().Set(float64(stats.Idle))
	m.dbWaitCount.WithLabelValues().Set(float64(stats.WaitCount))
}

// IncBookingConflict считает отклоненные коммиты (kind: occupied, block_occupied, serialization)
func (m *Metrics) IncBookingConflict(kind string) {
	m.bookingConflicts.WithLabelValues(kind).Inc()
}

// IncSMS считает отправленные и неудачные SMS
func (m *Metrics) IncSMS(event, result string) {
	m.smsMessages.WithLabelValues(event, result).Inc()
}
