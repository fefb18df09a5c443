package observability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signal-map/internal/domain"
)

// Collector - метрики сервиса: переходы состояния сессий, латентность декодирования, HTTP.
// Реализует usecase.StatusObserver.
type Collector struct {
	gatherer prometheus.Gatherer

	StatusEvents   *prometheus.CounterVec
	DecodeDuration *prometheus.HistogramVec
	DatasetRecords prometheus.Histogram
	ActiveSessions prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector регистрирует метрики в reg (по умолчанию - глобальный реестр)
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	events, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_status_events_total",
		Help: "Session state transitions, labeled by decode endpoint and outcome.",
	}, []string{"endpoint", "outcome"}), "signal_status_events_total")
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "signal_decode_duration_seconds",
		Help:    "Decode round trip latency in seconds.",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"}), "signal_decode_duration_seconds")
	if err != nil {
		return nil, err
	}

	records, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "signal_dataset_records",
		Help:    "Number of records in successfully decoded datasets.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}), "signal_dataset_records")
	if err != nil {
		return nil, err
	}

	sessions, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "signal_sessions_active",
		Help: "Current number of open view sessions.",
	}), "signal_sessions_active")
	if err != nil {
		return nil, err
	}

	httpRequests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Handled HTTP requests, labeled by method, route and status code.",
	}, []string{"method", "route", "code"}), "http_requests_total")
	if err != nil {
		return nil, err
	}

	httpDuration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"method", "route"}), "http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		StatusEvents:   events,
		DecodeDuration: duration,
		DatasetRecords: records,
		ActiveSessions: sessions,
		HTTPRequests:   httpRequests,
		HTTPDuration:   httpDuration,
	}, nil
}

// OnStatus считает переходы и длительность завершённых декодирований
func (c *Collector) OnStatus(_ context.Context, event domain.StatusEvent) {
	if c == nil {
		return
	}

	endpoint := string(event.Endpoint)
	if endpoint == "" {
		endpoint = "none"
	}
	c.StatusEvents.WithLabelValues(endpoint, string(event.Outcome)).Inc()

	if event.Duration > 0 && (event.IsTerminal() || event.Outcome == domain.OutcomeSuperseded) {
		c.DecodeDuration.WithLabelValues(endpoint).Observe(event.Duration.Seconds())
	}
	if event.Outcome == domain.OutcomeData || event.Outcome == domain.OutcomeEmpty {
		c.DatasetRecords.Observe(float64(event.RecordCount))
	}
}

// SetActiveSessions - колбэк реестра сессий
func (c *Collector) SetActiveSessions(n int) {
	if c == nil {
		return
	}
	c.ActiveSessions.Set(float64(n))
}

// ObserveHTTP записывает один обработанный запрос
func (c *Collector) ObserveHTTP(method, route string, code int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler - обработчик /metrics
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// register возвращает уже зарегистрированный коллектор того же типа вместо ошибки
func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
