package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики операций сервиса заказов.
type OrderMetrics struct {
	// Счётчики операций
	ordersCreated   prometheus.Counter
	statusChanges   prometheus.Counter
	ordersDeleted   prometheus.Counter
	searchRequests  prometheus.Counter
	queueReads      prometheus.Counter
	queueReadMisses prometheus.Counter

	// Гистограмма времени обработки HTTP-запросов
	requestDuration *prometheus.HistogramVec
}

// NewOrderMetrics создаёт и регистрирует метрики в default registerer.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created",
		}),
		statusChanges: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_status_changes_total",
			Help: "Total number of order status updates",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_deleted_total",
			Help: "Total number of orders deleted",
		}),
		searchRequests: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_search_requests_total",
			Help: "Total number of order search requests",
		}),
		queueReads: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_queue_reads_total",
			Help: "Total number of last-event queue reads",
		}),
		queueReadMisses: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_queue_read_misses_total",
			Help: "Total number of queue reads that found no event",
		}),
		requestDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "orders_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *OrderMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordStatusChange увеличивает счётчик смен статуса.
func (m *OrderMetrics) RecordStatusChange() {
	if m == nil {
		return
	}
	m.statusChanges.Inc()
}

// RecordOrderDeleted увеличивает счётчик удалённых заказов.
func (m *OrderMetrics) RecordOrderDeleted() {
	if m == nil {
		return
	}
	m.ordersDeleted.Inc()
}

// RecordSearch увеличивает счётчик поисковых запросов.
func (m *OrderMetrics) RecordSearch() {
	if m == nil {
		return
	}
	m.searchRequests.Inc()
}

// RecordQueueRead фиксирует чтение последнего события из очереди.
func (m *OrderMetrics) RecordQueueRead(found bool) {
	if m == nil {
		return
	}
	m.queueReads.Inc()
	if !found {
		m.queueReadMisses.Inc()
	}
}

// RecordRequestDuration записывает длительность HTTP-запроса.
func (m *OrderMetrics) RecordRequestDuration(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}
