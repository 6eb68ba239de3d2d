package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessageTTL - настроенное время жизни сообщений.
	MessageTTL = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_message_ttl_seconds",
		Help: "Configured message time-to-live in seconds",
	})

	// StoredMessages - сколько сообщений вернул последний запрос списка.
	StoredMessages = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_messages_visible",
		Help: "Number of non-expired messages returned by the last list call",
	})

	// MessageOperations - операции над сообщениями по типу и результату.
	MessageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_message_operations_total",
			Help: "Total number of message operations by operation and result",
		},
		[]string{"operation", "result"},
	)

	// ExpiryIndexReconciliations - результаты сверки TTL-индекса при старте.
	ExpiryIndexReconciliations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_expiry_index_reconciliations_total",
			Help: "Store expiry policy initialisations by driver",
		},
		[]string{"driver"},
	)

	// RequestDuration - время обработки HTTP запросов.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_http_request_duration_seconds",
			Help:    "Time to serve an HTTP request",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16),
		},
		[]string{"method", "route", "status"},
	)

	// RateLimited - количество отклонённых лимитером запросов.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_http_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	})

	// CPUUsage - загрузка процессора хоста.
	CPUUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_host_cpu_percent",
		Help: "Host CPU utilisation in percent",
	})
)

func init() {
	prometheus.MustRegister(RequestDuration)
}
