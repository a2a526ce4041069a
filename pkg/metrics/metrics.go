package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики компиляции запросов
var (
	QueryCompilationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_compilations_total",
			Help: "Total number of compiled search queries",
		},
		[]string{"status"}, // success, invalid_config, unsupported, error
	)

	QueryCompilationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "query_compilation_duration_seconds",
			Help:    "Duration of search query compilation in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)
)

// Метрики для OpenSearch
var (
	OpenSearchOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opensearch_operations_total",
			Help: "Total number of OpenSearch operations",
		},
		[]string{"operation", "index", "status"},
	)

	OpenSearchOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "opensearch_operation_duration_seconds",
			Help:    "Duration of OpenSearch operations in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "index"},
	)
)

// Счетчик поисковых запросов
var (
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of search requests",
		},
		[]string{"type"}, // text_search, filter
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "Duration of search operations",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"type"},
	)
)

var ServiceInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "service_info",
		Help: "Information about the service",
	},
	[]string{"version", "service"},
)

// RecordQueryCompilation записывает результат компиляции запроса.
// classify сопоставляет ошибку с меткой статуса.
func RecordQueryCompilation(err error, duration time.Duration, classify func(error) string) {
	status := StatusFromError(err)
	if err != nil && classify != nil {
		status = classify(err)
	}
	QueryCompilationsTotal.WithLabelValues(status).Inc()
	QueryCompilationDuration.Observe(duration.Seconds())
}

// RecordOpenSearchOperation записывает метрику OpenSearch операции
func RecordOpenSearchOperation(operation, index, status string, duration time.Duration) {
	OpenSearchOperationsTotal.WithLabelValues(operation, index, status).Inc()
	OpenSearchOperationDuration.WithLabelValues(operation, index).Observe(duration.Seconds())
}

// RecordSearchRequest записывает метрику поискового запроса
func RecordSearchRequest(searchType string, duration time.Duration) {
	SearchRequestsTotal.WithLabelValues(searchType).Inc()
	SearchDuration.WithLabelValues(searchType).Observe(duration.Seconds())
}

// SetServiceInfo устанавливает информацию о сервисе
func SetServiceInfo(version, service string) {
	ServiceInfo.WithLabelValues(version, service).Set(1)
}

// StatusFromError возвращает статус на основе ошибки
func StatusFromError(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
