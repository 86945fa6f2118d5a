package prometheus

import (
	"time"

	"houserent-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// House listing metrics
	HouseOperationsCounter prometheus.CounterVec
	ListingSearchesCounter prometheus.CounterVec

	// Rental workflow metrics
	RentalOperationsCounter prometheus.CounterVec

	// Agent registry metrics
	AgentRegistrationsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	// Use metric prefix from configuration
	prefix := cfg.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// House listing metrics
	HouseOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_house_operations_total",
			Help: "Total number of house operations",
		},
		[]string{"operation"},
	)

	ListingSearchesCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_listing_searches_total",
			Help: "Total number of listing searches by sorting policy",
		},
		[]string{"sorting"},
	)

	// Rental workflow metrics
	RentalOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_rental_operations_total",
			Help: "Total number of rent/leave transitions",
		},
		[]string{"operation", "outcome"},
	)

	// Agent registry metrics
	AgentRegistrationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_agent_registrations_total",
			Help: "Total number of agent registration attempts",
		},
		[]string{"outcome"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordHouseOperation increments the counter for house operations
func RecordHouseOperation(operation string) {
	HouseOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordListingSearch increments the counter for listing searches
func RecordListingSearch(sorting string) {
	ListingSearchesCounter.WithLabelValues(sorting).Inc()
}

// RecordRentalOperation increments the counter for rent/leave transitions
func RecordRentalOperation(operation, outcome string) {
	RentalOperationsCounter.WithLabelValues(operation, outcome).Inc()
}

// RecordAgentRegistration increments the counter for registration attempts
func RecordAgentRegistration(outcome string) {
	AgentRegistrationsCounter.WithLabelValues(outcome).Inc()
}
