package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GraphQLRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphql_requests_total",
		Help: "Total number of GraphQL requests by outcome",
	}, []string{"outcome"})

	GraphQLRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "graphql_request_duration_seconds",
		Help:    "Latency of GraphQL request execution",
		Buckets: prometheus.DefBuckets,
	})

	AdapterFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_adapter_failures_total",
		Help: "Total number of entity source failures excluded from aggregation",
	}, []string{"contract", "variant"})

	UnresolvedTypesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_unresolved_types_total",
		Help: "Total number of instances that matched no concrete type",
	}, []string{"contract"})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order creations",
	}, []string{"reason"})

	OrderWriteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_write_latency_seconds",
		Help:    "Latency of the order creation transaction",
		Buckets: prometheus.DefBuckets,
	})

	OrderEventsAuditedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_events_audited_total",
		Help: "Total number of order events seen by the audit worker",
	}, []string{"event_type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
