package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCommittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_committed_total",
		Help: "Total number of orders appended to a ledger",
	})

	OrdersRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_removed_total",
		Help: "Total number of orders deleted from a ledger",
	})

	OrderCommitFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_commit_failures_total",
		Help: "Total number of failed order commits",
	}, []string{"reason"})

	OrderValueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_value_total",
		Help: "Sum of GST-inclusive order totals",
	})

	StockItemsPurgedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_items_purged_total",
		Help: "Total number of expired stock rows purged on list",
	}, []string{"kind"})

	StockListLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_list_latency_seconds",
		Help:    "Latency of list-and-purge operations",
		Buckets: prometheus.DefBuckets,
	})

	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart writes",
	}, []string{"op"})

	MalformedStagingTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "malformed_staging_payloads_total",
		Help: "Staging payloads that could not be decoded and were read as empty",
	}, []string{"area"})

	ReceiptsDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipts_delivered_total",
		Help: "Total number of receipts handed to the export sink",
	})

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
