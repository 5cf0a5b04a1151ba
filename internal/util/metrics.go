package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order placements",
	}, []string{"reason"})

	OrdersArchivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_archived_total",
		Help: "Total number of orders moved to the archive",
	})

	OrderStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_updates_total",
		Help: "Total number of order status transitions",
	}, []string{"status"})

	StockRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_rejections_total",
		Help: "Total number of orders rejected for insufficient stock",
	})

	FoodArchivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_archived_total",
		Help: "Total number of catalog items archived",
	})

	FoodRestoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_restored_total",
		Help: "Total number of catalog items restored from the archive",
	})

	CatalogCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_requests_total",
		Help: "Catalog cache lookups by outcome",
	}, []string{"outcome"})

	PlaceOrderLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "place_order_latency_seconds",
		Help:    "Latency of the order placement transaction",
		Buckets: prometheus.DefBuckets,
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
