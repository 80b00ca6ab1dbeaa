// Package metrics defines all custom Prometheus metrics for the
// marketplace. It is the single source of truth for metric names, labels,
// and help strings; promauto registers everything with the default
// registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersPlacedTotal counts checkouts that produced an order.
// Label:
//   - payment_method: method selected at checkout (e.g. "card", "cod")
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders created at checkout.",
	},
	[]string{"payment_method"},
)

// OrderStatusUpdatesTotal counts seller fulfilment status changes.
// Label:
//   - status: the new order status applied (e.g. "processing")
var OrderStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_updates_total",
		Help:      "Total number of order status updates by sellers.",
	},
	[]string{"status"},
)

// ── Delivery metrics ──────────────────────────────────────────────────────────

// OrdersClaimedTotal counts successful delivery claims.
// Label:
//   - assigned_by: "courier" for self-claims, "admin" for dispatch
var OrdersClaimedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_claimed_total",
		Help:      "Total number of orders claimed for delivery.",
	},
	[]string{"assigned_by"},
)

// ClaimConflictsTotal counts claims that failed.
// Label:
//   - reason: "already_assigned" or "not_available"
var ClaimConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "claim_conflicts_total",
		Help:      "Total number of rejected delivery claims, by reason.",
	},
	[]string{"reason"},
)

// DeliveryStatusUpdatesTotal counts courier status changes on assignments.
// Label:
//   - status: the new assignment status (e.g. "in_transit")
var DeliveryStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delivery_status_updates_total",
		Help:      "Total number of delivery assignment status updates.",
	},
	[]string{"status"},
)

// ReconcilerRepairsTotal counts order/assignment drift repairs by the worker.
var ReconcilerRepairsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciler_repairs_total",
		Help:      "Total number of orders repaired from pending to assigned.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RoleProbeRetriesTotal counts role store lookups that had to be retried.
var RoleProbeRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_probe_retries_total",
		Help:      "Total number of retried role store lookups.",
	},
)

// RoleProbeFailuresTotal counts role resolutions that exhausted retries.
var RoleProbeFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_probe_failures_total",
		Help:      "Total number of role resolutions that ended in an account error.",
	},
)

// PageRedirectsTotal counts gate decisions that redirected.
// Label:
//   - target: "login", "welcome" or "dashboard"
var PageRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_redirects_total",
		Help:      "Total number of page-route redirects, by target kind.",
	},
	[]string{"target"},
)

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CartStockCapsTotal counts cart mutations whose quantity was reduced to
// the available stock.
var CartStockCapsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_stock_caps_total",
		Help:      "Total number of cart quantity requests capped at stock.",
	},
)

// ── Event pipeline metrics ────────────────────────────────────────────────────

// EventsProcessedTotal counts lifecycle events that completed processing.
// Label:
//   - kind: the event kind (e.g. "order_placed")
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_processed_total",
		Help:      "Total number of order lifecycle events processed.",
	},
	[]string{"kind"},
)

// EventsErrorsTotal counts events that failed processing.
// Label:
//   - reason: short failure description (e.g. "insert_failed")
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of order lifecycle events that failed processing.",
	},
	[]string{"reason"},
)

// EventsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var EventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// EventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventProcessingDuration measures how long one event takes to process.
// Label:
//   - kind: the event kind, or "error" on failure
var EventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_processing_duration_seconds",
		Help:      "Duration of event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)
