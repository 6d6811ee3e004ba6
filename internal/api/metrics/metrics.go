// Package metrics defines and registers all custom Prometheus metrics for the
// ShareBnB API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sharebnb"

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsTotal counts booking ledger transitions.
// Labels:
//   - op: "book" or "unbook"
//   - result: "ok", "self_booking", "already_booked", "not_found", "internal", …
var BookingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Total number of booking ledger operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDeniedTotal counts requests rejected by an authorization check.
// Label:
//   - check: "authenticated", "subject", or "owner"
var AuthzDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denied_total",
		Help:      "Total number of requests denied by an authorization check.",
	},
	[]string{"check"},
)

// ── Listing metrics ───────────────────────────────────────────────────────────

// ListingsCreatedTotal counts newly published listings.
var ListingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created.",
	},
)

// ListingCacheTotal counts listing cache lookups.
// Label:
//   - result: "hit", "miss", or "error"
var ListingCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_cache_total",
		Help:      "Total number of listing cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Photo release metrics ─────────────────────────────────────────────────────

// PhotoReleaseTotal counts blob deletions performed by the release workers.
// Label:
//   - result: "ok" or "error"
var PhotoReleaseTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photo_release_total",
		Help:      "Total number of photo releases attempted, labelled by result.",
	},
	[]string{"result"},
)

// PhotoReleaseQueueDepth tracks the number of releases waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var PhotoReleaseQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "photo_release_queue_depth",
		Help:      "Current number of photo releases pending in each worker channel.",
	},
	[]string{"worker_id"},
)
