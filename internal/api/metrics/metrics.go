// Package metrics defines and registers all custom Prometheus metrics for
// the storefront API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "store"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome ("success" / "failure").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SignupsTotal counts completed account creations.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created.",
	},
)

// TokenRefreshTotal counts refresh attempts by outcome
// ("success", "invalid_token", "session_mismatch", "missing_token").
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of access-token refresh attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheFallbackTotal counts swaps from the remote cache to the in-process
// fallback. More than one per process restart means Reinitialize was used.
var CacheFallbackTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_fallback_total",
		Help:      "Total number of swaps from Redis to the in-memory fallback cache.",
	},
)

// CacheRefreshFailuresTotal counts best-effort cache refreshes that failed
// (e.g. featured-products repopulation after a toggle). The primary write
// still succeeded.
var CacheRefreshFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_refresh_failures_total",
		Help:      "Total number of failed best-effort cache refreshes.",
	},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailFailuresTotal counts failed best-effort notification deliveries.
var MailFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_failures_total",
		Help:      "Total number of failed background mail deliveries.",
	},
)

// ── Checkout metrics ──────────────────────────────────────────────────────────

// OrdersTotal counts recorded orders.
var OrdersTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_total",
		Help:      "Total number of orders recorded.",
	},
)
