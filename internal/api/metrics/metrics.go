// Package metrics defines and registers the custom Prometheus metrics of the
// admin console. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics register with the default registry at package init via promauto.
// HTTP request metrics are collected separately by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid_credentials", "malformed", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of operator login attempts, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logouts.
// Label:
//   - remote: "ok" or "failed"; the local session is cleared either way
var LogoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of operator logouts, by outcome of the remote call.",
	},
	[]string{"remote"},
)

// SessionVerificationsTotal counts background verifications of a restored session.
// Label:
//   - result: "ok", "rejected", "transient", "superseded"
var SessionVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_verifications_total",
		Help:      "Total number of background session verifications, by result.",
	},
	[]string{"result"},
)

// SessionClearsTotal counts how often the session was emptied.
// Label:
//   - reason: "logout", "rejected", "corrupt"
var SessionClearsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_clears_total",
		Help:      "Total number of session clears, by reason.",
	},
	[]string{"reason"},
)

// TokenRefreshesTotal counts token refreshes.
// Label:
//   - result: "ok", "rejected", "error", "superseded"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of session token refreshes, by result.",
	},
	[]string{"result"},
)

// ── Navigation metrics ────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - guard: "authenticated" or "privileged"
//   - outcome: "allow", "loading", "redirect_login", "deny"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"guard", "outcome"},
)

// ── Authority metrics ─────────────────────────────────────────────────────────

// AuthorityRequestDuration measures round trips to the remote authority.
// Labels:
//   - method: HTTP method
//   - status: HTTP status code, or "error" when no response arrived
var AuthorityRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "authority_request_duration_seconds",
		Help:      "Duration of requests to the remote authority.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "status"},
)
